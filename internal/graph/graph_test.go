package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"project-management-api/internal/logger"
	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/services"
	"project-management-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svcs    services.Services
	handler *Handler
	hub     *realtime.Hub
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	log := logger.Nop()
	svcs := services.New(db, log)
	hub := realtime.NewHub()
	schema, err := NewSchema(NewResolver(svcs, hub, log))
	require.NoError(t, err)
	return fixture{svcs: svcs, handler: NewHandler(schema, true, log), hub: hub}
}

// run executes a document and decodes data into out, returning error messages
func (f fixture) run(t *testing.T, query string, vars map[string]interface{}, out any) []string {
	t.Helper()
	res := f.handler.Execute(context.Background(), Request{Query: query, Variables: vars})
	msgs := []string{}
	for _, e := range res.Errors {
		msgs = append(msgs, e.Message)
	}
	if out != nil && res.Data != nil {
		raw, err := json.Marshal(res.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return msgs
}

type projectOut struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Status             string  `json:"status"`
	DueDate            *string `json:"dueDate"`
	TaskCount          int     `json:"taskCount"`
	CompletedTaskCount int     `json:"completedTaskCount"`
	CompletionRate     float64 `json:"completionRate"`
	Organization       *struct {
		Slug string `json:"slug"`
	} `json:"organization"`
}

type taskOut struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	CommentCount int    `json:"commentCount"`
	Comments     []struct {
		Content     string `json:"content"`
		AuthorEmail string `json:"authorEmail"`
	} `json:"comments"`
	Project *struct {
		Name string `json:"name"`
	} `json:"project"`
}

type payload[T any] struct {
	Project *T       `json:"project"`
	Task    *T       `json:"task"`
	Comment *T       `json:"comment"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

const createProject = `mutation($input: ProjectInput!) {
  createProject(input: $input) { project { id name status dueDate taskCount completionRate } success errors }
}`

const createTask = `mutation($input: TaskInput!) {
  createTask(input: $input) { task { id title status commentCount } success errors }
}`

const addComment = `mutation($input: TaskCommentInput!) {
  addTaskComment(input: $input) { comment { id content authorEmail } success errors }
}`

func TestAcmeScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	org, err := f.svcs.Organizations.Create(ctx, models.OrganizationInput{Name: "Acme", Slug: "acme", ContactEmail: "a@x.com"})
	require.NoError(t, err)
	require.Equal(t, "acme", org.Slug)

	var created struct {
		CreateProject payload[projectOut] `json:"createProject"`
	}
	errs := f.run(t, createProject, map[string]interface{}{
		"input": map[string]interface{}{"organizationId": int(org.ID), "name": "Launch", "status": "active"},
	}, &created)
	require.Empty(t, errs)
	require.True(t, created.CreateProject.Success)
	require.Empty(t, created.CreateProject.Errors)
	project := created.CreateProject.Project
	require.Equal(t, 0, project.TaskCount)
	require.Equal(t, 0.0, project.CompletionRate)

	projectID := mustAtoi(t, project.ID)
	taskIDs := []int{}
	for _, status := range []string{"done", "todo"} {
		var out struct {
			CreateTask payload[taskOut] `json:"createTask"`
		}
		errs := f.run(t, createTask, map[string]interface{}{
			"input": map[string]interface{}{"projectId": projectID, "title": "Task " + status, "status": status},
		}, &out)
		require.Empty(t, errs)
		require.True(t, out.CreateTask.Success, out.CreateTask.Errors)
		taskIDs = append(taskIDs, mustAtoi(t, out.CreateTask.Task.ID))
	}

	var fetched struct {
		Project projectOut `json:"project"`
	}
	errs = f.run(t, `query($id: Int!) { project(projectId: $id) { id taskCount completedTaskCount completionRate organization { slug } } }`,
		map[string]interface{}{"id": projectID}, &fetched)
	require.Empty(t, errs)
	require.Equal(t, 2, fetched.Project.TaskCount)
	require.Equal(t, 1, fetched.Project.CompletedTaskCount)
	require.Equal(t, 50.0, fetched.Project.CompletionRate)
	require.Equal(t, "acme", fetched.Project.Organization.Slug)

	var commented struct {
		AddTaskComment payload[struct {
			Content string `json:"content"`
		}] `json:"addTaskComment"`
	}
	errs = f.run(t, addComment, map[string]interface{}{
		"input": map[string]interface{}{"taskId": taskIDs[0], "content": "ok", "authorEmail": "a@b.com"},
	}, &commented)
	require.Empty(t, errs)
	require.True(t, commented.AddTaskComment.Success)
	require.Equal(t, "ok", commented.AddTaskComment.Comment.Content)

	var task struct {
		Task taskOut `json:"task"`
	}
	errs = f.run(t, `query($id: Int!) { task(taskId: $id) { id commentCount comments { content authorEmail } project { name } } }`,
		map[string]interface{}{"id": taskIDs[0]}, &task)
	require.Empty(t, errs)
	require.Equal(t, 1, task.Task.CommentCount)
	require.Len(t, task.Task.Comments, 1)
	require.Equal(t, "a@b.com", task.Task.Comments[0].AuthorEmail)
	require.Equal(t, "Launch", task.Task.Project.Name)

	var statistics struct {
		ProjectStatistics struct {
			TotalProjects         int     `json:"totalProjects"`
			ActiveProjects        int     `json:"activeProjects"`
			TotalTasks            int     `json:"totalTasks"`
			CompletedTasks        int     `json:"completedTasks"`
			TodoTasks             int     `json:"todoTasks"`
			OverallCompletionRate float64 `json:"overallCompletionRate"`
		} `json:"projectStatistics"`
	}
	errs = f.run(t, `query($org: Int!) { projectStatistics(organizationId: $org) {
		totalProjects activeProjects totalTasks completedTasks todoTasks overallCompletionRate } }`,
		map[string]interface{}{"org": int(org.ID)}, &statistics)
	require.Empty(t, errs)
	require.Equal(t, 1, statistics.ProjectStatistics.TotalProjects)
	require.Equal(t, 1, statistics.ProjectStatistics.ActiveProjects)
	require.Equal(t, 2, statistics.ProjectStatistics.TotalTasks)
	require.Equal(t, 1, statistics.ProjectStatistics.CompletedTasks)
	require.Equal(t, 1, statistics.ProjectStatistics.TodoTasks)
	require.Equal(t, 50.0, statistics.ProjectStatistics.OverallCompletionRate)

	var listed struct {
		ProjectsByOrganization []projectOut `json:"projectsByOrganization"`
		TasksByProject         []taskOut    `json:"tasksByProject"`
	}
	errs = f.run(t, `query($org: Int!, $p: Int!) {
		projectsByOrganization(organizationId: $org) { id completionRate }
		tasksByProject(projectId: $p) { id commentCount }
	}`, map[string]interface{}{"org": int(org.ID), "p": projectID}, &listed)
	require.Empty(t, errs)
	require.Len(t, listed.ProjectsByOrganization, 1)
	require.Equal(t, 50.0, listed.ProjectsByOrganization[0].CompletionRate)
	require.Len(t, listed.TasksByProject, 2)
}

func TestMutations_ReportFailuresInPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org, err := f.svcs.Organizations.Create(ctx, models.OrganizationInput{Name: "Acme", Slug: "acme", ContactEmail: "a@x.com"})
	require.NoError(t, err)

	var out struct {
		CreateProject payload[projectOut] `json:"createProject"`
	}
	errs := f.run(t, createProject, map[string]interface{}{
		"input": map[string]interface{}{"organizationId": 999, "name": "Launch", "status": "active"},
	}, &out)
	require.Empty(t, errs)
	require.False(t, out.CreateProject.Success)
	require.Nil(t, out.CreateProject.Project)
	require.Equal(t, []string{"Organization with ID 999 does not exist."}, out.CreateProject.Errors)

	errs = f.run(t, createProject, map[string]interface{}{
		"input": map[string]interface{}{"organizationId": int(org.ID), "name": " ", "status": "paused", "dueDate": "soon"},
	}, &out)
	require.Empty(t, errs)
	require.False(t, out.CreateProject.Success)
	require.Equal(t, []string{
		"due_date: Enter a valid date.",
		"name: Name is required.",
		"status: Status must be one of: active, completed, on_hold.",
	}, out.CreateProject.Errors)

	var upd struct {
		UpdateProject payload[projectOut] `json:"updateProject"`
		UpdateTask    payload[taskOut]    `json:"updateTask"`
	}
	errs = f.run(t, `mutation {
		updateProject(projectId: 42, input: {name: "x"}) { success errors }
		updateTask(taskId: 7, input: {title: "y"}) { success errors }
	}`, nil, &upd)
	require.Empty(t, errs)
	require.Equal(t, []string{"Project with ID 42 not found"}, upd.UpdateProject.Errors)
	require.Equal(t, []string{"Task with ID 7 not found"}, upd.UpdateTask.Errors)
}

func TestUpdateMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org, err := f.svcs.Organizations.Create(ctx, models.OrganizationInput{Name: "Acme", Slug: "acme", ContactEmail: "a@x.com"})
	require.NoError(t, err)
	p, err := f.svcs.Projects.Create(ctx, models.ProjectInput{OrganizationID: org.ID, Name: "Launch", Status: models.ProjectActive})
	require.NoError(t, err)
	task, err := f.svcs.Tasks.Create(ctx, models.TaskInput{ProjectID: p.ID, Title: "Ship", Status: models.StatusTodo})
	require.NoError(t, err)

	feed := &recordingClient{}
	f.hub.Register(realtime.TopicTasks, feed)

	var out struct {
		UpdateProject payload[projectOut] `json:"updateProject"`
		UpdateTask    payload[taskOut]    `json:"updateTask"`
	}
	errs := f.run(t, `mutation($p: Int!, $t: Int!) {
		updateProject(projectId: $p, input: {status: "completed", dueDate: "2025-06-30"}) { project { name status dueDate } success errors }
		updateTask(taskId: $t, input: {status: "done"}) { task { title status } success errors }
	}`, map[string]interface{}{"p": int(p.ID), "t": int(task.ID)}, &out)
	require.Empty(t, errs)
	require.True(t, out.UpdateProject.Success, out.UpdateProject.Errors)
	require.Equal(t, "Launch", out.UpdateProject.Project.Name)
	require.Equal(t, "completed", out.UpdateProject.Project.Status)
	require.Equal(t, "2025-06-30", *out.UpdateProject.Project.DueDate)
	require.True(t, out.UpdateTask.Success, out.UpdateTask.Errors)
	require.Equal(t, "Ship", out.UpdateTask.Task.Title)
	require.Equal(t, "done", out.UpdateTask.Task.Status)

	require.Equal(t, 1, feed.count())
}

func TestQueries_NotFoundIsTransportError(t *testing.T) {
	f := newFixture(t)

	errs := f.run(t, `{ project(projectId: 9) { id } }`, nil, nil)
	require.Equal(t, []string{"Error fetching project: Project with ID 9 not found"}, errs)

	errs = f.run(t, `{ task(taskId: 3) { id } }`, nil, nil)
	require.Equal(t, []string{"Error fetching task: Task with ID 3 not found"}, errs)

	errs = f.run(t, `{ organization(organizationId: 5) { id } }`, nil, nil)
	require.Equal(t, []string{"Error fetching organization: Organization with ID 5 not found"}, errs)

	var out struct {
		Organizations []struct {
			ID string `json:"id"`
		} `json:"organizations"`
	}
	errs = f.run(t, `{ organizations { id } }`, nil, &out)
	require.Empty(t, errs)
	require.Empty(t, out.Organizations)
}

func TestHandler_HTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	r.POST("/graphql/", f.handler.Serve)
	r.GET("/graphql/", f.handler.Serve)

	body, _ := json.Marshal(Request{Query: `{ organizations { id } }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"data":{"organizations":[]}}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/graphql/", bytes.NewReader([]byte("{")))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/graphql/?query="+`%7B%20organizations%20%7B%20id%20%7D%20%7D`, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/graphql/", nil)
	req.Header.Set("Accept", "text/html")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "GraphiQL")
}

type recordingClient struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *recordingClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return true
}

func (c *recordingClient) Close() {}

func (c *recordingClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
