// Package graph exposes the services through a GraphQL schema. Field names are
// camelCase on the wire; every mutation reports failure in its payload
// instead of as a GraphQL error.
package graph

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"project-management-api/internal/apperr"
	"project-management-api/internal/logger"
	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/services"
	"project-management-api/internal/stats"
	"project-management-api/internal/validators"
)

// Resolver answers every root field of the schema
type Resolver struct {
	svcs services.Services
	pub  realtime.Publisher
	log  *logger.Logger
}

// NewResolver builds a resolver; pub may be nil
func NewResolver(svcs services.Services, pub realtime.Publisher, log *logger.Logger) *Resolver {
	return &Resolver{svcs: svcs, pub: pub, log: log.With("component", "graphql")}
}

func (r *Resolver) publish(topic, eventType string, id, parentID uint) {
	if r.pub == nil {
		return
	}
	r.pub.Publish(topic, realtime.Event{Type: eventType, ID: id, ParentID: parentID})
}

// node is the resolved form of an object: camelCase keys read by the default
// field resolver, plus parent ids under keys the schema does not expose.
type node = map[string]interface{}

const (
	keyOrganizationID = "_organizationID"
	keyProjectID      = "_projectID"
	keyTaskID         = "_taskID"
)

func idString(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func timeString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(layout)
}

func organizationNode(o *models.Organization) node {
	return node{
		"id":           idString(o.ID),
		"name":         o.Name,
		"slug":         o.Slug,
		"contactEmail": o.ContactEmail,
		"createdAt":    o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func projectNode(p *models.Project, progress stats.ProjectProgress) node {
	return node{
		"id":                 idString(p.ID),
		"name":               p.Name,
		"description":        p.Description,
		"status":             string(p.Status),
		"dueDate":            timeString(p.DueDate, "2006-01-02"),
		"createdAt":          p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"taskCount":          progress.TaskCount,
		"completedTaskCount": progress.CompletedTaskCount,
		"completionRate":     progress.CompletionRate,
		keyOrganizationID:    p.OrganizationID,
	}
}

func taskNode(t *models.Task, commentCount int) node {
	return node{
		"id":            idString(t.ID),
		"title":         t.Title,
		"description":   t.Description,
		"status":        string(t.Status),
		"assigneeEmail": t.AssigneeEmail,
		"dueDate":       timeString(t.DueDate, time.RFC3339),
		"createdAt":     t.CreatedAt.UTC().Format(time.RFC3339Nano),
		"commentCount":  commentCount,
		keyProjectID:    t.ProjectID,
	}
}

func commentNode(c *models.TaskComment) node {
	return node{
		"id":          idString(c.ID),
		"content":     c.Content,
		"authorEmail": c.AuthorEmail,
		"timestamp":   c.Timestamp.UTC().Format(time.RFC3339Nano),
		keyTaskID:     c.TaskID,
	}
}

func statisticsNode(s stats.OrganizationStatistics) node {
	return node{
		"totalProjects":         s.TotalProjects,
		"activeProjects":        s.ActiveProjects,
		"completedProjects":     s.CompletedProjects,
		"onHoldProjects":        s.OnHoldProjects,
		"totalTasks":            s.TotalTasks,
		"completedTasks":        s.CompletedTasks,
		"inProgressTasks":       s.InProgressTasks,
		"todoTasks":             s.TodoTasks,
		"overallCompletionRate": s.OverallCompletionRate,
	}
}

// projectNodes attaches task progress to every project with one grouped query
func (r *Resolver) projectNodes(ctx context.Context, projects []models.Project) ([]node, error) {
	total, done, err := r.svcs.Tasks.CountByProject(ctx, stats.ProjectIDs(projects))
	if err != nil {
		return nil, err
	}
	out := make([]node, 0, len(projects))
	for i := range projects {
		id := projects[i].ID
		out = append(out, projectNode(&projects[i], stats.FromCounts(total[id], done[id])))
	}
	return out, nil
}

func (r *Resolver) oneProjectNode(ctx context.Context, p *models.Project) (node, error) {
	nodes, err := r.projectNodes(ctx, []models.Project{*p})
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// taskNodes attaches comment counts to every task with one grouped query
func (r *Resolver) taskNodes(ctx context.Context, tasks []models.Task) ([]node, error) {
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	counts, err := r.svcs.TaskComments.CountByTask(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]node, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskNode(&tasks[i], counts[tasks[i].ID]))
	}
	return out, nil
}

func (r *Resolver) oneTaskNode(ctx context.Context, t *models.Task) (node, error) {
	nodes, err := r.taskNodes(ctx, []models.Task{*t})
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// Queries

func (r *Resolver) Organizations(ctx context.Context) ([]node, error) {
	orgs, err := r.svcs.Organizations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("Error fetching organizations: %v", err)
	}
	out := make([]node, 0, len(orgs))
	for i := range orgs {
		out = append(out, organizationNode(&orgs[i]))
	}
	return out, nil
}

func (r *Resolver) Organization(ctx context.Context, id uint) (node, error) {
	org, err := r.svcs.Organizations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Error fetching organization: %v", err)
	}
	if org == nil {
		return nil, fmt.Errorf("Error fetching organization: Organization with ID %d not found", id)
	}
	return organizationNode(org), nil
}

func (r *Resolver) ProjectsByOrganization(ctx context.Context, orgID uint) ([]node, error) {
	projects, err := r.svcs.Projects.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("Error fetching projects: %v", err)
	}
	nodes, err := r.projectNodes(ctx, projects)
	if err != nil {
		return nil, fmt.Errorf("Error fetching projects: %v", err)
	}
	return nodes, nil
}

// ProjectStatistics fetches the organization's projects, then all of their
// tasks in one query, and reduces both.
func (r *Resolver) ProjectStatistics(ctx context.Context, orgID uint) (node, error) {
	projects, err := r.svcs.Projects.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("Error fetching statistics: %v", err)
	}
	tasks, err := r.svcs.Tasks.ListByProjectIDs(ctx, stats.ProjectIDs(projects))
	if err != nil {
		return nil, fmt.Errorf("Error fetching statistics: %v", err)
	}
	return statisticsNode(stats.Summarize(projects, tasks)), nil
}

func (r *Resolver) Project(ctx context.Context, id uint) (node, error) {
	project, err := r.svcs.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Error fetching project: %v", err)
	}
	if project == nil {
		return nil, fmt.Errorf("Error fetching project: Project with ID %d not found", id)
	}
	n, err := r.oneProjectNode(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("Error fetching project: %v", err)
	}
	return n, nil
}

func (r *Resolver) Task(ctx context.Context, id uint) (node, error) {
	task, err := r.svcs.Tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Error fetching task: %v", err)
	}
	if task == nil {
		return nil, fmt.Errorf("Error fetching task: Task with ID %d not found", id)
	}
	n, err := r.oneTaskNode(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("Error fetching task: %v", err)
	}
	return n, nil
}

func (r *Resolver) TasksByProject(ctx context.Context, projectID uint) ([]node, error) {
	tasks, err := r.svcs.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("Error fetching tasks: %v", err)
	}
	nodes, err := r.taskNodes(ctx, tasks)
	if err != nil {
		return nil, fmt.Errorf("Error fetching tasks: %v", err)
	}
	return nodes, nil
}

// Nested fields, resolved from the parent ids carried by a node

func (r *Resolver) projectOrganization(ctx context.Context, src node) (interface{}, error) {
	id, _ := src[keyOrganizationID].(uint)
	org, err := r.svcs.Organizations.GetByID(ctx, id)
	if err != nil || org == nil {
		return nil, err
	}
	return organizationNode(org), nil
}

func (r *Resolver) taskProject(ctx context.Context, src node) (interface{}, error) {
	id, _ := src[keyProjectID].(uint)
	project, err := r.svcs.Projects.GetByID(ctx, id)
	if err != nil || project == nil {
		return nil, err
	}
	return r.oneProjectNode(ctx, project)
}

func (r *Resolver) taskComments(ctx context.Context, src node) (interface{}, error) {
	id, err := strconv.ParseUint(fmt.Sprint(src["id"]), 10, 64)
	if err != nil {
		return nil, err
	}
	comments, err := r.svcs.TaskComments.ListByTask(ctx, uint(id))
	if err != nil {
		return nil, err
	}
	out := make([]node, 0, len(comments))
	for i := range comments {
		out = append(out, commentNode(&comments[i]))
	}
	return out, nil
}

func (r *Resolver) commentTask(ctx context.Context, src node) (interface{}, error) {
	id, _ := src[keyTaskID].(uint)
	task, err := r.svcs.Tasks.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}
	return r.oneTaskNode(ctx, task)
}

// Mutations

func (r *Resolver) failed(key string, err error) node {
	r.log.Debug("mutation failed", "payload", key, "error", err)
	return node{key: nil, "success": false, "errors": apperr.Messages(err)}
}

func succeeded(key string, n node) node {
	return node{key: n, "success": true, "errors": []string{}}
}

var (
	projectCreateFields = map[string]string{
		"organizationId": "organization_id",
		"name":           "name",
		"description":    "description",
		"status":         "status",
		"dueDate":        "due_date",
	}
	taskCreateFields = map[string]string{
		"projectId":     "project_id",
		"title":         "title",
		"description":   "description",
		"status":        "status",
		"assigneeEmail": "assignee_email",
		"dueDate":       "due_date",
	}
	commentCreateFields = map[string]string{
		"taskId":      "task_id",
		"content":     "content",
		"authorEmail": "author_email",
	}
)

// toFields renames GraphQL input keys to the field names the validators read.
// Keys the client did not send stay absent.
func toFields(input map[string]interface{}, names map[string]string) map[string]any {
	out := make(map[string]any, len(input))
	for k, v := range input {
		if name, ok := names[k]; ok {
			out[name] = v
		}
	}
	return out
}

func (r *Resolver) CreateProject(ctx context.Context, input map[string]interface{}) node {
	in, err := validators.ValidateProjectCreate(toFields(input, projectCreateFields))
	if err != nil {
		return r.failed("project", err)
	}
	project, err := r.svcs.Projects.Create(ctx, in)
	if err != nil {
		return r.failed("project", err)
	}
	r.publish(realtime.TopicProjects, "project_created", project.ID, project.OrganizationID)

	n, err := r.oneProjectNode(ctx, project)
	if err != nil {
		return r.failed("project", err)
	}
	return succeeded("project", n)
}

func (r *Resolver) UpdateProject(ctx context.Context, id uint, input map[string]interface{}) node {
	patch, err := validators.ValidateProjectUpdate(toFields(input, projectCreateFields))
	if err != nil {
		return r.failed("project", err)
	}
	project, err := r.svcs.Projects.Update(ctx, id, patch)
	if err != nil {
		return r.failed("project", err)
	}
	if project == nil {
		return r.failed("project", fmt.Errorf("Project with ID %d not found", id))
	}
	r.publish(realtime.TopicProjects, "project_updated", project.ID, project.OrganizationID)

	n, err := r.oneProjectNode(ctx, project)
	if err != nil {
		return r.failed("project", err)
	}
	return succeeded("project", n)
}

func (r *Resolver) CreateTask(ctx context.Context, input map[string]interface{}) node {
	in, err := validators.ValidateTaskCreate(toFields(input, taskCreateFields))
	if err != nil {
		return r.failed("task", err)
	}
	task, err := r.svcs.Tasks.Create(ctx, in)
	if err != nil {
		return r.failed("task", err)
	}
	r.publish(realtime.TopicTasks, "task_created", task.ID, task.ProjectID)
	return succeeded("task", taskNode(task, 0))
}

func (r *Resolver) UpdateTask(ctx context.Context, id uint, input map[string]interface{}) node {
	patch, err := validators.ValidateTaskUpdate(toFields(input, taskCreateFields))
	if err != nil {
		return r.failed("task", err)
	}
	task, err := r.svcs.Tasks.Update(ctx, id, patch)
	if err != nil {
		return r.failed("task", err)
	}
	if task == nil {
		return r.failed("task", fmt.Errorf("Task with ID %d not found", id))
	}
	r.publish(realtime.TopicTasks, "task_updated", task.ID, task.ProjectID)

	n, err := r.oneTaskNode(ctx, task)
	if err != nil {
		return r.failed("task", err)
	}
	return succeeded("task", n)
}

func (r *Resolver) AddTaskComment(ctx context.Context, input map[string]interface{}) node {
	in, err := validators.ValidateTaskCommentCreate(toFields(input, commentCreateFields))
	if err != nil {
		return r.failed("comment", err)
	}
	comment, err := r.svcs.TaskComments.Create(ctx, in)
	if err != nil {
		return r.failed("comment", err)
	}
	r.publish(realtime.TopicTaskComments, "taskcomment_created", comment.ID, comment.TaskID)
	return succeeded("comment", commentNode(comment))
}
