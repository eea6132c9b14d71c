package handlers

import (
	"context"
	"net/http"
	"time"

	"project-management-api/internal/logger"
	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/services"
	"project-management-api/internal/stats"

	"github.com/gin-gonic/gin"
)

// Handlers holds the services behind every HTTP endpoint
type Handlers struct {
	orgs     *services.OrganizationService
	projects *services.ProjectService
	tasks    *services.TaskService
	comments *services.TaskCommentService
	hub      *realtime.Hub
	log      *logger.Logger
}

// New wires handlers over svcs. hub may be nil, which disables change events
// and the websocket feed.
func New(svcs services.Services, hub *realtime.Hub, log *logger.Logger) *Handlers {
	return &Handlers{
		orgs:     svcs.Organizations,
		projects: svcs.Projects,
		tasks:    svcs.Tasks,
		comments: svcs.TaskComments,
		hub:      hub,
		log:      log.With("component", "http"),
	}
}

func (h *Handlers) publish(topic, eventType string, id, parentID uint) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(topic, realtime.Event{Type: eventType, ID: id, ParentID: parentID})
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Project Management API is running",
	})
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(layout)
	return &s
}

// OrganizationView is the JSON shape of an organization
type OrganizationView struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}

func organizationView(o *models.Organization) OrganizationView {
	return OrganizationView{
		ID:           o.ID,
		Name:         o.Name,
		Slug:         o.Slug,
		ContactEmail: o.ContactEmail,
		CreatedAt:    o.CreatedAt,
	}
}

func organizationViews(orgs []models.Organization) []OrganizationView {
	out := make([]OrganizationView, 0, len(orgs))
	for i := range orgs {
		out = append(out, organizationView(&orgs[i]))
	}
	return out
}

// ProjectView is the JSON shape of a project with its task progress
type ProjectView struct {
	ID             uint      `json:"id"`
	OrganizationID uint      `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	DueDate        *string   `json:"due_date"`
	CreatedAt      time.Time `json:"created_at"`
	stats.ProjectProgress
}

func projectView(p *models.Project, progress stats.ProjectProgress) ProjectView {
	return ProjectView{
		ID:              p.ID,
		OrganizationID:  p.OrganizationID,
		Name:            p.Name,
		Description:     p.Description,
		Status:          string(p.Status),
		DueDate:         formatTime(p.DueDate, dateLayout),
		CreatedAt:       p.CreatedAt,
		ProjectProgress: progress,
	}
}

// projectViews attaches progress to every project with one grouped count query
func (h *Handlers) projectViews(ctx context.Context, projects []models.Project) ([]ProjectView, error) {
	total, done, err := h.tasks.CountByProject(ctx, stats.ProjectIDs(projects))
	if err != nil {
		return nil, err
	}
	out := make([]ProjectView, 0, len(projects))
	for i := range projects {
		id := projects[i].ID
		out = append(out, projectView(&projects[i], stats.FromCounts(total[id], done[id])))
	}
	return out, nil
}

func (h *Handlers) singleProjectView(ctx context.Context, p *models.Project) (ProjectView, error) {
	views, err := h.projectViews(ctx, []models.Project{*p})
	if err != nil {
		return ProjectView{}, err
	}
	return views[0], nil
}

// TaskView is the JSON shape of a task
type TaskView struct {
	ID            uint      `json:"id"`
	ProjectID     uint      `json:"project_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	AssigneeEmail string    `json:"assignee_email"`
	DueDate       *string   `json:"due_date"`
	CreatedAt     time.Time `json:"created_at"`
}

func taskView(t *models.Task) TaskView {
	return TaskView{
		ID:            t.ID,
		ProjectID:     t.ProjectID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		AssigneeEmail: t.AssigneeEmail,
		DueDate:       formatTime(t.DueDate, dateTimeLayout),
		CreatedAt:     t.CreatedAt,
	}
}

func taskViews(tasks []models.Task) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskView(&tasks[i]))
	}
	return out
}

// TaskCommentView is the JSON shape of a comment
type TaskCommentView struct {
	ID          uint      `json:"id"`
	TaskID      uint      `json:"task_id"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"author_email"`
	Timestamp   time.Time `json:"timestamp"`
}

func taskCommentView(tc *models.TaskComment) TaskCommentView {
	return TaskCommentView{
		ID:          tc.ID,
		TaskID:      tc.TaskID,
		Content:     tc.Content,
		AuthorEmail: tc.AuthorEmail,
		Timestamp:   tc.Timestamp,
	}
}

func taskCommentViews(comments []models.TaskComment) []TaskCommentView {
	out := make([]TaskCommentView, 0, len(comments))
	for i := range comments {
		out = append(out, taskCommentView(&comments[i]))
	}
	return out
}
