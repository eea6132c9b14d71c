package handlers

import (
	"net/http"

	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/validators"

	"github.com/gin-gonic/gin"
)

const taskNotFound = "Task not found."

/*
*
ListTasks handles GET /tasks/
Returns every task, newest first.
Optional query param: project_id to list the tasks of one project.
*/
func (h *Handlers) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()
	projectID, err := queryID(c, "project_id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var tasks []models.Task
	if projectID != nil {
		tasks, err = h.tasks.ListByProject(ctx, *projectID)
	} else {
		tasks, err = h.tasks.List(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, taskViews(tasks))
}

// ListProjectTasks handles GET /tasks/project/:project_id/
func (h *Handlers) ListProjectTasks(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		respondFail(c, http.StatusNotFound, projectNotFound)
		return
	}
	tasks, err := h.tasks.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, taskViews(tasks))
}

// CreateTask handles POST /tasks/
func (h *Handlers) CreateTask(c *gin.Context) {
	data, err := decodeBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	in, err := validators.ValidateTaskCreate(data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(realtime.TopicTasks, "task_created", task.ID, task.ProjectID)
	respondOK(c, http.StatusCreated, taskView(task), "Task created successfully.")
}

// GetTaskByID handles GET /tasks/:id/
func (h *Handlers) GetTaskByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, taskNotFound)
		return
	}
	task, err := h.tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if task == nil {
		respondFail(c, http.StatusNotFound, taskNotFound)
		return
	}
	respondOK(c, http.StatusOK, taskView(task), "")
}

// ReplaceTask handles PUT /tasks/:id/; every required field must be sent
func (h *Handlers) ReplaceTask(c *gin.Context) { h.updateTask(c, true) }

// PatchTask handles PATCH /tasks/:id/
func (h *Handlers) PatchTask(c *gin.Context) { h.updateTask(c, false) }

func (h *Handlers) updateTask(c *gin.Context, full bool) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, taskNotFound)
		return
	}
	existing, err := h.tasks.GetByID(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if existing == nil {
		respondFail(c, http.StatusNotFound, taskNotFound)
		return
	}

	data, err := decodeBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var patch models.TaskPatch
	if full {
		in, verr := validators.ValidateTaskCreate(data)
		if verr != nil {
			h.respondError(c, verr)
			return
		}
		patch = in.Patch()
	} else if patch, err = validators.ValidateTaskUpdate(data); err != nil {
		h.respondError(c, err)
		return
	}

	task, err := h.tasks.Update(ctx, id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if task == nil {
		respondFail(c, http.StatusNotFound, taskNotFound)
		return
	}
	h.publish(realtime.TopicTasks, "task_updated", task.ID, task.ProjectID)
	respondOK(c, http.StatusOK, taskView(task), "Task updated successfully.")
}

// DeleteTask handles DELETE /tasks/:id/
func (h *Handlers) DeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, taskNotFound)
		return
	}
	deleted, err := h.tasks.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		respondFail(c, http.StatusNotFound, taskNotFound)
		return
	}
	h.publish(realtime.TopicTasks, "task_deleted", id, 0)
	respondOK(c, http.StatusOK, nil, "Task deleted successfully.")
}
