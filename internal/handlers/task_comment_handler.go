package handlers

import (
	"net/http"

	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/validators"

	"github.com/gin-gonic/gin"
)

const commentNotFound = "Comment not found."

// ListTaskComments handles GET /taskcomments/
// Optional query param: task_id.
func (h *Handlers) ListTaskComments(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, err := queryID(c, "task_id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var comments []models.TaskComment
	if taskID != nil {
		comments, err = h.comments.ListByTask(ctx, *taskID)
	} else {
		comments, err = h.comments.List(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, taskCommentViews(comments))
}

// ListCommentsOfTask handles GET /taskcomments/task/:task_id/
func (h *Handlers) ListCommentsOfTask(c *gin.Context) {
	taskID, ok := pathID(c, "task_id")
	if !ok {
		respondFail(c, http.StatusNotFound, taskNotFound)
		return
	}
	comments, err := h.comments.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, taskCommentViews(comments))
}

// CreateTaskComment handles POST /taskcomments/
func (h *Handlers) CreateTaskComment(c *gin.Context) {
	data, err := decodeBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	in, err := validators.ValidateTaskCommentCreate(data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(realtime.TopicTaskComments, "taskcomment_created", comment.ID, comment.TaskID)
	respondOK(c, http.StatusCreated, taskCommentView(comment), "Comment created successfully.")
}

// GetTaskComment handles GET /taskcomments/:id/
func (h *Handlers) GetTaskComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, commentNotFound)
		return
	}
	comment, err := h.comments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if comment == nil {
		respondFail(c, http.StatusNotFound, commentNotFound)
		return
	}
	respondOK(c, http.StatusOK, taskCommentView(comment), "")
}

// ReplaceTaskComment handles PUT /taskcomments/:id/
func (h *Handlers) ReplaceTaskComment(c *gin.Context) { h.updateTaskComment(c, true) }

// PatchTaskComment handles PATCH /taskcomments/:id/
func (h *Handlers) PatchTaskComment(c *gin.Context) { h.updateTaskComment(c, false) }

func (h *Handlers) updateTaskComment(c *gin.Context, full bool) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, commentNotFound)
		return
	}
	existing, err := h.comments.GetByID(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if existing == nil {
		respondFail(c, http.StatusNotFound, commentNotFound)
		return
	}

	data, err := decodeBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var patch models.TaskCommentPatch
	if full {
		in, verr := validators.ValidateTaskCommentCreate(data)
		if verr != nil {
			h.respondError(c, verr)
			return
		}
		patch = in.Patch()
	} else if patch, err = validators.ValidateTaskCommentUpdate(data); err != nil {
		h.respondError(c, err)
		return
	}

	comment, err := h.comments.Update(ctx, id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if comment == nil {
		respondFail(c, http.StatusNotFound, commentNotFound)
		return
	}
	h.publish(realtime.TopicTaskComments, "taskcomment_updated", comment.ID, comment.TaskID)
	respondOK(c, http.StatusOK, taskCommentView(comment), "Comment updated successfully.")
}

// DeleteTaskComment handles DELETE /taskcomments/:id/
func (h *Handlers) DeleteTaskComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, commentNotFound)
		return
	}
	deleted, err := h.comments.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		respondFail(c, http.StatusNotFound, commentNotFound)
		return
	}
	h.publish(realtime.TopicTaskComments, "taskcomment_deleted", id, 0)
	respondOK(c, http.StatusOK, nil, "Comment deleted successfully.")
}
