package handlers

import (
	"net/http"
	"strings"

	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/validators"

	"github.com/gin-gonic/gin"
)

const projectNotFound = "Project not found."

// ListProjects handles GET /projects/
// Query params: search, status, organization_id. Search wins over status,
// which wins over organization_id; organization_id still scopes the first two.
func (h *Handlers) ListProjects(c *gin.Context) {
	orgID, err := queryID(c, "organization_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.listProjects(c, orgID)
}

// ListOrganizationProjects handles GET /projects/organization/:org_id/
// Optional query params: search, status.
func (h *Handlers) ListOrganizationProjects(c *gin.Context) {
	orgID, ok := pathID(c, "org_id")
	if !ok {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	h.listProjects(c, &orgID)
}

func (h *Handlers) listProjects(c *gin.Context, orgID *uint) {
	ctx := c.Request.Context()
	search := strings.TrimSpace(c.Query("search"))
	status := strings.TrimSpace(c.Query("status"))

	var (
		projects []models.Project
		err      error
	)
	switch {
	case search != "":
		projects, err = h.projects.Search(ctx, search, orgID)
	case status != "":
		projects, err = h.projects.FilterByStatus(ctx, status, orgID)
	case orgID != nil:
		projects, err = h.projects.ListByOrganization(ctx, *orgID)
	default:
		projects, err = h.projects.List(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	views, err := h.projectViews(ctx, projects)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, views)
}

// CreateProject handles POST /projects/
func (h *Handlers) CreateProject(c *gin.Context) {
	ctx := c.Request.Context()
	data, err := decodeBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	in, err := validators.ValidateProjectCreate(data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	project, err := h.projects.Create(ctx, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(realtime.TopicProjects, "project_created", project.ID, project.OrganizationID)

	view, err := h.singleProjectView(ctx, project)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, view, "Project created successfully.")
}

// GetProject handles GET /projects/:id/
func (h *Handlers) GetProject(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, projectNotFound)
		return
	}
	project, err := h.projects.GetByID(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if project == nil {
		respondFail(c, http.StatusNotFound, projectNotFound)
		return
	}
	view, err := h.singleProjectView(ctx, project)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, view, "")
}

// ReplaceProject handles PUT /projects/:id/; every required field must be sent
func (h *Handlers) ReplaceProject(c *gin.Context) { h.updateProject(c, true) }

// PatchProject handles PATCH /projects/:id/
func (h *Handlers) PatchProject(c *gin.Context) { h.updateProject(c, false) }

func (h *Handlers) updateProject(c *gin.Context, full bool) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, projectNotFound)
		return
	}
	existing, err := h.projects.GetByID(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if existing == nil {
		respondFail(c, http.StatusNotFound, projectNotFound)
		return
	}

	data, err := decodeBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var patch models.ProjectPatch
	if full {
		in, verr := validators.ValidateProjectCreate(data)
		if verr != nil {
			h.respondError(c, verr)
			return
		}
		patch = in.Patch()
	} else if patch, err = validators.ValidateProjectUpdate(data); err != nil {
		h.respondError(c, err)
		return
	}

	project, err := h.projects.Update(ctx, id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if project == nil {
		respondFail(c, http.StatusNotFound, projectNotFound)
		return
	}
	h.publish(realtime.TopicProjects, "project_updated", project.ID, project.OrganizationID)

	view, err := h.singleProjectView(ctx, project)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, view, "Project updated successfully.")
}

// DeleteProject handles DELETE /projects/:id/
func (h *Handlers) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, projectNotFound)
		return
	}
	deleted, err := h.projects.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		respondFail(c, http.StatusNotFound, projectNotFound)
		return
	}
	h.publish(realtime.TopicProjects, "project_deleted", id, 0)
	respondOK(c, http.StatusOK, nil, "Project deleted successfully.")
}
