package handlers

import (
	"net/http"
	"strings"

	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/stats"
	"project-management-api/internal/validators"

	"github.com/gin-gonic/gin"
)

const organizationNotFound = "Organization not found."

// ListOrganizations handles GET /organizations/
// Optional query param: search, matched against name, slug and contact email.
func (h *Handlers) ListOrganizations(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		orgs []models.Organization
		err  error
	)
	if q := strings.TrimSpace(c.Query("search")); q != "" {
		orgs, err = h.orgs.Search(ctx, q)
	} else {
		orgs, err = h.orgs.List(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, organizationViews(orgs))
}

// CreateOrganization handles POST /organizations/
func (h *Handlers) CreateOrganization(c *gin.Context) {
	data, err := decodeBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	in, err := validators.ValidateOrganizationCreate(data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	org, err := h.orgs.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(realtime.TopicOrganizations, "organization_created", org.ID, 0)
	respondOK(c, http.StatusCreated, organizationView(org), "Organization created successfully.")
}

// GetOrganization handles GET /organizations/:id/
func (h *Handlers) GetOrganization(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	org, err := h.orgs.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if org == nil {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	respondOK(c, http.StatusOK, organizationView(org), "")
}

// GetOrganizationBySlug handles GET /organizations/slug/:slug/
func (h *Handlers) GetOrganizationBySlug(c *gin.Context) {
	org, err := h.orgs.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if org == nil {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	respondOK(c, http.StatusOK, organizationView(org), "")
}

// UpdateOrganization handles PUT and PATCH /organizations/:id/
// Both methods apply only the fields present in the body.
func (h *Handlers) UpdateOrganization(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	exists, err := h.orgs.Exists(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !exists {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}

	data, err := decodeBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	patch, err := validators.ValidateOrganizationUpdate(data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if patch.IsEmpty() {
		respondFail(c, http.StatusBadRequest, "No valid fields provided for update.")
		return
	}

	org, err := h.orgs.Update(ctx, id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if org == nil {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	h.publish(realtime.TopicOrganizations, "organization_updated", org.ID, 0)
	respondOK(c, http.StatusOK, organizationView(org), "Organization updated successfully.")
}

// DeleteOrganization handles DELETE /organizations/:id/
// Projects, tasks and comments of the organization are removed with it.
func (h *Handlers) DeleteOrganization(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	deleted, err := h.orgs.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	h.publish(realtime.TopicOrganizations, "organization_deleted", id, 0)
	respondOK(c, http.StatusOK, nil, "Organization deleted successfully.")
}

// OrganizationStatistics handles GET /organizations/:id/statistics/
func (h *Handlers) OrganizationStatistics(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}
	exists, err := h.orgs.Exists(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !exists {
		respondFail(c, http.StatusNotFound, organizationNotFound)
		return
	}

	projects, err := h.projects.ListByOrganization(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	tasks, err := h.tasks.ListByProjectIDs(ctx, stats.ProjectIDs(projects))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stats.Summarize(projects, tasks), "")
}
