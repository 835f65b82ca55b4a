package handlers

import (
	"net/http"
	"strings"

	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/moderation"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

// AdminHandler serves the review queue. Every route sits behind
// middleware.RequireAdmin.
type AdminHandler struct {
	projects   ProjectServiceInterface
	moderation ModerationServiceInterface
	sizes      listing.Option
}

func NewAdminHandler(projects ProjectServiceInterface, mod ModerationServiceInterface, sizes listing.Option) *AdminHandler {
	if sizes == nil {
		sizes = listing.WithPageSizes(0, 0)
	}
	return &AdminHandler{projects: projects, moderation: mod, sizes: sizes}
}

func (h *AdminHandler) Queue(c *drift.Context) {
	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = models.StatusPending
	}
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		respondError(c, apperr.Validation("status", "status must be pending, approved or rejected"))
		return
	}

	pipe := listing.NewPipeline[models.Project](h.projects.Source(query.Review(status)), listing.ProjectMatcher, h.sizes)
	page, size := paging(c)
	result, err := pipe.FetchPage(c.Request.Context(), filtersFrom(c), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) Approve(c *drift.Context) {
	h.review(c, moderation.Approve)
}

func (h *AdminHandler) Reject(c *drift.Context) {
	h.review(c, moderation.Reject)
}

func (h *AdminHandler) review(c *drift.Context, action moderation.Action) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if action == moderation.Reject && c.Request.ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			c.BadRequest("invalid request body")
			return
		}
	}

	project, err := h.moderation.Review(c.Request.Context(), id, me, action, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, project)
}
