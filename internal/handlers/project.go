package handlers

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/middleware"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

type ProjectHandler struct {
	projects ProjectServiceInterface
	lookup   ProjectLookup
	public   *listing.Pipeline[models.Project]
	views    ViewRecorder
	sizes    listing.Option
}

// NewProjectHandler serves project routes. lookup and public may be backed by
// the demo provider; views may be nil.
func NewProjectHandler(
	projects ProjectServiceInterface,
	lookup ProjectLookup,
	public *listing.Pipeline[models.Project],
	views ViewRecorder,
	sizes listing.Option,
) *ProjectHandler {
	if sizes == nil {
		sizes = listing.WithPageSizes(0, 0)
	}
	return &ProjectHandler{projects: projects, lookup: lookup, public: public, views: views, sizes: sizes}
}

func (h *ProjectHandler) List(c *drift.Context) {
	page, size := paging(c)
	result, err := h.public.FetchPage(c.Request.Context(), filtersFrom(c), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, result)
}

// Mine lists the caller's projects in every status.
func (h *ProjectHandler) Mine(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	pipe := listing.NewPipeline[models.Project](h.projects.Source(query.Owner(me.ProfileID)), listing.ProjectMatcher, h.sizes)

	page, size := paging(c)
	result, err := pipe.FetchPage(c.Request.Context(), filtersFrom(c), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, result)
}

// Get resolves a project by slug. Only views of published projects are
// counted.
func (h *ProjectHandler) Get(c *drift.Context) {
	project, err := h.lookup.GetBySlug(c.Request.Context(), c.Param("id"), middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if h.views != nil && project.IsPublic() && project.CreatorID != middleware.GetProfileID(c) {
		h.views.RecordView(project.ID)
	}
	_ = c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Create(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	project, err := h.projects.Create(c.Request.Context(), me.ProfileID, req.ToNew())
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	project, err := h.projects.Update(c.Request.Context(), id, me, req.ToUpdate())
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, project)
}
