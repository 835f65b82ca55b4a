package handlers

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/moderation"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

type ApplicationHandler struct {
	applications ApplicationServiceInterface
}

func NewApplicationHandler(applications ApplicationServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

func (h *ApplicationHandler) Submit(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ApplyRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	app, err := h.applications.Submit(c.Request.Context(), projectID, me.ProfileID, req.ToNew())
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListForProject(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	apps, err := h.applications.ListForProject(c.Request.Context(), projectID, me)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Mine(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	apps, err := h.applications.ListMine(c.Request.Context(), me.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Accept(c *drift.Context) {
	h.decide(c, moderation.Accept)
}

func (h *ApplicationHandler) Reject(c *drift.Context) {
	h.decide(c, moderation.Reject)
}

func (h *ApplicationHandler) decide(c *drift.Context, action moderation.Action) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	app, err := h.applications.Decide(c.Request.Context(), id, me, action)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, app)
}
