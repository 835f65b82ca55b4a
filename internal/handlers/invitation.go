package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

type InvitationHandler struct {
	invitations InvitationServiceInterface
}

func NewInvitationHandler(invitations InvitationServiceInterface) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

func (h *InvitationHandler) Invite(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.InviteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.InviteeID == uuid.Nil {
		respondError(c, apperr.Validation("invitee_id", "invitee_id is required"))
		return
	}

	inv, err := h.invitations.Invite(c.Request.Context(), projectID, me, req.InviteeID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusCreated, inv)
}

func (h *InvitationHandler) ListForProject(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invs, err := h.invitations.ListForProject(c.Request.Context(), projectID, me)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, invs)
}

func (h *InvitationHandler) Mine(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	invs, err := h.invitations.ListForInvitee(c.Request.Context(), me.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, invs)
}

func (h *InvitationHandler) Accept(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invitations.Accept(c.Request.Context(), id, me.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, inv)
}

func (h *InvitationHandler) Decline(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invitations.Decline(c.Request.Context(), id, me.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, inv)
}

func (h *InvitationHandler) Cancel(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.invitations.Cancel(c.Request.Context(), id, me); err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "invitation cancelled"})
}
