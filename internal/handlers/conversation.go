package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

type ConversationHandler struct {
	conversations ConversationServiceInterface
}

func NewConversationHandler(conversations ConversationServiceInterface) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

func (h *ConversationHandler) Start(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	var req dto.StartConversationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.ParticipantID == uuid.Nil {
		respondError(c, apperr.Validation("participant_id", "participant_id is required"))
		return
	}

	conv, err := h.conversations.StartDirect(c.Request.Context(), me.ProfileID, req.ParticipantID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, conv)
}

func (h *ConversationHandler) List(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	convs, err := h.conversations.List(c.Request.Context(), me.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, convs)
}

// Messages is the polling path: ?after=<RFC3339> returns only newer
// messages, oldest first.
func (h *ConversationHandler) Messages(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var after time.Time
	if raw := c.QueryParam("after"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			respondError(c, apperr.Validation("after", "after must be an RFC 3339 timestamp"))
			return
		}
		after = t
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	msgs, err := h.conversations.Messages(c.Request.Context(), id, me.ProfileID, after, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, msgs)
}

func (h *ConversationHandler) Send(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MessageRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	msg, err := h.conversations.Send(c.Request.Context(), id, me.ProfileID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusCreated, msg)
}

func (h *ConversationHandler) Edit(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MessageRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	msg, err := h.conversations.Edit(c.Request.Context(), id, me.ProfileID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, msg)
}
