package handlers

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/middleware"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

type ProfileHandler struct {
	profiles ProfileServiceInterface
	talent   *listing.Pipeline[models.Profile]
}

func NewProfileHandler(profiles ProfileServiceInterface, talent *listing.Pipeline[models.Profile]) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, talent: talent}
}

func (h *ProfileHandler) GetMe(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	profile, err := h.profiles.GetByID(c.Request.Context(), me.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateMe(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), me.ProfileID, req.ToUpdate())
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, profile)
}

// Get shows another member's public profile. Profiles that opted out of
// discovery are visible only to their owner.
func (h *ProfileHandler) Get(c *drift.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	profile, err := h.profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if !profile.IsDiscoverable && middleware.GetProfileID(c) != profile.ID {
		respondError(c, apperr.NotFound("profile"))
		return
	}
	_ = c.JSON(http.StatusOK, dto.NewPublicProfile(profile))
}

func (h *ProfileHandler) Talent(c *drift.Context) {
	page, size := paging(c)
	result, err := h.talent.FetchPage(c.Request.Context(), filtersFrom(c), page, size)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.PublicProfile, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewPublicProfile(&result.Items[i]))
	}
	_ = c.JSON(http.StatusOK, listing.Page[dto.PublicProfile]{
		Items:    items,
		HasMore:  result.HasMore,
		Page:     result.Page,
		PageSize: result.PageSize,
		Demo:     result.Demo,
	})
}
