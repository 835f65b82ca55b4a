package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/logging"
	"github.com/tapri-app/tapri-api/internal/middleware"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

// respondError writes err as a dto.ErrorResponse. Store failures other than
// the taxonomy kinds are logged and reported as a generic 500.
func respondError(c *drift.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", logging.RequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	_ = c.JSON(status, dto.ErrorResponse{
		Error: apperr.PublicMessage(err),
		Kind:  string(apperr.KindOf(err)),
		Field: apperr.FieldOf(err),
	})
}

func pathID(c *drift.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperr.Validation(name, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// caller returns the authenticated identity or answers 401.
func caller(c *drift.Context) (models.Identity, bool) {
	id := middleware.Identity(c)
	if id == nil {
		c.Unauthorized("not authenticated")
		return models.Identity{}, false
	}
	return *id, true
}

func filtersFrom(c *drift.Context) query.Filters {
	return query.Filters{
		Search:       c.QueryParam("search"),
		Category:     c.QueryParam("category"),
		Stage:        c.QueryParam("stage"),
		Location:     c.QueryParam("location"),
		Skill:        c.QueryParam("skill"),
		Availability: c.QueryParam("availability"),
	}
}

// paging reads page and page_size. Missing or malformed values fall back to
// the pipeline defaults.
func paging(c *drift.Context) (page, size int) {
	page, _ = strconv.Atoi(strings.TrimSpace(c.QueryParam("page")))
	size, _ = strconv.Atoi(strings.TrimSpace(c.QueryParam("page_size")))
	return page, size
}
