package handlers

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/storage"
)

// multipartOverhead covers form boundaries and headers around the file part.
const multipartOverhead = 64 << 10

type UploadHandler struct {
	assets AssetStore
}

func NewUploadHandler(assets AssetStore) *UploadHandler {
	return &UploadHandler{assets: assets}
}

func (h *UploadHandler) Upload(c *drift.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	kind, err := storage.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Response, c.Request.Body, h.assets.MaxBytes()+multipartOverhead)
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, apperr.Validation("file", "a file field with the image is required"))
		return
	}
	defer func() { _ = file.Close() }()

	obj, err := h.assets.Put(c.Request.Context(), kind, me.ProfileID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusCreated, obj)
}
