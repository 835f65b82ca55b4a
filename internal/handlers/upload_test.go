package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/storage"
	"github.com/tapri-app/tapri-api/internal/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func uploadRequest(t *testing.T, path, field string, data []byte, headers map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, "image.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func serveUpload(assets AssetStore, req *http.Request) *httptest.ResponseRecorder {
	h := NewUploadHandler(assets)
	app := drift.New()
	app.Use(identify())
	app.Post("/uploads/:kind", h.Upload)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestUploadHandler_StoresImage(t *testing.T) {
	assets := new(testutil.MockAssetStore)
	me := uuid.New()
	obj := &storage.Object{Key: "avatar/" + me.String() + "/x.png", URL: "https://cdn.tapri.test/avatar/x.png", ContentType: "image/png"}
	assets.On("Put", mock.Anything, storage.KindAvatar, me, pngHeader).Return(obj, nil)

	rec := serveUpload(assets, uploadRequest(t, "/uploads/avatar", "file", pngHeader, as(t, me)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "cdn.tapri.test")
	assets.AssertExpectations(t)
}

func TestUploadHandler_Errors(t *testing.T) {
	me := uuid.New()

	t.Run("anonymous", func(t *testing.T) {
		rec := serveUpload(new(testutil.MockAssetStore), uploadRequest(t, "/uploads/avatar", "file", pngHeader, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := serveUpload(new(testutil.MockAssetStore), uploadRequest(t, "/uploads/resume", "file", pngHeader, as(t, me)))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"kind"`)
	})

	t.Run("missing file field", func(t *testing.T) {
		rec := serveUpload(new(testutil.MockAssetStore), uploadRequest(t, "/uploads/logo", "attachment", pngHeader, as(t, me)))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"file"`)
	})

	t.Run("storage down", func(t *testing.T) {
		assets := new(testutil.MockAssetStore)
		assets.On("Put", mock.Anything, storage.KindBanner, me, mock.Anything).Return(nil, apperr.StoreUnavailable(errors.New("no bucket")))
		rec := serveUpload(assets, uploadRequest(t, "/uploads/banner", "file", pngHeader, as(t, me)))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
