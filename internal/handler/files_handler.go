package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/response"
	"github.com/idealab-pce/idealab-api/pkg/storage"
)

// FilesHandler serves stored objects through signed tokens. Only used with the
// local storage backend; the S3 backend hands out direct URLs.
type FilesHandler struct {
	signer *storage.SignedURLSigner
	store  storage.ObjectStore
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(signer *storage.SignedURLSigner, store storage.ObjectStore) *FilesHandler {
	return &FilesHandler{signer: signer, store: store}
}

// Download godoc
// @Summary Download stored file
// @Description Serve an uploaded object referenced by a signed token
// @Tags Files
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/{token} [get]
func (h *FilesHandler) Download(c *gin.Context) {
	key, _, err := h.signer.Parse(c.Param("token"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired file token"))
		return
	}

	data, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}
