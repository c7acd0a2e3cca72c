package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/service"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/response"
)

// ShowcaseHandler exposes the public lab showcase endpoints.
type ShowcaseHandler struct {
	service *service.ShowcaseService
}

// NewShowcaseHandler creates a new showcase handler.
func NewShowcaseHandler(svc *service.ShowcaseService) *ShowcaseHandler {
	return &ShowcaseHandler{service: svc}
}

// List godoc
// @Summary List showcase projects
// @Description Public listing, served from cache when warm
// @Tags Showcase
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /showcase [get]
func (h *ShowcaseHandler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, nil)
}

// Create godoc
// @Summary Add showcase project
// @Tags Showcase
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param description formData string true "Description"
// @Param github_link formData string true "Repository URL"
// @Param image formData file false "Image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /showcase [post]
func (h *ShowcaseHandler) Create(c *gin.Context) {
	req := service.CreateShowcaseRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		GithubLink:  c.PostForm("github_link"),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if fileHeader.Size > maxUploadBytes {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "image exceeds the size limit"))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
			return
		}
		req.ImageData = data
		req.ImageContentType = fileHeader.Header.Get("Content-Type")
		req.ImageExt = filepath.Ext(fileHeader.Filename)
	}

	project, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// Delete godoc
// @Summary Delete showcase project
// @Tags Showcase
// @Param id path string true "Showcase project ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /showcase/{id} [delete]
func (h *ShowcaseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
