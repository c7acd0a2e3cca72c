package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/models"
	"github.com/idealab-pce/idealab-api/internal/service"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/response"
)

// AchievementHandler exposes achievement endpoints.
type AchievementHandler struct {
	service *service.AchievementService
}

// NewAchievementHandler creates a new achievement handler.
func NewAchievementHandler(svc *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{service: svc}
}

// Create godoc
// @Summary Record achievement
// @Description Record a self-reported achievement with an optional image
// @Tags Achievements
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param type formData string true "STUDENT or FACULTY"
// @Param image formData file false "Image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /achievements [post]
func (h *AchievementHandler) Create(c *gin.Context) {
	req := service.CreateAchievementRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Type:        c.PostForm("type"),
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

	achievement, err := h.service.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, achievement)
}

// List godoc
// @Summary List achievements
// @Description Public listing, optionally filtered by type
// @Tags Achievements
// @Produce json
// @Param type query string false "STUDENT or FACULTY"
// @Success 200 {object} response.Envelope
// @Router /achievements [get]
func (h *AchievementHandler) List(c *gin.Context) {
	var filter *models.AchievementType
	if raw := c.Query("type"); raw != "" {
		t := models.AchievementType(raw)
		filter = &t
	}

	achievements, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, achievements, nil)
}

// Delete godoc
// @Summary Delete achievement
// @Tags Achievements
// @Param id path string true "Achievement ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /achievements/{id} [delete]
func (h *AchievementHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
