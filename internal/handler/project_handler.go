package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/models"
	"github.com/idealab-pce/idealab-api/internal/service"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/response"
)

const maxUploadBytes = 10 << 20

// ProjectHandler exposes the project lifecycle endpoints.
type ProjectHandler struct {
	service *service.ProjectService
	metrics *service.MetricsService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc *service.ProjectService, metrics *service.MetricsService) *ProjectHandler {
	return &ProjectHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Create project
// @Description Register a new project led by the signed-in user
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body service.CreateProjectRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid project payload"))
		return
	}

	project, err := h.service.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// ListMine godoc
// @Summary My projects
// @Tags Projects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /projects/mine [get]
func (h *ProjectHandler) ListMine(c *gin.Context) {
	projects, err := h.service.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, nil)
}

// GetMine godoc
// @Summary My project detail
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/mine/{id} [get]
func (h *ProjectHandler) GetMine(c *gin.Context) {
	project, err := h.service.GetMine(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}

// Complete godoc
// @Summary Submit project
// @Description Upload the summary and photo together, moving the project to SUBMITTED
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param summary formData string true "Project summary"
// @Param photo formData file true "Project photo"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/{id}/complete [post]
func (h *ProjectHandler) Complete(c *gin.Context) {
	summary := c.PostForm("summary")

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "photo is required"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "photo exceeds the size limit"))
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

	project, err := h.service.Complete(c.Request.Context(), currentUser(c), c.Param("id"), service.CompleteProjectRequest{
		Summary:          summary,
		PhotoData:        data,
		PhotoContentType: fileHeader.Header.Get("Content-Type"),
		PhotoExt:         filepath.Ext(fileHeader.Filename),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordSubmission()
	response.JSON(c, http.StatusOK, project, nil)
}

// Delete godoc
// @Summary Delete project
// @Description Leaders delete their own projects; admins any
// @Tags Projects
// @Param id path string true "Project ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Assigned godoc
// @Summary Assigned projects
// @Description Reviewer view with leader contact fields
// @Tags Projects
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /projects/assigned [get]
func (h *ProjectHandler) Assigned(c *gin.Context) {
	projects, err := h.service.ListAssigned(c.Request.Context(), currentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, nil)
}

// List godoc
// @Summary List projects
// @Description Admin listing with pagination and filtering
// @Tags Projects
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param status query string false "Status filter"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var filter models.ProjectFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}
	if status := c.Query("status"); status != "" {
		s := models.ProjectStatus(status)
		if !s.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown status"))
			return
		}
		filter.Status = &s
	}
	filter.Search = c.Query("search")

	projects, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, pagination)
}

// AdminUpdate godoc
// @Summary Correct project
// @Description Admin override that can touch any field, including status
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body service.AdminUpdateProjectRequest true "Correction payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/{id} [patch]
func (h *ProjectHandler) AdminUpdate(c *gin.Context) {
	var req service.AdminUpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	project, err := h.service.AdminUpdate(c.Request.Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}

// DownloadSummary godoc
// @Summary Download project summary
// @Description Renders the summary PDF, emails it to the leader and returns it
// @Tags Projects
// @Produce application/pdf
// @Param id path string true "Project ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /projects/{id}/summary [get]
func (h *ProjectHandler) DownloadSummary(c *gin.Context) {
	pdf, filename, err := h.service.DownloadSummary(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
