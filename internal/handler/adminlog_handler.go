package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/models"
	"github.com/idealab-pce/idealab-api/internal/service"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/response"
)

// AdminLogHandler exposes the audit trail to admins.
type AdminLogHandler struct {
	service *service.AdminLogService
}

// NewAdminLogHandler creates a new admin log handler.
func NewAdminLogHandler(svc *service.AdminLogService) *AdminLogHandler {
	return &AdminLogHandler{service: svc}
}

func adminLogFilter(c *gin.Context) (models.AdminLogFilter, error) {
	var filter models.AdminLogFilter
	filter.Search = c.Query("search")
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		filter.Limit = limit
	}
	if raw := c.Query("category"); raw != "" {
		category := models.AdminLogCategory(raw)
		if !category.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown category")
		}
		filter.Category = &category
	}
	if raw := c.Query("window"); raw != "" {
		window := models.AdminLogWindow(raw)
		switch window {
		case models.WindowToday, models.Window7Days, models.Window30Days:
			filter.Window = &window
		default:
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown window")
		}
	}
	return filter, nil
}

// List godoc
// @Summary List audit records
// @Description Most recent audit records, filterable by category, search and window
// @Tags AdminLogs
// @Produce json
// @Param category query string false "Category filter"
// @Param search query string false "Message search"
// @Param window query string false "today, 7d or 30d"
// @Param limit query int false "Max records"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin-logs [get]
func (h *AdminLogHandler) List(c *gin.Context) {
	filter, err := adminLogFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	logs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// Export godoc
// @Summary Export audit records
// @Description Download the filtered audit trail as CSV
// @Tags AdminLogs
// @Produce text/csv
// @Param category query string false "Category filter"
// @Param search query string false "Message search"
// @Param window query string false "today, 7d or 30d"
// @Success 200 {file} binary
// @Router /admin-logs/export [get]
func (h *AdminLogHandler) Export(c *gin.Context) {
	filter, err := adminLogFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.service.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="admin-logs.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
