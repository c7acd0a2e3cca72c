package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/service"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/response"
)

// OverlordHandler manages the external sign-in allowlist endpoints.
type OverlordHandler struct {
	service *service.OverlordService
}

// NewOverlordHandler creates a new overlord handler.
func NewOverlordHandler(svc *service.OverlordService) *OverlordHandler {
	return &OverlordHandler{service: svc}
}

// List godoc
// @Summary List overlords
// @Tags Overlords
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /overlords [get]
func (h *OverlordHandler) List(c *gin.Context) {
	overlords, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overlords, nil)
}

// Create godoc
// @Summary Add overlord
// @Description Allowlist an external email for sign-in
// @Tags Overlords
// @Accept json
// @Produce json
// @Param payload body service.CreateOverlordRequest true "Overlord payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /overlords [post]
func (h *OverlordHandler) Create(c *gin.Context) {
	var req service.CreateOverlordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid overlord payload"))
		return
	}

	overlord, err := h.service.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, overlord)
}

// Delete godoc
// @Summary Remove overlord
// @Description Remove an allowlist entry; existing accounts stay
// @Tags Overlords
// @Param id path string true "Overlord ID"
// @Success 204
// @Router /overlords/{id} [delete]
func (h *OverlordHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
