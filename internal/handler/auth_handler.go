package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/service"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/response"
)

// AuthHandler wires the OAuth sign-in flow and session endpoints.
type AuthHandler struct {
	service    *service.AuthService
	metrics    *service.MetricsService
	cookieName string
	cookieTTL  time.Duration
	secure     bool
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, metrics *service.MetricsService, cookieName string, cookieTTL time.Duration, secure bool) *AuthHandler {
	if cookieTTL <= 0 {
		cookieTTL = 24 * time.Hour
	}
	return &AuthHandler{service: svc, metrics: metrics, cookieName: cookieName, cookieTTL: cookieTTL, secure: secure}
}

// Login godoc
// @Summary Begin sign-in
// @Description Redirects the browser to the Google consent screen
// @Tags Authentication
// @Success 307
// @Failure 500 {object} response.Envelope
// @Router /auth/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	url, err := h.service.LoginURL(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// Callback godoc
// @Summary Complete sign-in
// @Description Exchanges the provider callback for a session cookie
// @Tags Authentication
// @Produce json
// @Param state query string true "State nonce"
// @Param code query string true "Authorization code"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	user, token, err := h.service.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		outcome := "error"
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrAccessDenied.Code {
			outcome = "rejected"
		}
		h.metrics.RecordSignIn(outcome)
		response.Error(c, err)
		return
	}
	h.metrics.RecordSignIn("success")

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, int(h.cookieTTL.Seconds()), "/", "", h.secure, true)
	response.JSON(c, http.StatusOK, user, nil)
}

// Me godoc
// @Summary Current user
// @Description Returns the signed-in user, freshly read from storage
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	response.JSON(c, http.StatusOK, currentUser(c), nil)
}

// Logout godoc
// @Summary Sign out
// @Description Clears the session cookie
// @Tags Authentication
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	response.NoContent(c)
}
