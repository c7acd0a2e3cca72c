package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idealab-pce/idealab-api/internal/authz"
	"github.com/idealab-pce/idealab-api/internal/models"
	"github.com/idealab-pce/idealab-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUsers struct {
	byEmail map[string]*models.User
}

func (s *stubUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUsers) Create(ctx context.Context, user *models.User) error { return nil }

type stubOverlords struct{}

func (stubOverlords) FindByEmail(ctx context.Context, email string) (*models.Overlord, error) {
	return nil, sql.ErrNoRows
}

type stubStates struct{}

func (stubStates) Put(ctx context.Context, state string, ttl time.Duration) error { return nil }
func (stubStates) Consume(ctx context.Context, state string) (bool, error)        { return false, nil }

func testAuthService(users *stubUsers) *service.AuthService {
	cfg := service.AuthConfig{
		SessionSecret: "test-secret",
		SessionExpiry: time.Hour,
		AllowedDomain: "poornima.org",
	}
	return service.NewAuthService(users, stubOverlords{}, stubStates{}, authz.New(nil), cfg, zap.NewNop())
}

func TestSessionMiddleware(t *testing.T) {
	users := &stubUsers{byEmail: map[string]*models.User{
		"alice@poornima.org": {ID: "s1", Email: "alice@poornima.org", Role: models.RoleStudent},
	}}
	authSvc := testAuthService(users)

	token, err := authSvc.IssueSession("alice@poornima.org")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", Session(authSvc, "idealab_session"), func(c *gin.Context) {
		user := CurrentUser(c)
		require.NotNil(t, user)
		c.String(http.StatusOK, user.Email)
	})

	// Cookie carries the token.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "idealab_session", Value: token})
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@poornima.org", rec.Body.String())

	// Bearer header works too.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// No token at all.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddlewareDeletedUser(t *testing.T) {
	authSvc := testAuthService(&stubUsers{})

	token, err := authSvc.IssueSession("ghost@poornima.org")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", Session(authSvc, "idealab_session"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	authority := authz.New([]string{"director@poornima.org"})

	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		// Simulate the session middleware having run.
		role := c.Query("role")
		email := c.Query("email")
		c.Set(ContextUserKey, &models.User{ID: "u1", Email: email, Role: models.UserRole(role)})
	}, RequireAdmin(authority), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		role  string
		email string
		want  int
	}{
		{"STUDENT", "alice@poornima.org", http.StatusForbidden},
		{"TEACHER", "teach@poornima.org", http.StatusForbidden},
		{"ADMIN", "admin@poornima.org", http.StatusOK},
		{"SUPER_ADMIN", "boss@poornima.org", http.StatusOK},
		{"STUDENT", "director@poornima.org", http.StatusOK},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin?role="+tc.role+"&email="+tc.email, nil)
		router.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "role %s email %s", tc.role, tc.email)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	authority := authz.New(nil)

	router := gin.New()
	router.GET("/super", func(c *gin.Context) {
		c.Set(ContextUserKey, &models.User{ID: "u1", Email: "admin@poornima.org", Role: models.RoleAdmin})
	}, RequireSuperAdmin(authority), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/super", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMaintenance(t *testing.T) {
	on := true
	router := gin.New()
	router.Use(Maintenance("/api/v1", func() bool { return on }))
	router.GET("/api/v1/projects", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/landing", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/landing", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "600", rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	on = false
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/landing", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
