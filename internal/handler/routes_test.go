package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idealab-pce/idealab-api/internal/models"
)

func studentAlice() *models.User {
	return &models.User{ID: "s1", Email: "alice@poornima.org", RegID: "alice", FullName: "Alice", Role: models.RoleStudent}
}

func adminBob() *models.User {
	return &models.User{ID: "a1", Email: "bob@poornima.org", RegID: "bob", FullName: "Bob", Role: models.RoleAdmin}
}

func doRequest(env *testEnv, req *http.Request, sessionEmail string) *httptest.ResponseRecorder {
	if sessionEmail != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: env.sessionFor(sessionEmail)})
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := doRequest(env, req, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsCurrentUser(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := doRequest(env, req, "alice@poornima.org")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@poornima.org")
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/callback?state=bogus&code=abc", nil)
	rec := doRequest(env, req, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProjectAsStudent(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))

	body, _ := json.Marshal(map[string]interface{}{
		"title":        "Smart Irrigation",
		"team_members": []string{"Alice", "Dev"},
		"components":   "ESP32, moisture sensor",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(env, req, "alice@poornima.org")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"PARTIAL"`)
	assert.Len(t, env.projects.items, 1)
}

func TestCreateProjectRejectsAdmins(t *testing.T) {
	env := newTestEnv(newFakeUsers(adminBob()))

	body, _ := json.Marshal(map[string]interface{}{
		"title":        "Smart Irrigation",
		"team_members": []string{"Bob"},
		"components":   "ESP32",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(env, req, "bob@poornima.org")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListProjectsIsAdminOnly(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice(), adminBob()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	rec := doRequest(env, req, "alice@poornima.org")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	rec = doRequest(env, req, "bob@poornima.org")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompleteProjectMultipart(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))
	env.projects.items["p1"] = &models.Project{ID: "p1", Title: "Smart Irrigation", LeaderID: "s1", Status: models.StatusPartial}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("summary", "Final writeup of the build."))
	part, err := form.CreateFormFile("photo", "build.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/p1/complete", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := doRequest(env, req, "alice@poornima.org")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"SUBMITTED"`)

	stored := false
	for key := range env.store.objects {
		if strings.HasPrefix(key, "projects/p1-") {
			stored = true
		}
	}
	assert.True(t, stored)
}

func TestCompleteProjectWithoutPhoto(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))
	env.projects.items["p1"] = &models.Project{ID: "p1", Title: "Smart Irrigation", LeaderID: "s1", Status: models.StatusPartial}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("summary", "No photo attached."))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/p1/complete", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := doRequest(env, req, "alice@poornima.org")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMineHidesForeignProjects(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))
	env.projects.items["p2"] = &models.Project{ID: "p2", Title: "Someone else's", LeaderID: "s9", Status: models.StatusPartial}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/mine/p2", nil)
	rec := doRequest(env, req, "alice@poornima.org")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := doRequest(env, req, "alice@poornima.org")

	require.Equal(t, http.StatusNoContent, rec.Code)
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestShowcaseListIsPublic(t *testing.T) {
	env := newTestEnv(newFakeUsers(studentAlice()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/showcase", nil)
	rec := doRequest(env, req, "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
