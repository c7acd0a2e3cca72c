package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/idealab-pce/idealab-api/internal/authz"
	"github.com/idealab-pce/idealab-api/internal/models"
	"github.com/idealab-pce/idealab-api/internal/repository"
	"github.com/idealab-pce/idealab-api/internal/service"
	"github.com/idealab-pce/idealab-api/pkg/mailer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testCookie = "idealab_session"

type fakeUsers struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	user.ID = "created"
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

type fakeOverlords struct{}

func (fakeOverlords) FindByEmail(ctx context.Context, email string) (*models.Overlord, error) {
	return nil, sql.ErrNoRows
}

func (fakeOverlords) List(ctx context.Context) ([]models.Overlord, error) { return nil, nil }

func (fakeOverlords) Create(ctx context.Context, overlord *models.Overlord) error { return nil }

func (fakeOverlords) Delete(ctx context.Context, id string) error { return nil }

type fakeStates struct{}

func (fakeStates) Put(ctx context.Context, state string, ttl time.Duration) error { return nil }
func (fakeStates) Consume(ctx context.Context, state string) (bool, error)        { return false, nil }

type fakeProjects struct {
	items map[string]*models.Project
}

func (f *fakeProjects) Create(ctx context.Context, project *models.Project) error {
	if f.items == nil {
		f.items = map[string]*models.Project{}
	}
	project.ID = "p1"
	copy := *project
	f.items[project.ID] = &copy
	return nil
}

func (f *fakeProjects) FindByID(ctx context.Context, id string) (*models.Project, error) {
	if p, ok := f.items[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProjects) FindByIDAndLeader(ctx context.Context, id, leaderID string) (*models.Project, error) {
	if p, ok := f.items[id]; ok && p.LeaderID == leaderID {
		copy := *p
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProjects) ListByLeader(ctx context.Context, leaderID string) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.items {
		if p.LeaderID == leaderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjects) ListAssigned(ctx context.Context, column repository.ReviewerColumn, reviewerID string) ([]models.ReviewProject, error) {
	return nil, nil
}

func (f *fakeProjects) Complete(ctx context.Context, id, leaderID, summary, photoKey string) (int64, error) {
	p, ok := f.items[id]
	if !ok || p.LeaderID != leaderID {
		return 0, nil
	}
	p.Summary = &summary
	p.PhotoKey = &photoKey
	p.Status = models.StatusSubmitted
	return 1, nil
}

func (f *fakeProjects) Update(ctx context.Context, project *models.Project) error {
	copy := *project
	f.items[project.ID] = &copy
	return nil
}

func (f *fakeProjects) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeProjects) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	var out []models.Project
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, len(out), nil
}

type fakeAudit struct {
	entries []models.AdminLog
}

func (f *fakeAudit) Emit(ctx context.Context, category models.AdminLogCategory, message string, metadata map[string]interface{}) {
	f.entries = append(f.entries, models.AdminLog{Category: category, Message: message})
}

type fakeStore struct {
	objects map[string][]byte
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := f.objects[key]; ok {
		return data, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) URL(key string) string { return "https://cdn.test/" + key }

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, msg mailer.Message) error { return nil }

type fakeAdminLogs struct{}

func (fakeAdminLogs) Create(ctx context.Context, log *models.AdminLog) error { return nil }

func (fakeAdminLogs) List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error) {
	return nil, nil
}

type fakeAchievements struct{}

func (fakeAchievements) Create(ctx context.Context, achievement *models.Achievement) error {
	return nil
}

func (fakeAchievements) FindByID(ctx context.Context, id string) (*models.Achievement, error) {
	return nil, sql.ErrNoRows
}

func (fakeAchievements) List(ctx context.Context, achievementType *models.AchievementType) ([]models.Achievement, error) {
	return nil, nil
}

func (fakeAchievements) Delete(ctx context.Context, id string) error { return nil }

type fakeShowcase struct{}

func (fakeShowcase) Create(ctx context.Context, project *models.ShowcaseProject) error { return nil }

func (fakeShowcase) FindByID(ctx context.Context, id string) (*models.ShowcaseProject, error) {
	return nil, sql.ErrNoRows
}

func (fakeShowcase) List(ctx context.Context) ([]models.ShowcaseProject, error) { return nil, nil }

func (fakeShowcase) Delete(ctx context.Context, id string) error { return nil }

type testEnv struct {
	router   *gin.Engine
	authSvc  *service.AuthService
	projects *fakeProjects
	audit    *fakeAudit
	store    *fakeStore
	users    *fakeUsers
}

func newTestEnv(users *fakeUsers) *testEnv {
	authority := authz.New([]string{"director@poornima.org"})
	cfg := service.AuthConfig{
		SessionSecret: "test-secret",
		SessionExpiry: time.Hour,
		AllowedDomain: "poornima.org",
	}
	authSvc := service.NewAuthService(users, fakeOverlords{}, fakeStates{}, authority, cfg, zap.NewNop())

	projects := &fakeProjects{items: map[string]*models.Project{}}
	audit := &fakeAudit{}
	store := &fakeStore{}
	metrics := service.NewMetricsService()

	h := Handlers{
		Auth:        NewAuthHandler(authSvc, metrics, testCookie, time.Hour, false),
		Project:     NewProjectHandler(service.NewProjectService(projects, users, authority, audit, store, nil, noopMailer{}, metrics, nil, zap.NewNop()), metrics),
		User:        NewUserHandler(service.NewUserService(nil, authority, audit, nil, zap.NewNop())),
		Overlord:    NewOverlordHandler(service.NewOverlordService(fakeOverlords{}, audit, nil, zap.NewNop())),
		Achievement: NewAchievementHandler(service.NewAchievementService(fakeAchievements{}, store, nil, zap.NewNop())),
		Showcase:    NewShowcaseHandler(service.NewShowcaseService(fakeShowcase{}, nil, store, time.Minute, nil, zap.NewNop())),
		AdminLog:    NewAdminLogHandler(service.NewAdminLogService(fakeAdminLogs{}, zap.NewNop())),
	}

	router := gin.New()
	RegisterRoutes(router, "/api/v1", h, authSvc, authority, testCookie)

	return &testEnv{router: router, authSvc: authSvc, projects: projects, audit: audit, store: store, users: users}
}

func (e *testEnv) sessionFor(email string) string {
	token, err := e.authSvc.IssueSession(email)
	if err != nil {
		panic(err)
	}
	return token
}
