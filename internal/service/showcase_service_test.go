package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idealab-pce/idealab-api/internal/models"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
)

type mockShowcaseRepo struct {
	items     map[string]*models.ShowcaseProject
	listCalls int
}

func (m *mockShowcaseRepo) Create(ctx context.Context, project *models.ShowcaseProject) error {
	if m.items == nil {
		m.items = make(map[string]*models.ShowcaseProject)
	}
	project.ID = "sc-new"
	copy := *project
	m.items[project.ID] = &copy
	return nil
}

func (m *mockShowcaseRepo) FindByID(ctx context.Context, id string) (*models.ShowcaseProject, error) {
	if p, ok := m.items[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockShowcaseRepo) List(ctx context.Context) ([]models.ShowcaseProject, error) {
	m.listCalls++
	var out []models.ShowcaseProject
	for _, p := range m.items {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockShowcaseRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type mockCache struct {
	entries map[string][]models.ShowcaseProject
	deletes []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	if cached, ok := m.entries[key]; ok {
		*dest.(*[]models.ShowcaseProject) = cached
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]models.ShowcaseProject)
	}
	m.entries[key] = value.([]models.ShowcaseProject)
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	delete(m.entries, key)
	return nil
}

func newShowcaseService(repo *mockShowcaseRepo, cache *mockCache, store *mockStore) *ShowcaseService {
	return NewShowcaseService(repo, cache, store, time.Minute, validator.New(), zap.NewNop())
}

func TestShowcaseListCachesResult(t *testing.T) {
	repo := &mockShowcaseRepo{items: map[string]*models.ShowcaseProject{
		"sc1": {ID: "sc1", Name: "Drone"},
	}}
	cache := &mockCache{}
	svc := newShowcaseService(repo, cache, &mockStore{})

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, repo.listCalls, "second read must come from cache")
}

func TestShowcaseCreateInvalidatesCache(t *testing.T) {
	repo := &mockShowcaseRepo{}
	cache := &mockCache{entries: map[string][]models.ShowcaseProject{
		showcaseCacheKey: {{ID: "stale"}},
	}}
	svc := newShowcaseService(repo, cache, &mockStore{})

	_, err := svc.Create(context.Background(), CreateShowcaseRequest{
		Name:        "Robot Arm",
		Description: "6 DOF arm",
		GithubLink:  "https://github.com/idealab/arm",
	})
	require.NoError(t, err)
	assert.Contains(t, cache.deletes, showcaseCacheKey)
}

func TestShowcaseDeleteRemovesImageAndCache(t *testing.T) {
	key := "showcase/1.jpg"
	repo := &mockShowcaseRepo{items: map[string]*models.ShowcaseProject{
		"sc1": {ID: "sc1", Name: "Drone", ImageKey: &key},
	}}
	cache := &mockCache{}
	store := &mockStore{objects: map[string][]byte{key: {1}}}
	svc := newShowcaseService(repo, cache, store)

	require.NoError(t, svc.Delete(context.Background(), "sc1"))
	assert.Empty(t, store.objects)
	assert.Contains(t, cache.deletes, showcaseCacheKey)
}

func TestShowcaseDeleteMissing(t *testing.T) {
	svc := newShowcaseService(&mockShowcaseRepo{}, &mockCache{}, &mockStore{})

	err := svc.Delete(context.Background(), "nope")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
