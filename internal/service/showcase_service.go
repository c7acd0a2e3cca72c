package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/idealab-pce/idealab-api/internal/models"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/storage"
)

const showcaseCacheKey = "showcase:list"

type showcaseRepository interface {
	Create(ctx context.Context, project *models.ShowcaseProject) error
	FindByID(ctx context.Context, id string) (*models.ShowcaseProject, error)
	List(ctx context.Context) ([]models.ShowcaseProject, error)
	Delete(ctx context.Context, id string) error
}

type showcaseCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateShowcaseRequest is the admin payload for a showcase entry.
type CreateShowcaseRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"required"`
	GithubLink  string `json:"github_link" validate:"required,url"`

	ImageData        []byte `json:"-" validate:"-"`
	ImageContentType string `json:"-" validate:"-"`
	ImageExt         string `json:"-" validate:"-"`
}

// ShowcaseService manages the public lab showcase. The listing is served from
// cache; mutations invalidate it.
type ShowcaseService struct {
	repo      showcaseRepository
	cache     showcaseCache
	store     storage.ObjectStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewShowcaseService creates an instance of ShowcaseService.
func NewShowcaseService(repo showcaseRepository, cache showcaseCache, store storage.ObjectStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ShowcaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &ShowcaseService{repo: repo, cache: cache, store: store, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns the showcase entries, preferring the cached copy.
func (s *ShowcaseService) List(ctx context.Context) ([]models.ShowcaseProject, error) {
	if s.cache != nil {
		var cached []models.ShowcaseProject
		err := s.cache.Get(ctx, showcaseCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("showcase cache read failed", zap.Error(err))
		}
	}

	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list showcase projects")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, showcaseCacheKey, projects, s.cacheTTL); err != nil {
			s.logger.Warn("showcase cache write failed", zap.Error(err))
		}
	}
	return projects, nil
}

// Create adds a showcase entry and invalidates the cached listing.
func (s *ShowcaseService) Create(ctx context.Context, req CreateShowcaseRequest) (*models.ShowcaseProject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid showcase payload")
	}

	var imageKey *string
	if len(req.ImageData) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(req.ImageExt, "."))
		if ext == "" {
			ext = "jpg"
		}
		key := fmt.Sprintf("showcase/%d.%s", time.Now().UnixNano(), ext)
		if _, err := s.store.Put(ctx, key, req.ImageData, req.ImageContentType); err != nil {
			s.logger.Error("showcase image upload failed", zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
		}
		imageKey = &key
	}

	project := &models.ShowcaseProject{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		GithubLink:  req.GithubLink,
		ImageKey:    imageKey,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create showcase project")
	}

	s.invalidate(ctx)
	return project, nil
}

// Delete removes a showcase entry, its image and the cached listing.
func (s *ShowcaseService) Delete(ctx context.Context, id string) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "showcase project not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load showcase project")
	}

	if err := s.repo.Delete(ctx, project.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete showcase project")
	}

	if project.ImageKey != nil {
		if err := s.store.Delete(ctx, *project.ImageKey); err != nil {
			s.logger.Warn("failed to remove showcase image", zap.String("key", *project.ImageKey), zap.Error(err))
		}
	}

	s.invalidate(ctx)
	return nil
}

func (s *ShowcaseService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, showcaseCacheKey); err != nil {
		s.logger.Warn("showcase cache invalidation failed", zap.Error(err))
	}
}
