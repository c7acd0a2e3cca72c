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

type achievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	FindByID(ctx context.Context, id string) (*models.Achievement, error)
	List(ctx context.Context, achievementType *models.AchievementType) ([]models.Achievement, error)
	Delete(ctx context.Context, id string) error
}

// CreateAchievementRequest is the self-reported achievement payload. The
// optional image arrives separately from the multipart form.
type CreateAchievementRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=STUDENT FACULTY"`

	ImageData        []byte `json:"-" validate:"-"`
	ImageContentType string `json:"-" validate:"-"`
	ImageExt         string `json:"-" validate:"-"`
}

// AchievementService manages self-reported achievements.
type AchievementService struct {
	repo      achievementRepository
	store     storage.ObjectStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAchievementService creates an instance of AchievementService.
func NewAchievementService(repo achievementRepository, store storage.ObjectStore, validate *validator.Validate, logger *zap.Logger) *AchievementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AchievementService{repo: repo, store: store, validator: validate, logger: logger}
}

// Create records an achievement for the actor, uploading the image first when
// one was provided.
func (s *AchievementService) Create(ctx context.Context, actor *models.User, req CreateAchievementRequest) (*models.Achievement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid achievement payload")
	}

	var imageKey *string
	if len(req.ImageData) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(req.ImageExt, "."))
		if ext == "" {
			ext = "jpg"
		}
		key := fmt.Sprintf("achievements/%s-%d.%s", actor.RegID, time.Now().Unix(), ext)
		if _, err := s.store.Put(ctx, key, req.ImageData, req.ImageContentType); err != nil {
			s.logger.Error("achievement image upload failed", zap.String("user_id", actor.ID), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
		}
		imageKey = &key
	}

	achievement := &models.Achievement{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        models.AchievementType(req.Type),
		ImageKey:    imageKey,
		UserID:      actor.ID,
	}
	if err := s.repo.Create(ctx, achievement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create achievement")
	}
	return achievement, nil
}

// List returns achievements, optionally filtered by type. Publicly readable.
func (s *AchievementService) List(ctx context.Context, achievementType *models.AchievementType) ([]models.Achievement, error) {
	if achievementType != nil && !achievementType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown achievement type")
	}
	achievements, err := s.repo.List(ctx, achievementType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list achievements")
	}
	return achievements, nil
}

// Delete removes an achievement and its stored image, if any.
func (s *AchievementService) Delete(ctx context.Context, id string) error {
	achievement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "achievement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load achievement")
	}

	if err := s.repo.Delete(ctx, achievement.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete achievement")
	}

	if achievement.ImageKey != nil {
		if err := s.store.Delete(ctx, *achievement.ImageKey); err != nil {
			s.logger.Warn("failed to remove achievement image", zap.String("key", *achievement.ImageKey), zap.Error(err))
		}
	}
	return nil
}
