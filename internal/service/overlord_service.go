package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/idealab-pce/idealab-api/internal/models"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
)

type overlordRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Overlord, error)
	List(ctx context.Context) ([]models.Overlord, error)
	Create(ctx context.Context, overlord *models.Overlord) error
	Delete(ctx context.Context, id string) error
}

// CreateOverlordRequest is the allowlist-entry payload.
type CreateOverlordRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// OverlordService manages the external sign-in allowlist. Removing an entry
// only blocks future first sign-ins; users already created stay untouched.
type OverlordService struct {
	repo      overlordRepository
	audit     auditEmitter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOverlordService creates an instance of OverlordService.
func NewOverlordService(repo overlordRepository, audit auditEmitter, validate *validator.Validate, logger *zap.Logger) *OverlordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &OverlordService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns all allowlist entries.
func (s *OverlordService) List(ctx context.Context) ([]models.Overlord, error) {
	overlords, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overlords")
	}
	return overlords, nil
}

// Create adds an allowlist entry.
func (s *OverlordService) Create(ctx context.Context, actor *models.User, req CreateOverlordRequest) (*models.Overlord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid overlord payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already allowlisted")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check allowlist")
	}

	overlord := &models.Overlord{
		Name:  strings.TrimSpace(req.Name),
		Email: email,
	}
	if err := s.repo.Create(ctx, overlord); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create overlord")
	}

	s.audit.Emit(ctx, models.LogSystem, "overlord added: "+overlord.Email, map[string]interface{}{
		"overlord_id": overlord.ID,
		"actor":       actor.Email,
	})
	return overlord, nil
}

// Delete removes an allowlist entry. Any user the entry already produced
// keeps their account.
func (s *OverlordService) Delete(ctx context.Context, actor *models.User, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete overlord")
	}

	s.audit.Emit(ctx, models.LogSystem, "overlord removed", map[string]interface{}{
		"overlord_id": id,
		"actor":       actor.Email,
	})
	return nil
}
