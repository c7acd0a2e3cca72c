package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/idealab-pce/idealab-api/internal/authz"
	"github.com/idealab-pce/idealab-api/internal/models"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) error
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type auditEmitter interface {
	Emit(ctx context.Context, category models.AdminLogCategory, message string, metadata map[string]interface{})
}

// UpdateProfileRequest is the self-service profile payload. Each field is
// write-once: a value already present on the account cannot be changed again.
type UpdateProfileRequest struct {
	Branch  *string `json:"branch" validate:"omitempty,min=1,max=100"`
	Section *string `json:"section" validate:"omitempty,min=1,max=50"`
	Batch   *string `json:"batch" validate:"omitempty,min=1,max=50"`
	Phone   *string `json:"phone" validate:"omitempty,min=7,max=20"`
}

// UserService handles user administration and profile workflows.
type UserService struct {
	repo      userRepository
	authority *authz.Authority
	audit     auditEmitter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, authority *authz.Authority, audit auditEmitter, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, authority: authority, audit: audit, validator: validate, logger: logger}
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	pagination := &models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}
	return users, pagination, nil
}

// Get returns a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Promote moves the target one rung up the ordinary ladder.
func (s *UserService) Promote(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
	return s.changeRole(ctx, actor, targetID, func(role models.UserRole) (models.UserRole, bool) {
		return role.Promote()
	})
}

// Demote moves the target one rung down the ordinary ladder.
func (s *UserService) Demote(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
	return s.changeRole(ctx, actor, targetID, func(role models.UserRole) (models.UserRole, bool) {
		return role.Demote()
	})
}

// SetSuperAdmin grants or revokes SUPER_ADMIN. Only callable by a super admin;
// revocation lands the target back on ADMIN.
func (s *UserService) SetSuperAdmin(ctx context.Context, actor *models.User, targetID string, grant bool) (*models.User, error) {
	if !s.authority.IsSuperAdmin(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "super admin privileges required")
	}

	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	newRole := models.RoleSuperAdmin
	if !grant {
		if target.Role != models.RoleSuperAdmin {
			return nil, appErrors.Clone(appErrors.ErrConflict, "user is not a super admin")
		}
		newRole = models.RoleAdmin
	}
	if target.Role == newRole {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user already has this role")
	}

	oldRole := target.Role
	if err := s.repo.UpdateRole(ctx, target.ID, newRole); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}
	target.Role = newRole

	s.audit.Emit(ctx, models.LogOther, "role changed for "+target.Email, map[string]interface{}{
		"user_id":  target.ID,
		"old_role": string(oldRole),
		"new_role": string(newRole),
		"actor":    actor.Email,
	})
	return target, nil
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, actor *models.User, targetID string) error {
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if target.ID == actor.ID {
		return appErrors.Clone(appErrors.ErrConflict, "cannot delete your own account")
	}
	if !s.authority.CanManageRole(actor, target) {
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient privileges to delete this user")
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	s.audit.Emit(ctx, models.LogUserManagement, "user deleted: "+target.Email, map[string]interface{}{
		"user_id": target.ID,
		"role":    string(target.Role),
		"actor":   actor.Email,
	})
	return nil
}

// UpdateProfile fills in the actor's own profile fields. Fields already set
// are immutable; attempting to overwrite one is a conflict.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, req UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	user, err := s.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	apply := func(current **string, incoming *string, name string) error {
		if incoming == nil {
			return nil
		}
		if *current != nil {
			return appErrors.Clone(appErrors.ErrConflict, name+" is already set and cannot be changed")
		}
		value := strings.TrimSpace(*incoming)
		if value == "" {
			return appErrors.Clone(appErrors.ErrValidation, name+" cannot be empty")
		}
		*current = &value
		return nil
	}

	if err := apply(&user.Branch, req.Branch, "branch"); err != nil {
		return nil, err
	}
	if err := apply(&user.Section, req.Section, "section"); err != nil {
		return nil, err
	}
	if err := apply(&user.Batch, req.Batch, "batch"); err != nil {
		return nil, err
	}
	if err := apply(&user.Phone, req.Phone, "phone"); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return user, nil
}

func (s *UserService) changeRole(ctx context.Context, actor *models.User, targetID string, step func(models.UserRole) (models.UserRole, bool)) (*models.User, error) {
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !s.authority.CanManageRole(actor, target) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient privileges to change this user's role")
	}

	newRole, ok := step(target.Role)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrConflict, "role cannot move further in that direction")
	}

	oldRole := target.Role
	if err := s.repo.UpdateRole(ctx, target.ID, newRole); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}
	target.Role = newRole

	s.audit.Emit(ctx, models.LogOther, "role changed for "+target.Email, map[string]interface{}{
		"user_id":  target.ID,
		"old_role": string(oldRole),
		"new_role": string(newRole),
		"actor":    actor.Email,
	})
	return target, nil
}
