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

	"github.com/idealab-pce/idealab-api/internal/authz"
	"github.com/idealab-pce/idealab-api/internal/models"
	"github.com/idealab-pce/idealab-api/internal/repository"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/export"
	"github.com/idealab-pce/idealab-api/pkg/mailer"
	"github.com/idealab-pce/idealab-api/pkg/storage"
)

type projectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	FindByIDAndLeader(ctx context.Context, id, leaderID string) (*models.Project, error)
	ListByLeader(ctx context.Context, leaderID string) ([]models.Project, error)
	ListAssigned(ctx context.Context, column repository.ReviewerColumn, reviewerID string) ([]models.ReviewProject, error)
	Complete(ctx context.Context, id, leaderID, summary, photoKey string) (int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error)
}

type projectUserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type summaryRenderer interface {
	RenderProjectSummary(summary export.ProjectSummary) ([]byte, error)
}

// CreateProjectRequest is the student-facing creation payload.
type CreateProjectRequest struct {
	Title             string   `json:"title" validate:"required,min=3,max=200"`
	TeamMembers       []string `json:"team_members" validate:"required,min=1,dive,required"`
	Components        string   `json:"components" validate:"required"`
	AssignedTeacherID *string  `json:"assigned_teacher_id" validate:"omitempty,uuid4"`
}

// CompleteProjectRequest carries the submission payload: the written summary
// plus the photo bytes from the multipart upload.
type CompleteProjectRequest struct {
	Summary          string
	PhotoData        []byte
	PhotoContentType string
	PhotoExt         string
}

// AdminUpdateProjectRequest is the admin correction payload. Nil fields are
// left untouched.
type AdminUpdateProjectRequest struct {
	Title             *string  `json:"title" validate:"omitempty,min=3,max=200"`
	TeamMembers       []string `json:"team_members" validate:"omitempty,min=1,dive,required"`
	Components        *string  `json:"components" validate:"omitempty,min=1"`
	Status            *string  `json:"status" validate:"omitempty,oneof=PARTIAL SUBMITTED"`
	AssignedTeacherID *string  `json:"assigned_teacher_id" validate:"omitempty,uuid4"`
	AssignedAdminID   *string  `json:"assigned_admin_id" validate:"omitempty,uuid4"`
	Summary           *string  `json:"summary"`
}

// ProjectService owns the project lifecycle: creation, submission, reviewer
// views, admin corrections and the summary download.
type ProjectService struct {
	repo      projectRepository
	users     projectUserLookup
	authority *authz.Authority
	audit     auditEmitter
	store     storage.ObjectStore
	pdf       summaryRenderer
	mail      mailer.Mailer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProjectService creates an instance of ProjectService.
func NewProjectService(repo projectRepository, users projectUserLookup, authority *authz.Authority, audit auditEmitter, store storage.ObjectStore, pdf summaryRenderer, mail mailer.Mailer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ProjectService{
		repo:      repo,
		users:     users,
		authority: authority,
		audit:     audit,
		store:     store,
		pdf:       pdf,
		mail:      mail,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Create registers a new project led by the actor. Projects start PARTIAL.
func (s *ProjectService) Create(ctx context.Context, actor *models.User, req CreateProjectRequest) (*models.Project, error) {
	if !s.authority.IsStudent(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students create projects")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}

	if req.AssignedTeacherID != nil {
		teacher, err := s.users.FindByID(ctx, *req.AssignedTeacherID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "assigned teacher does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up assigned teacher")
		}
		if !s.authority.IsTeacher(teacher) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "assigned user is not a teacher")
		}
	}

	project := &models.Project{
		Title:             strings.TrimSpace(req.Title),
		LeaderID:          actor.ID,
		TeamMembers:       req.TeamMembers,
		Components:        req.Components,
		Status:            models.StatusPartial,
		AssignedTeacherID: req.AssignedTeacherID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project")
	}

	s.audit.Emit(ctx, models.LogProjectCreation, "project created: "+project.Title, map[string]interface{}{
		"project_id": project.ID,
		"leader":     actor.Email,
	})
	return project, nil
}

// ListMine returns the actor's own projects.
func (s *ProjectService) ListMine(ctx context.Context, actor *models.User) ([]models.Project, error) {
	projects, err := s.repo.ListByLeader(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	return projects, nil
}

// GetMine returns one of the actor's own projects. A project that exists but
// belongs to someone else is indistinguishable from one that does not exist.
func (s *ProjectService) GetMine(ctx context.Context, actor *models.User, id string) (*models.Project, error) {
	project, err := s.repo.FindByIDAndLeader(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	return project, nil
}

// Complete submits the project: the photo is uploaded first, then summary,
// photo key and the SUBMITTED status are persisted in a single statement.
// Resubmitting overwrites the previous summary and photo.
func (s *ProjectService) Complete(ctx context.Context, actor *models.User, id string, req CompleteProjectRequest) (*models.Project, error) {
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "summary is required")
	}
	if len(req.PhotoData) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "photo is required")
	}

	ext := strings.ToLower(strings.TrimPrefix(req.PhotoExt, "."))
	if ext == "" {
		ext = "jpg"
	}
	key := fmt.Sprintf("projects/%s-%d.%s", id, time.Now().Unix(), ext)
	if _, err := s.store.Put(ctx, key, req.PhotoData, req.PhotoContentType); err != nil {
		s.logger.Error("photo upload failed", zap.String("project_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
	}

	rows, err := s.repo.Complete(ctx, id, actor.ID, summary, key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit project")
	}
	if rows == 0 {
		// The uploaded object is orphaned on purpose: the update never ran,
		// so there is no state to roll back.
		return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
	}

	return s.GetMine(ctx, actor, id)
}

// Delete removes a project. Leaders may delete their own; admins may delete
// any. An admin deleting someone else's project leaves an audit record.
func (s *ProjectService) Delete(ctx context.Context, actor *models.User, id string) error {
	var project *models.Project
	var err error
	if s.authority.IsAdmin(actor) {
		project, err = s.repo.FindByID(ctx, id)
	} else {
		project, err = s.repo.FindByIDAndLeader(ctx, id, actor.ID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}

	if err := s.repo.Delete(ctx, project.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete project")
	}

	if s.authority.IsAdmin(actor) && project.LeaderID != actor.ID {
		s.audit.Emit(ctx, models.LogProjectDeletion, "project deleted by admin: "+project.Title, map[string]interface{}{
			"project_id": project.ID,
			"leader_id":  project.LeaderID,
			"actor":      actor.Email,
		})
	}
	return nil
}

// AdminUpdate applies an admin correction. Unlike submission it can touch any
// field, including status, without the summary and photo coupling.
func (s *ProjectService) AdminUpdate(ctx context.Context, actor *models.User, id string, req AdminUpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}

	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.TeamMembers != nil {
		project.TeamMembers = req.TeamMembers
	}
	if req.Components != nil {
		project.Components = *req.Components
	}
	if req.Status != nil {
		project.Status = models.ProjectStatus(*req.Status)
	}
	if req.AssignedTeacherID != nil {
		project.AssignedTeacherID = req.AssignedTeacherID
	}
	if req.AssignedAdminID != nil {
		project.AssignedAdminID = req.AssignedAdminID
	}
	if req.Summary != nil {
		project.Summary = req.Summary
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}

	s.audit.Emit(ctx, models.LogProjectUpdate, "project updated by admin: "+project.Title, map[string]interface{}{
		"project_id": project.ID,
		"actor":      actor.Email,
	})
	return project, nil
}

// ListAssigned returns the reviewer view for the actor. Teachers and admins
// see the projects assigned to them through their respective columns.
func (s *ProjectService) ListAssigned(ctx context.Context, actor *models.User) ([]models.ReviewProject, error) {
	var column repository.ReviewerColumn
	switch {
	case s.authority.IsAdmin(actor):
		column = repository.AssignedAdminColumn
	case s.authority.IsTeacher(actor):
		column = repository.AssignedTeacherColumn
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "reviewer role required")
	}

	start := time.Now()
	projects, err := s.repo.ListAssigned(ctx, column, actor.ID)
	s.metrics.ObserveDBQuery("projects_assigned", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assigned projects")
	}
	return projects, nil
}

// List returns the paginated admin listing.
func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, *models.Pagination, error) {
	start := time.Now()
	projects, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("projects_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return projects, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// DownloadSummary renders the project summary PDF and emails it to the leader.
// Admins may fetch any project; leaders only their own. The operation is
// read-only with respect to the project.
func (s *ProjectService) DownloadSummary(ctx context.Context, actor *models.User, id string) ([]byte, string, error) {
	var project *models.Project
	var err error
	if s.authority.IsAdmin(actor) {
		project, err = s.repo.FindByID(ctx, id)
	} else {
		project, err = s.repo.FindByIDAndLeader(ctx, id, actor.ID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}

	leader, err := s.users.FindByID(ctx, project.LeaderID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project leader")
	}

	summaryText := ""
	if project.Summary != nil {
		summaryText = *project.Summary
	}
	pdfBytes, err := s.pdf.RenderProjectSummary(export.ProjectSummary{
		Title:       project.Title,
		LeaderName:  leader.FullName,
		LeaderRegID: leader.RegID,
		LeaderEmail: leader.Email,
		TeamMembers: project.TeamMembers,
		Components:  project.Components,
		Status:      string(project.Status),
		Summary:     summaryText,
		CreatedAt:   project.CreatedAt.Format("02 Jan 2006"),
	})
	if err != nil {
		s.logger.Error("summary render failed", zap.String("project_id", project.ID), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render summary")
	}

	filename := fmt.Sprintf("project-summary-%s.pdf", project.ID)
	if err := s.mail.Send(ctx, mailer.Message{
		ToName:    leader.FullName,
		ToAddress: leader.Email,
		Subject:   "Idea Lab project summary: " + project.Title,
		Body:      "The attached PDF is the current summary for your project.",
		Attachments: []mailer.Attachment{{
			Filename:    filename,
			ContentType: "application/pdf",
			Content:     pdfBytes,
		}},
	}); err != nil {
		s.logger.Error("summary mail failed", zap.String("project_id", project.ID), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send summary email")
	}

	return pdfBytes, filename, nil
}
