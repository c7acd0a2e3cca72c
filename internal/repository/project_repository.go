package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/idealab-pce/idealab-api/internal/models"
)

// ReviewerColumn selects which assignment column an "assigned projects" query
// filters on. Closed set so the column name never comes from request input.
type ReviewerColumn string

const (
	AssignedTeacherColumn ReviewerColumn = "assigned_teacher_id"
	AssignedAdminColumn   ReviewerColumn = "assigned_admin_id"
)

// ProjectRepository provides database access for student projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, title, leader_id, team_members, components, status, assigned_teacher_id, assigned_admin_id, summary, photo_key, created_at, updated_at`

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	const query = `INSERT INTO projects (id, title, leader_id, team_members, components, status, assigned_teacher_id, assigned_admin_id, summary, photo_key, created_at, updated_at)
		VALUES (:id, :title, :leader_id, :team_members, :components, :status, :assigned_teacher_id, :assigned_admin_id, :summary, :photo_key, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// FindByID returns a project by identifier.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 LIMIT 1`
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return &project, nil
}

// FindByIDAndLeader returns a project only when it belongs to the given leader.
// The scoped lookup means a non-owner observes "no rows", not "forbidden".
func (r *ProjectRepository) FindByIDAndLeader(ctx context.Context, id, leaderID string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND leader_id = $2 LIMIT 1`
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id, leaderID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find project by id and leader: %w", err)
	}
	return &project, nil
}

// ListByLeader returns the leader's own projects, newest first.
func (r *ProjectRepository) ListByLeader(ctx context.Context, leaderID string) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE leader_id = $1 ORDER BY created_at DESC`
	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, leaderID); err != nil {
		return nil, fmt.Errorf("list projects by leader: %w", err)
	}
	return projects, nil
}

// ListAssigned returns the projects assigned to a reviewer, joined with leader
// contact fields. The same query shape serves teacher and admin views; only the
// assignment column differs.
func (r *ProjectRepository) ListAssigned(ctx context.Context, column ReviewerColumn, reviewerID string) ([]models.ReviewProject, error) {
	query := fmt.Sprintf(`SELECT p.id, p.title, p.leader_id, p.team_members, p.components, p.status,
			p.assigned_teacher_id, p.assigned_admin_id, p.summary, p.photo_key, p.created_at, p.updated_at,
			u.full_name AS leader_name, u.email AS leader_email, u.reg_id AS leader_reg_id
		FROM projects p
		JOIN users u ON u.id = p.leader_id
		WHERE p.%s = $1
		ORDER BY p.created_at DESC`, column)

	var projects []models.ReviewProject
	if err := r.db.SelectContext(ctx, &projects, query, reviewerID); err != nil {
		return nil, fmt.Errorf("list assigned projects: %w", err)
	}
	return projects, nil
}

// Complete flips a PARTIAL project to SUBMITTED with summary and photo in one
// statement, scoped by id and leader. Returns the number of rows affected so
// the caller can distinguish "not yours / not there" from success.
func (r *ProjectRepository) Complete(ctx context.Context, id, leaderID, summary, photoKey string) (int64, error) {
	const query = `UPDATE projects SET summary = $3, photo_key = $4, status = $5, updated_at = $6 WHERE id = $1 AND leader_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, leaderID, summary, photoKey, models.StatusSubmitted, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("complete project: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("complete project rows: %w", err)
	}
	return rows, nil
}

// Update persists every mutable field. Only the admin override path calls this;
// the leader_id column is deliberately absent from the SET list.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	const query = `UPDATE projects SET title = :title, team_members = :team_members, components = :components,
		status = :status, assigned_teacher_id = :assigned_teacher_id, assigned_admin_id = :assigned_admin_id,
		summary = :summary, photo_key = :photo_key, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes a project row.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// List returns projects for the admin view with total count.
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	baseQuery := `FROM projects WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", projectColumns, baseQuery, pageSize, offset)

	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	return projects, total, nil
}
