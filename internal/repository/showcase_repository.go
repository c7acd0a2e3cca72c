package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/idealab-pce/idealab-api/internal/models"
)

// ShowcaseRepository provides database access for lab showcase projects.
type ShowcaseRepository struct {
	db *sqlx.DB
}

// NewShowcaseRepository creates a new instance of ShowcaseRepository.
func NewShowcaseRepository(db *sqlx.DB) *ShowcaseRepository {
	return &ShowcaseRepository{db: db}
}

const showcaseColumns = `id, name, description, github_link, image_key, created_at`

// Create inserts a new showcase project.
func (r *ShowcaseRepository) Create(ctx context.Context, project *models.ShowcaseProject) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO idealab_projects (id, name, description, github_link, image_key, created_at)
		VALUES (:id, :name, :description, :github_link, :image_key, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("create showcase project: %w", err)
	}
	return nil
}

// FindByID returns a showcase project by identifier.
func (r *ShowcaseRepository) FindByID(ctx context.Context, id string) (*models.ShowcaseProject, error) {
	query := `SELECT ` + showcaseColumns + ` FROM idealab_projects WHERE id = $1 LIMIT 1`
	var project models.ShowcaseProject
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find showcase project by id: %w", err)
	}
	return &project, nil
}

// List returns all showcase projects, newest first.
func (r *ShowcaseRepository) List(ctx context.Context) ([]models.ShowcaseProject, error) {
	query := `SELECT ` + showcaseColumns + ` FROM idealab_projects ORDER BY created_at DESC`
	var projects []models.ShowcaseProject
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("list showcase projects: %w", err)
	}
	return projects, nil
}

// Delete removes a showcase project row.
func (r *ShowcaseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM idealab_projects WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete showcase project: %w", err)
	}
	return nil
}
