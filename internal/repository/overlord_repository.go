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

// OverlordRepository manages the sign-in allowlist for external identities.
type OverlordRepository struct {
	db *sqlx.DB
}

// NewOverlordRepository creates a new instance of OverlordRepository.
func NewOverlordRepository(db *sqlx.DB) *OverlordRepository {
	return &OverlordRepository{db: db}
}

// FindByEmail returns the allowlist entry for an email address.
func (r *OverlordRepository) FindByEmail(ctx context.Context, email string) (*models.Overlord, error) {
	const query = `SELECT id, name, email, created_at FROM overlords WHERE email = $1 LIMIT 1`
	var overlord models.Overlord
	if err := r.db.GetContext(ctx, &overlord, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find overlord by email: %w", err)
	}
	return &overlord, nil
}

// List returns all allowlist entries, newest first.
func (r *OverlordRepository) List(ctx context.Context) ([]models.Overlord, error) {
	const query = `SELECT id, name, email, created_at FROM overlords ORDER BY created_at DESC`
	var overlords []models.Overlord
	if err := r.db.SelectContext(ctx, &overlords, query); err != nil {
		return nil, fmt.Errorf("list overlords: %w", err)
	}
	return overlords, nil
}

// Create inserts a new allowlist entry.
func (r *OverlordRepository) Create(ctx context.Context, overlord *models.Overlord) error {
	if overlord.ID == "" {
		overlord.ID = uuid.NewString()
	}
	if overlord.CreatedAt.IsZero() {
		overlord.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO overlords (id, name, email, created_at) VALUES (:id, :name, :email, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, overlord); err != nil {
		return fmt.Errorf("create overlord: %w", err)
	}
	return nil
}

// Delete removes an allowlist entry. Users already created from it stay.
func (r *OverlordRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM overlords WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete overlord: %w", err)
	}
	return nil
}
