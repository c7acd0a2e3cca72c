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

// AchievementRepository provides database access for achievements.
type AchievementRepository struct {
	db *sqlx.DB
}

// NewAchievementRepository creates a new instance of AchievementRepository.
func NewAchievementRepository(db *sqlx.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

const achievementColumns = `id, title, description, type, image_key, user_id, created_at`

// Create inserts a new achievement.
func (r *AchievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	if achievement.ID == "" {
		achievement.ID = uuid.NewString()
	}
	if achievement.CreatedAt.IsZero() {
		achievement.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO achievements (id, title, description, type, image_key, user_id, created_at)
		VALUES (:id, :title, :description, :type, :image_key, :user_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, achievement); err != nil {
		return fmt.Errorf("create achievement: %w", err)
	}
	return nil
}

// FindByID returns an achievement by identifier.
func (r *AchievementRepository) FindByID(ctx context.Context, id string) (*models.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements WHERE id = $1 LIMIT 1`
	var achievement models.Achievement
	if err := r.db.GetContext(ctx, &achievement, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find achievement by id: %w", err)
	}
	return &achievement, nil
}

// List returns achievements, optionally narrowed by type, newest first.
func (r *AchievementRepository) List(ctx context.Context, achievementType *models.AchievementType) ([]models.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements`
	var args []interface{}
	if achievementType != nil {
		query += ` WHERE type = $1`
		args = append(args, *achievementType)
	}
	query += ` ORDER BY created_at DESC`

	var achievements []models.Achievement
	if err := r.db.SelectContext(ctx, &achievements, query, args...); err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return achievements, nil
}

// Delete removes an achievement row.
func (r *AchievementRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM achievements WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete achievement: %w", err)
	}
	return nil
}
