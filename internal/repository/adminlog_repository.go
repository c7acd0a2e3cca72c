package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/idealab-pce/idealab-api/internal/models"
)

// AdminLogRepository appends and queries the audit trail. The table itself is
// the sequencing authority: a uuid plus the insert timestamp, no in-memory
// coordination state.
type AdminLogRepository struct {
	db *sqlx.DB
}

// NewAdminLogRepository creates a new instance of AdminLogRepository.
func NewAdminLogRepository(db *sqlx.DB) *AdminLogRepository {
	return &AdminLogRepository{db: db}
}

// Create appends one audit record.
func (r *AdminLogRepository) Create(ctx context.Context, log *models.AdminLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO admin_logs (id, category, message, metadata, created_at)
		VALUES (:id, :category, :message, :metadata, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create admin log: %w", err)
	}
	return nil
}

// List returns the most recent records matching the filter, newest first.
func (r *AdminLogRepository) List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error) {
	query := `SELECT id, category, message, metadata, created_at FROM admin_logs WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, *filter.Category)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(message) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Window != nil {
		since := windowStart(*filter.Window, time.Now().UTC())
		if !since.IsZero() {
			conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
			args = append(args, since)
		}
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	var logs []models.AdminLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list admin logs: %w", err)
	}
	return logs, nil
}

func windowStart(window models.AdminLogWindow, now time.Time) time.Time {
	switch window {
	case models.WindowToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case models.Window7Days:
		return now.AddDate(0, 0, -7)
	case models.Window30Days:
		return now.AddDate(0, 0, -30)
	}
	return time.Time{}
}
