package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idealab-pce/idealab-api/internal/models"
)

func TestAdminLogCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminLogRepository(db)

	mock.ExpectExec("INSERT INTO admin_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.AdminLog{Category: models.LogProjectCreation, Message: "project created"}
	err := repo.Create(context.Background(), log)
	require.NoError(t, err)
	assert.NotEmpty(t, log.ID)
	assert.False(t, log.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminLogListWithFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminLogRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "category", "message", "metadata", "created_at"}).
		AddRow("l1", string(models.LogOther), "role change", []byte(`{}`), now)

	mock.ExpectQuery("SELECT id, category, message, metadata, created_at FROM admin_logs WHERE 1=1 AND category = \\$1 AND LOWER\\(message\\) LIKE \\$2 AND created_at >= \\$3 ORDER BY created_at DESC LIMIT 50").
		WithArgs(models.LogOther, "%role%", sqlmock.AnyArg()).
		WillReturnRows(rows)

	category := models.LogOther
	window := models.Window7Days
	logs, err := repo.List(context.Background(), models.AdminLogFilter{
		Search:   "role",
		Category: &category,
		Window:   &window,
		Limit:    50,
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogOther, logs[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	today := windowStart(models.WindowToday, now)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), today)

	week := windowStart(models.Window7Days, now)
	assert.Equal(t, now.AddDate(0, 0, -7), week)

	month := windowStart(models.Window30Days, now)
	assert.Equal(t, now.AddDate(0, 0, -30), month)

	unknown := windowStart(models.AdminLogWindow("bogus"), now)
	assert.True(t, unknown.IsZero())
}
