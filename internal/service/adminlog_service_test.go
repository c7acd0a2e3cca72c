package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idealab-pce/idealab-api/internal/models"
)

type mockAdminLogRepo struct {
	created   []*models.AdminLog
	createErr error
	listLogs  []models.AdminLog
	listErr   error
}

func (m *mockAdminLogRepo) Create(ctx context.Context, log *models.AdminLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, log)
	return nil
}

func (m *mockAdminLogRepo) List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listLogs, nil
}

func TestAdminLogEmit(t *testing.T) {
	repo := &mockAdminLogRepo{}
	svc := NewAdminLogService(repo, zap.NewNop())

	svc.Emit(context.Background(), models.LogProjectCreation, "project created", map[string]interface{}{"project_id": "p1"})

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.LogProjectCreation, repo.created[0].Category)
	assert.Contains(t, string(repo.created[0].Metadata), "p1")
}

func TestAdminLogEmitUnknownCategoryFallsBackToOther(t *testing.T) {
	repo := &mockAdminLogRepo{}
	svc := NewAdminLogService(repo, zap.NewNop())

	svc.Emit(context.Background(), models.AdminLogCategory("BOGUS"), "something", nil)

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.LogOther, repo.created[0].Category)
}

func TestAdminLogEmitSwallowsRepositoryErrors(t *testing.T) {
	repo := &mockAdminLogRepo{createErr: errors.New("db down")}
	svc := NewAdminLogService(repo, zap.NewNop())

	// Must not panic or surface the failure.
	svc.Emit(context.Background(), models.LogSystem, "maintenance toggled", nil)
	assert.Empty(t, repo.created)
}

func TestAdminLogExportCSV(t *testing.T) {
	repo := &mockAdminLogRepo{listLogs: []models.AdminLog{
		{ID: "1", Category: models.LogUserManagement, Message: "user deleted: bob@poornima.org"},
	}}
	svc := NewAdminLogService(repo, zap.NewNop())

	out, err := svc.ExportCSV(context.Background(), models.AdminLogFilter{})
	require.NoError(t, err)

	content := string(out)
	assert.True(t, strings.HasPrefix(content, "time,category,message,metadata"))
	assert.Contains(t, content, "USER_MANAGEMENT")
	assert.Contains(t, content, "bob@poornima.org")
}

func TestAdminLogListWrapsErrors(t *testing.T) {
	repo := &mockAdminLogRepo{listErr: errors.New("db down")}
	svc := NewAdminLogService(repo, zap.NewNop())

	_, err := svc.List(context.Background(), models.AdminLogFilter{})
	require.Error(t, err)
}
