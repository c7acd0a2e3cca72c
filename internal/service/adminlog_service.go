package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/idealab-pce/idealab-api/internal/models"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/export"
)

type adminLogRepository interface {
	Create(ctx context.Context, log *models.AdminLog) error
	List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error)
}

// AdminLogService is the audit trail emitter and query surface. Emission is
// best-effort: a failed append must never abort the business operation that
// triggered it.
type AdminLogService struct {
	repo     adminLogRepository
	exporter *export.CSVExporter
	logger   *zap.Logger
}

// NewAdminLogService constructs an AdminLogService.
func NewAdminLogService(repo adminLogRepository, logger *zap.Logger) *AdminLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminLogService{repo: repo, exporter: export.NewCSVExporter(), logger: logger}
}

// Emit appends one audit record. Failures are swallowed and surfaced only on
// the local log, per the best-effort contract.
func (s *AdminLogService) Emit(ctx context.Context, category models.AdminLogCategory, message string, metadata map[string]interface{}) {
	if !category.Valid() {
		category = models.LogOther
	}

	var payload []byte
	if metadata != nil {
		payload, _ = json.Marshal(metadata)
	}

	if err := s.repo.Create(ctx, &models.AdminLog{
		Category: category,
		Message:  message,
		Metadata: payload,
	}); err != nil {
		s.logger.Warn("failed to append admin log",
			zap.String("category", string(category)),
			zap.String("message", message),
			zap.Error(err),
		)
	}
}

// List returns the most recent records matching the filter.
func (s *AdminLogService) List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error) {
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admin logs")
	}
	return logs, nil
}

// ExportCSV renders the filtered log as CSV for admin download.
func (s *AdminLogService) ExportCSV(ctx context.Context, filter models.AdminLogFilter) ([]byte, error) {
	logs, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"time", "category", "message", "metadata"},
		Rows:    make([]map[string]string, 0, len(logs)),
	}
	for _, log := range logs {
		data.Rows = append(data.Rows, map[string]string{
			"time":     log.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			"category": string(log.Category),
			"message":  log.Message,
			"metadata": string(log.Metadata),
		})
	}

	out, err := s.exporter.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export admin logs")
	}
	return out, nil
}
