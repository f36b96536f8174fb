package service

import (
	"context"
	"time"

	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/pkg/events"

	"github.com/google/uuid"
)

// Estimated rendered size of one report row, in bytes.
var exportRowBytes = map[string]int64{
	"csv":   150,
	"excel": 200,
	"pdf":   300,
}

// EstimateExportSize returns the expected file size for rows rows.
func EstimateExportSize(format string, rows int) int64 {
	return exportRowBytes[format] * int64(rows)
}

type IExportService interface {
	BuildExport(ctx context.Context, requestedBy string, req *dto.ExportRequest) (*dto.ExportPayload, error)
}

type exportService struct {
	aggregation IJaspelAggregationService
	publisher   IPublisherService
	logger      logger.ILogger
	now         func() time.Time
}

func NewExportService(
	aggregation IJaspelAggregationService,
	publisher IPublisherService,
	logger logger.ILogger,
) IExportService {
	return &exportService{
		aggregation: aggregation,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// BuildExport collects the report rows and announces the export so a
// renderer can produce the file. Rendering itself happens elsewhere.
func (s *exportService) BuildExport(ctx context.Context, requestedBy string, req *dto.ExportRequest) (*dto.ExportPayload, error) {
	filters, err := dto.ParseJaspelFilters(req.DateFrom, req.DateTo, req.Search)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = constant.RoleAll.String()
	}

	rows, err := s.aggregation.AggregateByRole(ctx, role, filters)
	if err != nil {
		return nil, err
	}

	payload := &dto.ExportPayload{
		Reference:      uuid.New(),
		Format:         req.Format,
		Role:           role,
		Rows:           rows,
		RowCount:       len(rows),
		EstimatedBytes: EstimateExportSize(req.Format, len(rows)),
		GeneratedAt:    s.now(),
	}

	if s.publisher != nil {
		evt := events.NewEvent(constant.TopicJaspelExport, map[string]interface{}{
			"reference":    payload.Reference.String(),
			"format":       payload.Format,
			"role":         payload.Role,
			"row_count":    payload.RowCount,
			"requested_by": requestedBy,
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Error(constant.ModuleEvents, "Failed to publish export event", map[string]interface{}{
				"reference": payload.Reference.String(),
				"error":     err.Error(),
			})
		}
	}

	s.logger.Info(constant.ModuleExport, "Export payload built", map[string]interface{}{
		"reference":       payload.Reference.String(),
		"format":          payload.Format,
		"rows":            payload.RowCount,
		"estimated_bytes": payload.EstimatedBytes,
	})

	return payload, nil
}
