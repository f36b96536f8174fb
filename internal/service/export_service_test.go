package service

import (
	"context"
	"testing"

	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateExportSize(t *testing.T) {
	assert.Equal(t, int64(1500), EstimateExportSize("csv", 10))
	assert.Equal(t, int64(2000), EstimateExportSize("excel", 10))
	assert.Equal(t, int64(3000), EstimateExportSize("pdf", 10))
	assert.Equal(t, int64(0), EstimateExportSize("pdf", 0))
	assert.Equal(t, int64(0), EstimateExportSize("docx", 10))
}

func TestBuildExport(t *testing.T) {
	store := newFakeStore()
	a := store.addUser("Ani", constant.RoleParamedis, true)
	b := store.addUser("Budi", constant.RoleDokter, true)
	store.addEntry(a.Id, 1000)
	store.addEntry(b.Id, 2000)
	publisher := &recordingPublisher{}
	svc := NewExportService(newTestAggregation(store, nil), publisher, logger.NewNopLogger())

	payload, err := svc.BuildExport(context.Background(), "user-7", &dto.ExportRequest{Format: "excel"})
	require.NoError(t, err)

	assert.Equal(t, "semua", payload.Role)
	assert.Equal(t, 2, payload.RowCount)
	assert.Equal(t, int64(400), payload.EstimatedBytes)
	assert.Equal(t, b.Id, payload.Rows[0].UserId)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, constant.TopicJaspelExport, publisher.events[0].Type)
	assert.Equal(t, payload.Reference.String(), publisher.events[0].Payload["reference"])
	assert.Equal(t, "user-7", publisher.events[0].Payload["requested_by"])
}

func TestBuildExport_BadInput(t *testing.T) {
	svc := NewExportService(newTestAggregation(newFakeStore(), nil), nil, logger.NewNopLogger())

	_, err := svc.BuildExport(context.Background(), "", &dto.ExportRequest{Format: "csv", DateFrom: "2024-03-10", DateTo: "2024-03-01"})
	assert.Error(t, err)

	_, err = svc.BuildExport(context.Background(), "", &dto.ExportRequest{Format: "csv", Role: "perawat"})
	assert.Error(t, err)
}
