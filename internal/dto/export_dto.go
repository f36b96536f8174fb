package dto

import (
	"time"

	"github.com/google/uuid"
)

type ExportRequest struct {
	Format   string `json:"format" validate:"required,oneof=csv excel pdf"`
	Role     string `json:"role" validate:"omitempty,max=32"`
	DateFrom string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Search   string `json:"search" validate:"omitempty,max=100"`
}

type ExportPayload struct {
	Reference      uuid.UUID             `json:"reference"`
	Format         string                `json:"format"`
	Role           string                `json:"role"`
	Rows           []JaspelUserAggregate `json:"rows"`
	RowCount       int                   `json:"row_count"`
	EstimatedBytes int64                 `json:"estimated_bytes"`
	GeneratedAt    time.Time             `json:"generated_at"`
}
