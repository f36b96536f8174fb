package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckResult struct {
	Name    string                 `json:"name"`
	Passed  bool                   `json:"passed"`
	Details map[string]interface{} `json:"details"`
	Error   string                 `json:"error,omitempty"`
}

type ValidationReport struct {
	UserId          uuid.UUID     `json:"user_id"`
	UserName        string        `json:"user_name"`
	Checks          []CheckResult `json:"checks"`
	PassedChecks    int           `json:"passed_checks"`
	TotalChecks     int           `json:"total_checks"`
	Score           float64       `json:"score"`
	Recommendations []string      `json:"recommendations"`
	ValidatedAt     time.Time     `json:"validated_at"`
}

type UserValidationSummary struct {
	UserId   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	Score    float64   `json:"score"`
	Passed   bool      `json:"passed"`
}

type SystemValidationReport struct {
	TotalUsers        int                     `json:"total_users"`
	PassedUsers       int                     `json:"passed_users"`
	FailedUsers       int                     `json:"failed_users"`
	SystemHealthScore float64                 `json:"system_health_score"`
	Users             []UserValidationSummary `json:"users"`
	ValidatedAt       time.Time               `json:"validated_at"`
}

type BulkUpdateStatusRequest struct {
	Ids    []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
	Status string      `json:"status" validate:"required,oneof=approved rejected"`
}

type BulkUpdateStatusResponse struct {
	Status    string `json:"status"`
	Requested int    `json:"requested"`
	Updated   int64  `json:"updated"`
	Skipped   int64  `json:"skipped"` // already approved/rejected or missing
}
