package dto

import "time"

const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

type HealthProbe struct {
	Ok        bool    `json:"ok"`
	LatencyMs float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

type HealthReport struct {
	Status    string                 `json:"status"`
	Checks    map[string]HealthProbe `json:"checks"`
	TotalMs   float64                `json:"total_ms"`
	CheckedAt time.Time              `json:"checked_at"`
}

type UsageStatsResponse struct {
	Hours []UsageHour `json:"hours"`
}

type UsageHour struct {
	Hour        string  `json:"hour"`
	Requests    int64   `json:"requests"`
	Successes   int64   `json:"successes"`
	Errors      int64   `json:"errors"`
	SuccessRate float64 `json:"success_rate"`
}

type CacheFlushResponse struct {
	Prefix  string `json:"prefix"`
	Removed int    `json:"removed"`
}
