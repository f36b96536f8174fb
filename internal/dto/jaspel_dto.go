package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// JaspelReportQuery is bound from the query string of the report endpoints.
type JaspelReportQuery struct {
	Role     string `query:"role" validate:"omitempty,max=32"`
	DateFrom string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Search   string `query:"search" validate:"omitempty,max=100"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PerPage  int    `query:"per_page" validate:"omitempty,min=1,max=200"`
}

// JaspelFilters narrows an aggregation. DateTo is inclusive.
type JaspelFilters struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
}

// ParseJaspelFilters reads the YYYY-MM-DD bounds as UTC dates.
func ParseJaspelFilters(dateFrom, dateTo, search string) (JaspelFilters, error) {
	f := JaspelFilters{Search: strings.TrimSpace(search)}
	if dateFrom != "" {
		t, err := time.Parse(DateLayout, dateFrom)
		if err != nil {
			return f, fmt.Errorf("invalid date_from: %w", err)
		}
		f.DateFrom = &t
	}
	if dateTo != "" {
		t, err := time.Parse(DateLayout, dateTo)
		if err != nil {
			return f, fmt.Errorf("invalid date_to: %w", err)
		}
		f.DateTo = &t
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, fmt.Errorf("date_to %s is before date_from %s", dateTo, dateFrom)
	}
	return f, nil
}

// CacheMap is the filter set as it enters the cache key.
func (f JaspelFilters) CacheMap() map[string]string {
	m := map[string]string{"search": f.Search}
	if f.DateFrom != nil {
		m["date_from"] = f.DateFrom.Format(DateLayout)
	}
	if f.DateTo != nil {
		m["date_to"] = f.DateTo.Format(DateLayout)
	}
	return m
}

// LogMap is the filter set as carried by errors and log lines.
func (f JaspelFilters) LogMap() map[string]interface{} {
	m := make(map[string]interface{}, 3)
	for k, v := range f.CacheMap() {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

type JaspelUserAggregate struct {
	UserId          uuid.UUID  `json:"user_id"`
	UserName        string     `json:"user_name"`
	RoleName        string     `json:"role_name"`
	Total           float64    `json:"total"`
	Count           int64      `json:"count"`
	Average         float64    `json:"average"`
	FirstValidation *time.Time `json:"first_validation,omitempty"`
	LastValidation  *time.Time `json:"last_validation,omitempty"`
	OverrideApplied bool       `json:"override_applied"`
}

type JenisBreakdown struct {
	Jenis string  `json:"jenis"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type JaspelUserSummary struct {
	UserId          uuid.UUID        `json:"user_id"`
	UserName        string           `json:"user_name"`
	RoleName        string           `json:"role_name"`
	Total           float64          `json:"total"`
	Count           int64            `json:"count"`
	Average         float64          `json:"average"`
	FirstValidation *time.Time       `json:"first_validation,omitempty"`
	LastValidation  *time.Time       `json:"last_validation,omitempty"`
	Breakdown       []JenisBreakdown `json:"breakdown"`
	OverrideApplied bool             `json:"override_applied"`
	ComputedTotal   *float64         `json:"computed_total,omitempty"` // set when an override replaced Total
	OverrideReason  string           `json:"override_reason,omitempty"`
}

type RoleStatistic struct {
	RoleName    string  `json:"role_name"`
	DisplayName string  `json:"display_name"`
	Total       float64 `json:"total"`
	Count       int64   `json:"count"`
	UserCount   int64   `json:"user_count"`
	Average     float64 `json:"average"`
}

type MethodComparison struct {
	UserId        uuid.UUID          `json:"user_id"`
	Methods       map[string]float64 `json:"methods"`
	MaxDifference float64            `json:"max_difference"`
	Agreement     bool               `json:"agreement"`
	Tolerance     float64            `json:"tolerance"`
}

// JaspelReportSummary is returned next to a report page.
type JaspelReportSummary struct {
	Role           string  `json:"role"`
	TotalUsers     int     `json:"total_users"`
	TotalEntries   int64   `json:"total_entries"`
	TotalAmount    float64 `json:"total_amount"`
	AveragePerUser float64 `json:"average_per_user"`
}

type CreateOverrideRequest struct {
	UserId     uuid.UUID `json:"user_id" validate:"required"`
	FixedTotal float64   `json:"fixed_total" validate:"gte=0"`
	Reason     string    `json:"reason" validate:"required,min=5,max=500"`
}

type OverrideResponse struct {
	Id         uuid.UUID  `json:"id"`
	UserId     uuid.UUID  `json:"user_id"`
	FixedTotal float64    `json:"fixed_total"`
	Reason     string     `json:"reason"`
	IsActive   bool       `json:"is_active"`
	CreatedBy  *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
