package apperror

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrSeedingDisabled = errors.New("flow sample seeding is disabled")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidStatus   = errors.New("invalid target status")
	ErrNotValidator    = errors.New("actor is not allowed to validate entries")
	ErrEmptySelection  = errors.New("no entry ids given")
)

// AggregationFailure wraps a store or query error together with the filter
// parameters of the failing call.
type AggregationFailure struct {
	Operation string
	Filters   map[string]interface{}
	Retryable bool
	Err       error
}

func (e *AggregationFailure) Error() string {
	return fmt.Sprintf("aggregation %s failed: %v", e.Operation, e.Err)
}

func (e *AggregationFailure) Unwrap() error {
	return e.Err
}

// NewAggregationFailure marks the failure retryable when err is transient or
// a deadline.
func NewAggregationFailure(operation string, filters map[string]interface{}, err error) *AggregationFailure {
	var transient *TransientStoreFailure
	retryable := errors.As(err, &transient) || errors.Is(err, context.DeadlineExceeded)
	return &AggregationFailure{
		Operation: operation,
		Filters:   filters,
		Retryable: retryable,
		Err:       err,
	}
}

// ValidationCheckFailure is one check of the battery failing mid-run. It is
// recorded on the check result and never aborts the battery.
type ValidationCheckFailure struct {
	Check string
	Err   error
}

func (e *ValidationCheckFailure) Error() string {
	return fmt.Sprintf("validation check %s failed: %v", e.Check, e.Err)
}

func (e *ValidationCheckFailure) Unwrap() error {
	return e.Err
}

type RateLimited struct {
	Endpoint   string
	ClientKey  string
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimited) Error() string {
	return fmt.Sprintf("rate limit of %d exceeded for %s (%s), retry after %s", e.Limit, e.Endpoint, e.ClientKey, e.RetryAfter)
}

type NotFound struct {
	Resource string
	Id       string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Id)
}

// TransientStoreFailure is a transactional error worth retrying.
type TransientStoreFailure struct {
	Attempt int
	Err     error
}

func (e *TransientStoreFailure) Error() string {
	return fmt.Sprintf("transient store failure (attempt %d): %v", e.Attempt, e.Err)
}

func (e *TransientStoreFailure) Unwrap() error {
	return e.Err
}
