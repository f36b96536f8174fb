package serverutils

import "time"

type Metadata struct {
	ExecutionTimeMs float64     `json:"execution_time_ms"`
	GeneratedAt     time.Time   `json:"generated_at"`
	CacheKey        string      `json:"cache_key,omitempty"`
	CacheHit        bool        `json:"cache_hit"`
	Pagination      *Pagination `json:"pagination,omitempty"`
}

// BaseResponse is the envelope of every API response.
type BaseResponse[T any] struct {
	Success  bool        `json:"success"`
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     T           `json:"data"`
	Summary  interface{} `json:"summary,omitempty"`
	Metadata *Metadata   `json:"metadata,omitempty"`
	Error    string      `json:"error,omitempty"`
	Details  interface{} `json:"details,omitempty"`
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *BaseResponse[any] {
	return &BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
		Error:   message,
	}
}

func (r *BaseResponse[T]) WithMetadata(meta Metadata) *BaseResponse[T] {
	r.Metadata = &meta
	return r
}

func (r *BaseResponse[T]) WithSummary(summary interface{}) *BaseResponse[T] {
	r.Summary = summary
	return r
}

func (r *BaseResponse[T]) WithDetails(details interface{}) *BaseResponse[T] {
	r.Details = details
	return r
}

// NewMetadata stamps the time spent since started.
func NewMetadata(started time.Time) Metadata {
	return Metadata{
		ExecutionTimeMs: float64(time.Since(started).Microseconds()) / 1000,
		GeneratedAt:     time.Now(),
	}
}
