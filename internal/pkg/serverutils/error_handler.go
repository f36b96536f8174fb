package serverutils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"jaspel-be/internal/constant"
	"jaspel-be/internal/pkg/apperror"
	"jaspel-be/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into envelopes.
// Raw error text is only exposed when debug is on.
func ErrorHandlerMiddleware(debug bool, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := MapError(err)
		if rl := (*apperror.RateLimited)(nil); errors.As(err, &rl) {
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(rl)))
		}

		if code >= fiber.StatusInternalServerError {
			log.Error(constant.ModuleHTTP, "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  err.Error(),
			})
		}

		resp := ErrorResponse(code, message)
		if debug {
			resp.WithDetails(errorDetails(err))
		}
		return ctx.Status(code).JSON(resp)
	}
}

// MapError chooses the status code and the user facing message for err.
func MapError(err error) (int, string) {
	var (
		fiberErr     *fiber.Error
		rateLimited  *apperror.RateLimited
		notFound     *apperror.NotFound
		aggregation  *apperror.AggregationFailure
		checkFailure *apperror.ValidationCheckFailure
		invalid      validator.ValidationErrors
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest, "Data permintaan tidak valid: " + fieldList(invalid)
	case errors.As(err, &rateLimited):
		return fiber.StatusTooManyRequests, fmt.Sprintf("Terlalu banyak permintaan, coba lagi dalam %d detik", retryAfterSeconds(rateLimited))
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, fmt.Sprintf("Data %s tidak ditemukan", notFound.Resource)
	case errors.Is(err, apperror.ErrNotValidator):
		return fiber.StatusForbidden, "Hanya bendahara yang dapat memvalidasi data jaspel"
	case errors.Is(err, apperror.ErrSeedingDisabled):
		return fiber.StatusForbidden, "Pembuatan data sampel alur dinonaktifkan"
	case errors.Is(err, apperror.ErrInvalidRole):
		return fiber.StatusBadRequest, "Peran tidak dikenal"
	case errors.Is(err, apperror.ErrInvalidStatus):
		return fiber.StatusBadRequest, "Status tujuan harus approved atau rejected"
	case errors.Is(err, apperror.ErrEmptySelection):
		return fiber.StatusBadRequest, "Tidak ada data jaspel yang dipilih"
	case errors.As(err, &aggregation):
		if aggregation.Retryable {
			return fiber.StatusInternalServerError, "Gagal menghitung data jaspel, silakan coba lagi"
		}
		return fiber.StatusInternalServerError, "Gagal menghitung data jaspel"
	case errors.As(err, &checkFailure):
		return fiber.StatusInternalServerError, "Pemeriksaan validasi gagal dijalankan"
	default:
		return fiber.StatusInternalServerError, "Terjadi kesalahan pada server"
	}
}

func retryAfterSeconds(rl *apperror.RateLimited) int {
	secs := int(math.Ceil(rl.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func fieldList(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return strings.Join(fields, ", ")
}

func errorDetails(err error) map[string]interface{} {
	details := map[string]interface{}{"error": err.Error()}
	var aggregation *apperror.AggregationFailure
	if errors.As(err, &aggregation) {
		details["operation"] = aggregation.Operation
		details["filters"] = aggregation.Filters
		details["retryable"] = aggregation.Retryable
	}
	return details
}
