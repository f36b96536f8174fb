package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"jaspel-be/internal/pkg/apperror"
	"jaspel-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"fiber", fiber.NewError(fiber.StatusBadRequest, "format id tidak valid"), 400},
		{"rate limited", &apperror.RateLimited{Limit: 10, RetryAfter: 1500 * time.Millisecond}, 429},
		{"not found", &apperror.NotFound{Resource: "user", Id: "x"}, 404},
		{"not validator", apperror.ErrNotValidator, 403},
		{"seeding", apperror.ErrSeedingDisabled, 403},
		{"invalid role", fmt.Errorf("%w: perawat", apperror.ErrInvalidRole), 400},
		{"invalid status", apperror.ErrInvalidStatus, 400},
		{"empty", apperror.ErrEmptySelection, 400},
		{"aggregation", apperror.NewAggregationFailure("report", nil, errors.New("db")), 500},
		{"check", &apperror.ValidationCheckFailure{Check: "x", Err: errors.New("boom")}, 500},
		{"unknown", errors.New("???"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, message := MapError(tc.err)
			assert.Equal(t, tc.code, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestMapError_RetryableMessage(t *testing.T) {
	_, plain := MapError(apperror.NewAggregationFailure("report", nil, errors.New("db")))
	_, retry := MapError(apperror.NewAggregationFailure("report", nil, &apperror.TransientStoreFailure{Attempt: 3, Err: errors.New("db")}))

	assert.NotEqual(t, plain, retry)
	assert.Contains(t, retry, "coba lagi")
}

func TestPaginate(t *testing.T) {
	items := make([]int, 120)
	for i := range items {
		items[i] = i
	}

	page, meta := Paginate(items, 3, 50)
	assert.Equal(t, []int{100, 101}, page[:2])
	assert.Equal(t, 20, meta.Count)
	assert.Equal(t, 3, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	page, meta = Paginate(items, 0, 0)
	assert.Len(t, page, DefaultPerPage)
	assert.Equal(t, DefaultPage, meta.Page)
	assert.True(t, meta.HasNext)

	_, meta = Paginate(items, 1, 1000)
	assert.Equal(t, MaxPerPage, meta.PerPage)
	assert.Equal(t, 120, meta.Count)

	page, meta = Paginate(items, 9, 50)
	assert.Empty(t, page)
	assert.Equal(t, 0, meta.Count)

	_, meta = Paginate([]int{}, 1, 10)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(false, logger.NewNopLogger()))
	app.Get("/limited", func(ctx *fiber.Ctx) error {
		return &apperror.RateLimited{Endpoint: "report", Limit: 10, RetryAfter: 2200 * time.Millisecond}
	})
	app.Get("/broken", func(ctx *fiber.Ctx) error {
		return apperror.NewAggregationFailure("report", map[string]interface{}{"role": "dokter"}, errors.New("pq: relation missing"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
	assert.Equal(t, "3", resp.Header.Get("Retry-After"))
	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])

	resp, err = app.Test(httptest.NewRequest("GET", "/broken", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	body = decodeBody(t, resp.Body)
	assert.NotContains(t, body, "details")
	assert.NotContains(t, fmt.Sprint(body), "pq:")
}

func TestErrorHandlerMiddleware_Debug(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(true, logger.NewNopLogger()))
	app.Get("/broken", func(ctx *fiber.Ctx) error {
		return apperror.NewAggregationFailure("report", map[string]interface{}{"role": "dokter"}, errors.New("pq: relation missing"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/broken", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp.Body)
	details := body["details"].(map[string]interface{})
	assert.Equal(t, "report", details["operation"])
	assert.Equal(t, false, details["retryable"])
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "rahasia")
	userId := uuid.New()

	app := fiber.New()
	app.Use(JwtMiddleware)
	app.Get("/me", RequireRoles("bendahara"), func(ctx *fiber.Ctx) error {
		id, ok := CurrentUserId(ctx)
		require.True(t, ok)
		return ctx.SendString(id.String() + "|" + ClientKey(ctx))
	})

	request := func(token string) int {
		req := httptest.NewRequest("GET", "/me", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, 401, request(""))
	assert.Equal(t, 401, request("bukan-token"))
	assert.Equal(t, 401, request(signToken(t, "salah", jwt.MapClaims{"user_id": userId.String(), "role": "bendahara"})))
	assert.Equal(t, 401, request(signToken(t, "rahasia", jwt.MapClaims{"user_id": "abc", "role": "bendahara"})))
	assert.Equal(t, 403, request(signToken(t, "rahasia", jwt.MapClaims{"user_id": userId.String(), "role": "petugas"})))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "rahasia", jwt.MapClaims{"user_id": userId.String(), "role": "bendahara"}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, userId.String()+"|user:"+userId.String(), string(raw))
}
