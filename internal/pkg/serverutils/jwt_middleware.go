package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserId   = "user_id"
	LocalUserRole = "role"
)

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Token tidak ditemukan"))
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Token tidak valid"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Klaim token tidak valid"))
	}

	userId, _ := claims["user_id"].(string)
	if _, err := uuid.Parse(userId); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Klaim token tidak valid"))
	}
	role, _ := claims["role"].(string)

	ctx.Locals(LocalUserId, userId)
	ctx.Locals(LocalUserRole, role)
	return ctx.Next()
}

// RequireRoles rejects callers whose role claim is not in roles. It must run
// after JwtMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(ctx *fiber.Ctx) error {
		if !allowed[CurrentRole(ctx)] {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(403, "Akses ditolak untuk peran ini"))
		}
		return ctx.Next()
	}
}

func CurrentUserId(ctx *fiber.Ctx) (uuid.UUID, bool) {
	raw, _ := ctx.Locals(LocalUserId).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func CurrentRole(ctx *fiber.Ctx) string {
	role, _ := ctx.Locals(LocalUserRole).(string)
	return role
}

// ClientKey identifies the caller for rate limiting and usage tracking.
func ClientKey(ctx *fiber.Ctx) string {
	if id, ok := CurrentUserId(ctx); ok {
		return "user:" + id.String()
	}
	return "ip:" + ctx.IP()
}
