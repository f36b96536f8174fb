package controller

import (
	"strconv"
	"time"

	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/pkg/serverutils"
	"jaspel-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Roles allowed to read reports covering every staff member.
var reportReaders = []string{
	constant.RoleAdmin.String(),
	constant.RoleManajer.String(),
	constant.RoleBendahara.String(),
}

func guardedResponse[T any](ctx *fiber.Ctx, message string, data T, meta service.GuardMeta, started time.Time) *serverutils.BaseResponse[T] {
	setRateLimitHeaders(ctx, meta)
	md := serverutils.NewMetadata(started)
	md.CacheKey = meta.CacheKey
	md.CacheHit = meta.CacheHit
	return serverutils.SuccessResponse(message, data).WithMetadata(md)
}

func setRateLimitHeaders(ctx *fiber.Ctx, meta service.GuardMeta) {
	if meta.RateLimit.Limit <= 0 {
		return
	}
	ctx.Set("X-RateLimit-Limit", strconv.Itoa(meta.RateLimit.Limit))
	ctx.Set("X-RateLimit-Remaining", strconv.Itoa(meta.RateLimit.Remaining))
}

func parseUserIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID pengguna tidak valid")
	}
	return id, nil
}

// canViewUser lets report readers see anyone and other staff only themselves.
func canViewUser(ctx *fiber.Ctx, userId uuid.UUID) bool {
	role := serverutils.CurrentRole(ctx)
	for _, r := range reportReaders {
		if r == role {
			return true
		}
	}
	self, ok := serverutils.CurrentUserId(ctx)
	return ok && self == userId
}

func parseFilters(dateFrom, dateTo, search string) (dto.JaspelFilters, error) {
	filters, err := dto.ParseJaspelFilters(dateFrom, dateTo, search)
	if err != nil {
		return filters, fiber.NewError(fiber.StatusBadRequest, "Rentang tanggal tidak valid")
	}
	return filters, nil
}
