package controller

import (
	"context"
	"strings"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/pkg/serverutils"
	"jaspel-be/internal/service"
	"jaspel-be/pkg/usage"

	"github.com/gofiber/fiber/v2"
)

// IOperationsController serves exports and the operational endpoints
// around the cache and usage counters.
type IOperationsController interface {
	RegisterRoutes(r fiber.Router)
	Export(ctx *fiber.Ctx) error
	UsageStats(ctx *fiber.Ctx) error
	FlushCache(ctx *fiber.Ctx) error
}

type operationsController struct {
	export  service.IExportService
	guard   *service.Guard
	tracker *usage.Tracker
}

func NewOperationsController(export service.IExportService, guard *service.Guard, tracker *usage.Tracker) IOperationsController {
	return &operationsController{
		export:  export,
		guard:   guard,
		tracker: tracker,
	}
}

func (c *operationsController) RegisterRoutes(r fiber.Router) {
	admin := serverutils.RequireRoles(constant.RoleAdmin.String())

	r.Post("/export", serverutils.RequireRoles(reportReaders...), c.Export)
	r.Get("/usage/stats", serverutils.RequireRoles(constant.RoleAdmin.String(), constant.RoleManajer.String()), c.UsageStats)
	r.Delete("/cache", admin, c.FlushCache)
}

func (c *operationsController) Export(ctx *fiber.Ctx) error {
	started := time.Now()

	var req dto.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Body permintaan tidak valid"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	requestedBy := serverutils.ClientKey(ctx)
	payload, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation:  constant.OpExport,
		Class:      config.ClassExport,
		ClientKey:  requestedBy,
		Identifier: req.Format + "|" + req.Role,
		UserId:     requestedBy,
		Filters: map[string]string{
			"date_from": req.DateFrom,
			"date_to":   req.DateTo,
			"search":    req.Search,
		},
	}, func(callCtx context.Context) (*dto.ExportPayload, error) {
		return c.export.BuildExport(callCtx, requestedBy, &req)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(guardedResponse(ctx, "Data ekspor siap", payload, meta, started))
}

func (c *operationsController) UsageStats(ctx *fiber.Ctx) error {
	hours := ctx.QueryInt("hours", 24)
	if hours < 1 || hours > 48 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Parameter hours harus antara 1 dan 48"))
	}

	stats, _, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation: constant.OpUsageStats,
		ClientKey: serverutils.ClientKey(ctx),
		NoCache:   true,
	}, func(callCtx context.Context) ([]usage.HourlyStats, error) {
		return c.tracker.RecentStats(callCtx, hours)
	})
	if err != nil {
		return err
	}

	res := dto.UsageStatsResponse{Hours: make([]dto.UsageHour, len(stats))}
	for i, s := range stats {
		res.Hours[i] = dto.UsageHour{
			Hour:        s.Hour,
			Requests:    s.Requests,
			Successes:   s.Successes,
			Errors:      s.Errors,
			SuccessRate: s.SuccessRate,
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Statistik penggunaan API", res))
}

// FlushCache drops cached aggregates under one prefix, or all of them.
func (c *operationsController) FlushCache(ctx *fiber.Ctx) error {
	prefix := strings.TrimSpace(ctx.Query("prefix"))
	if prefix == "" {
		prefix = constant.CachePrefixRoot
	}
	if !strings.HasPrefix(prefix, constant.CachePrefixRoot) {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Prefix cache harus diawali "+constant.CachePrefixRoot))
	}

	removed, _, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation: constant.OpCacheFlush,
		ClientKey: serverutils.ClientKey(ctx),
		NoCache:   true,
	}, func(callCtx context.Context) (int, error) {
		return c.guard.InvalidatePrefixes(callCtx, prefix), nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cache dibersihkan", dto.CacheFlushResponse{
		Prefix:  prefix,
		Removed: removed,
	}))
}
