package controller

import (
	"context"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/dto"
	"jaspel-be/internal/pkg/serverutils"
	"jaspel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IJaspelController interface {
	RegisterRoutes(r fiber.Router)
	GetReport(ctx *fiber.Ctx) error
	GetUserSummary(ctx *fiber.Ctx) error
	GetRoleStatistics(ctx *fiber.Ctx) error
	CompareMethods(ctx *fiber.Ctx) error
	CreateOverride(ctx *fiber.Ctx) error
}

type jaspelController struct {
	service service.IJaspelAggregationService
	guard   *service.Guard
}

func NewJaspelController(service service.IJaspelAggregationService, guard *service.Guard) IJaspelController {
	return &jaspelController{
		service: service,
		guard:   guard,
	}
}

func (c *jaspelController) RegisterRoutes(r fiber.Router) {
	readers := serverutils.RequireRoles(reportReaders...)

	r.Get("/reports", readers, c.GetReport)
	r.Get("/roles/statistics", readers, c.GetRoleStatistics)
	r.Get("/users/:id/summary", c.GetUserSummary)
	r.Get("/users/:id/compare", readers, c.CompareMethods)
	r.Post("/overrides", serverutils.RequireRoles(constant.RoleAdmin.String(), constant.RoleManajer.String()), c.CreateOverride)
}

// GetReport returns per-user approved totals for one role or all roles.
// @Summary Jaspel report by role
// @Tags Jaspel
// @Security BearerAuth
// @Produce json
// @Router /api/jaspel/v1/reports [get]
func (c *jaspelController) GetReport(ctx *fiber.Ctx) error {
	started := time.Now()

	var query dto.JaspelReportQuery
	if err := ctx.QueryParser(&query); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Parameter query tidak valid"))
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}
	filters, err := parseFilters(query.DateFrom, query.DateTo, query.Search)
	if err != nil {
		return err
	}
	role := query.Role
	if role == "" {
		role = constant.RoleAll.String()
	}

	rows, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation:  constant.OpAggregateByRole,
		Class:      config.ClassReport,
		ClientKey:  serverutils.ClientKey(ctx),
		Identifier: role,
		Filters:    filters.CacheMap(),
	}, func(callCtx context.Context) ([]dto.JaspelUserAggregate, error) {
		return c.service.AggregateByRole(callCtx, role, filters)
	})
	if err != nil {
		return err
	}

	page, pagination := serverutils.Paginate(rows, query.Page, query.PerPage)

	resp := guardedResponse(ctx, "Laporan jaspel", page, meta, started)
	resp.Metadata.Pagination = &pagination
	return ctx.JSON(resp.WithSummary(service.SummarizeReport(role, rows)))
}

func (c *jaspelController) GetUserSummary(ctx *fiber.Ctx) error {
	started := time.Now()

	userId, err := parseUserIdParam(ctx)
	if err != nil {
		return err
	}
	if !canViewUser(ctx, userId) {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Akses ditolak untuk data pengguna lain"))
	}
	filters, err := parseFilters(ctx.Query("date_from"), ctx.Query("date_to"), "")
	if err != nil {
		return err
	}

	summary, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation:  constant.OpSummaryForUser,
		Class:      config.ClassSummary,
		ClientKey:  serverutils.ClientKey(ctx),
		Identifier: userId.String(),
		Filters:    filters.CacheMap(),
		UserId:     userId.String(),
	}, func(callCtx context.Context) (*dto.JaspelUserSummary, error) {
		return c.service.SummaryForUser(callCtx, userId, filters)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(guardedResponse(ctx, "Ringkasan jaspel pengguna", summary, meta, started))
}

func (c *jaspelController) GetRoleStatistics(ctx *fiber.Ctx) error {
	started := time.Now()

	filters, err := parseFilters(ctx.Query("date_from"), ctx.Query("date_to"), "")
	if err != nil {
		return err
	}

	stats, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation: constant.OpRoleStatistics,
		Class:     config.ClassReport,
		ClientKey: serverutils.ClientKey(ctx),
		Filters:   filters.CacheMap(),
	}, func(callCtx context.Context) ([]dto.RoleStatistic, error) {
		return c.service.RoleStatistics(callCtx, filters)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(guardedResponse(ctx, "Statistik jaspel per peran", stats, meta, started))
}

// CompareMethods recomputes one user's total with every calculation strategy.
func (c *jaspelController) CompareMethods(ctx *fiber.Ctx) error {
	started := time.Now()

	userId, err := parseUserIdParam(ctx)
	if err != nil {
		return err
	}

	comparison, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation:  constant.OpCompareMethods,
		Class:      config.ClassSummary,
		ClientKey:  serverutils.ClientKey(ctx),
		Identifier: userId.String(),
		UserId:     userId.String(),
	}, func(callCtx context.Context) (*dto.MethodComparison, error) {
		return c.service.CompareCalculationMethods(callCtx, userId)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(guardedResponse(ctx, "Perbandingan metode perhitungan", comparison, meta, started))
}

func (c *jaspelController) CreateOverride(ctx *fiber.Ctx) error {
	actorId, ok := serverutils.CurrentUserId(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Token tidak valid"))
	}

	var req dto.CreateOverrideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Body permintaan tidak valid"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateOverride(ctx.UserContext(), actorId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Override jaspel disimpan", res))
}
