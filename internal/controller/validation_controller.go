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

type IValidationController interface {
	RegisterRoutes(r fiber.Router)
	ValidateUser(ctx *fiber.Ctx) error
	ValidateSystem(ctx *fiber.Ctx) error
	BulkUpdateStatus(ctx *fiber.Ctx) error
}

type validationController struct {
	service service.IJaspelValidationService
	guard   *service.Guard
}

func NewValidationController(service service.IJaspelValidationService, guard *service.Guard) IValidationController {
	return &validationController{
		service: service,
		guard:   guard,
	}
}

func (c *validationController) RegisterRoutes(r fiber.Router) {
	readers := serverutils.RequireRoles(reportReaders...)

	r.Get("/users/:id/validation", readers, c.ValidateUser)
	r.Get("/validation/system", readers, c.ValidateSystem)
	r.Put("/entries/status", serverutils.RequireRoles(constant.RoleBendahara.String()), c.BulkUpdateStatus)
}

// ValidateUser runs the cross-validation battery for one staff member.
// @Summary Validate one user's jaspel data
// @Tags Validation
// @Security BearerAuth
// @Produce json
// @Router /api/jaspel/v1/users/{id}/validation [get]
func (c *validationController) ValidateUser(ctx *fiber.Ctx) error {
	started := time.Now()

	userId, err := parseUserIdParam(ctx)
	if err != nil {
		return err
	}

	report, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation:  constant.OpValidateUser,
		Class:      config.ClassSummary,
		ClientKey:  serverutils.ClientKey(ctx),
		Identifier: userId.String(),
		UserId:     userId.String(),
	}, func(callCtx context.Context) (*dto.ValidationReport, error) {
		return c.service.ValidateUser(callCtx, userId)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(guardedResponse(ctx, "Hasil validasi pengguna", report, meta, started))
}

func (c *validationController) ValidateSystem(ctx *fiber.Ctx) error {
	started := time.Now()

	report, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation: constant.OpValidateSystem,
		Class:     config.ClassReport,
		ClientKey: serverutils.ClientKey(ctx),
	}, func(callCtx context.Context) (*dto.SystemValidationReport, error) {
		return c.service.ValidateSystem(callCtx)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(guardedResponse(ctx, "Hasil validasi sistem", report, meta, started))
}

// BulkUpdateStatus approves or rejects pending entries. Not cached.
func (c *validationController) BulkUpdateStatus(ctx *fiber.Ctx) error {
	started := time.Now()

	actorId, ok := serverutils.CurrentUserId(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Token tidak valid"))
	}

	var req dto.BulkUpdateStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Body permintaan tidak valid"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation: constant.OpBulkUpdateStatus,
		Class:     config.ClassSummary,
		ClientKey: serverutils.ClientKey(ctx),
		NoCache:   true,
	}, func(callCtx context.Context) (*dto.BulkUpdateStatusResponse, error) {
		return c.service.BulkUpdateStatus(callCtx, actorId, serverutils.CurrentRole(ctx), &req)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(guardedResponse(ctx, "Status jaspel diperbarui", res, meta, started))
}
