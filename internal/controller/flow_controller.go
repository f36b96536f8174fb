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

type IFlowController interface {
	RegisterRoutes(r fiber.Router)
	AnalyzeDataFlow(ctx *fiber.Ctx) error
	SeedFlowSample(ctx *fiber.Ctx) error
}

type flowController struct {
	service service.IFlowComplianceService
	guard   *service.Guard
}

func NewFlowController(service service.IFlowComplianceService, guard *service.Guard) IFlowController {
	return &flowController{
		service: service,
		guard:   guard,
	}
}

func (c *flowController) RegisterRoutes(r fiber.Router) {
	r.Get("/flow/analysis", serverutils.RequireRoles(reportReaders...), c.AnalyzeDataFlow)
	r.Post("/flow/seed", serverutils.RequireRoles(constant.RoleAdmin.String()), c.SeedFlowSample)
}

func (c *flowController) AnalyzeDataFlow(ctx *fiber.Ctx) error {
	started := time.Now()

	analysis, meta, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation: constant.OpAnalyzeFlow,
		Class:     config.ClassReport,
		ClientKey: serverutils.ClientKey(ctx),
	}, func(callCtx context.Context) (*dto.FlowAnalysis, error) {
		return c.service.AnalyzeDataFlow(callCtx)
	})
	if err != nil {
		return err
	}

	return ctx.JSON(guardedResponse(ctx, "Analisis alur data", analysis, meta, started))
}

func (c *flowController) SeedFlowSample(ctx *fiber.Ctx) error {
	var req dto.SeedFlowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Body permintaan tidak valid"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, _, err := service.Guarded(ctx.UserContext(), c.guard, service.GuardedCall{
		Operation: constant.OpSeedFlow,
		ClientKey: serverutils.ClientKey(ctx),
		NoCache:   true,
	}, func(callCtx context.Context) (*dto.SeedFlowResponse, error) {
		return c.service.SeedFlowSample(callCtx, req.OriginatorId)
	})
	if err != nil {
		return err
	}
	c.guard.InvalidatePrefixes(ctx.UserContext(), constant.CachePrefixFlow)

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Data sampel alur dibuat", res))
}
