package controller

import (
	"jaspel-be/internal/dto"
	"jaspel-be/internal/pkg/serverutils"
	"jaspel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	service service.IHealthService
}

func NewHealthController(service service.IHealthService) IHealthController {
	return &healthController{service: service}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	report := c.service.Check(ctx.UserContext())

	status := fiber.StatusOK
	if report.Status == dto.HealthUnhealthy {
		status = fiber.StatusServiceUnavailable
	}
	resp := serverutils.SuccessResponse("Status layanan jaspel", report)
	resp.Success = report.Status != dto.HealthUnhealthy
	resp.Code = status
	return ctx.Status(status).JSON(resp)
}
