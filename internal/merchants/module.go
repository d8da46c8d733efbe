// Package merchants owns tenant provisioning and per-merchant pricing rules.
package merchants

import (
	apphttp "moveops_backend/internal/http"
	"moveops_backend/internal/merchants/handler"
	"moveops_backend/internal/merchants/repository"
	"moveops_backend/internal/merchants/service"
	"moveops_backend/platform/config"
	"moveops_backend/platform/logger"
	"moveops_backend/platform/validator"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func NewModule(repo repository.Repository, cfg config.ProvisionConfig, log *logger.Logger, validate *validator.Validator) *Module {
	svc := service.NewService(repo, cfg, log)
	return &Module{
		Service: svc,
		handler: handler.NewHandler(svc, cfg, validate),
	}
}

func (m *Module) Name() string { return "merchants" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Provisioning is operator-facing and gated by the admin key, not JWT.
	ctx.V1.POST("/provision", m.handler.Provision)

	ctx.Protected.GET("/pricing-rule", m.handler.GetPricingRule)
	ctx.Protected.PUT("/pricing-rule", m.handler.UpdatePricingRule)
}
