// Package payments owns deposit charges and the Toss gateway callback.
package payments

import (
	"moveops_backend/internal/events"
	apphttp "moveops_backend/internal/http"
	"moveops_backend/internal/payments/handler"
	"moveops_backend/internal/payments/repository"
	"moveops_backend/internal/payments/service"
	"moveops_backend/platform/logger"
	"moveops_backend/platform/validator"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func NewModule(repo repository.Repository, bus events.Bus, log *logger.Logger, validate *validator.Validator) *Module {
	svc := service.NewService(repo, bus, log)
	return &Module{
		Service: svc,
		handler: handler.NewHandler(svc, validate),
	}
}

func (m *Module) Name() string { return "payments" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/payments", m.handler.Create)
	ctx.Protected.GET("/payments", m.handler.List)

	// The gateway posts here; it cannot carry merchant credentials.
	ctx.V1.POST("/payments/callback", m.handler.Callback)
}
