// Package leads owns customer inquiry intake and management.
package leads

import (
	"moveops_backend/internal/events"
	apphttp "moveops_backend/internal/http"
	"moveops_backend/internal/leads/handler"
	"moveops_backend/internal/leads/repository"
	"moveops_backend/internal/leads/service"
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

func (m *Module) Name() string { return "leads" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/leads", m.handler.Create)
	ctx.Protected.GET("/leads", m.handler.List)
	ctx.Protected.GET("/leads/:id", m.handler.Get)
	ctx.Protected.PATCH("/leads/:id", m.handler.Update)
}
