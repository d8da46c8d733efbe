// Package dashboard serves the merchant's metrics overview.
package dashboard

import (
	"moveops_backend/internal/dashboard/handler"
	"moveops_backend/internal/dashboard/repository"
	"moveops_backend/internal/dashboard/service"
	apphttp "moveops_backend/internal/http"
	"moveops_backend/platform/logger"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func NewModule(repo repository.Repository, log *logger.Logger) *Module {
	svc := service.NewService(repo, log)
	return &Module{
		Service: svc,
		handler: handler.NewHandler(svc),
	}
}

func (m *Module) Name() string { return "dashboard" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/metrics", m.handler.Metrics)
}
