// Package activity provides the merchant activity feed: a per-merchant audit
// trail of lead, booking, payment, and calendar events. Entries are written by
// the owning modules inside their own transactions; this module only exposes
// the read side.
package activity

import (
	"moveops_backend/internal/activity/handler"
	"moveops_backend/internal/activity/repository"
	"moveops_backend/internal/activity/service"
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

func (m *Module) Name() string { return "activity" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/activities", m.handler.List)
}
