// Package bookings owns the quote engine and the booking lifecycle.
package bookings

import (
	"moveops_backend/internal/bookings/handler"
	"moveops_backend/internal/bookings/ports"
	"moveops_backend/internal/bookings/repository"
	"moveops_backend/internal/bookings/service"
	"moveops_backend/internal/events"
	apphttp "moveops_backend/internal/http"
	"moveops_backend/platform/logger"
	"moveops_backend/platform/validator"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func NewModule(
	repo repository.Repository,
	leads ports.LeadReader,
	rules ports.RuleReader,
	distance ports.DistanceEstimator,
	bus events.Bus,
	log *logger.Logger,
	validate *validator.Validator,
) *Module {
	svc := service.NewService(repo, leads, rules, distance, bus, log)
	return &Module{
		Service: svc,
		handler: handler.NewHandler(svc, validate),
	}
}

func (m *Module) Name() string { return "bookings" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/quote", m.handler.Quote)
	ctx.Protected.GET("/bookings", m.handler.List)
	ctx.Protected.GET("/bookings/:id", m.handler.Get)
	ctx.Protected.PATCH("/bookings/:id", m.handler.Update)
	ctx.Protected.POST("/bookings/:id/confirm", m.handler.Confirm)
}
