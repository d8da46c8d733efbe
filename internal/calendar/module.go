// Package calendar exposes daily slot availability.
package calendar

import (
	"moveops_backend/internal/calendar/handler"
	"moveops_backend/internal/calendar/service"
	apphttp "moveops_backend/internal/http"
	"moveops_backend/platform/logger"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func NewModule(bookings service.BookingReader, log *logger.Logger) (*Module, error) {
	svc, err := service.NewService(bookings, log)
	if err != nil {
		return nil, err
	}
	return &Module{
		Service: svc,
		handler: handler.NewHandler(svc),
	}, nil
}

func (m *Module) Name() string { return "calendar" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/slots", m.handler.Slots)
}
