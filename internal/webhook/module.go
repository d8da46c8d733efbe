// Package webhook receives inbound channel integrations (KakaoTalk intake).
package webhook

import (
	apphttp "moveops_backend/internal/http"
	"moveops_backend/internal/webhook/handler"
	"moveops_backend/platform/logger"
	"moveops_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(secrets handler.SecretVerifier, leads handler.LeadCreator, log *logger.Logger, validate *validator.Validator) *Module {
	return &Module{
		handler: handler.NewHandler(secrets, leads, log, validate),
	}
}

func (m *Module) Name() string { return "webhook" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/webhooks/kakao/:merchantId", m.handler.KakaoIntake)
}
