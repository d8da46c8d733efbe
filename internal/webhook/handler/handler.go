// Package handler receives inbound channel webhooks. Callers authenticate
// with the merchant's webhook secret, never with a merchant JWT.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	leadrepo "moveops_backend/internal/leads/repository"
	"moveops_backend/internal/webhook/transport"
	"moveops_backend/platform/httpkit"
	"moveops_backend/platform/logger"
	"moveops_backend/platform/validator"
)

// SecretHeader carries the merchant's plaintext webhook secret.
const SecretHeader = "X-Webhook-Secret"

// SecretVerifier checks a presented webhook secret against the merchant's
// stored hash.
type SecretVerifier interface {
	VerifyWebhookSecret(ctx context.Context, merchantID uuid.UUID, secret string) error
}

// LeadCreator records the intake as a lead.
type LeadCreator interface {
	Create(ctx context.Context, lead leadrepo.Lead) (leadrepo.Lead, error)
}

type Handler struct {
	secrets  SecretVerifier
	leads    LeadCreator
	log      *logger.Logger
	validate *validator.Validator
}

func NewHandler(secrets SecretVerifier, leads LeadCreator, log *logger.Logger, validate *validator.Validator) *Handler {
	return &Handler{secrets: secrets, leads: leads, log: log, validate: validate}
}

// KakaoIntake records a lead pushed from a merchant's KakaoTalk channel bot.
func (h *Handler) KakaoIntake(c *gin.Context) {
	merchantID, err := uuid.Parse(c.Param("merchantId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid merchant id", nil)
		return
	}

	if err := h.secrets.VerifyWebhookSecret(c.Request.Context(), merchantID, c.GetHeader(SecretHeader)); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	var req transport.KakaoIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	lead, err := h.leads.Create(c.Request.Context(), req.ToLead(merchantID))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.log.Info("kakao intake accepted",
		"merchant_id", merchantID, "lead_id", lead.ID, "received_at", time.Now())

	// Channel bots retry on anything but a 2xx with this shape.
	c.JSON(http.StatusOK, gin.H{"success": true, "leadId": lead.ID})
}
