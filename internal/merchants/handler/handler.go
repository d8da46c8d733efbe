package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"moveops_backend/internal/merchants/service"
	"moveops_backend/internal/merchants/transport"
	"moveops_backend/platform/config"
	"moveops_backend/platform/httpkit"
	"moveops_backend/platform/validator"
)

// AdminKeyHeader carries the operator key for the provisioning endpoint.
const AdminKeyHeader = "X-Admin-Key"

type Handler struct {
	svc      *service.Service
	cfg      config.ProvisionConfig
	validate *validator.Validator
}

func NewHandler(svc *service.Service, cfg config.ProvisionConfig, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, cfg: cfg, validate: validate}
}

// Provision creates a merchant. Operator-only, gated by the admin key header
// rather than merchant auth.
func (h *Handler) Provision(c *gin.Context) {
	presented := c.GetHeader(AdminKeyHeader)
	expected := h.cfg.GetProvisionAdminKey()
	if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
		httpkit.Error(c, http.StatusUnauthorized, "invalid admin key", nil)
		return
	}

	var req transport.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Provision(c.Request.Context(), req.ToInput())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, transport.ToProvisionResponse(result))
}

// GetPricingRule returns the caller's pricing rule.
func (h *Handler) GetPricingRule(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	rule, err := h.svc.GetPricingRule(c.Request.Context(), merchantID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToPricingRuleResponse(rule))
}

// UpdatePricingRule replaces the caller's pricing rule.
func (h *Handler) UpdatePricingRule(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	var req transport.UpdatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	rule, err := h.svc.UpdatePricingRule(c.Request.Context(), merchantID, req.ToInput())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToPricingRuleResponse(rule))
}
