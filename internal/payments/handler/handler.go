package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moveops_backend/internal/payments/service"
	"moveops_backend/internal/payments/transport"
	"moveops_backend/platform/httpkit"
	"moveops_backend/platform/validator"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func NewHandler(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

// Create records a pending deposit payment.
func (h *Handler) Create(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	var req transport.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	payment, err := h.svc.Create(c.Request.Context(), merchantID, req.ToInput())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, transport.ToPaymentResponse(payment))
}

// List returns the merchant's newest payments.
func (h *Handler) List(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpkit.Error(c, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	payments, err := h.svc.List(c.Request.Context(), merchantID, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToPaymentResponses(payments))
}

// Callback receives the Toss gateway's charge result. The gateway is the
// caller, so this route is unauthenticated and resolves the payment through
// the order ID.
func (h *Handler) Callback(c *gin.Context) {
	var req transport.CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	payment, err := h.svc.HandleCallback(c.Request.Context(), req.ToInput())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToPaymentResponse(payment))
}
