package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moveops_backend/internal/leads/service"
	"moveops_backend/internal/leads/transport"
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

// Create records a new lead for the merchant.
func (h *Handler) Create(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), req.ToLead(merchantID))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, transport.ToLeadResponse(lead))
}

// List returns the merchant's newest leads.
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

	leads, err := h.svc.List(c.Request.Context(), merchantID, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToLeadResponses(leads))
}

// Get returns a single lead.
func (h *Handler) Get(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), merchantID, id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// Update applies a partial update to a lead.
func (h *Handler) Update(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), merchantID, id, req.ToPatch())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}
