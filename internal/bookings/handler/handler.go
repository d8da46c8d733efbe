package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moveops_backend/internal/bookings/domain"
	"moveops_backend/internal/bookings/repository"
	"moveops_backend/internal/bookings/service"
	"moveops_backend/internal/bookings/transport"
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

// Quote prices a lead and upserts its quoted booking.
func (h *Handler) Quote(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	var req transport.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	booking, quote, err := h.svc.GenerateQuote(c.Request.Context(), merchantID, req.LeadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(booking, quote))
}

// Confirm commits a quoted booking.
func (h *Handler) Confirm(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}

	// The slot payload is optional; confirming without one keeps the
	// booking's existing slot.
	var req transport.ConfirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
			return
		}
	}

	booking, err := h.svc.Confirm(c.Request.Context(), merchantID, id, req.ToSlotParams())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToBookingResponse(booking))
}

// List returns the merchant's bookings, optionally filtered by status.
func (h *Handler) List(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	status := domain.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		httpkit.Error(c, http.StatusBadRequest, "unknown booking status", nil)
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

	bookings, err := h.svc.List(c.Request.Context(), merchantID, status, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToBookingResponses(bookings))
}

// Get returns a single booking.
func (h *Handler) Get(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}

	booking, err := h.svc.Get(c.Request.Context(), merchantID, id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToBookingResponse(booking))
}

// Update applies a status change from the back office UI.
func (h *Handler) Update(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}

	var req transport.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	booking, err := h.svc.UpdateStatus(c.Request.Context(), merchantID, id, domain.Status(req.Status), repository.SlotParams{
		SlotStart: req.SlotStart,
		SlotEnd:   req.SlotEnd,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToBookingResponse(booking))
}
