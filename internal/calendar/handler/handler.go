package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moveops_backend/internal/calendar/service"
	"moveops_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Slots returns the day's slot availability for the merchant.
func (h *Handler) Slots(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httpkit.Error(c, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}

	slots, err := h.svc.Slots(c.Request.Context(), merchantID, date)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, slots)
}
