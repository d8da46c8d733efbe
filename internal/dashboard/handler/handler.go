package handler

import (
	"github.com/gin-gonic/gin"

	"moveops_backend/internal/dashboard/service"
	"moveops_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Metrics returns the merchant's dashboard counters and growth figures.
func (h *Handler) Metrics(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	metrics, err := h.svc.Snapshot(c.Request.Context(), merchantID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, metrics)
}
