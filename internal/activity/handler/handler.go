package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"moveops_backend/internal/activity/service"
	"moveops_backend/internal/activity/transport"
	"moveops_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns the merchant's newest activity entries.
func (h *Handler) List(c *gin.Context) {
	merchantID, ok := httpkit.MustMerchantID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpkit.Error(c, 400, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	items, err := h.svc.ListRecent(c.Request.Context(), merchantID, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToActivityResponses(items))
}
