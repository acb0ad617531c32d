package handlers

import (
	"context"

	xhttp "github.com/nimasrn/transaction-dashboard/pkg/http"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
)

type HealthService interface {
	Get(ctx context.Context) error
}
type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(e *xhttp.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{
		svc: healthService,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.svc.Get(ctx); err != nil {
		logger.Error("health check failed", "error", err)
		writeText(ctx, 503, "unavailable")
		return
	}
	writeText(ctx, 200, "success")
}
