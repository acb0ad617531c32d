package handlers

import (
	"context"

	xhttp "github.com/nimasrn/transaction-dashboard/pkg/http"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
)

type SeedService interface {
	Seed(ctx context.Context) (int, error)
}

type SeedHandler struct {
	svc SeedService
}

func RegisterSeedRoutes(e *xhttp.Group, h *SeedHandler) {
	e.GET("/seed", h.Seed)
}

func NewSeedHandler(seedService SeedService) *SeedHandler {
	return &SeedHandler{
		svc: seedService,
	}
}

func (h *SeedHandler) Seed(ctx *xhttp.RequestCtx) {
	if _, err := h.svc.Seed(ctx); err != nil {
		logger.Error("error seeding database", "error", err)
		writeText(ctx, 500, "Error seeding database")
		return
	}
	writeText(ctx, 200, "Database seeded successfully")
}
