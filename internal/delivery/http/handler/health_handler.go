package handler

import (
	"context"
	"time"

	"skilla/internal/delivery/http/dto"
	"skilla/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// CachePinger is a Pinger that may be switched off entirely.
type CachePinger interface {
	Pinger
	Enabled() bool
}

type HealthHandler struct {
	db      Pinger
	cache   CachePinger
	timeout time.Duration
}

func NewHealthHandler(db Pinger, cache CachePinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	res := dto.HealthResponse{Status: "ok", Database: "up", Redis: "disabled"}
	if h.db == nil || h.db.Ping(ctx) != nil {
		res.Database = "down"
		res.Status = "degraded"
	}
	if h.cache != nil && h.cache.Enabled() {
		res.Redis = "up"
		if err := h.cache.Ping(ctx); err != nil {
			res.Redis = "down"
		}
	}

	if res.Database == "down" {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, res)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
