package handler

import (
	"context"
	"time"

	"talentmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	redis Pinger
}

func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	status := fiber.StatusOK

	if h.db == nil || h.db.Ping(ctx) != nil {
		checks["database"] = "down"
		status = fiber.StatusServiceUnavailable
	}
	// Redis is optional: the engine degrades to its in-process cache.
	if h.redis == nil || h.redis.Ping(ctx) != nil {
		checks["redis"] = "bypassed"
	}

	msg := response.MessageOK
	if status != fiber.StatusOK {
		msg = "degraded"
	}
	return response.Success(c, status, msg, checks)
}
