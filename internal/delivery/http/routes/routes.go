package routes

import (
	"talentmatch/internal/delivery/http/handler"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/usecase"
	"talentmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry wires every HTTP surface onto the fiber app.
type Registry struct {
	health *handler.HealthHandler
	auth   *handler.AuthHandler
	match  *handler.MatchHandler
	authMw *middleware.AuthMiddleware
	wsH    *ws.Handler
}

type Deps struct {
	DB      handler.Pinger
	Redis   handler.Pinger
	AuthUC  usecase.AuthUsecase
	MatchUC usecase.MatchUsecase
	AuthMw  *middleware.AuthMiddleware
	WS      *ws.Handler
}

func NewRegistry(d Deps) *Registry {
	return &Registry{
		health: handler.NewHealthHandler(d.DB, d.Redis),
		auth:   handler.NewAuthHandler(d.AuthUC),
		match:  handler.NewMatchHandler(d.MatchUC),
		authMw: d.AuthMw,
		wsH:    d.WS,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	if r.wsH != nil {
		app.Get("/ws/matches", r.wsH.HandleMatchesWS)
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	authGroup := v1.Group("/auth")
	r.auth.RegisterRoutes(authGroup)

	protected := v1.Group("", r.authMw.Middleware())
	r.match.RegisterRoutes(protected)
}
