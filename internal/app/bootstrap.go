package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/delivery/http/routes"
	"talentmatch/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap assembles the container and the HTTP surface. The returned cleanup
// releases every connection the container opened.
func Bootstrap(c *Container) (*App, func() error, error) {
	if c == nil {
		return nil, nil, fmt.Errorf("nil container")
	}

	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	accessLog := middleware.NewAccessLogMiddleware(c.Logger)
	errMw := middleware.NewErrorMiddleware(c.Logger)
	f.Use(accessLog.Middleware())
	f.Use(errMw.Middleware())

	registry := routes.NewRegistry(routes.Deps{
		DB:      c.DB,
		Redis:   c.Redis,
		AuthUC:  c.AuthUC,
		MatchUC: c.MatchUC,
		AuthMw:  middleware.NewAuthMiddleware(c.JWT),
		WS:      ws.NewHandler(c.Hub, c.Logger),
	})
	registry.Register(f)

	f.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(
		c.Metrics.Registry(),
		promhttp.HandlerOpts{},
	)))

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
