package app

import (
	"context"
	"fmt"
	"strings"

	"skilla/internal/config"
	"skilla/internal/delivery/http/handler"
	"skilla/internal/delivery/http/middleware"
	"skilla/internal/delivery/http/routes"
	v1 "skilla/internal/delivery/http/routes/v1"
	"skilla/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container, starts its workers and returns the app with
// a cleanup func that stops them.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	app := New(c)
	cleanup := func() error {
		cancel()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		ws.NewHandler(c.Hub, c.Logger),
		v1.Handlers{
			Auth:       middleware.NewAuthMiddleware(c.JWT),
			Roles:      c.Roles,
			Onboarding: handler.NewOnboardingHandler(c.Onboarding),
			Passport:   handler.NewPassportHandler(c.Passports),
			User:       handler.NewUserHandler(c.Profiles),
			Admin:      handler.NewAdminHandler(c.Admin),
		},
	)
	registry.Register(app)
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
