package routes

import (
	"skilla/internal/delivery/http/handler"
	"skilla/internal/delivery/http/middleware"
	v1 "skilla/internal/delivery/http/routes/v1"
	"skilla/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	ws     *ws.Handler
	v1     v1.Handlers
}

func NewRegistry(health *handler.HealthHandler, wsHandler *ws.Handler, api v1.Handlers) *Registry {
	return &Registry{health: health, ws: wsHandler, v1: api}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}

// registerWS mounts the admin event stream. Browsers cannot set headers on
// the upgrade request, so the token may come as ?token=.
func (r *Registry) registerWS(app *fiber.App) {
	if r.ws == nil || r.v1.Auth == nil || r.v1.Roles == nil {
		return
	}

	wsGroup := app.Group("/ws", r.v1.Auth.WithQueryToken().Middleware(), middleware.RequireAdmin(r.v1.Roles))
	wsGroup.Get("/admin", r.ws.HandleAdminWS)
}
