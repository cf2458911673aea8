package v1

import (
	"skilla/internal/delivery/http/handler"
	"skilla/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Handlers is everything the /api/v1 tree needs.
type Handlers struct {
	Auth  *middleware.AuthMiddleware
	Roles middleware.RoleChecker

	Onboarding *handler.OnboardingHandler
	Passport   *handler.PassportHandler
	User       *handler.UserHandler
	Admin      *handler.AdminHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil || h.Auth == nil {
		return
	}

	protected := r.Group("", h.Auth.Middleware())

	if h.Onboarding != nil {
		h.Onboarding.RegisterRoutes(protected)
	}
	if h.Passport != nil {
		h.Passport.RegisterRoutes(protected)
	}
	RegisterUsers(protected, h.User)

	if h.Admin != nil && h.Roles != nil {
		admin := protected.Group("/admin", middleware.RequireAdmin(h.Roles))
		h.Admin.RegisterRoutes(admin)
	}
}
