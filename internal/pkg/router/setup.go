package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notestackapp/notestack/internal/pkg/oauth"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter wires the HTTP routes first (session store, provider
// registry, account context middleware), then the API routes that depend on
// that middleware.
func InstallRouter(app *fiber.App, registry *oauth.Registry) {
	setup(app, NewHttpRouter(registry), NewApiRouter())
}

func setup(app *fiber.App, routers ...Router) {
	for _, r := range routers {
		r.InstallRouter(app)
	}
}
