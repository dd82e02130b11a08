package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notestackapp/notestack/app/controllers"
	"github.com/notestackapp/notestack/internal/pkg/avatar"
	"github.com/notestackapp/notestack/internal/pkg/constants"
	"github.com/notestackapp/notestack/internal/pkg/flash"
	"github.com/notestackapp/notestack/internal/pkg/middleware"
	"github.com/notestackapp/notestack/internal/pkg/oauth"
	"github.com/notestackapp/notestack/internal/pkg/session"
)

type HttpRouter struct {
	registry *oauth.Registry
}

func NewHttpRouter(registry *oauth.Registry) *HttpRouter {
	return &HttpRouter{registry: registry}
}

func (h *HttpRouter) InstallRouter(app *fiber.App) {
	// init cookie session store before anything reads it
	session.NewSessionStore()

	app.Use(middleware.AccountContextMiddleware)

	avatars, err := avatar.NewClient(mustAvatarConfig())
	if err != nil {
		panic(err)
	}

	oauthCtrl := controllers.NewOAuthController(h.registry)
	onboardingCtrl := controllers.NewOnboardingController(avatars)

	app.Get(constants.PublicRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"flash": flash.Get(c)})
	})

	app.Get(constants.LoginRoute, controllers.HandleLoginPage)
	app.Post(constants.LoginRoute, controllers.HandleLogin)
	app.Post(constants.RegisterRoute, controllers.HandleRegister)
	app.Post(constants.LogoutRoute, controllers.HandleLogout)
	app.Post("/reset-password", controllers.HandleResetPassword)

	app.Get("/auth/:provider", oauthCtrl.HandleBegin)
	app.Get("/auth/:provider/callback", oauthCtrl.HandleCallback)

	app.Get(constants.OnboardingRoute+"/:provider", onboardingCtrl.HandleOnboardingPage)
	app.Post(constants.OnboardingRoute+"/:provider", onboardingCtrl.HandleOnboardingSubmit)

	app.Get(constants.VerifyRoute, controllers.HandleVerify)
	app.Get(constants.ConnectionsRoute, middleware.RequireAuth, controllers.HandleConnections)
}

func mustAvatarConfig() *avatar.Config {
	cfg, err := avatar.LoadConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}
