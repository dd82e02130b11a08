package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notestackapp/notestack/app/controllers"
	"github.com/notestackapp/notestack/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (a *ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api/v1", middleware.RequireAPIAuth)

	api.Get("/notes", controllers.HandleNoteList)
	api.Post("/notes", controllers.HandleNoteCreate)
	api.Put("/notes/:id", controllers.HandleNoteUpdate)
	api.Delete("/notes/:id", controllers.HandleNoteDelete)

	api.Get("/admin/accounts", controllers.HandleAccountList)
}
