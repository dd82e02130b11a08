package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notestackapp/notestack/internal/pkg/accountcontext"
	"github.com/notestackapp/notestack/internal/pkg/session"
)

// RequireAuth ensures a logged-in web session; redirects to the login route
// carrying the current path as redirectTo.
func RequireAuth(c *fiber.Ctx) error {
	if !accountcontext.IsLoggedIn(c) {
		target := string(c.Request().URI().RequestURI())
		return c.Redirect(session.LoginURL(target), fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPIAuth is RequireAuth for API routes: JSON 401 instead of a
// redirect.
func RequireAPIAuth(c *fiber.Ctx) error {
	if !accountcontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthenticated",
			"message": "login required",
		})
	}
	return c.Next()
}
