package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/notestackapp/notestack/internal/pkg/accountcontext"
	"github.com/notestackapp/notestack/internal/pkg/constants"
	"github.com/notestackapp/notestack/internal/pkg/database"
	"github.com/notestackapp/notestack/internal/pkg/session"
)

// AccountContextMiddleware resolves the cookie session once per request and
// publishes the result as locals. A cookie carrying a stale or forged claim
// is destroyed and the client is sent to the home route.
func AccountContextMiddleware(c *fiber.Ctx) error {
	// Goth keeps its own fiber session store on the OAuth begin/callback
	// routes; skip to avoid cross-store collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	accountID, ok, stale := session.ActiveAccountID(c, database.GetDB())
	if stale {
		return c.Redirect(constants.PublicRoute, fiber.StatusSeeOther)
	}
	if !ok {
		c.Locals(accountcontext.ContextKey, accountcontext.AccountContext{IsLoggedIn: false})
		c.Locals(accountcontext.KeyFromProtected, false)
		return c.Next()
	}

	c.Locals(accountcontext.ContextKey, accountcontext.AccountContext{
		AccountID:  accountID,
		IsLoggedIn: true,
	})
	c.Locals(accountcontext.KeyFromProtected, true)

	return c.Next()
}
