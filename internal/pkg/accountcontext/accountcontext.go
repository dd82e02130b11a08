package accountcontext

import "github.com/gofiber/fiber/v2"

// Locals keys shared between the context middleware and controllers.
const (
	ContextKey       = "ACCOUNT_CONTEXT"
	KeyFromProtected = "from_protected"
)

// AccountContext is the per-request view of the resolved session.
type AccountContext struct {
	AccountID  uint `json:"account_id"`
	IsLoggedIn bool `json:"is_logged_in"`
}

// Get retrieves the account context from the fiber context, defaulting to
// anonymous when none is set.
func Get(c *fiber.Ctx) AccountContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		return ctx.(AccountContext)
	}
	return AccountContext{IsLoggedIn: false}
}

// IsLoggedIn reports whether the current request carries a valid session.
func IsLoggedIn(c *fiber.Ctx) bool {
	return Get(c).IsLoggedIn
}

// AccountID returns the current account id, or 0 when anonymous.
func AccountID(c *fiber.Ctx) uint {
	return Get(c).AccountID
}
