package flash

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

// Toast kinds surfaced to the client alongside a redirect.
const (
	KindError   = "error"
	KindSuccess = "success"
	KindMessage = "message"
)

// Toast builds the transient notification payload attached to redirects.
func Toast(kind, title, description string) fiber.Map {
	return fiber.Map{
		"type":        kind,
		"title":       title,
		"description": description,
	}
}

// Redirect attaches the toast and redirects with 303 so POST callbacks
// land on a GET.
func Redirect(c *fiber.Ctx, to string, toast fiber.Map) error {
	kind, _ := toast["type"].(string)
	switch kind {
	case KindError:
		return flash.WithError(c, toast).Redirect(to, fiber.StatusSeeOther)
	case KindSuccess:
		return flash.WithSuccess(c, toast).Redirect(to, fiber.StatusSeeOther)
	default:
		return flash.WithInfo(c, toast).Redirect(to, fiber.StatusSeeOther)
	}
}

// Get returns the toast carried by the previous redirect, if any.
func Get(c *fiber.Ctx) fiber.Map {
	return flash.Get(c)
}
