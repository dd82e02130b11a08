package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notestackapp/notestack/internal/pkg/session"
)

// The permission check must run before the note is loaded, so a caller
// without note access learns nothing about which ids exist. With no login
// the request stops at the session layer: the database is never touched
// (there is none wired here) and the response is the login redirect, not a
// 404.
func TestNoteAccessChecksPermissionBeforeLoad(t *testing.T) {
	session.UseStore(fibersession.New())

	app := fiber.New()
	app.Put("/api/v1/notes/:id", HandleNoteUpdate)
	app.Delete("/api/v1/notes/:id", HandleNoteDelete)

	for _, method := range []string{fiber.MethodPut, fiber.MethodDelete} {
		req := httptest.NewRequest(method, "/api/v1/notes/999", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login?redirectTo=%2Fapi%2Fv1%2Fnotes%2F999", resp.Header.Get("Location"))
	}
}
