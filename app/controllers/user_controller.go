package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/accountcontext"
	"github.com/notestackapp/notestack/internal/pkg/database"
	"github.com/notestackapp/notestack/internal/pkg/flash"
	"github.com/notestackapp/notestack/internal/pkg/rbac"
)

// HandleConnections lists the caller's provider connections. This is the
// redirect target for the link/already-linked callback branches; the route
// is behind RequireAuth.
func HandleConnections(c *fiber.Ctx) error {
	db := database.GetDB()

	conns, err := models.ConnectionsByAccount(db, accountcontext.AccountID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"connections": conns,
		"flash":       flash.Get(c),
	})
}

// HandleAccountList lists all accounts. Admin role only; the role check is
// independent of the permission graph.
func HandleAccountList(c *fiber.Ctx) error {
	db := database.GetDB()

	accountID, err := rbac.RequireRole(c, db, models.ROLE_ADMIN)
	if accountID == 0 {
		return err
	}

	var accounts []models.Account
	if err := db.Order("username").Find(&accounts).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"accounts": accounts})
}

// HandleVerify is the two-factor challenge entry point. Session issuance
// was deferred before the redirect here; the challenge itself is handled by
// the verification flow.
func HandleVerify(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"type":       c.Query("type", models.VERIFICATION_TYPE_2FA),
		"target":     c.Query("target"),
		"redirectTo": c.Query("redirectTo"),
		"flash":      flash.Get(c),
	})
}
