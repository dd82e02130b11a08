package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/constants"
	"github.com/notestackapp/notestack/internal/pkg/database"
	"github.com/notestackapp/notestack/internal/pkg/flash"
	"github.com/notestackapp/notestack/internal/pkg/rbac"
	"github.com/notestackapp/notestack/internal/pkg/session"
)

// HandleLoginPage serves the login page payload, including any toast from a
// previous redirect.
func HandleLoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"redirectTo": c.Query("redirectTo"),
		"flash":      flash.Get(c),
	})
}

// HandleLogin verifies the password and opens a session.
//
// Failed verification deliberately reports a single generic message; which
// of username or password was wrong is not disclosed.
func HandleLogin(c *fiber.Ctx) error {
	db := database.GetDB()

	username := c.FormValue("username")
	password := c.FormValue("password")
	redirectTo := safeRedirectTarget(c.FormValue("redirectTo"), constants.PublicRoute)

	accountID, ok := models.VerifyPassword(db, username, password)
	if !ok {
		fm := flash.Toast(flash.KindError, "Login failed", "Invalid username or password")
		return flash.Redirect(c, session.LoginURL(""), fm)
	}

	if _, err := session.Login(c, db, accountID); err != nil {
		fm := flash.Toast(flash.KindError, "Login failed", fmt.Sprintf("something went wrong: %s", err))
		return flash.Redirect(c, session.LoginURL(""), fm)
	}

	fm := flash.Toast(flash.KindSuccess, "Welcome back", "")
	return flash.Redirect(c, redirectTo, fm)
}

// HandleRegister creates the account, password, profile and default
// membership in one transaction, then logs the new account in.
func HandleRegister(c *fiber.Ctx) error {
	db := database.GetDB()

	account, err := models.Signup(
		db,
		c.FormValue("email"),
		c.FormValue("username"),
		c.FormValue("name"),
		c.FormValue("password"),
	)
	if err != nil {
		fm := flash.Toast(flash.KindError, "Registration failed", fmt.Sprintf("something went wrong: %s", err))
		return flash.Redirect(c, constants.RegisterRoute, fm)
	}

	if _, err := session.Login(c, db, account.ID); err != nil {
		fm := flash.Toast(flash.KindError, "Registration failed", fmt.Sprintf("something went wrong: %s", err))
		return flash.Redirect(c, session.LoginURL(""), fm)
	}

	fm := flash.Toast(flash.KindSuccess, "Welcome", "Your account has been created")
	return flash.Redirect(c, constants.PublicRoute, fm)
}

// HandleLogout tears down the session. Row deletion is best-effort; the
// cookie always goes.
func HandleLogout(c *fiber.Ctx) error {
	redirectTo := safeRedirectTarget(c.FormValue("redirectTo"), constants.PublicRoute)

	return session.Logout(c, database.GetDB(), redirectTo)
}

// HandleResetPassword overwrites the stored hash. Accounts may reset their
// own password; resetting someone else's takes the admin any-scope.
func HandleResetPassword(c *fiber.Ctx) error {
	db := database.GetDB()

	accountID, err := session.RequireAccountID(c, db)
	if accountID == 0 {
		return err
	}

	username := c.FormValue("username")
	var target models.Account
	if err := db.Where("id = ?", accountID).First(&target).Error; err != nil {
		return err
	}
	if target.Username != username {
		if id, err := rbac.RequirePermission(c, db, "update:user:any"); id == 0 {
			return err
		}
	}

	if err := models.ResetPassword(db, username, c.FormValue("password")); err != nil {
		fm := flash.Toast(flash.KindError, "Reset failed", fmt.Sprintf("something went wrong: %s", err))
		return flash.Redirect(c, constants.PublicRoute, fm)
	}

	fm := flash.Toast(flash.KindSuccess, "Password updated", "")
	return flash.Redirect(c, constants.PublicRoute, fm)
}
