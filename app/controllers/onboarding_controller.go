package controllers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/avatar"
	"github.com/notestackapp/notestack/internal/pkg/cache"
	"github.com/notestackapp/notestack/internal/pkg/constants"
	"github.com/notestackapp/notestack/internal/pkg/database"
	"github.com/notestackapp/notestack/internal/pkg/flash"
	"github.com/notestackapp/notestack/internal/pkg/session"
)

// OnboardingController completes signups that started with an OAuth
// identity unknown to the platform.
type OnboardingController struct {
	Avatars *avatar.Client // nil when avatar import is disabled
}

func NewOnboardingController(avatars *avatar.Client) *OnboardingController {
	return &OnboardingController{Avatars: avatars}
}

// HandleOnboardingPage returns the stashed profile so the client can
// prefill the signup form. An expired stash restarts at login.
func (o *OnboardingController) HandleOnboardingPage(c *fiber.Ctx) error {
	profile, _, err := o.stashedProfile(c)
	if err != nil {
		fm := flash.Toast(flash.KindError, "Session expired", "Please sign in with your provider again")
		return flash.Redirect(c, constants.LoginRoute, fm)
	}

	return c.JSON(fiber.Map{
		"provider":   c.Params("provider"),
		"profile":    profile,
		"redirectTo": c.Query("redirectTo"),
		"flash":      flash.Get(c),
	})
}

// HandleOnboardingSubmit creates the account bound to the stashed provider
// identity and logs it in. Form fields override the prefilled profile.
func (o *OnboardingController) HandleOnboardingSubmit(c *fiber.Ctx) error {
	db := database.GetDB().Clauses(dbresolver.Write)

	profile, stashKey, err := o.stashedProfile(c)
	if err != nil {
		fm := flash.Toast(flash.KindError, "Session expired", "Please sign in with your provider again")
		return flash.Redirect(c, constants.LoginRoute, fm)
	}

	email := firstNonEmpty(c.FormValue("email"), profile.Email)
	username := firstNonEmpty(c.FormValue("username"), profile.Username)
	name := firstNonEmpty(c.FormValue("name"), profile.Name)

	account, err := models.SignupWithConnection(db, email, username, name, profile.Provider, profile.ProviderAccountID)
	if err != nil {
		fm := flash.Toast(flash.KindError, "Signup failed", fmt.Sprintf("something went wrong: %s", err))
		target := withQuery(constants.OnboardingRoute+"/"+profile.Provider, "redirectTo", c.FormValue("redirectTo"))
		return flash.Redirect(c, target, fm)
	}

	o.importAvatar(db, account.ID, profile.ImageURL, email)

	// Stash and cookie key are one-shot.
	_ = cache.Delete("onboarding:" + stashKey)
	_ = session.TakeValue(c, session.KeyOnboarding)

	redirectTo := safeRedirectTarget(c.FormValue("redirectTo"), constants.PublicRoute)
	if _, err := session.Login(c, db, account.ID); err != nil {
		return err
	}

	fm := flash.Toast(flash.KindSuccess, "Welcome", "Your account has been created")
	return flash.Redirect(c, redirectTo, fm)
}

func (o *OnboardingController) stashedProfile(c *fiber.Ctx) (onboardingProfile, string, error) {
	var profile onboardingProfile

	key := session.PeekValue(c, session.KeyOnboarding)
	if key == "" {
		return profile, "", fmt.Errorf("no onboarding session")
	}

	raw, err := cache.Get("onboarding:" + key)
	if err != nil {
		return profile, "", err
	}
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return profile, "", err
	}

	return profile, key, nil
}

// importAvatar stores the provider image (gravatar as fallback) for the new
// profile. Best-effort: a failed import never blocks the signup.
func (o *OnboardingController) importAvatar(db *gorm.DB, accountID uint, imageURL, email string) {
	var user models.User
	if err := db.Where("account_id = ?", accountID).First(&user).Error; err != nil {
		return
	}

	url := imageURL
	if url == "" {
		url = avatar.FallbackURL(email, 256)
	}

	if o.Avatars != nil && imageURL != "" {
		key, err := o.Avatars.Import(context.Background(), user.ID, imageURL)
		if err != nil {
			log.Warnf("avatar import failed for user %d: %v", user.ID, err)
		} else {
			url = key
		}
	}

	if err := db.Model(&user).Update("image_url", url).Error; err != nil {
		log.Warnf("avatar update failed for user %d: %v", user.ID, err)
	}
}
