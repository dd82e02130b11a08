package controllers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/cache"
	"github.com/notestackapp/notestack/internal/pkg/constants"
	"github.com/notestackapp/notestack/internal/pkg/database"
	"github.com/notestackapp/notestack/internal/pkg/flash"
	"github.com/notestackapp/notestack/internal/pkg/oauth"
	"github.com/notestackapp/notestack/internal/pkg/session"
)

// onboardingTTL bounds how long a stashed external profile stays usable.
const onboardingTTL = 15 * time.Minute

// onboardingProfile is the normalized external profile stashed between the
// provider callback and the onboarding submit.
type onboardingProfile struct {
	Provider          string `json:"provider"`
	ProviderAccountID string `json:"provider_account_id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ImageURL          string `json:"image_url"`
}

// OAuthController carries the provider registry; it is built once at
// startup and handed to the router.
type OAuthController struct {
	Registry *oauth.Registry
}

func NewOAuthController(registry *oauth.Registry) *OAuthController {
	return &OAuthController{Registry: registry}
}

// HandleBegin starts the provider flow, remembering where the caller wants
// to land afterwards.
func (o *OAuthController) HandleBegin(c *fiber.Ctx) error {
	if !o.Registry.Has(c.Params("provider")) {
		fm := flash.Toast(flash.KindError, "Unknown provider", "")
		return flash.Redirect(c, constants.LoginRoute, fm)
	}

	if redirectTo := c.Query("redirectTo"); redirectTo != "" {
		_ = session.SetValue(c, session.KeyRedirectTo, redirectTo)
	}

	return gothfiber.BeginAuthHandler(c)
}

// HandleCallback runs the link/login/onboard decision for a provider
// callback. Mutations follow, so the database handle is pinned to the write
// resolver up front.
func (o *OAuthController) HandleCallback(c *fiber.Ctx) error {
	db := database.GetDB().Clauses(dbresolver.Write)

	pendingRedirect := session.TakeValue(c, session.KeyRedirectTo)

	// Provider exchange failure is the one expected error here: logged
	// once, turned into a toast, never propagated.
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Errorf("oauth exchange failed for %s: %v", c.Params("provider"), err)
		fm := flash.Toast(flash.KindError, "Login failed", "The provider could not verify your identity")
		return flash.Redirect(c, constants.LoginRoute, fm)
	}

	conn, err := models.ConnectionByProvider(db, u.Provider, u.UserID)
	if err != nil {
		return err
	}

	callerID, _, _ := session.ActiveAccountID(c, db)

	facts := callbackFacts{CallerAccountID: callerID}
	if conn != nil {
		facts.ConnectionAccountID = conn.AccountID
	}
	if facts.ConnectionAccountID == 0 && facts.CallerAccountID == 0 && u.Email != "" {
		account, err := models.AccountByEmail(db, u.Email)
		if err != nil {
			return err
		}
		if account != nil {
			facts.EmailAccountID = account.ID
		}
	}

	switch decideCallback(facts) {
	case actionAlreadyConnectedSelf:
		fm := flash.Toast(flash.KindMessage, "Already connected", fmt.Sprintf("You are already connected to %s", u.Provider))
		return flash.Redirect(c, constants.ConnectionsRoute, fm)

	case actionAlreadyConnectedOther:
		fm := flash.Toast(flash.KindError, "Already connected", fmt.Sprintf("This %s account is already connected to another account", u.Provider))
		return flash.Redirect(c, constants.ConnectionsRoute, fm)

	case actionLinkToCaller:
		linked, err := models.CreateConnection(db, callerID, u.Provider, u.UserID)
		if err != nil {
			return err
		}
		switch classifyLink(linked, callerID) {
		case linkRacedOther:
			fm := flash.Toast(flash.KindError, "Already connected", fmt.Sprintf("This %s account is already connected to another account", u.Provider))
			return flash.Redirect(c, constants.ConnectionsRoute, fm)
		case linkVanished:
			fm := flash.Toast(flash.KindError, "Connection failed", "Please try again")
			return flash.Redirect(c, constants.ConnectionsRoute, fm)
		}
		fm := flash.Toast(flash.KindSuccess, "Connected", fmt.Sprintf("Your %s account has been connected", u.Provider))
		return flash.Redirect(c, constants.ConnectionsRoute, fm)

	case actionLogin:
		return o.finishLogin(c, db, conn.AccountID, pendingRedirect, flash.Toast(flash.KindSuccess, "Welcome back", ""))

	case actionLinkByEmail:
		// The connection and the session are not one transactional unit;
		// a duplicate from a racing callback reads as already-linked.
		linked, err := models.CreateConnection(db, facts.EmailAccountID, u.Provider, u.UserID)
		if err != nil {
			return err
		}
		switch classifyLink(linked, facts.EmailAccountID) {
		case linkVanished:
			fm := flash.Toast(flash.KindError, "Login failed", "Please sign in with your provider again")
			return flash.Redirect(c, constants.LoginRoute, fm)
		case linkRacedOther:
			// the racing callback won; log in to the account it linked
			return o.finishLogin(c, db, linked.AccountID, pendingRedirect, flash.Toast(flash.KindSuccess, "Welcome back", ""))
		}
		fm := flash.Toast(flash.KindSuccess, "Connected", fmt.Sprintf("Your %s account has been connected", u.Provider))
		return o.finishLogin(c, db, linked.AccountID, pendingRedirect, fm)

	default: // actionOnboard
		return o.startOnboarding(c, u.Provider, onboardingProfile{
			Provider:          u.Provider,
			ProviderAccountID: u.UserID,
			Email:             strings.ToLower(u.Email),
			Username:          deriveUsername(u.NickName, u.Email),
			Name:              firstNonEmpty(u.Name, u.NickName),
			ImageURL:          u.AvatarURL,
		}, pendingRedirect)
	}
}

// finishLogin creates the session for the account unless an active
// two-factor verification defers issuance to the challenge route. In the
// deferred case no auth cookie is set.
func (o *OAuthController) finishLogin(c *fiber.Ctx, db *gorm.DB, accountID uint, redirectTo string, fm fiber.Map) error {
	redirectTo = safeRedirectTarget(redirectTo, constants.PublicRoute)

	target := strconv.FormatUint(uint64(accountID), 10)
	verification, err := models.ActiveVerification(db, target, models.VERIFICATION_TYPE_2FA)
	if err != nil {
		return err
	}
	if out := decideLogin(accountID, verification != nil, redirectTo); out.Deferred {
		return c.Redirect(out.Challenge, fiber.StatusSeeOther)
	}

	if _, err := session.Login(c, db, accountID); err != nil {
		return err
	}

	return flash.Redirect(c, redirectTo, fm)
}

// startOnboarding stashes the normalized profile for the onboarding flow
// and sends the caller there. The auth session stays untouched.
func (o *OAuthController) startOnboarding(c *fiber.Ctx, provider string, profile onboardingProfile, redirectTo string) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	key := uuid.NewString()
	if err := cache.Set("onboarding:"+key, payload, onboardingTTL); err != nil {
		return err
	}
	if err := session.SetValue(c, session.KeyOnboarding, key); err != nil {
		return err
	}

	target := constants.OnboardingRoute + "/" + provider
	target = withQuery(target, "redirectTo", redirectTo)

	return c.Redirect(target, fiber.StatusSeeOther)
}

// deriveUsername picks a normalized username from the provider profile.
func deriveUsername(nickname, email string) string {
	name := nickname
	if name == "" && email != "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	name = strings.ToLower(strings.TrimSpace(name))

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
