package session

import (
	"net"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"
	"gorm.io/gorm"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/cache"
	"github.com/notestackapp/notestack/internal/pkg/constants"
	"github.com/notestackapp/notestack/internal/pkg/env"
)

// Cookie session keys. The cookie binds a client to a server-side Session
// row plus a claimed active account; the claim is re-validated on every read.
const (
	KeySessionID  = "session_id"
	KeyAccountID  = "account_id"
	KeyRedirectTo = "redirect_to"
	KeyOnboarding = "onboarding_key"
)

var sessionStore *session.Store

// NewSessionStore builds the redis-backed cookie session store. The cookie
// outlives a single login; expiry of the login itself is enforced on the
// Session row, not the cookie.
func NewSessionStore() *session.Store {
	host, port, password := redisTarget()

	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1, // cache uses DB 0
		Reset:    false,
	})

	sessionStore = session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     models.SessionTTL,
		KeyLookup:      "cookie:notestack_session",
	})

	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// UseStore swaps the cookie session store. Tests use this with an in-memory
// store; production wiring goes through NewSessionStore.
func UseStore(s *session.Store) {
	sessionStore = s
}

func redisTarget() (string, int, string) {
	host, port := "localhost", 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if c := cache.GetClient(); c != nil {
		if h, p, err := net.SplitHostPort(c.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := c.Options().Password; p != "" {
			password = p
		}
	}
	return host, port, password
}

// Login creates the backing Session row for the account and binds it into
// the caller's cookie session.
func Login(c *fiber.Ctx, db *gorm.DB, accountID uint) (*models.Session, error) {
	row, err := models.CreateSession(db, accountID)
	if err != nil {
		return nil, err
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return nil, err
	}
	sess.Set(KeySessionID, row.ID)
	sess.Set(KeyAccountID, accountID)
	if err := sess.Save(); err != nil {
		return nil, err
	}

	return row, nil
}

// ActiveAccountID resolves the cookie to an authoritative account id. It
// fails closed: missing cookie, unknown or expired Session row, or a claimed
// account that is not the row's active member all read as unauthenticated.
// A present-but-invalid claim additionally destroys the cookie session; the
// third result tells the caller the client held stale credentials and should
// be sent to the home route.
func ActiveAccountID(c *fiber.Ctx, db *gorm.DB) (accountID uint, ok bool, stale bool) {
	sess, err := sessionStore.Get(c)
	if err != nil {
		return 0, false, false
	}

	sessionID, _ := sess.Get(KeySessionID).(string)
	claimed := claimedAccountID(sess.Get(KeyAccountID))
	if sessionID == "" && claimed == 0 {
		return 0, false, false
	}

	row, err := models.ResolveSession(db, sessionID)
	if err != nil || row == nil || !row.PermitsAccount(claimed) {
		_ = sess.Destroy()
		return 0, false, true
	}

	return claimed, true, false
}

// RequireAccountID is ActiveAccountID for handlers that demand a login.
// On failure it writes a redirect to the login route and returns it as the
// error. The redirectTo variadic controls the round-trip target: absent
// means the current path+query, an explicit empty string suppresses the
// parameter, anything else is used verbatim.
func RequireAccountID(c *fiber.Ctx, db *gorm.DB, redirectTo ...string) (uint, error) {
	accountID, ok, _ := ActiveAccountID(c, db)
	if ok {
		return accountID, nil
	}

	target := string(c.Request().URI().RequestURI())
	if len(redirectTo) > 0 {
		target = redirectTo[0]
	}

	return 0, c.Redirect(LoginURL(target), fiber.StatusSeeOther)
}

// LoginURL builds the login route, carrying redirectTo unless empty.
func LoginURL(redirectTo string) string {
	if redirectTo == "" {
		return constants.LoginRoute
	}
	return constants.LoginRoute + "?redirectTo=" + url.QueryEscape(redirectTo)
}

// Logout deletes the backing Session row best-effort, always clears the
// cookie session and redirects. Row deletion failures are swallowed: cookie
// invalidation is the binding contract.
func Logout(c *fiber.Ctx, db *gorm.DB, redirectTo string) error {
	if sess, err := sessionStore.Get(c); err == nil {
		if sessionID, _ := sess.Get(KeySessionID).(string); sessionID != "" {
			_ = models.DeleteSession(db, sessionID)
		}
		_ = sess.Destroy()
	}

	if redirectTo == "" {
		redirectTo = constants.PublicRoute
	}

	return c.Redirect(redirectTo, fiber.StatusSeeOther)
}

// SetValue stores a transient key in the caller's cookie session.
func SetValue(c *fiber.Ctx, key, value string) error {
	sess, err := sessionStore.Get(c)
	if err != nil {
		return err
	}
	sess.Set(key, value)
	return sess.Save()
}

// TakeValue reads and removes a transient key from the cookie session.
func TakeValue(c *fiber.Ctx, key string) string {
	sess, err := sessionStore.Get(c)
	if err != nil {
		return ""
	}
	value, _ := sess.Get(key).(string)
	if value != "" {
		sess.Delete(key)
		_ = sess.Save()
	}
	return value
}

// PeekValue reads a transient key without consuming it.
func PeekValue(c *fiber.Ctx, key string) string {
	sess, err := sessionStore.Get(c)
	if err != nil {
		return ""
	}
	value, _ := sess.Get(key).(string)
	return value
}

func claimedAccountID(v interface{}) uint {
	switch id := v.(type) {
	case uint:
		return id
	case int:
		return uint(id)
	case uint64:
		return uint(id)
	case int64:
		return uint(id)
	case string:
		n, _ := strconv.ParseUint(id, 10, 64)
		return uint(n)
	}
	return 0
}
