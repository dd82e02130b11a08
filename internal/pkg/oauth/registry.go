package oauth

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/notestackapp/notestack/internal/pkg/env"
)

// Registry holds the configured provider strategies. It is built once at
// process start and passed into the router; handlers consult it instead of
// a hidden package global.
type Registry struct {
	providers map[string]goth.Provider
}

// New configures the providers from the environment, registers them with
// goth (goth_fiber resolves strategies through goth's lookup) and prepares
// the transient OAuth state store.
func New() *Registry {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}

	providers := []goth.Provider{
		github.New(
			env.GetEnv("GITHUB_KEY", ""),
			env.GetEnv("GITHUB_SECRET", ""),
			base+"/auth/github/callback",
			"user:email",
		),
		google.New(
			env.GetEnv("GOOGLE_KEY", ""),
			env.GetEnv("GOOGLE_SECRET", ""),
			base+"/auth/google/callback",
			"email", "profile",
		),
		discord.New(
			env.GetEnv("DISCORD_KEY", ""),
			env.GetEnv("DISCORD_SECRET", ""),
			base+"/auth/discord/callback",
			discord.ScopeIdentify, discord.ScopeEmail,
		),
	}

	goth.UseProviders(providers...)
	setupStateStore()

	r := &Registry{providers: map[string]goth.Provider{}}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}

	return r
}

// Has reports whether the named provider is configured.
func (r *Registry) Has(name string) bool {
	_, ok := r.providers[name]
	return ok
}

// Names lists the configured provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// setupStateStore keeps the anti-forgery state and provider session in a
// short-lived signed cookie backed by redis, separate from app sessions.
func setupStateStore() {
	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     env.GetEnv("CACHE_HOST", "localhost"),
			Port:     cachePort(),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Hour,
	})
}

func cachePort() int {
	port := 6379
	if p := env.GetEnv("CACHE_PORT", ""); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	return port
}
