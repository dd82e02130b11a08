package constants

// Route targets shared between controllers and middleware.
const (
	PublicRoute      = "/"
	LoginRoute       = "/login"
	RegisterRoute    = "/register"
	LogoutRoute      = "/logout"
	VerifyRoute      = "/verify"
	OnboardingRoute  = "/onboarding"
	ConnectionsRoute = "/settings/profile/connections"
)
