// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// Values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). Framework-level settings
// (ports, TLS, log level) live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name (default: pacsmin-session)
	SessionDomain string // cookie domain (blank means current host)

	// Base URL for OAuth callbacks (e.g., "https://pacsmin.org")
	BaseURL string

	// Google OAuth (blank disables Google sign-in)
	GoogleClientID     string
	GoogleClientSecret string

	// Initial admin seeded at startup when no matching account exists
	// (blank disables seeding). The seed only creates; it never changes
	// an existing account's password or role.
	AdminEmail    string
	AdminPassword string
}
