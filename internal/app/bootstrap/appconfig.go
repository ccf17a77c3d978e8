// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side (ports, TLS, log level, env); everything the journey app
// itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: ascetic-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a sign-in lasts

	// Signing key for the cookie-consent record
	ConsentKey string

	// Email/SMTP configuration. A blank host logs messages instead of sending.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Base URL for magic links, e.g. "https://asceticjourney.com"
	BaseURL string

	// Lifetime of a magic link and its fallback code
	EmailVerifyExpiry time.Duration

	// Magic-link request limits
	AuthIPLimit     int
	AuthIPWindow    time.Duration
	AuthEmailLimit  int
	AuthEmailWindow time.Duration
}
