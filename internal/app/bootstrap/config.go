// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minKeyLength is the shortest signing key accepted for sessions and consent.
const minKeyLength = 32

// appConfigKeys defines the configuration keys for Ascetic Journey.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ASCETIC_MONGO_URI, ASCETIC_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ascetic_journey", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 50, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "ascetic-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "How long a sign-in lasts (e.g., 720h)"},
	{Name: "consent_key", Default: "dev-only-consent-key-change-me-0123456789", Desc: "Signing key for the cookie-consent record"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host (blank logs emails instead of sending)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@asceticjourney.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Ascetic Journey", Desc: "From display name"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for magic links"},
	{Name: "email_verify_expiry", Default: "10m", Desc: "Magic link and code expiry (e.g., 10m, 1h)"},

	// Magic-link throttling
	{Name: "auth_ip_limit", Default: 10, Desc: "Magic-link requests allowed per IP per window"},
	{Name: "auth_ip_window", Default: "1m", Desc: "Per-IP window"},
	{Name: "auth_email_limit", Default: 5, Desc: "Magic-link requests allowed per email per window"},
	{Name: "auth_email_window", Default: "15m", Desc: "Per-email window"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ASCETIC_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ASCETIC", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),
		ConsentKey:    appValues.String("consent_key"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL:           appValues.String("base_url"),
		EmailVerifyExpiry: appValues.Duration("email_verify_expiry", 10*time.Minute),

		AuthIPLimit:     appValues.Int("auth_ip_limit"),
		AuthIPWindow:    appValues.Duration("auth_ip_window", time.Minute),
		AuthEmailLimit:  appValues.Int("auth_email_limit"),
		AuthEmailWindow: appValues.Duration("auth_email_window", 15*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if len(appCfg.SessionKey) < minKeyLength {
		return fmt.Errorf("session_key must be at least %d characters", minKeyLength)
	}
	if len(appCfg.ConsentKey) < minKeyLength {
		return fmt.Errorf("consent_key must be at least %d characters", minKeyLength)
	}
	if err := validateBaseURL(appCfg.BaseURL); err != nil {
		return err
	}
	if appCfg.EmailVerifyExpiry <= 0 {
		return fmt.Errorf("email_verify_expiry must be positive")
	}
	if appCfg.AuthIPLimit <= 0 || appCfg.AuthEmailLimit <= 0 {
		return fmt.Errorf("auth rate limits must be positive")
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}
