// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authpagefeature "github.com/asceticjourney/journey/internal/app/features/authpage"
	completionfeature "github.com/asceticjourney/journey/internal/app/features/completion"
	consentfeature "github.com/asceticjourney/journey/internal/app/features/consent"
	dashboardfeature "github.com/asceticjourney/journey/internal/app/features/dashboard"
	errorsfeature "github.com/asceticjourney/journey/internal/app/features/errors"
	healthfeature "github.com/asceticjourney/journey/internal/app/features/health"
	landingfeature "github.com/asceticjourney/journey/internal/app/features/landing"
	logoutfeature "github.com/asceticjourney/journey/internal/app/features/logout"
	privacyfeature "github.com/asceticjourney/journey/internal/app/features/privacy"
	"github.com/asceticjourney/journey/internal/app/store/emailverify"
	journeystore "github.com/asceticjourney/journey/internal/app/store/journeys"
	userstore "github.com/asceticjourney/journey/internal/app/store/users"
	"github.com/asceticjourney/journey/internal/app/system/auth"
	"github.com/asceticjourney/journey/internal/app/system/consent"
	"github.com/asceticjourney/journey/internal/app/system/mailer"
	"github.com/asceticjourney/journey/internal/app/system/ratelimit"
	"github.com/asceticjourney/journey/internal/app/system/requestlog"
	"github.com/asceticjourney/journey/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It initializes the template engine,
// applies request logging and session middleware, and mounts the feature
// routers: landing, privacy, consent, auth, dashboard and completion.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	consentMgr, err := consent.NewManager(appCfg.ConsentKey, secure, logger)
	if err != nil {
		logger.Error("consent manager init failed", zap.Error(err))
		return nil, err
	}
	viewdata.Init(consentMgr)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	users := userstore.New(deps.MongoDatabase)
	journeys := journeystore.New(deps.MongoDatabase)
	verifications := emailverify.New(deps.MongoDatabase, appCfg.EmailVerifyExpiry)

	limiter := ratelimit.NewAuthLimiter(appCfg.AuthIPLimit, appCfg.AuthIPWindow, appCfg.AuthEmailLimit, appCfg.AuthEmailWindow)
	closers = append(closers, limiter.Stop)

	r := chi.NewRouter()

	r.Use(requestlog.Middleware(logger))
	// Loads SessionUser into context if logged in, so every handler can call
	// auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	landingHandler := landingfeature.NewHandler(logger)
	r.Mount("/", landingfeature.Routes(landingHandler))

	privacyHandler := privacyfeature.NewHandler(logger)
	r.Mount("/privacy", privacyfeature.Routes(privacyHandler))

	consentHandler := consentfeature.NewHandler(consentMgr, logger)
	r.Mount("/consent", consentfeature.Routes(consentHandler))

	// Authentication
	authHandler := authpagefeature.NewHandler(
		sessionMgr,
		errLog,
		users,
		verifications,
		journeys,
		newSender(appCfg, logger),
		limiter,
		appCfg.BaseURL,
		logger,
	)
	r.Mount("/auth", authpagefeature.Routes(authHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Signed-in areas
	dashboardHandler := dashboardfeature.NewHandler(journeys, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	completionHandler := completionfeature.NewHandler(journeys, errLog, logger)
	r.Mount("/journey/complete", completionfeature.Routes(completionHandler, sessionMgr))

	return r, nil
}

// newSender returns the SMTP mailer, or a logging sender when no SMTP host
// is configured (local development).
func newSender(appCfg AppConfig, logger *zap.Logger) mailer.Sender {
	if appCfg.MailSMTPHost == "" {
		logger.Warn("mail_smtp_host is empty; magic links will be logged, not sent")
		return mailer.LogSender{Log: logger}
	}
	return mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
}
