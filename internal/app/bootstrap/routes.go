// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/eyemusician1/pacsmin/internal/app/features/admin/dashboard"
	admineventsfeature "github.com/eyemusician1/pacsmin/internal/app/features/admin/events"
	adminsettingsfeature "github.com/eyemusician1/pacsmin/internal/app/features/admin/settings"
	adminstorefeature "github.com/eyemusician1/pacsmin/internal/app/features/admin/storeitems"
	adminusersfeature "github.com/eyemusician1/pacsmin/internal/app/features/admin/users"
	contactfeature "github.com/eyemusician1/pacsmin/internal/app/features/contact"
	errorsfeature "github.com/eyemusician1/pacsmin/internal/app/features/errors"
	eventsfeature "github.com/eyemusician1/pacsmin/internal/app/features/events"
	healthfeature "github.com/eyemusician1/pacsmin/internal/app/features/health"
	homefeature "github.com/eyemusician1/pacsmin/internal/app/features/home"
	signinfeature "github.com/eyemusician1/pacsmin/internal/app/features/signin"
	signoutfeature "github.com/eyemusician1/pacsmin/internal/app/features/signout"
	storefrontfeature "github.com/eyemusician1/pacsmin/internal/app/features/storefront"
	userstore "github.com/eyemusician1/pacsmin/internal/app/store/users"
	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/app/system/secheaders"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the app.
//
// The middleware order matters: security headers and the admin
// prefilter run before the session user is loaded, so an obviously
// anonymous admin request is redirected without a database hit.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh profile data on each request, so
	// role changes and deletions take effect on the next request.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(userstore.New(db), logger))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	r.Use(secheaders.Chain(sessionMgr.CookieName()))
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	eventsHandler := eventsfeature.NewHandler(db, errLog, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	storeHandler := storefrontfeature.NewHandler(db, errLog, logger)
	r.Mount("/store", storefrontfeature.Routes(storeHandler))

	contactHandler := contactfeature.NewHandler(db)
	r.Mount("/contact", contactfeature.Routes(contactHandler))

	// Authentication
	googleCfg := signinfeature.GoogleConfig{
		ClientID:     appCfg.GoogleClientID,
		ClientSecret: appCfg.GoogleClientSecret,
		BaseURL:      appCfg.BaseURL,
	}
	signinHandler := signinfeature.NewHandler(db, sessionMgr, errLog, googleCfg, logger)
	r.Mount(auth.SignInPath, signinfeature.Routes(signinHandler))

	signoutHandler := signoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/signout", signoutfeature.Routes(signoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Admin back office, gated once here and re-checked per operation.
	r.Route("/admin", func(r chi.Router) {
		r.Use(sessionMgr.RequireRole(models.RoleAdmin))

		dashboardHandler := dashboardfeature.NewHandler(db, logger)
		r.Mount("/", dashboardfeature.Routes(dashboardHandler))

		usersHandler := adminusersfeature.NewHandler(db, errLog, logger)
		r.Mount("/users", adminusersfeature.Routes(usersHandler))

		adminEventsHandler := admineventsfeature.NewHandler(db, sessionMgr, errLog, logger)
		r.Mount("/events", admineventsfeature.Routes(adminEventsHandler))

		adminStoreHandler := adminstorefeature.NewHandler(db, sessionMgr, errLog, logger)
		r.Mount("/store", adminstorefeature.Routes(adminStoreHandler))

		settingsHandler := adminsettingsfeature.NewHandler(db, errLog, logger)
		r.Mount("/settings", adminsettingsfeature.Routes(settingsHandler))
	})

	return r, nil
}
