// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/placementhub/placementhub/internal/app/clients/aibackend"
	auditeventsfeature "github.com/placementhub/placementhub/internal/app/features/auditevents"
	authcallbackfeature "github.com/placementhub/placementhub/internal/app/features/authcallback"
	authgooglefeature "github.com/placementhub/placementhub/internal/app/features/authgoogle"
	healthfeature "github.com/placementhub/placementhub/internal/app/features/health"
	invitesfeature "github.com/placementhub/placementhub/internal/app/features/invites"
	logoutfeature "github.com/placementhub/placementhub/internal/app/features/logout"
	onboardingfeature "github.com/placementhub/placementhub/internal/app/features/onboarding"
	organizationsfeature "github.com/placementhub/placementhub/internal/app/features/organizations"
	postsfeature "github.com/placementhub/placementhub/internal/app/features/posts"
	uploadsfeature "github.com/placementhub/placementhub/internal/app/features/uploads"
	usersfeature "github.com/placementhub/placementhub/internal/app/features/users"
	"github.com/placementhub/placementhub/internal/app/store/audit"
	invitestore "github.com/placementhub/placementhub/internal/app/store/invites"
	organizationstore "github.com/placementhub/placementhub/internal/app/store/organizations"
	"github.com/placementhub/placementhub/internal/app/store/oauthstate"
	poststore "github.com/placementhub/placementhub/internal/app/store/posts"
	rolestore "github.com/placementhub/placementhub/internal/app/store/roles"
	userstore "github.com/placementhub/placementhub/internal/app/store/users"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/app/system/auth"
	"github.com/placementhub/placementhub/internal/app/system/authz"
	"github.com/placementhub/placementhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. PlacementHub is a JSON API: every
// feature router speaks JSON except the static file mount for locally
// stored uploads.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	orgs := organizationstore.New(db)
	posts := poststore.New(db)
	invites := invitestore.New(db)
	roles := rolestore.New(db)
	states := oauthstate.New(db)

	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	ai := aibackend.New(appCfg.AIBackendURL)

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context if logged
	// in, making auth.CurrentUser(r) available to all handlers.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Locally stored uploads (resumes) are served directly; S3 content is
	// reached through presigned URLs instead.
	if appCfg.StorageType == "local" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Authentication. Login endpoints sit behind a per-IP rate limit so a
	// misbehaving client cannot hammer the OAuth exchange.
	loginLimit := ratelimit.Middleware(ratelimit.New(20, time.Minute))
	r.Group(func(r chi.Router) {
		r.Use(loginLimit)

		callbackHandler := authcallbackfeature.NewHandler(users, sessionMgr, auditLog, logger)
		r.Mount("/auth/callback", authcallbackfeature.Routes(callbackHandler))

		googleHandler := authgooglefeature.NewHandler(users, states, sessionMgr, auditLog,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, appCfg.FrontendURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	})

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Profile lifecycle
	usersHandler := usersfeature.NewHandler(users, roles, auditLog, logger)
	r.Mount("/user", usersfeature.Routes(usersHandler))

	onboardingHandler := onboardingfeature.NewHandler(users, deps.Storage, auditLog, logger)
	r.Mount("/onboarding", onboardingfeature.Routes(onboardingHandler))

	// Placement-cell entities
	orgHandler := organizationsfeature.NewHandler(orgs, auditLog, logger)
	r.Mount("/organization", organizationsfeature.Routes(orgHandler))

	inviteHandler := invitesfeature.NewHandler(orgs, users, invites, auditLog, appCfg.BaseURL, logger)
	r.Mount("/invite", invitesfeature.Routes(inviteHandler))

	postsHandler := postsfeature.NewHandler(posts, users, ai, auditLog, logger)
	r.Mount("/post", postsfeature.Routes(postsHandler))

	// File uploads
	uploadsHandler := uploadsfeature.NewHandler(deps.Storage, logger)
	r.Mount("/upload", uploadsfeature.Routes(uploadsHandler))

	// Admin-only audit trail
	auditHandler := auditeventsfeature.NewHandler(auditStore, logger)
	r.With(authz.RequireAdmin(roles, logger)).Mount("/admin/audit", auditeventsfeature.Routes(auditHandler))

	return r, nil
}
