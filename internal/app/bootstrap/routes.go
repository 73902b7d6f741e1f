// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/dalemusser/startupinsight/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/startupinsight/internal/app/features/health"
	heartbeatfeature "github.com/dalemusser/startupinsight/internal/app/features/heartbeat"
	"github.com/dalemusser/startupinsight/internal/app/system/csrfguard"
	"github.com/dalemusser/startupinsight/internal/app/system/visitor"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, back-end setup and the Startup
// hook have completed. It boots the template engine and mounts the health
// endpoint, static assets, the heartbeat and the dashboard.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	return newRouter(appCfg, deps, coreCfg.Env == "prod", logger)
}

// newRouter mounts every feature. Secure cookies are enabled in production.
func newRouter(appCfg AppConfig, deps DBDeps, secure bool, logger *zap.Logger) (chi.Router, error) {
	visitors, err := visitor.NewManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, visitor.DefaultMaxAge, secure, logger)
	if err != nil {
		logger.Error("visitor cookie manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Profiles, deps.Hub)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// The dashboard needs a visitor id on every request, and every POST
	// must carry the CSRF token its page or /state handed out.
	dashboardHandler := dashboardfeature.NewHandler(deps.Hub, deps.Profiles, appCfg.DefaultDarkMode, logger)
	dashboardHandler.NewSessions = deps.NewSessions
	heartbeatHandler := heartbeatfeature.NewHandler(deps.Hub, logger)
	r.Group(func(vr chi.Router) {
		vr.Use(visitors.Middleware)
		vr.Use(csrfguard.Middleware(appCfg.SessionKey, secure, logger))
		vr.Mount("/heartbeat", heartbeatfeature.Routes(heartbeatHandler))
		vr.Mount("/", dashboardfeature.Routes(dashboardHandler))
	})

	return r, nil
}
