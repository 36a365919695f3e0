// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"
	"strings"
	"time"

	dashboardfeature "github.com/dalemusser/clinicoutcomes/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/clinicoutcomes/internal/app/features/errors"
	healthfeature "github.com/dalemusser/clinicoutcomes/internal/app/features/health"
	appresources "github.com/dalemusser/clinicoutcomes/internal/app/resources"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/apicors"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Routes:
//
//	GET  /                       dashboard (read-only; ?range=N redirects to the selector)
//	POST /range                  range selector form (CSRF protected)
//	GET  /print                  printable report
//	GET  /api/outcomes           JSON state snapshot (read-only)
//	GET  /api/outcomes/history   recent state actions
//	GET  /metrics                Prometheus metrics (metrics_enabled)
//	GET  /health, /ready, /readyz, /livez
//	GET  /assets/*, /static/*
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if current == nil {
		return nil, errors.New("services not initialized; Startup must run before BuildHandler")
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// Request IDs are echoed in API snapshots and error logs.
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	secure := coreCfg.Env == "prod"
	r.Use(csrfMiddleware(appCfg.CSRFKey, secure, logger))

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.DataSource, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Static assets with pre-compressed file support (gzip/brotli)
	// /static/* serves files from disk (static directory)
	r.Handle("/static/*", fileserver.Handler("/static", "static"))

	// /assets/* serves embedded assets (bundled into the binary)
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	if appCfg.MetricsEnabled {
		r.Handle("/metrics", current.metrics.Handler())
	}

	// JSON API: read-only, cookie-free, open CORS
	r.Route("/api/outcomes", func(sr chi.Router) {
		sr.Use(apicors.Middleware(apicors.ParseOrigins(appCfg.APIAllowedOrigins)...))
		sr.Mount("/", dashboardfeature.APIRoutes(current.dashboard))
	})

	// Dashboard pages
	r.Mount("/", dashboardfeature.Routes(current.dashboard))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}

// csrfExempt reports paths that never take form posts from the pages and so
// skip CSRF checks: the JSON API, metrics, and health probes.
func csrfExempt(path string) bool {
	switch path {
	case "/metrics", "/health", "/ready", "/readyz", "/livez":
		return true
	}
	return strings.HasPrefix(path, "/api/") || path == "/api" || strings.HasPrefix(path, "/health/")
}

// csrfMiddleware wraps gorilla/csrf with path-based exemptions.
// Cookie name is "clinicoutcomes_csrf" to avoid collisions with other
// services on the same domain.
func csrfMiddleware(key string, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("clinicoutcomes_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	protect := csrf.Protect([]byte(key), csrfOpts...)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if csrfExempt(req.URL.Path) {
				next.ServeHTTP(w, req)
				return
			}
			if !secure {
				// Origin checks assume HTTPS unless told otherwise.
				req = csrf.PlaintextHTTPRequest(req)
			}
			protected.ServeHTTP(w, req)
		})
	}
}
