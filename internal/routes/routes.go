package routes

import (
	"net/http"

	"github.com/printmate/printmate/internal/app"
	"github.com/printmate/printmate/internal/handler"
	"github.com/printmate/printmate/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	files := handler.NewFileHandler(app.FileService)
	printing := handler.NewPrintHandler(app.PrintService)
	help := handler.NewHelpHandler(app.HelpService)
	health := handler.NewHealthHandler(app.HealthService, app.Cfg.AppName)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/health", health.Health)
	mux.HandleFunc("GET /api/help", help.List)
	mux.HandleFunc("GET /api/help/{slug}", help.Show)

	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Auth (login is rate limited per IP)
	mux.HandleFunc("POST /api/auth/login", app.LoginLimiter.Limit(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("GET /api/files/recent", middleware.RequireAuth(files.Recent))
	mux.HandleFunc("POST /api/print", middleware.RequireAuth(printing.Submit))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.Auth(app.AuthService),
		middleware.Metrics, // Innermost, so the matched mux pattern is visible
	)

	return handler
}
