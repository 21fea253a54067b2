package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/almanac-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health
//	GET /api/v1/day/{date}?time=HH:MM
//	GET /api/v1/lunar/{date}
//	GET /api/v1/pillars/{date}?time=HH:MM
//	GET /api/v1/flying-stars/{scale}/{date}?time=HH:MM
//	GET /api/v1/officer/{date}
//	GET /api/v1/officer?start=YYYY-MM-DD&end=YYYY-MM-DD
//	GET /api/v1/ziwei?birth=YYYY-MM-DD&hour=H&year=YYYY
//	GET /api/v1/solar?year=YYYY&month=M&day=D&leap=true
//	GET /api/v1/solar-terms/{year}
//
// Everything under /api/v1 requires X-API-Key unless running in development
// without a key.
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)

	// ==========================================================================
	// Almanac routes
	// ==========================================================================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg, logger))

		r.Get("/day/{date}", handlers.GetDay)
		r.Get("/lunar/{date}", handlers.GetLunar)
		r.Get("/pillars/{date}", handlers.GetPillars)
		r.Get("/flying-stars/{scale}/{date}", handlers.GetFlyingStars)
		r.Get("/officer", handlers.GetOfficerRange)
		r.Get("/officer/{date}", handlers.GetOfficer)
		r.Get("/ziwei", handlers.GetZiWei)
		r.Get("/solar", handlers.GetSolar)
		r.Get("/solar-terms/{year}", handlers.GetSolarTerms)
	})

	return r
}
