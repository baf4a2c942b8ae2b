package board

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/qil-lattice/votboard/internal/dashboard"
	"github.com/qil-lattice/votboard/internal/ui/notifier"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(
	router chi.Router,
	store *dashboard.Store,
	notify *notifier.Notifier,
	views *Views,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(store, notify, views, logger, isDev)

	router.Get("/", handlers.DashboardPage)
	router.Get("/updates", handlers.DashboardUpdates)
	router.Get("/filter", handlers.ApplyFilter)

	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", handlers.DashboardJSON)
		r.Get("/days/{day}", handlers.DayJSON)
	})

	return nil
}
