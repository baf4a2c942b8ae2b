// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/qil-lattice/votboard/internal/dashboard"
	boardFeature "github.com/qil-lattice/votboard/internal/ui/features/board"
	"github.com/qil-lattice/votboard/internal/ui/notifier"
	"github.com/qil-lattice/votboard/internal/ui/resources"
)

// Deps are the shared dependencies of every feature.
type Deps struct {
	Store    *dashboard.Store
	Notifier *notifier.Notifier
	Views    *boardFeature.Views
	Logger   *slog.Logger
	IsDev    bool
	// Reload pings trigger a browser reload in dev mode.
	Reload *notifier.Notifier
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	if deps.IsDev && deps.Reload != nil {
		setupReload(router, deps.Reload)
	}

	router.Handle("/static/*", resources.Handler())

	if err := boardFeature.SetupRoutes(router, deps.Store, deps.Notifier, deps.Views, deps.Logger, deps.IsDev); err != nil {
		return err
	}

	return nil
}

// setupReload serves /reload, which reloads the page on connect after a
// restart and again on every ping, and /hotreload, which sends a ping.
func setupReload(router chi.Router, reload *notifier.Notifier) {
	var restartOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		pings := reload.Subscribe()
		defer reload.Unsubscribe(pings)

		doReload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		restartOnce.Do(doReload)

		select {
		case <-pings:
			doReload()
		case <-r.Context().Done():
		}
	})

	router.Post("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		reload.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
