package board

import (
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/qil-lattice/votboard/internal/core"
	"github.com/qil-lattice/votboard/internal/dashboard"
	"github.com/qil-lattice/votboard/internal/ui/features/board/components"
	"github.com/qil-lattice/votboard/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	store    *dashboard.Store
	notifier *notifier.Notifier
	views    *Views
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *dashboard.Store, notify *notifier.Notifier, views *Views, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		store:    store,
		notifier: notify,
		views:    views,
		logger:   logger,
		isDev:    isDev,
	}
}

// DashboardPage renders the full page for a new view with an empty filter.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	state, rev := h.store.SnapshotVersion()
	data := components.PageData{
		Title:   "Dashboard",
		IsDev:   h.isDev,
		Signals: components.Signals{ViewID: NewViewID(), Rev: rev},
		View:    dashboard.Build(state, core.FilterState{}),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DashboardUpdates is the long-lived SSE endpoint of one view. It re-renders
// the view after every store change. Content is already on the page, so the
// first patch is only sent when the store moved on since the page render.
func (h *Handlers) DashboardUpdates(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals components.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	sse := datastar.NewSSE(w, r)

	id := signals.ViewID
	if id == "" {
		id = NewViewID()
	}
	h.views.Set(id, filterOf(signals))
	defer h.views.Delete(id)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	if h.store.Version() != signals.Rev {
		if err := h.sendView(sse, id); err != nil {
			_ = sse.ConsoleError(err)
		}
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendView(sse, id); err != nil {
				_ = sse.ConsoleError(err)
				// keep the stream; the next change retries
			}
		}
	}
}

// ApplyFilter stores the filter sent by the filter panel and re-renders the view.
func (h *Handlers) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	var signals components.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	sse := datastar.NewSSE(w, r)

	filter := filterOf(signals)
	// A view without an open stream is re-seeded from its signals when the
	// stream connects, so only tracked views are updated.
	tracked := h.views.Update(signals.ViewID, filter)
	h.logger.DebugContext(r.Context(), "filter applied",
		"view", signals.ViewID, "tracked", tracked, "role", filter.Role, "theme", filter.Theme)

	view := dashboard.Build(h.store.Snapshot(), filter)
	if err := sse.PatchElementTempl(components.AppContent(view)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// sendView builds and sends the content of view id.
func (h *Handlers) sendView(sse *datastar.ServerSentEventGenerator, id string) error {
	view := dashboard.Build(h.store.Snapshot(), h.views.Get(id))
	return sse.PatchElementTempl(components.AppContent(view))
}

func filterOf(s components.Signals) core.FilterState {
	return core.FilterState{Role: s.Role, Theme: s.Theme}
}
