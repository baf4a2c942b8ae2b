// Package features provides shared test fixtures for UI feature handlers.
package features

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/qil-lattice/votboard/internal/dashboard"
	"github.com/qil-lattice/votboard/internal/testutil"
	"github.com/qil-lattice/votboard/internal/ui/notifier"
)

// TestFixture holds the dependencies of a feature handler under test.
type TestFixture struct {
	Store    *dashboard.Store
	Notifier *notifier.Notifier
	Logger   *slog.Logger
}

// SetupTestFixture creates a store preloaded with state and a notifier wired
// to it the way the server wires them.
func SetupTestFixture(t *testing.T, state dashboard.State) *TestFixture {
	t.Helper()

	store := dashboard.NewStore()
	store.SetRuns(state.Runs)
	store.SetVots(state.Vots)
	store.SetEdges(state.Edges)

	n := notifier.New()
	t.Cleanup(store.Subscribe(n.Broadcast))

	return &TestFixture{
		Store:    store,
		Notifier: n,
		Logger:   testutil.NewTestLogger(t),
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context that is cancelled after
// timeout or at test cleanup, whichever comes first.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// RequestWithSignals encodes signals into the datastar query parameter, as
// the browser does for GET actions.
func RequestWithSignals(t *testing.T, r *http.Request, signals any) *http.Request {
	t.Helper()
	b, err := json.Marshal(signals)
	require.NoError(t, err)
	r.URL.RawQuery = url.Values{"datastar": {string(b)}}.Encode()
	return r
}
