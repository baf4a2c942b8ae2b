package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/qil-lattice/votboard/internal/source"
)

// Loader keeps a Store in step with the backend. The three tables are fetched
// once, and the run table is refetched on every change notification.
//
// A failed query leaves an empty slot behind: the dashboard cannot tell a
// failed fetch from an empty table, and nothing is retried.
type Loader struct {
	source source.Source
	feed   source.ChangeFeed
	store  *Store
	logger *slog.Logger

	// runMu serializes run refetches so the last one to start is the last to land.
	runMu sync.Mutex
}

// NewLoader wires a source and its change feed to store.
// If logger is nil, a discard logger is used.
func NewLoader(src source.Source, feed source.ChangeFeed, store *Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{source: src, feed: feed, store: store, logger: logger}
}

// Load issues the three initial queries concurrently. Each one fills its own
// slot as soon as it resolves, so the store passes through partial states.
func (l *Loader) Load(ctx context.Context) {
	var g errgroup.Group

	g.Go(func() error {
		l.RefreshRuns(ctx)
		return nil
	})

	g.Go(func() error {
		vots, err := l.source.Vots(ctx, VotLimit)
		if err != nil {
			l.logger.WarnContext(ctx, "vot query failed", "error", err)
		}
		l.store.SetVots(vots)
		return nil
	})

	g.Go(func() error {
		edges, err := l.source.Edges(ctx)
		if err != nil {
			l.logger.WarnContext(ctx, "edge query failed", "error", err)
		}
		l.store.SetEdges(edges)
		return nil
	})

	_ = g.Wait()
}

// RefreshRuns refetches the run table and replaces the run slot wholesale.
func (l *Loader) RefreshRuns(ctx context.Context) {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	runs, err := l.source.Runs(ctx, RunLimit)
	if err != nil {
		l.logger.WarnContext(ctx, "run query failed", "error", err)
		runs = nil
	}
	l.store.SetRuns(runs)
}

// Run subscribes to the change feed and loads the initial state alongside it,
// then follows the feed until ctx is cancelled. Every (re)subscription
// refetches the runs, so a change committed before the subscription existed
// is never lost. Cancelling ctx releases the subscription.
func (l *Loader) Run(ctx context.Context) error {
	if l.feed == nil {
		l.load(ctx)
		<-ctx.Done()
		return nil
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		refresh := func() { l.RefreshRuns(egctx) }
		return l.feed.Listen(egctx, refresh, refresh)
	})
	eg.Go(func() error {
		l.load(egctx)
		return nil
	})
	return eg.Wait()
}

func (l *Loader) load(ctx context.Context) {
	l.Load(ctx)
	snap := l.store.Snapshot()
	l.logger.InfoContext(ctx, "dashboard state loaded",
		"runs", len(snap.Runs),
		"vots", len(snap.Vots),
		"edges", len(snap.Edges),
	)
}
