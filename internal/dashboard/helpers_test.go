package dashboard

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/qil-lattice/votboard/internal/core"
)

// fakeSource serves canned tables and can fail any query.
type fakeSource struct {
	mu       sync.Mutex
	runs     []core.Run
	vots     []core.Vot
	edges    []core.Edge
	runsErr  error
	votsErr  error
	edgesErr error
	runCalls int
}

func (f *fakeSource) Runs(_ context.Context, limit int) ([]core.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runCalls++
	if f.runsErr != nil {
		return nil, f.runsErr
	}
	if len(f.runs) > limit {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeSource) Vots(_ context.Context, _ int) ([]core.Vot, error) {
	if f.votsErr != nil {
		return nil, f.votsErr
	}
	return f.vots, nil
}

func (f *fakeSource) Edges(_ context.Context) ([]core.Edge, error) {
	if f.edgesErr != nil {
		return nil, f.edgesErr
	}
	return f.edges, nil
}

func (f *fakeSource) setRuns(runs []core.Run) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = runs
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runCalls
}

// fakeFeed reports ready once, after running beforeReady if set, and then
// delivers a notification for every value sent on events.
type fakeFeed struct {
	events      chan struct{}
	beforeReady func()
}

func (f *fakeFeed) Listen(ctx context.Context, onReady, onChange func()) error {
	if f.beforeReady != nil {
		f.beforeReady()
	}
	onReady()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.events:
			onChange()
		}
	}
}

var errBoom = errors.New("boom")

func run(day int, ok *bool) core.Run {
	return core.Run{ID: "r" + strconv.Itoa(day), Day: day, OK: ok}
}
