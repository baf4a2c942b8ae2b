package dashboard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qil-lattice/votboard/internal/core"
)

func TestStore_StartsEmpty(t *testing.T) {
	s := NewStore()
	state := s.Snapshot()
	assert.NotNil(t, state.Runs)
	assert.NotNil(t, state.Vots)
	assert.NotNil(t, state.Edges)
	assert.Empty(t, state.Runs)
}

func TestStore_NilWritesBecomeEmpty(t *testing.T) {
	s := NewStore()
	s.SetRuns([]core.Run{run(1, nil)})
	s.SetRuns(nil)
	s.SetVots(nil)
	s.SetEdges(nil)

	state := s.Snapshot()
	assert.NotNil(t, state.Runs)
	assert.Empty(t, state.Runs)
	assert.NotNil(t, state.Vots)
	assert.NotNil(t, state.Edges)
}

func TestStore_NotifiesSubscribersInOrder(t *testing.T) {
	s := NewStore()
	var calls []string
	s.Subscribe(func() { calls = append(calls, "first") })
	unsubscribe := s.Subscribe(func() { calls = append(calls, "second") })

	s.SetRuns([]core.Run{run(1, core.Bool(true))})
	assert.Equal(t, []string{"first", "second"}, calls)

	unsubscribe()
	unsubscribe() // idempotent
	s.SetVots([]core.Vot{{Day: 1}})
	assert.Equal(t, []string{"first", "second", "first"}, calls)
}

func TestStore_SubscriberSeesNewState(t *testing.T) {
	s := NewStore()
	var seen int
	s.Subscribe(func() { seen = len(s.Snapshot().Edges) })

	s.SetEdges([]core.Edge{{Src: 1, Dst: 2}, {Src: 2, Dst: 3}})
	assert.Equal(t, 2, seen)
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unsubscribe := s.Subscribe(func() {})
			s.SetRuns([]core.Run{run(i+1, nil)})
			_ = s.Snapshot()
			unsubscribe()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Snapshot().Runs, 1)
	assert.Empty(t, s.listeners)
	assert.Empty(t, s.order)
}

func TestStore_VersionCountsWrites(t *testing.T) {
	s := NewStore()
	assert.Equal(t, uint64(0), s.Version())

	s.SetRuns(nil)
	s.SetVots(nil)
	s.SetEdges([]core.Edge{{Src: 1, Dst: 2}})

	state, v := s.SnapshotVersion()
	assert.Equal(t, uint64(3), v)
	assert.Len(t, state.Edges, 1)
}
