package dashboard

import (
	"sync"

	"github.com/qil-lattice/votboard/internal/core"
)

// State is an immutable snapshot of the three fetched tables.
type State struct {
	Runs  []core.Run
	Vots  []core.Vot
	Edges []core.Edge
}

// Store owns the authoritative state. Every write replaces a slot wholesale and
// then calls each subscriber synchronously, in subscription order.
type Store struct {
	mu        sync.RWMutex
	state     State
	version   uint64
	nextID    int
	listeners map[int]func()
	order     []int
}

// NewStore returns an empty store. All slots start as empty sequences.
func NewStore() *Store {
	return &Store{
		state: State{
			Runs:  []core.Run{},
			Vots:  []core.Vot{},
			Edges: []core.Edge{},
		},
		listeners: make(map[int]func()),
	}
}

// Snapshot returns the current state. Callers must not mutate the slices.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version counts writes. A view rendered at version v is stale once Version
// no longer returns v.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SnapshotVersion returns the current state together with its version.
func (s *Store) SnapshotVersion() (State, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.version
}

// SetRuns replaces the run slot. A nil slice is stored as empty.
func (s *Store) SetRuns(runs []core.Run) {
	if runs == nil {
		runs = []core.Run{}
	}
	s.mu.Lock()
	s.state.Runs = runs
	s.version++
	s.mu.Unlock()
	s.notify()
}

// SetVots replaces the VOT metadata slot.
func (s *Store) SetVots(vots []core.Vot) {
	if vots == nil {
		vots = []core.Vot{}
	}
	s.mu.Lock()
	s.state.Vots = vots
	s.version++
	s.mu.Unlock()
	s.notify()
}

// SetEdges replaces the edge slot.
func (s *Store) SetEdges(edges []core.Edge) {
	if edges == nil {
		edges = []core.Edge{}
	}
	s.mu.Lock()
	s.state.Edges = edges
	s.version++
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers fn to run after every write and returns a function that removes it.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
