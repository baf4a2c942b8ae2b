package board

import (
	"sync"

	"github.com/google/uuid"

	"github.com/qil-lattice/votboard/internal/core"
)

// Views tracks the filter of every open browser view. An entry lives from the
// moment its update stream connects until the stream closes, so a reload
// starts from an empty filter.
type Views struct {
	mu      sync.RWMutex
	filters map[string]core.FilterState
}

// NewViews creates an empty registry.
func NewViews() *Views {
	return &Views{filters: make(map[string]core.FilterState)}
}

// NewViewID returns a fresh identifier for a page render.
func NewViewID() string {
	return uuid.NewString()
}

// Set replaces the filter of view id.
func (v *Views) Set(id string, f core.FilterState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters[id] = f
}

// Update replaces the filter of view id only if the view is tracked, and
// reports whether it was. Unknown ids never create an entry.
func (v *Views) Update(id string, f core.FilterState) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.filters[id]; !ok {
		return false
	}
	v.filters[id] = f
	return true
}

// Get returns the filter of view id, or the empty filter for an unknown view.
func (v *Views) Get(id string) core.FilterState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filters[id]
}

// Delete forgets view id.
func (v *Views) Delete(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.filters, id)
}

// Len reports the number of tracked views.
func (v *Views) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.filters)
}
