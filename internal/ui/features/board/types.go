// Package board serves the live VOT dashboard page, its update stream and
// the read-only JSON API.
package board

import (
	"time"

	"github.com/qil-lattice/votboard/internal/core"
	"github.com/qil-lattice/votboard/internal/dashboard"
)

// DayDetail is the JSON body of /api/days/{day}.
type DayDetail struct {
	Day   int                 `json:"day"`
	State dashboard.CellState `json:"state"`
	Theme string              `json:"theme,omitempty"`
	Vots  []core.Vot          `json:"vots"`
	Runs  []core.Run          `json:"runs"`
	// Blocks and BlockedBy list the days on the other end of each edge.
	Blocks    []int `json:"blocks"`
	BlockedBy []int `json:"blocked_by"`
}

// Health is the JSON body of /healthz.
type Health struct {
	OK      bool      `json:"ok"`
	Runs    int       `json:"runs"`
	Vots    int       `json:"vots"`
	Edges   int       `json:"edges"`
	Streams int       `json:"streams"`
	Time    time.Time `json:"time"`
}
