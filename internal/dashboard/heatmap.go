package dashboard

import "github.com/qil-lattice/votboard/internal/core"

// HeatmapColumns is the width of the heatmap grid (365 = 73 x 5).
const HeatmapColumns = 73

// CellState is the background category of a heatmap cell.
type CellState string

// Cell states, in precedence order.
const (
	CellExcluded   CellState = "excluded"
	CellDone       CellState = "done"
	CellFailed     CellState = "failed"
	CellNotStarted CellState = "not-started"
)

// Cell is one day of the heatmap.
type Cell struct {
	Day   int       `json:"day"`
	State CellState `json:"state"`
}

// HeatmapCells returns exactly TotalDays cells. The first run matching a day
// decides its colour, and days outside the filter are always excluded.
func HeatmapCells(runs []core.Run, included DaySet) []Cell {
	first := make(map[int]core.Run, len(runs))
	for _, r := range runs {
		if _, ok := first[r.Day]; !ok {
			first[r.Day] = r
		}
	}

	cells := make([]Cell, core.TotalDays)
	for i := range cells {
		day := i + 1
		cells[i] = Cell{Day: day, State: cellState(first, included, day)}
	}
	return cells
}

func cellState(first map[int]core.Run, included DaySet, day int) CellState {
	if included != nil && !included.Has(day) {
		return CellExcluded
	}
	r, ok := first[day]
	if !ok {
		return CellNotStarted
	}
	switch r.State() {
	case core.RunStateDone:
		return CellDone
	case core.RunStateFailed:
		return CellFailed
	default:
		return CellNotStarted
	}
}
