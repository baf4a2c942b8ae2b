package dashboard

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qil-lattice/votboard/internal/core"
)

func TestHeatmapCells(t *testing.T) {
	runs := []core.Run{
		run(1, core.Bool(true)),
		run(2, core.Bool(false)),
		run(3, nil),
		run(4, core.Bool(false)),
		run(4, core.Bool(true)), // first match wins
		run(5, core.Bool(true)),
	}
	included := AllDays()
	delete(included, 5)

	cells := HeatmapCells(runs, included)
	require.Len(t, cells, core.TotalDays)

	assert.Equal(t, Cell{Day: 1, State: CellDone}, cells[0])
	assert.Equal(t, Cell{Day: 2, State: CellFailed}, cells[1])
	assert.Equal(t, Cell{Day: 3, State: CellNotStarted}, cells[2])
	assert.Equal(t, Cell{Day: 4, State: CellFailed}, cells[3])
	assert.Equal(t, Cell{Day: 5, State: CellExcluded}, cells[4], "exclusion beats done")
	assert.Equal(t, Cell{Day: 365, State: CellNotStarted}, cells[364])
}

func TestHeatmapCells_AlwaysFullYear(t *testing.T) {
	for _, n := range []int{0, 1, 500} {
		runs := make([]core.Run, n)
		for i := range runs {
			runs[i] = run(i%400+1, core.Bool(true))
		}
		assert.Len(t, HeatmapCells(runs, AllDays()), core.TotalDays)
	}
}

func TestBuildGraph(t *testing.T) {
	runs := []core.Run{
		run(1, core.Bool(true)),
		run(2, core.Bool(true)),
		run(2, core.Bool(false)), // last run for a day decides the node
		run(3, core.Bool(false)),
	}
	edges := []core.Edge{{Src: 1, Dst: 2}, {Src: 2, Dst: 999}}

	g := BuildGraph(edges, runs)

	require.Len(t, g.Nodes, core.TotalDays)
	assert.Equal(t, GraphNode{ID: "n1", Label: "1", Class: NodeOK}, g.Nodes[0])
	assert.Equal(t, NodeOpen, g.Nodes[1].Class)
	assert.Equal(t, NodeOpen, g.Nodes[2].Class)
	assert.Equal(t, "n365", g.Nodes[364].ID)

	assert.Equal(t, []GraphEdge{
		{ID: "e1_2", Source: "n1", Target: "n2"},
		{ID: "e2_999", Source: "n2", Target: "n999"},
	}, g.Edges)
}

func TestThemeRows_FirstVotWins(t *testing.T) {
	vots := []core.Vot{
		{Day: 1, Role: "A"}, // no theme, and it is the first row for day 1
		{Day: 1, Theme: "X"},
		{Day: 2, Theme: "Y"},
	}
	rows := ThemeRows([]core.Run{run(1, nil), run(2, core.Bool(true)), run(3, nil)}, vots)

	require.Len(t, rows, 3)
	assert.Equal(t, "", rows[0].Theme)
	assert.Equal(t, "Y", rows[1].Theme)
	assert.Equal(t, "", rows[2].Theme)
}

func TestThemeCompletion(t *testing.T) {
	rows := []ThemeRow{
		{Day: 1, Theme: "X", OK: core.Bool(true)},
		{Day: 2, Theme: "", OK: nil},
		{Day: 3, Theme: "X", OK: core.Bool(false)},
		{Day: 4, Theme: "Y", OK: core.Bool(true)},
		{Day: 5, Theme: "X", OK: core.Bool(true)},
	}

	groups := ThemeCompletion(rows)
	assert.Equal(t, []ThemeGroup{
		{Theme: "X", Done: 2, Total: 3, Percent: 67},
		{Theme: UnknownTheme, Done: 0, Total: 1, Percent: 0},
		{Theme: "Y", Done: 1, Total: 1, Percent: 100},
	}, groups)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds half up
		{3, 3, 100},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.done)+"/"+strconv.Itoa(tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.done, tt.total))
		})
	}
}

func TestThroughput(t *testing.T) {
	runs := []core.Run{
		run(3, core.Bool(true)),
		run(3, core.Bool(true)),
		run(10, core.Bool(true)),
		run(11, core.Bool(false)),
		run(12, nil),
		run(0, core.Bool(true)),
		run(366, core.Bool(true)),
		run(365, core.Bool(true)),
	}

	series := Throughput(runs)
	require.Len(t, series, core.TotalDays)
	assert.Equal(t, 0, series[1])
	assert.Equal(t, 1, series[2])
	assert.Equal(t, 1, series[8])
	assert.Equal(t, 2, series[9])
	assert.Equal(t, 2, series[363])
	assert.Equal(t, 3, series[364])

	for i := 1; i < len(series); i++ {
		assert.GreaterOrEqual(t, series[i], series[i-1], "series must not decrease at %d", i)
	}
}

func TestThroughput_FinalValueMatchesDoneDays(t *testing.T) {
	var runs []core.Run
	done := 0
	for day := 1; day <= core.TotalDays; day++ {
		ok := day%3 == 0
		if ok {
			done++
		}
		runs = append(runs, run(day, core.Bool(ok)))
	}

	series := Throughput(runs)
	assert.Equal(t, done, series[core.TotalDays-1])
	assert.Equal(t, Summarize(runs).Done, series[core.TotalDays-1])
}

func TestArtifactEntries(t *testing.T) {
	withLink := core.Run{
		ID: "a", Day: 9, OK: core.Bool(true),
		Artifacts: core.ObjectValue(
			core.Member{Key: "report", Value: core.StringValue("https://x/y")},
			core.Member{Key: "score", Value: core.NumberValue("0.9")},
		),
	}
	emptyObject := core.Run{ID: "b", Day: 10, Artifacts: core.ObjectValue()}
	absent := core.Run{ID: "c", Day: 11}

	entries := ArtifactEntries([]core.Run{emptyObject, withLink, absent})
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].RunID)
	assert.Equal(t, 9, entries[0].Day)
	assert.Equal(t, core.RunStateDone, entries[0].State)
	assert.Equal(t, []string{"https://x/y"}, entries[0].Links)
	assert.Contains(t, entries[0].Pretty, `"report": "https://x/y"`)
}

func TestArtifactEntries_CapsInArrivalOrder(t *testing.T) {
	runs := make([]core.Run, 80)
	for i := range runs {
		runs[i] = core.Run{
			ID:        strconv.Itoa(i),
			Day:       core.TotalDays - i,
			Artifacts: core.ObjectValue(core.Member{Key: "i", Value: core.NumberValue("1")}),
		}
	}

	entries := ArtifactEntries(runs)
	require.Len(t, entries, ArtifactLimit)
	assert.Equal(t, "0", entries[0].RunID)
	assert.Equal(t, "49", entries[ArtifactLimit-1].RunID)
}
