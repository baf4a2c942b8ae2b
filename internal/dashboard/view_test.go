package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qil-lattice/votboard/internal/core"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		runs     []core.Run
		wantDone int
	}{
		{"no runs", nil, 0},
		{"only done counts", []core.Run{run(1, core.Bool(true)), run(2, core.Bool(false)), run(3, nil)}, 1},
		{"all failed", []core.Run{run(1, core.Bool(false)), run(2, core.Bool(false))}, 0},
		{"duplicate days both count", []core.Run{run(4, core.Bool(true)), run(4, core.Bool(true))}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.runs)
			assert.Equal(t, core.TotalDays, s.Total)
			assert.Equal(t, tt.wantDone, s.Done)
			assert.Equal(t, s.Total, s.Done+s.Open, "done + open must equal total")
			assert.Equal(t, 0, s.InProgress)
		})
	}
}

func TestFilterOptions(t *testing.T) {
	vots := []core.Vot{
		{Day: 1, Role: "Gatekeeper", Theme: "Governance"},
		{Day: 2, Role: "Netweaver"},
		{Day: 3, Role: "Gatekeeper", Theme: "Networks"},
		{Day: 4, Theme: "Governance"},
		{Day: 5},
	}

	opts := FilterOptions(vots)
	assert.Equal(t, []string{"Gatekeeper", "Netweaver"}, opts.Roles)
	assert.Equal(t, []string{"Governance", "Networks"}, opts.Themes)

	empty := FilterOptions(nil)
	assert.NotNil(t, empty.Roles)
	assert.Empty(t, empty.Roles)
}

func TestIncludedDays(t *testing.T) {
	vots := []core.Vot{
		{Day: 1, Role: "A", Theme: "X"},
		{Day: 2, Role: "A", Theme: "Y"},
		{Day: 3, Role: "B", Theme: "X"},
		// day 4 satisfies role and theme through two different rows
		{Day: 4, Role: "A"},
		{Day: 4, Theme: "X"},
		{Day: 400, Role: "A", Theme: "X"},
	}

	t.Run("no filter is the full range", func(t *testing.T) {
		days := IncludedDays(vots, core.FilterState{})
		require.Len(t, days, core.TotalDays)
		assert.True(t, days.Has(1))
		assert.True(t, days.Has(365))
		assert.False(t, days.Has(0))
		assert.False(t, days.Has(366))
	})

	t.Run("role filter is exactly the matching rows", func(t *testing.T) {
		days := IncludedDays(vots, core.FilterState{Role: "A"})
		assert.Equal(t, []int{1, 2, 4, 400}, days.Sorted())
	})

	t.Run("theme filter narrows the role set", func(t *testing.T) {
		roleOnly := IncludedDays(vots, core.FilterState{Role: "A"})
		both := IncludedDays(vots, core.FilterState{Role: "A", Theme: "X"})
		assert.Equal(t, []int{1, 4, 400}, both.Sorted())
		for d := range both {
			assert.True(t, roleOnly.Has(d), "day %d must be in the role set", d)
		}
	})

	t.Run("theme alone intersects the full range", func(t *testing.T) {
		days := IncludedDays(vots, core.FilterState{Theme: "X"})
		assert.Equal(t, []int{1, 3, 4}, days.Sorted())
	})

	t.Run("unknown role empties the set", func(t *testing.T) {
		assert.Empty(t, IncludedDays(vots, core.FilterState{Role: "Nobody"}))
	})
}

func TestFilterRuns(t *testing.T) {
	runs := []core.Run{run(3, nil), run(1, core.Bool(true)), run(2, nil), run(1, core.Bool(false))}
	days := DaySet{1: {}, 3: {}}

	got := FilterRuns(runs, days)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].Day)
	assert.Equal(t, 1, got[1].Day)
	assert.Equal(t, 1, got[2].Day)
}

func TestBuild_RoleFilterScenario(t *testing.T) {
	state := State{
		Runs: []core.Run{run(5, core.Bool(true))},
		Vots: []core.Vot{{Day: 5, Role: "A", Theme: "X"}},
	}

	view := Build(state, core.FilterState{Role: "A"})

	assert.Equal(t, []int{5}, view.IncludedDays)
	assert.Equal(t, CellDone, view.Heatmap[4].State)
	require.Len(t, view.Themes, 1)
	assert.Equal(t, ThemeGroup{Theme: "X", Done: 1, Total: 1, Percent: 100}, view.Themes[0])
	assert.Equal(t, 1, view.Summary.Done)
}

func TestBuild_DisjointFilterEmptiesPanels(t *testing.T) {
	state := State{
		Runs: []core.Run{
			{ID: "a", Day: 5, OK: core.Bool(true), Artifacts: core.ObjectValue(core.Member{Key: "report", Value: core.StringValue("https://x/y")})},
			run(6, core.Bool(true)),
		},
		Vots: []core.Vot{
			{Day: 5, Role: "A", Theme: "X"},
			{Day: 6, Role: "B", Theme: "Y"},
		},
		Edges: []core.Edge{{Src: 5, Dst: 6}},
	}

	view := Build(state, core.FilterState{Role: "A", Theme: "Y"})

	assert.Empty(t, view.IncludedDays)
	assert.Empty(t, view.FilteredRuns)
	require.Len(t, view.Heatmap, core.TotalDays)
	for _, c := range view.Heatmap {
		assert.Equal(t, CellExcluded, c.State)
	}
	assert.Empty(t, view.Themes)
	assert.Equal(t, 0, view.Throughput[core.TotalDays-1])
	assert.Empty(t, view.Artifacts)
	for _, n := range view.Graph.Nodes {
		assert.Equal(t, NodeOpen, n.Class)
	}

	// status is computed from the unfiltered runs
	assert.Equal(t, Summary{Total: 365, Done: 2, Open: 363}, view.Summary)
}

func TestBuild_EmptyState(t *testing.T) {
	view := Build(NewStore().Snapshot(), core.FilterState{})

	assert.Len(t, view.Heatmap, core.TotalDays)
	assert.Len(t, view.Graph.Nodes, core.TotalDays)
	assert.Empty(t, view.Graph.Edges)
	assert.Len(t, view.Throughput, core.TotalDays)
	assert.Empty(t, view.Themes)
	assert.Empty(t, view.Artifacts)
	assert.Equal(t, 0, view.Summary.Done)
	assert.Equal(t, 365, view.Summary.Open)
}
