// Package dashboard derives every panel of the VOT board from the fetched
// runs, VOT metadata and edges. All derivations are pure functions of a State
// snapshot and the active filter; nothing here is cached between renders.
package dashboard

import (
	"sort"

	"github.com/qil-lattice/votboard/internal/core"
)

// Query caps for the data source.
const (
	RunLimit = 1000
	VotLimit = 1000
)

// Summary holds the scalar counts of the status panel.
// Open is total minus done, so failed and pending runs are both open.
type Summary struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	Open       int `json:"open"`
	InProgress int `json:"-"`
}

// Summarize counts done runs across the unfiltered run set.
func Summarize(runs []core.Run) Summary {
	done := 0
	for _, r := range runs {
		if r.Done() {
			done++
		}
	}
	s := Summary{
		Total: core.TotalDays,
		Done:  done,
		Open:  core.TotalDays - done,
	}
	s.InProgress = max(s.Total-s.Done-s.Open, 0)
	return s
}

// Options lists the distinct non-empty roles and themes in first-encounter order.
type Options struct {
	Roles  []string `json:"roles"`
	Themes []string `json:"themes"`
}

// FilterOptions collects the selectable values of the filter panel.
func FilterOptions(vots []core.Vot) Options {
	opts := Options{Roles: []string{}, Themes: []string{}}
	seenRole := make(map[string]bool)
	seenTheme := make(map[string]bool)
	for _, v := range vots {
		if v.Role != "" && !seenRole[v.Role] {
			seenRole[v.Role] = true
			opts.Roles = append(opts.Roles, v.Role)
		}
		if v.Theme != "" && !seenTheme[v.Theme] {
			seenTheme[v.Theme] = true
			opts.Themes = append(opts.Themes, v.Theme)
		}
	}
	return opts
}

// DaySet is a set of day numbers.
type DaySet map[int]struct{}

// AllDays returns the full [1, TotalDays] range.
func AllDays() DaySet {
	days := make(DaySet, core.TotalDays)
	for d := 1; d <= core.TotalDays; d++ {
		days[d] = struct{}{}
	}
	return days
}

// Has reports whether day is in the set.
func (s DaySet) Has(day int) bool {
	_, ok := s[day]
	return ok
}

// Sorted returns the members in ascending order.
func (s DaySet) Sorted() []int {
	out := make([]int, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// IncludedDays applies the filter to the day axis.
//
// A role filter replaces the full range with the days of the VOT rows carrying
// that role; a theme filter then intersects with the days of rows carrying that
// theme. The two predicates are evaluated independently over the VOT table, so a
// day can satisfy them through different rows.
func IncludedDays(vots []core.Vot, filter core.FilterState) DaySet {
	days := AllDays()
	if filter.Role != "" {
		days = make(DaySet)
		for _, v := range vots {
			if v.Role == filter.Role {
				days[v.Day] = struct{}{}
			}
		}
	}
	if filter.Theme != "" {
		themed := make(DaySet)
		for _, v := range vots {
			if v.Theme == filter.Theme {
				themed[v.Day] = struct{}{}
			}
		}
		for d := range days {
			if !themed.Has(d) {
				delete(days, d)
			}
		}
	}
	return days
}

// FilterRuns keeps the runs whose day is included, preserving order.
func FilterRuns(runs []core.Run, days DaySet) []core.Run {
	out := make([]core.Run, 0, len(runs))
	for _, r := range runs {
		if days.Has(r.Day) {
			out = append(out, r)
		}
	}
	return out
}

// View is the complete derived input of every panel for one filter.
type View struct {
	Summary      Summary          `json:"summary"`
	Filter       core.FilterState `json:"filter"`
	Options      Options          `json:"options"`
	IncludedDays []int            `json:"included_days"`
	FilteredRuns []core.Run       `json:"-"`
	Heatmap      []Cell           `json:"heatmap"`
	Graph        Graph            `json:"graph"`
	Themes       []ThemeGroup     `json:"themes"`
	Throughput   []int            `json:"throughput"`
	Artifacts    []ArtifactEntry  `json:"artifacts"`
}

// Build derives the view of state under filter.
func Build(state State, filter core.FilterState) View {
	included := IncludedDays(state.Vots, filter)
	filtered := FilterRuns(state.Runs, included)

	return View{
		Summary:      Summarize(state.Runs),
		Filter:       filter,
		Options:      FilterOptions(state.Vots),
		IncludedDays: included.Sorted(),
		FilteredRuns: filtered,
		Heatmap:      HeatmapCells(filtered, included),
		Graph:        BuildGraph(state.Edges, filtered),
		Themes:       ThemeCompletion(ThemeRows(filtered, state.Vots)),
		Throughput:   Throughput(filtered),
		Artifacts:    ArtifactEntries(filtered),
	}
}
