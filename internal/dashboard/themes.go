package dashboard

import (
	"math"

	"github.com/qil-lattice/votboard/internal/core"
)

// UnknownTheme labels rows whose day has no theme.
const UnknownTheme = "Unknown"

// ThemeRow is a run joined with the theme of its day.
type ThemeRow struct {
	Day   int
	Theme string
	OK    *bool
}

// ThemeGroup is the completion of one theme.
type ThemeGroup struct {
	Theme   string `json:"theme"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

// ThemeRows joins each run with the theme of the first VOT row for its day.
func ThemeRows(runs []core.Run, vots []core.Vot) []ThemeRow {
	firstVot := make(map[int]core.Vot, len(vots))
	for _, v := range vots {
		if _, ok := firstVot[v.Day]; !ok {
			firstVot[v.Day] = v
		}
	}
	rows := make([]ThemeRow, len(runs))
	for i, r := range runs {
		rows[i] = ThemeRow{Day: r.Day, Theme: firstVot[r.Day].Theme, OK: r.OK}
	}
	return rows
}

// ThemeCompletion groups rows by theme in first-encounter order.
func ThemeCompletion(rows []ThemeRow) []ThemeGroup {
	groups := []ThemeGroup{}
	index := make(map[string]int)
	for _, r := range rows {
		key := r.Theme
		if key == "" {
			key = UnknownTheme
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ThemeGroup{Theme: key})
		}
		groups[i].Total++
		if r.OK != nil && *r.OK {
			groups[i].Done++
		}
	}
	for i := range groups {
		groups[i].Percent = Percent(groups[i].Done, groups[i].Total)
	}
	return groups
}

// Percent returns round(100*done/total), rounding halves up, and 0 when total is 0.
func Percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(done)/float64(total)*100 + 0.5))
}
