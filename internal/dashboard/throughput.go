package dashboard

import "github.com/qil-lattice/votboard/internal/core"

// Throughput returns the cumulative count of done days across [1, TotalDays].
// A day counts once no matter how many done runs it has; out-of-range days are ignored.
func Throughput(runs []core.Run) []int {
	var doneDay [core.TotalDays]int
	for _, r := range runs {
		if r.Done() && r.Day >= 1 && r.Day <= core.TotalDays {
			doneDay[r.Day-1] = 1
		}
	}

	series := make([]int, core.TotalDays)
	cum := 0
	for i, v := range doneDay {
		cum += v
		series[i] = cum
	}
	return series
}
