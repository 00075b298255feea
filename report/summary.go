package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/strumbot/fretcalc"
)

// Summary condenses a report into its aggregate pitch error.
type Summary struct {
	MeanCents float64 // mean error over the fretted rows
	MaxCents  float64 // largest error
	WorstFret int     // fret carrying the largest error
}

// Summarize reduces the fretted rows of a report. The open string row
// is not an approximation and does not count.
func Summarize(rows []fretcalc.Row) Summary {
	var (
		cents []float64
		nums  []int
	)
	for _, r := range rows {
		if r.Fret == 0 {
			continue
		}
		cents = append(cents, r.Cents)
		nums = append(nums, r.Fret)
	}
	if len(cents) == 0 {
		return Summary{}
	}
	worst := floats.MaxIdx(cents)
	return Summary{
		MeanCents: stat.Mean(cents, nil),
		MaxCents:  cents[worst],
		WorstFret: nums[worst],
	}
}
