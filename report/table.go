package report

import (
	"fmt"
	"io"

	"github.com/strumbot/fretcalc"
)

// Variant selects the table layout.
type Variant int

const (
	// Full lists the linkage angles for every matched fret.
	Full Variant = iota
	// Compact drops the angle columns. This is the layout used for the
	// typeset results table.
	Compact
)

const (
	fullHeader    = "fret actual   nearest  actual   nearest   diff    alpha    beta    gamma"
	compactHeader = "fret actual   nearest  actual   nearest   difference"
)

// TableLines formats one line per report row, preceded by the column
// header. Columns are the fret number, the fret position and the nearest
// reachable position in mm, their pitches in Hz, the pitch error in
// cents and, in the Full variant, the three linkage angles in degrees.
// The open string row carries dashes in place of angles.
func TableLines(rows []fretcalc.Row, v Variant) []string {
	lines := make([]string, 0, len(rows)+1)
	if v == Compact {
		lines = append(lines, compactHeader)
		for _, r := range rows {
			lines = append(lines, fmt.Sprintf("%2d & %6.2f & %6.2f & %6.2f & %6.2f & %5.2f",
				r.Fret, r.Target, r.Achieved, r.TargetFreq, r.AchievedFreq, r.Cents))
		}
		return lines
	}
	lines = append(lines, fullHeader)
	for _, r := range rows {
		if r.Fret == 0 {
			lines = append(lines, fmt.Sprintf("%2d & %6.2f & %6.2f & %6.2f & %6.2f & %5.2f &   -    &   -    &   -    ",
				r.Fret, r.Target, r.Achieved, r.TargetFreq, r.AchievedFreq, r.Cents))
			continue
		}
		lines = append(lines, fmt.Sprintf("%2d & %6.2f & %6.2f & %6.2f & %6.2f & %5.2f & %6.2f & %6.2f & %6.2f",
			r.Fret, r.Target, r.Achieved, r.TargetFreq, r.AchievedFreq, r.Cents, r.Alpha, r.Beta, r.Gamma))
	}
	return lines
}

// WriteTable writes the formatted table to w, one line per report row.
func WriteTable(w io.Writer, rows []fretcalc.Row, v Variant) error {
	for _, ln := range TableLines(rows, v) {
		if _, err := fmt.Fprintln(w, ln); err != nil {
			return err
		}
	}
	return nil
}
