package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/strumbot/fretcalc"
)

var csvHeader = []string{
	"fret", "micros", "alpha_deg", "beta_deg", "gamma_deg",
	"target_mm", "achieved_mm", "target_hz", "achieved_hz", "cents",
}

// WriteCSV writes the report as CSV records, one per row including the
// open string row.
func WriteCSV(w io.Writer, rows []fretcalc.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Fret),
			fmt.Sprintf("%.15g", r.Micros),
			fmt.Sprintf("%.15g", r.Alpha),
			fmt.Sprintf("%.15g", r.Beta),
			fmt.Sprintf("%.15g", r.Gamma),
			fmt.Sprintf("%.15g", r.Target),
			fmt.Sprintf("%.15g", r.Achieved),
			fmt.Sprintf("%.15g", r.TargetFreq),
			fmt.Sprintf("%.15g", r.AchievedFreq),
			fmt.Sprintf("%.15g", r.Cents),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the report to a CSV file at path, creating parent
// directories as needed.
func SaveCSV(path string, rows []fretcalc.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, rows)
}
