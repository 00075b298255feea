package report_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/strumbot/fretcalc/report"
)

func TestCSVRoundTrip(t *testing.T) {
	var b bytes.Buffer
	if err := report.WriteCSV(&b, testRows); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&b).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(testRows)+1 {
		t.Fatalf("got %d records. want %d", len(records), len(testRows)+1)
	}
	if len(records[0]) != 10 || records[0][0] != "fret" || records[0][9] != "cents" {
		t.Errorf("header: %v", records[0])
	}
	// Fret 1 row: fret number and target displacement survive the trip.
	if records[2][0] != "1" {
		t.Errorf("fret column: got %q. want \"1\"", records[2][0])
	}
	target, err := strconv.ParseFloat(records[2][5], 64)
	if err != nil {
		t.Fatal(err)
	}
	if target != 36.37 {
		t.Errorf("target_mm: got %v. want 36.37", target)
	}
	micros, err := strconv.ParseFloat(records[2][1], 64)
	if err != nil {
		t.Fatal(err)
	}
	if micros != 1290 {
		t.Errorf("micros: got %v. want 1290", micros)
	}
}

func TestSaveCSVCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	if err := report.SaveCSV(path, testRows); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("saved CSV is empty")
	}
}
