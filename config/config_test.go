package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strumbot/fretcalc/config"
)

const testYaml = `
instrument:
  mensur_mm: 628.0
  frets: 22
servo:
  max_micros: 2500
`

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Instrument.MensurMM != 648.00 {
		t.Errorf("mensur: got %g. want 648.00", cfg.Instrument.MensurMM)
	}
	if len(cfg.Instrument.OpenStringsHz) != 6 {
		t.Errorf("got %d open strings. want 6", len(cfg.Instrument.OpenStringsHz))
	}
	if cfg.Servo.MaxMicros-cfg.Servo.MinMicros != 1800 {
		t.Errorf("pulse span: got %d. want 1800", cfg.Servo.MaxMicros-cfg.Servo.MinMicros)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Instrument.Frets != config.Default().Instrument.Frets {
		t.Errorf("got %d frets. want default %d", cfg.Instrument.Frets, config.Default().Instrument.Frets)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := os.WriteFile(path, []byte(testYaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Instrument.MensurMM != 628.0 {
		t.Errorf("mensur: got %g. want 628.0", cfg.Instrument.MensurMM)
	}
	if cfg.Instrument.Frets != 22 {
		t.Errorf("frets: got %d. want 22", cfg.Instrument.Frets)
	}
	if cfg.Servo.MaxMicros != 2500 {
		t.Errorf("max micros: got %d. want 2500", cfg.Servo.MaxMicros)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Servo.MinMicros != 600 {
		t.Errorf("min micros: got %d. want default 600", cfg.Servo.MinMicros)
	}
	if cfg.Arm.AMM != 206.10 {
		t.Errorf("arm a: got %g. want default 206.10", cfg.Arm.AMM)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := os.WriteFile(path, []byte(testYaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FRETCALC_FRETS", "7")
	t.Setenv("FRETCALC_OPEN_STRINGS_HZ", "110.0,220.0")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Instrument.Frets != 7 {
		t.Errorf("frets: got %d. want 7 from environment", cfg.Instrument.Frets)
	}
	want := []float64{110.0, 220.0}
	if len(cfg.Instrument.OpenStringsHz) != len(want) {
		t.Fatalf("got %d open strings. want %d", len(cfg.Instrument.OpenStringsHz), len(want))
	}
	for i, f := range want {
		if cfg.Instrument.OpenStringsHz[i] != f {
			t.Errorf("open string %d: got %g. want %g", i, cfg.Instrument.OpenStringsHz[i], f)
		}
	}
	// The file still wins over defaults for fields the environment leaves alone.
	if cfg.Instrument.MensurMM != 628.0 {
		t.Errorf("mensur: got %g. want 628.0", cfg.Instrument.MensurMM)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"zero mensur", func(c *config.Config) { c.Instrument.MensurMM = 0 }, "mensur_mm"},
		{"no frets", func(c *config.Config) { c.Instrument.Frets = 0 }, "frets"},
		{"no strings", func(c *config.Config) { c.Instrument.OpenStringsHz = nil }, "open_strings_hz"},
		{"negative pitch", func(c *config.Config) { c.Instrument.OpenStringsHz[2] = -5 }, "open_strings_hz[2]"},
		{"reference out of range", func(c *config.Config) { c.Instrument.ReferenceString = 6 }, "reference_string"},
		{"zero horn link", func(c *config.Config) { c.Arm.AMM = 0 }, "a_mm"},
		{"zero coupler link", func(c *config.Config) { c.Arm.BMM = 0 }, "b_mm"},
		{"negative rail offset", func(c *config.Config) { c.Arm.EMM = -1 }, "e_mm"},
		{"negative rest position", func(c *config.Config) { c.Arm.FOffsetMM = -1 }, "f_offset_mm"},
		{"negative min pulse", func(c *config.Config) { c.Servo.MinMicros = -1 }, "min_micros"},
		{"empty pulse range", func(c *config.Config) { c.Servo.MaxMicros = 600 }, "pulse range"},
		{"zero travel", func(c *config.Config) { c.Servo.MaxDegrees = 0 }, "max_degrees"},
		{"negative dead band", func(c *config.Config) { c.Servo.DeadBandMicros = -2 }, "dead_band_micros"},
	}
	for _, tc := range cases {
		cfg := config.Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.field) {
			t.Errorf("%s: error %q does not name %q", tc.name, err, tc.field)
		}
	}
}
