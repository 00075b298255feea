package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Instrument describes the string geometry and tuning of the fretted
// instrument the mechanism is mounted on.
type Instrument struct {
	// MensurMM is the scale length in mm, nut to bridge.
	MensurMM float64 `yaml:"mensur_mm" env:"FRETCALC_MENSUR_MM"`
	// Frets is how many frets the mechanism must reach.
	Frets int `yaml:"frets" env:"FRETCALC_FRETS"`
	// OpenStringsHz holds the open string pitches, lowest string first.
	OpenStringsHz []float64 `yaml:"open_strings_hz" env:"FRETCALC_OPEN_STRINGS_HZ" envSeparator:","`
	// ReferenceString indexes OpenStringsHz and selects the string
	// reported in tables and artifacts.
	ReferenceString int `yaml:"reference_string" env:"FRETCALC_REFERENCE_STRING"`
}

// Arm describes the servo linkage geometry in mm.
type Arm struct {
	AMM       float64 `yaml:"a_mm" env:"FRETCALC_ARM_A_MM"`
	BMM       float64 `yaml:"b_mm" env:"FRETCALC_ARM_B_MM"`
	EMM       float64 `yaml:"e_mm" env:"FRETCALC_ARM_E_MM"`
	FOffsetMM float64 `yaml:"f_offset_mm" env:"FRETCALC_ARM_F_OFFSET_MM"`
}

// Servo describes the pulse interface of the servo driving the arm.
type Servo struct {
	MinMicros  int     `yaml:"min_micros" env:"FRETCALC_SERVO_MIN_MICROS"`
	MaxMicros  int     `yaml:"max_micros" env:"FRETCALC_SERVO_MAX_MICROS"`
	MaxDegrees float64 `yaml:"max_degrees" env:"FRETCALC_SERVO_MAX_DEGREES"`
	// DeadBandMicros is the servo's insensitive band. It is reported in
	// logs so an operator can judge achievable repeatability, the sweep
	// itself does not consume it yet.
	DeadBandMicros int `yaml:"dead_band_micros" env:"FRETCALC_SERVO_DEAD_BAND_MICROS"`
}

type Config struct {
	Instrument Instrument `yaml:"instrument"`
	Arm        Arm        `yaml:"arm"`
	Servo      Servo      `yaml:"servo"`
}

// Default returns the configuration of the prototype rig: a 648mm
// mensur guitar in standard tuning and the servo arm it was built with.
func Default() Config {
	return Config{
		Instrument: Instrument{
			MensurMM:        648.00,
			Frets:           13,
			OpenStringsHz:   []float64{82.41, 110.0, 146.83, 196.0, 246.94, 329.63},
			ReferenceString: 0,
		},
		Arm: Arm{
			AMM:       206.10,
			BMM:       275.32,
			EMM:       36.38,
			FOffsetMM: 50.00,
		},
		Servo: Servo{
			MinMicros:      600,
			MaxMicros:      2400,
			MaxDegrees:     180,
			DeadBandMicros: 2,
		},
	}
}

// Load builds the effective configuration: defaults, overlaid by the
// YAML file at path when path is non-empty, overlaid by FRETCALC_*
// environment variables. The result is validated before it is returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "reading config file")
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parsing config file %s", path)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the solver cannot work
// with. Errors name the offending YAML field.
func (c Config) Validate() error {
	if c.Instrument.MensurMM <= 0 {
		return errors.Errorf("instrument.mensur_mm must be positive, got %g", c.Instrument.MensurMM)
	}
	if c.Instrument.Frets < 1 {
		return errors.Errorf("instrument.frets must be at least 1, got %d", c.Instrument.Frets)
	}
	if len(c.Instrument.OpenStringsHz) == 0 {
		return errors.New("instrument.open_strings_hz must name at least one string")
	}
	for i, f := range c.Instrument.OpenStringsHz {
		if f <= 0 {
			return errors.Errorf("instrument.open_strings_hz[%d] must be positive, got %g", i, f)
		}
	}
	if s := c.Instrument.ReferenceString; s < 0 || s >= len(c.Instrument.OpenStringsHz) {
		return errors.Errorf("instrument.reference_string %d out of range for %d strings", s, len(c.Instrument.OpenStringsHz))
	}
	if c.Arm.AMM <= 0 {
		return errors.Errorf("arm.a_mm must be positive, got %g", c.Arm.AMM)
	}
	if c.Arm.BMM <= 0 {
		return errors.Errorf("arm.b_mm must be positive, got %g", c.Arm.BMM)
	}
	if c.Arm.EMM < 0 {
		return errors.Errorf("arm.e_mm must not be negative, got %g", c.Arm.EMM)
	}
	if c.Arm.FOffsetMM < 0 {
		return errors.Errorf("arm.f_offset_mm must not be negative, got %g", c.Arm.FOffsetMM)
	}
	if c.Servo.MinMicros < 0 {
		return errors.Errorf("servo.min_micros must not be negative, got %d", c.Servo.MinMicros)
	}
	if c.Servo.MaxMicros <= c.Servo.MinMicros {
		return errors.Errorf("servo pulse range [%d, %d] is empty", c.Servo.MinMicros, c.Servo.MaxMicros)
	}
	if c.Servo.MaxDegrees <= 0 {
		return errors.Errorf("servo.max_degrees must be positive, got %g", c.Servo.MaxDegrees)
	}
	if c.Servo.DeadBandMicros < 0 {
		return errors.Errorf("servo.dead_band_micros must not be negative, got %d", c.Servo.DeadBandMicros)
	}
	return nil
}
