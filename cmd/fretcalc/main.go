package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/strumbot/fretcalc"
	"github.com/strumbot/fretcalc/config"
	"github.com/strumbot/fretcalc/report"
)

type options struct {
	compact   bool
	csvPath   string
	plotDir   string
	calibPath string
}

func main() {
	configPath := flag.String("config", "", "YAML config file, FRETCALC_* environment variables override it")
	debug := flag.Bool("debug", false, "enable debug logging")
	compact := flag.Bool("compact", false, "drop the linkage angle columns from the table")
	csvPath := flag.String("csv", "", "write the report as CSV to this path")
	plotDir := flag.String("plots", "", "write sweep, deviation and linkage plots to this directory")
	calibPath := flag.String("calib", "", "write the binary servo calibration to this path")
	logPath := flag.String("log", "log/fretcalc.log", "log file, mirrored to stderr")
	flag.Parse()

	logger, logFile, err := newLogger(*logPath, *debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("configuration rejected", "err", err)
		logFile.Close()
		os.Exit(1)
	}

	err = run(logger, cfg, options{
		compact:   *compact,
		csvPath:   *csvPath,
		plotDir:   *plotDir,
		calibPath: *calibPath,
	})
	if err != nil {
		logger.Error("run failed", "err", err)
		logFile.Close()
		os.Exit(1)
	}
	logFile.Close()
}

// newLogger opens the log file for appending and returns a logger that
// writes to it and to stderr.
func newLogger(path string, debug bool) (*slog.Logger, *os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(io.MultiWriter(os.Stderr, f), &slog.HandlerOptions{Level: level})
	return slog.New(h).With("logger", "fretcalc"), f, nil
}

// joinFloats renders a measurement slice as one space separated debug
// attribute, two decimals per value.
func joinFloats(vals []float64) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = fmt.Sprintf("%.2f", v)
	}
	return strings.Join(strs, " ")
}

func run(logger *slog.Logger, cfg config.Config, opts options) error {
	logger.Info(strings.Repeat("=", 19) + " START " + strings.Repeat("=", 19))

	fb := fretcalc.Fretboard{
		Mensur: cfg.Instrument.MensurMM,
		Open:   cfg.Instrument.OpenStringsHz,
	}
	fb.Frets = fretcalc.FretPositions(fb.Mensur, cfg.Instrument.Frets)
	arm := fretcalc.Arm{
		A:       cfg.Arm.AMM,
		B:       cfg.Arm.BMM,
		E:       cfg.Arm.EMM,
		FOffset: cfg.Arm.FOffsetMM,
	}
	servo := fretcalc.Servo{
		MinMicros:  cfg.Servo.MinMicros,
		MaxMicros:  cfg.Servo.MaxMicros,
		MaxDegrees: cfg.Servo.MaxDegrees,
		DeadBand:   cfg.Servo.DeadBandMicros,
	}
	logger.Debug("mechanism",
		"mensur_mm", fb.Mensur,
		"frets", len(fb.Frets),
		"strings", len(fb.Open),
		"servo_precision_us", servo.Precision(),
		"servo_dead_band_us", servo.DeadBand,
	)
	logger.Debug("fret positions", "mm", joinFloats(fb.Frets))

	table, err := fb.FrequencyTable()
	if err != nil {
		return err
	}
	for s := range table {
		logger.Debug("string pitches", "string", s, "hz", joinFloats(table[s]))
	}

	samples, err := fretcalc.Sweep(arm, servo, fb.Frets)
	if err != nil {
		return err
	}
	for _, s := range samples {
		logger.Debug("sample",
			"micros", s.Micros,
			"f_mm", s.F,
			"c_mm", s.C,
			"alpha", s.Alpha,
			"beta", s.Beta,
			"gamma", s.Gamma,
			"deviation_mm", joinFloats(s.Deviations),
		)
	}

	matches := fretcalc.NearestFretMatches(samples, len(fb.Frets))
	for _, m := range matches {
		logger.Debug("nearest sample",
			"fret", m.Fret+1,
			"micros", m.Sample.Micros,
			"f_mm", m.Sample.F,
			"alpha", m.Sample.Alpha,
			"beta", m.Sample.Beta,
			"gamma", m.Sample.Gamma,
			"deviation_mm", m.Sample.Deviations[m.Fret],
		)
	}

	rows, err := fretcalc.BuildReport(fb, matches, cfg.Instrument.ReferenceString)
	if err != nil {
		return err
	}
	variant := report.Full
	if opts.compact {
		variant = report.Compact
	}
	for _, line := range report.TableLines(rows, variant) {
		logger.Info(line)
	}

	if opts.csvPath != "" {
		if err := report.SaveCSV(opts.csvPath, rows); err != nil {
			return err
		}
		logger.Info("wrote report CSV", "path", opts.csvPath)
	}
	if opts.plotDir != "" {
		if err := report.SaveSweepPlot(filepath.Join(opts.plotDir, "sweep.png"), samples, matches, fb.Frets); err != nil {
			return err
		}
		if err := report.SaveDeviationPlot(filepath.Join(opts.plotDir, "deviation.png"), rows); err != nil {
			return err
		}
		if err := report.SaveLinkagePlot(filepath.Join(opts.plotDir, "linkage.png"), arm, samples); err != nil {
			return err
		}
		logger.Info("wrote plots", "dir", opts.plotDir)
	}
	if opts.calibPath != "" {
		if err := report.SaveCalibration(opts.calibPath, servo, rows); err != nil {
			return err
		}
		logger.Info("wrote servo calibration", "path", opts.calibPath)
	}

	sum := report.Summarize(rows)
	logger.Info("pitch accuracy",
		"mean_cents", sum.MeanCents,
		"max_cents", sum.MaxCents,
		"worst_fret", sum.WorstFret,
	)

	logger.Info(strings.Repeat("=", 20) + " END " + strings.Repeat("=", 20))
	return nil
}
