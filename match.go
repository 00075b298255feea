package fretcalc

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Match pairs a fret index with the sweep sample landing closest to it.
type Match struct {
	Fret   int
	Sample Sample
}

// NearestFretMatches returns for each of the first nfrets frets the
// sample whose displacement deviation to that fret is smallest in
// absolute value. Ties keep the earliest sample of the sweep. An empty
// sample set yields no matches.
func NearestFretMatches(samples []Sample, nfrets int) []Match {
	if len(samples) == 0 {
		return nil
	}
	abs := make([]float64, len(samples))
	matches := make([]Match, nfrets)
	for i := 0; i < nfrets; i++ {
		for j := range samples {
			abs[j] = math.Abs(samples[j].Deviations[i])
		}
		best := floats.MinIdx(abs)
		matches[i] = Match{Fret: i, Sample: samples[best]}
	}
	return matches
}

// Row is one line of the fretting report. Row zero describes the open
// string and carries no linkage angles.
type Row struct {
	Fret         int
	Target       float64 // fret position, mm
	Achieved     float64 // nearest reachable carriage displacement, mm
	TargetFreq   float64 // pitch at the fret position, Hz
	AchievedFreq float64 // pitch at the reachable displacement, Hz
	Cents        float64 // interval between the two pitches
	Alpha        float64 // linkage angles of the matched sample, degrees
	Beta         float64
	Gamma        float64
	Micros       float64 // pulse width offset of the matched sample, microseconds
}

// BuildReport resolves the matched samples into per fret pitch errors on
// reference string s. The first row is the untouched open string; fret
// numbering in the rows is 1 based.
func BuildReport(fb Fretboard, matches []Match, s int) ([]Row, error) {
	table, err := fb.FrequencyTable()
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(matches)+1)
	open := table[s][0]
	rows = append(rows, Row{Fret: 0, TargetFreq: open, AchievedFreq: open})
	for _, m := range matches {
		achieved := m.Sample.F
		f1 := table[s][m.Fret+1]
		f2, err := fb.Frequency(s, achieved)
		if err != nil {
			return nil, err
		}
		cents, err := CentDifference(f1, f2)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			Fret:         m.Fret + 1,
			Target:       fb.Frets[m.Fret],
			Achieved:     achieved,
			TargetFreq:   f1,
			AchievedFreq: f2,
			Cents:        cents,
			Alpha:        m.Sample.Alpha,
			Beta:         m.Sample.Beta,
			Gamma:        m.Sample.Gamma,
			Micros:       m.Sample.Micros,
		})
	}
	return rows, nil
}
