package fretcalc

import (
	"fmt"
	"math"
)

// SemitoneRatio is the equal tempered semitone frequency ratio,
// the twelfth root of two.
var SemitoneRatio = math.Pow(2, 1./12.)

// FretPositions returns the distance from the nut in millimetres of
// frets 1 through n on a scale of length mensur. The sequence is
// strictly increasing and approaches mensur from below.
func FretPositions(mensur float64, n int) []float64 {
	frets := make([]float64, n)
	for f := 1; f <= n; f++ {
		frets[f-1] = mensur - mensur/math.Pow(SemitoneRatio, float64(f))
	}
	return frets
}

// Fretboard holds the string setup of a fretted instrument.
// Lengths in millimetres, frequencies in Hertz.
type Fretboard struct {
	Mensur float64   // scale length from nut to bridge
	Open   []float64 // open string frequencies, low to high
	Frets  []float64 // distance from nut of every fret
}

// WaveLength returns the vibrating wave length in metres of a string
// stopped d millimetres from the nut. The fundamental's wave length is
// twice the vibrating string length.
func (fb Fretboard) WaveLength(d float64) float64 {
	return (fb.Mensur - d) / 1000.0 * 2
}

// WaveSpeed returns the wave propagation speed in metres per second on
// string s, fixed by the open frequency once the string is tensioned.
func (fb Fretboard) WaveSpeed(s int) float64 {
	return fb.Mensur / 1000.0 * 2 * fb.Open[s]
}

// Frequency returns the pitch of string s stopped d millimetres from
// the nut. Stopping at or beyond the bridge leaves no vibrating length
// and is an error.
func (fb Fretboard) Frequency(s int, d float64) (float64, error) {
	wl := fb.WaveLength(d)
	if wl <= 0 {
		return 0, fmt.Errorf("no vibrating length stopping at %.2fmm of a %.2fmm mensur", d, fb.Mensur)
	}
	return fb.WaveSpeed(s) / wl, nil
}

// FrequencyTable returns the pitch of every string at every fret. Row s
// column 0 is the open frequency of string s, column i the pitch
// stopped at fret i.
func (fb Fretboard) FrequencyTable() ([][]float64, error) {
	table := make([][]float64, len(fb.Open))
	for s := range fb.Open {
		row := make([]float64, len(fb.Frets)+1)
		row[0] = fb.Open[s]
		for i, d := range fb.Frets {
			fq, err := fb.Frequency(s, d)
			if err != nil {
				return nil, err
			}
			row[i+1] = fq
		}
		table[s] = row
	}
	return table, nil
}

// CentDifference returns the interval between two pitches in cents,
// 1200 cents to the octave. The result is non-negative and symmetric
// in f1, f2. Non-positive frequencies are an error.
func CentDifference(f1, f2 float64) (float64, error) {
	if f1 <= 0 || f2 <= 0 {
		return 0, fmt.Errorf("cent difference needs positive frequencies, got %g and %g", f1, f2)
	}
	if f1 > f2 {
		f1, f2 = f2, f1
	}
	return 1200 * math.Log2(f2/f1), nil
}
