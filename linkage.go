package fretcalc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Arm is the two-link geometry joining the servo horn to the fretting
// carriage. The carriage slides on a rail offset E from the servo pivot;
// side c of the solved triangle runs from the pivot to the carriage.
// Lengths in millimetres.
type Arm struct {
	A       float64 // servo horn link
	B       float64 // coupler link, horn tip to carriage
	E       float64 // lateral offset of the carriage rail from the pivot
	FOffset float64 // carriage rest position along the rail
}

// Servo is the pulse width envelope of the positioning servo.
type Servo struct {
	MinMicros  int     // shortest accepted pulse, microseconds
	MaxMicros  int     // longest accepted pulse, microseconds
	MaxDegrees float64 // horn travel over the full pulse range
	DeadBand   int     // pulse change below which the horn holds, microseconds
}

// Precision returns the pulse width change per degree of horn travel in
// microseconds.
func (sv Servo) Precision() float64 {
	return float64(sv.MaxMicros-sv.MinMicros) / sv.MaxDegrees
}

// Degrees converts a pulse width offset above MinMicros to the horn
// angle beta.
//
// TODO: replace the linear rescale with the servo's measured pulse
// response; it ignores MinMicros and the dead band.
func (sv Servo) Degrees(micros float64) float64 {
	if micros > 0 {
		return sv.MaxDegrees * micros / sv.MaxDegrees / sv.Precision()
	}
	return 0
}

// Sample is the solved linkage state at one servo pulse width.
type Sample struct {
	Micros     float64   // pulse width offset above the servo minimum, microseconds
	F          float64   // carriage displacement along the rail, mm
	C          float64   // pivot to carriage distance, mm
	Alpha      float64   // angle at the carriage between coupler and c, degrees
	Beta       float64   // horn angle at the pivot, degrees
	Gamma      float64   // elbow angle between horn and coupler, degrees
	Deviations []float64 // F minus each fret position, mm
}

// Alpha solves the law of sines a/sin(alpha) = b/sin(beta) for the
// carriage angle. beta in degrees.
func (arm Arm) Alpha(beta float64) (float64, error) {
	if arm.B == 0 {
		return 0, errors.New("coupler link length is zero")
	}
	arg := arm.A * math.Sin(DtoR(beta)) / arm.B
	if math.IsNaN(arg) || arg < -1 || arg > 1 {
		return 0, fmt.Errorf("linkage cannot close: arcsine argument %.4f at beta=%.2f", arg, beta)
	}
	return RtoD(math.Asin(arg)), nil
}

// Solve computes the linkage state for a pulse width offset micros above
// the servo minimum. The sample's deviation vector compares the reached
// displacement against every fret position in frets.
func Solve(arm Arm, sv Servo, micros float64, frets []float64) (Sample, error) {
	beta := sv.Degrees(micros)
	alpha, err := arm.Alpha(beta)
	if err != nil {
		return Sample{}, err
	}
	gamma := 180 - alpha - beta
	// law of cosines for the pivot to carriage side.
	c := math.Sqrt(arm.A*arm.A + arm.B*arm.B - 2*arm.A*arm.B*math.Cos(DtoR(gamma)))
	fsq := c*c - arm.E*arm.E
	if fsq < 0 {
		return Sample{}, fmt.Errorf("carriage off rail: hypotenuse %.2fmm shorter than rail offset %.2fmm", c, arm.E)
	}
	f := math.Sqrt(fsq) - arm.FOffset
	dev := make([]float64, len(frets))
	for i, fr := range frets {
		dev[i] = f - fr
	}
	return Sample{
		Micros:     micros,
		F:          f,
		C:          c,
		Alpha:      alpha,
		Beta:       beta,
		Gamma:      gamma,
		Deviations: dev,
	}, nil
}

// Sweep solves the linkage at every representable servo step from zero
// through the full pulse range in ascending order. Step size is the
// servo's per degree precision, giving MaxDegrees+1 samples.
func Sweep(arm Arm, sv Servo, frets []float64) ([]Sample, error) {
	if sv.MaxMicros <= sv.MinMicros || sv.MaxDegrees <= 0 {
		return nil, errors.New("servo pulse range is empty")
	}
	span := float64(sv.MaxMicros - sv.MinMicros)
	prec := sv.Precision()
	n := int(span/prec) + 1
	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		s, err := Solve(arm, sv, float64(i)*prec, frets)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// Pose returns the elbow and carriage positions of a solved sample in
// the linkage plane. The servo pivot sits at the origin and the
// carriage rail runs parallel to the x axis at height E.
func (arm Arm) Pose(s Sample) (elbow, carriage r2.Vec) {
	carriage = r2.Vec{X: s.F + arm.FOffset, Y: arm.E}
	horn := math.Atan2(carriage.Y, carriage.X) + DtoR(s.Beta)
	elbow = r2.Scale(arm.A, r2.Vec{X: math.Cos(horn), Y: math.Sin(horn)})
	return elbow, carriage
}
