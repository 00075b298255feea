package report

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"

	"github.com/strumbot/fretcalc"
)

// Calibration file layout, little endian:
//
//	offset 0: magic "FCAL"
//	offset 4: format version, currently 1
//	offset 5: record count
//	offset 6: two reserved bytes
//	offset 8: records, 12 bytes each
//
// A record assigns a fret the absolute pulse width that best reaches it.
// The open string row is not stored since no pulse drives it.

const (
	calibVersion    = 1
	calibHeaderSize = 8
	calibRecordSize = 12
)

var calibMagic = [4]byte{'F', 'C', 'A', 'L'}

var (
	// ErrCalibMagic marks a file that is not a calibration table.
	ErrCalibMagic = errors.New("bad calibration file magic")
	// ErrCalibVersion marks an unsupported calibration format version.
	ErrCalibVersion = errors.New("unsupported calibration file version")
	// ErrCalibData marks a truncated or corrupt record payload.
	ErrCalibData = errors.New("bad calibration record")
)

// CalibRecord is one stored fret to pulse width assignment.
type CalibRecord struct {
	Fret         uint8
	Micros       uint16  // absolute pulse width, microseconds
	Displacement float32 // reached carriage position, mm
	Cents        float32 // pitch error at that position
}

func (c CalibRecord) put(b []byte) {
	_ = b[calibRecordSize-1] // early bounds check
	b[0] = c.Fret
	b[1] = 0
	binary.LittleEndian.PutUint16(b[2:], c.Micros)
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(c.Displacement))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(c.Cents))
}

func (c *CalibRecord) get(b []byte) {
	_ = b[calibRecordSize-1] // early bounds check
	c.Fret = b[0]
	c.Micros = binary.LittleEndian.Uint16(b[2:])
	c.Displacement = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	c.Cents = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func badF32(f float32) bool {
	return math32.IsNaN(f) || math32.IsInf(f, 0)
}

func (c CalibRecord) validate() error {
	if badF32(c.Displacement) || badF32(c.Cents) {
		return fmt.Errorf("%w: inf/NaN float in fret %d", ErrCalibData, c.Fret)
	}
	return nil
}

// WriteCalibration writes the fretted rows of a report as a binary
// calibration table for the servo controller. Pulse widths are stored
// absolute, rebased onto the servo minimum.
func WriteCalibration(w io.Writer, sv fretcalc.Servo, rows []fretcalc.Row) error {
	var recs []CalibRecord
	for _, r := range rows {
		if r.Fret == 0 {
			continue
		}
		if r.Fret < 1 || r.Fret > math.MaxUint8 {
			return fmt.Errorf("fret %d does not fit the record format", r.Fret)
		}
		micros := float64(sv.MinMicros) + r.Micros
		if micros < 0 || micros > math.MaxUint16 {
			return fmt.Errorf("pulse width %.0f does not fit the record format", micros)
		}
		recs = append(recs, CalibRecord{
			Fret:         uint8(r.Fret),
			Micros:       uint16(math.Round(micros)),
			Displacement: float32(r.Achieved),
			Cents:        float32(r.Cents),
		})
	}
	if len(recs) > math.MaxUint8 {
		return fmt.Errorf("%d records do not fit the table header", len(recs))
	}
	var hdr [calibHeaderSize]byte
	copy(hdr[:], calibMagic[:])
	hdr[4] = calibVersion
	hdr[5] = uint8(len(recs))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	var b [calibRecordSize]byte
	for _, rec := range recs {
		rec.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadCalibration reads back a binary calibration table, validating
// magic, version and every record payload.
func ReadCalibration(r io.Reader) ([]CalibRecord, error) {
	var hdr [calibHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("calibration header: %w", err)
	}
	if !bytes.Equal(hdr[:4], calibMagic[:]) {
		return nil, ErrCalibMagic
	}
	if hdr[4] != calibVersion {
		return nil, fmt.Errorf("%w: %d", ErrCalibVersion, hdr[4])
	}
	count := int(hdr[5])
	recs := make([]CalibRecord, 0, count)
	var b [calibRecordSize]byte
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("%w %d/%d: %v", ErrCalibData, i+1, count, err)
		}
		var rec CalibRecord
		rec.get(b[:])
		if err := rec.validate(); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// SaveCalibration writes the calibration table to a file at path,
// creating parent directories as needed.
func SaveCalibration(path string, sv fretcalc.Servo, rows []fretcalc.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCalibration(f, sv, rows)
}
