package report

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/strumbot/fretcalc"
)

// SaveSweepPlot plots carriage displacement over the servo sweep with
// the matched fret positions overlaid, as a PNG at path.
func SaveSweepPlot(path string, samples []fretcalc.Sample, matches []fretcalc.Match, frets []float64) error {
	if len(samples) == 0 {
		return errors.New("no sweep samples to plot")
	}
	p := plot.New()
	p.Title.Text = "Carriage displacement over servo sweep"
	p.X.Label.Text = "pulse width offset (us)"
	p.Y.Label.Text = "displacement (mm)"

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Micros
		pts[i].Y = s.F
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)

	marks := make(plotter.XYs, 0, len(matches))
	for _, m := range matches {
		if m.Fret >= len(frets) {
			continue
		}
		marks = append(marks, plotter.XY{X: m.Sample.Micros, Y: frets[m.Fret]})
	}
	scatter, err := plotter.NewScatter(marks)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Points(2.5)

	p.Add(plotter.NewGrid(), line, scatter)
	p.Legend.Add("sweep", line)
	p.Legend.Add("frets", scatter)
	return savePNG(p, 8, 6, path)
}

// SaveDeviationPlot plots the pitch error of every fretted row in cents,
// as a PNG at path.
func SaveDeviationPlot(path string, rows []fretcalc.Row) error {
	pts := make(plotter.XYs, 0, len(rows))
	for _, r := range rows {
		if r.Fret == 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(r.Fret), Y: r.Cents})
	}
	if len(pts) == 0 {
		return errors.New("no fretted rows to plot")
	}
	p := plot.New()
	p.Title.Text = "Pitch error per fret"
	p.X.Label.Text = "fret"
	p.Y.Label.Text = "error (cents)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Points(2.5)

	p.Add(plotter.NewGrid(), line, scatter)
	return savePNG(p, 8, 6, path)
}

// SaveLinkagePlot traces the elbow and carriage paths of the sweep in
// the linkage plane, as a PNG at path. The servo pivot is the origin.
func SaveLinkagePlot(path string, arm fretcalc.Arm, samples []fretcalc.Sample) error {
	if len(samples) == 0 {
		return errors.New("no sweep samples to plot")
	}
	elbows := make(plotter.XYs, len(samples))
	carriages := make(plotter.XYs, len(samples))
	for i, s := range samples {
		elbow, carriage := arm.Pose(s)
		elbows[i].X, elbows[i].Y = elbow.X, elbow.Y
		carriages[i].X, carriages[i].Y = carriage.X, carriage.Y
	}
	p := plot.New()
	p.Title.Text = "Linkage paths over servo sweep"
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	elbowLine, err := plotter.NewLine(elbows)
	if err != nil {
		return err
	}
	elbowLine.LineStyle.Width = vg.Points(1.5)
	carriageLine, err := plotter.NewLine(carriages)
	if err != nil {
		return err
	}
	carriageLine.LineStyle.Width = vg.Points(1.5)
	carriageLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(plotter.NewGrid(), elbowLine, carriageLine)
	p.Legend.Add("elbow", elbowLine)
	p.Legend.Add("carriage", carriageLine)
	return savePNG(p, 8, 6, path)
}

func savePNG(p *plot.Plot, widthIn, heightIn float64, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	defer bw.Flush()
	png := vgimg.PngCanvas{Canvas: c}
	_, err = png.WriteTo(bw)
	return err
}
