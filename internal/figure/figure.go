// Package figure renders the comparison between the exact trajectory and
// the perturbed empirical mean to vector (SVG) and raster (PNG) files.
package figure

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/glatard/fuzzy/internal/analysis"
)

// Default canvas size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var (
	referenceColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	meanColor      = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	bandColor      = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0x40}
)

// Comparison builds the plot: exact reference line, empirical mean line,
// and a shaded band of one standard error around the mean.
func Comparison(rep *analysis.Report, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration k"
	p.Y.Label.Text = "u(k)"
	p.Add(plotter.NewGrid())

	band, err := plotter.NewPolygon(bandPoints(rep))
	if err != nil {
		return nil, fmt.Errorf("figure: band: %w", err)
	}
	band.Color = bandColor
	band.LineStyle.Width = 0
	p.Add(band)

	mean, err := plotter.NewLine(linePoints(rep.Means()))
	if err != nil {
		return nil, fmt.Errorf("figure: mean line: %w", err)
	}
	mean.LineStyle.Color = meanColor
	mean.LineStyle.Width = vg.Points(1.5)
	p.Add(mean)

	ref, err := plotter.NewLine(linePoints(rep.Reference))
	if err != nil {
		return nil, fmt.Errorf("figure: reference line: %w", err)
	}
	ref.LineStyle.Color = referenceColor
	ref.LineStyle.Width = vg.Points(1.5)
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(ref)

	p.Legend.Add("exact reference", ref)
	p.Legend.Add(fmt.Sprintf("mean of %d runs ± stderr", rep.Runs), mean)
	p.Legend.Top = true

	return p, nil
}

// Save writes the plot to every path given; the file extension selects the
// format (.svg for vector, .png for raster).
func Save(p *plot.Plot, width, height vg.Length, paths ...string) error {
	for _, path := range paths {
		if err := p.Save(width, height, path); err != nil {
			return fmt.Errorf("figure: save %s: %w", path, err)
		}
	}
	return nil
}

func linePoints(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

// bandPoints traces the stderr envelope: upper edge left to right, then
// lower edge back.
func bandPoints(rep *analysis.Report) plotter.XYs {
	n := len(rep.Bands)
	pts := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		pts = append(pts, plotter.XY{X: float64(i), Y: rep.Bands[i].Upper})
	}
	for i := n - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: float64(i), Y: rep.Bands[i].Lower})
	}
	return pts
}
