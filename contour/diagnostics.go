package contour

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveAltitudeHistogram writes a histogram of the cleaned altitude
// distribution. It is a diagnostic for choosing the bin width: bands that
// land in sparse parts of the distribution end up with too few points for a
// hull.
func SaveAltitudeHistogram(path string, points []Point3D, bins int) error {
	if len(points) == 0 {
		return fmt.Errorf("no points for histogram")
	}
	if bins <= 0 {
		bins = 20
	}

	values := make(plotter.Values, len(points))
	for i, p := range points {
		values[i] = p.Z
	}

	p := plot.New()
	p.Title.Text = "Altitude distribution"
	p.X.Label.Text = "altitude (m)"
	p.Y.Label.Text = "samples"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("building histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving histogram: %w", err)
	}
	return nil
}
