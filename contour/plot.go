package contour

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// bandChart builds the interactive chart for one band: the band's point
// cloud, the smoothed hull rings as line overlays, and named peaks as larger
// highlighted markers. Axes are fixed to the square target range so every
// band renders at the same scale.
func bandChart(band BandResult, transform RescaleTransform, target [2]float64) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("Concave hull for %s", band.Category.Name()),
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Concave hull for %s", band.Category.Name()),
			Subtitle: fmt.Sprintf("points=%d rings=%d peaks=%d",
				len(band.Category.Points), len(band.Boundary.Rings), len(band.Peaks)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: target[0], Max: target[1]}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: target[0], Max: target[1]}),
	)

	points := make([]opts.ScatterData, 0, len(band.Category.Points))
	for _, p := range band.Category.Points {
		xy := transform.Apply(p.XY())
		points = append(points, opts.ScatterData{Value: []interface{}{xy.X, xy.Y}})
	}
	scatter.AddSeries("points", points,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	if len(band.Peaks) > 0 {
		peaks := make([]opts.ScatterData, 0, len(band.Peaks))
		for _, pk := range band.Peaks {
			peaks = append(peaks, opts.ScatterData{
				Name:  pk.Name,
				Value: []interface{}{pk.Point.X, pk.Point.Y},
			})
		}
		scatter.AddSeries("peaks", peaks,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	}

	line := charts.NewLine()
	for i, ring := range band.Boundary.Rings {
		lineData := make([]opts.LineData, 0, len(ring))
		for _, p := range ring {
			lineData = append(lineData, opts.LineData{Value: []interface{}{p.X, p.Y}})
		}
		line.AddSeries(fmt.Sprintf("hull %d", i), lineData,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	}
	scatter.Overlap(line)

	return scatter
}

// RenderCharts writes an interactive HTML page with one chart per band.
// Bands that were skipped contribute nothing; the point clouds are shown in
// rescaled coordinates so the charts match the DXF output space.
func RenderCharts(w io.Writer, result *Result, target [2]float64) error {
	page := components.NewPage()
	page.PageTitle = "Altitude band boundaries"

	for _, band := range result.Bands {
		page.AddCharts(bandChart(band, result.Transform, target))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}
	return nil
}

// ExportCharts renders the interactive band charts to an HTML file.
func ExportCharts(path string, result *Result, target [2]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()
	return RenderCharts(f, result, target)
}
