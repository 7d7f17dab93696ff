package contour

import (
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// nrgbaToRGBA converts color.NRGBA to color.RGBA by premultiplying alpha.
// The canvas library expects premultiplied RGBA.
func nrgbaToRGBA(c color.NRGBA) color.RGBA {
	if c.A == 0 {
		return color.RGBA{0, 0, 0, 0}
	}
	if c.A == 255 {
		return color.RGBA{c.R, c.G, c.B, 255}
	}
	alpha32 := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R) * alpha32) / 255),
		G: uint8((uint32(c.G) * alpha32) / 255),
		B: uint8((uint32(c.B) * alpha32) / 255),
		A: c.A,
	}
}

// bandPalette returns a stroke color for band i of n, ramping from deep
// green valleys to brown summits.
func bandPalette(i, n int) color.NRGBA {
	if n <= 1 {
		return color.NRGBA{34, 102, 34, 255}
	}
	t := float64(i) / float64(n-1)
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + t*(float64(b)-float64(a))) }
	return color.NRGBA{R: lerp(34, 139), G: lerp(102, 69), B: lerp(34, 19), A: 255}
}

// BandRenderer renders all band boundaries and peaks as a single layered
// vector drawing in the rescaled output coordinate space.
type BandRenderer struct {
	Result     *Result
	Target     [2]float64
	Padding    float64           // padding around the margin square, in output units
	Resolution canvas.Resolution // PNG resolution
}

// NewBandRenderer creates a renderer with default settings.
func NewBandRenderer(result *Result, target [2]float64) *BandRenderer {
	return &BandRenderer{
		Result:     result,
		Target:     target,
		Padding:    10.0,
		Resolution: canvas.DPI(300),
	}
}

// canvasRenderer is the interface both the svg and rasterizer backends
// implement.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the layered drawing as an SVG to the provided writer.
func (r *BandRenderer) RenderToSVG(w io.Writer) error {
	width, height := r.size()
	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, width, height)
	return svgRenderer.Close()
}

// RenderToPNG writes the layered drawing as a PNG to the provided writer.
func (r *BandRenderer) RenderToPNG(w io.Writer) error {
	width, height := r.size()
	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, width, height)
	return png.Encode(w, rast)
}

func (r *BandRenderer) size() (float64, float64) {
	span := r.Target[1] - r.Target[0]
	return span + 2*r.Padding, span + 2*r.Padding
}

// renderToCanvas draws the margin square, each band's smoothed rings and
// the peak markers (shared logic for SVG and PNG).
func (r *BandRenderer) renderToCanvas(renderer canvasRenderer, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvas := func(p Point) (float64, float64) {
		return p.X - r.Target[0] + r.Padding, p.Y - r.Target[0] + r.Padding
	}

	// Margin square, the alignment frame shared by every physical layer.
	marginStyle := canvas.DefaultStyle
	marginStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	marginStyle.Stroke = canvas.Paint{Color: nrgbaToRGBA(color.NRGBA{0, 128, 0, 255})}
	marginStyle.StrokeWidth = 0.5

	lo, hi := r.Target[0], r.Target[1]
	margin := &canvas.Path{}
	x0, y0 := toCanvas(Point{lo, lo})
	margin.MoveTo(x0, y0)
	for _, p := range []Point{{hi, lo}, {hi, hi}, {lo, hi}} {
		cx, cy := toCanvas(p)
		margin.LineTo(cx, cy)
	}
	margin.Close()
	renderer.RenderPath(margin, marginStyle, canvas.Identity)

	// Band boundaries, valley colors first so summit rings draw on top.
	n := len(r.Result.Bands)
	for i, band := range r.Result.Bands {
		ringStyle := canvas.DefaultStyle
		ringStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		ringStyle.Stroke = canvas.Paint{Color: nrgbaToRGBA(bandPalette(i, n))}
		ringStyle.StrokeWidth = 0.8

		for _, ring := range band.Boundary.Rings {
			cp := &canvas.Path{}
			for j, pt := range ring {
				cx, cy := toCanvas(pt)
				if j == 0 {
					cp.MoveTo(cx, cy)
				} else {
					cp.LineTo(cx, cy)
				}
			}
			cp.Close()
			renderer.RenderPath(cp, ringStyle, canvas.Identity)
		}
	}

	// Peak markers.
	peakStyle := canvas.DefaultStyle
	peakStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(color.NRGBA{255, 140, 0, 255})}
	peakStyle.Stroke = canvas.Paint{Color: canvas.Black}
	peakStyle.StrokeWidth = 0.2

	for _, band := range r.Result.Bands {
		for _, peak := range band.Peaks {
			cx, cy := toCanvas(peak.Point.XY())
			marker := canvas.Circle(1.2)
			marker = marker.Translate(cx, cy)
			renderer.RenderPath(marker, peakStyle, canvas.Identity)
		}
	}
}
