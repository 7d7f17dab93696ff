package contour

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// QuickLookRenderer draws a fast pixel preview of the run: band points,
// boundary outlines and labeled peaks. It is a debugging aid next to the
// proper vector output; one pixel per Scale output units.
type QuickLookRenderer struct {
	Result *Result
	Target [2]float64
	Scale  float64 // pixels per output unit
	Margin int     // pixel margin around the drawing
}

// NewQuickLookRenderer creates a renderer with default settings.
func NewQuickLookRenderer(result *Result, target [2]float64) *QuickLookRenderer {
	return &QuickLookRenderer{Result: result, Target: target, Scale: 3, Margin: 20}
}

// Render produces the preview image. Y grows upward in the data and
// downward in image space, so rows are flipped.
func (r *QuickLookRenderer) Render() *image.RGBA {
	span := r.Target[1] - r.Target[0]
	size := int(span*r.Scale) + 2*r.Margin
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.White)
		}
	}

	toPixel := func(p Point) (int, int) {
		px := int((p.X-r.Target[0])*r.Scale) + r.Margin
		py := size - (int((p.Y-r.Target[0])*r.Scale) + r.Margin)
		return px, py
	}

	n := len(r.Result.Bands)
	for i, band := range r.Result.Bands {
		c := bandPalette(i, n)

		for _, p := range band.Category.Points {
			xy := r.Result.Transform.Apply(p.XY())
			px, py := toPixel(xy)
			img.Set(px, py, color.NRGBA{c.R, c.G, c.B, 120})
		}

		for _, ring := range band.Boundary.Rings {
			for j := 0; j+1 < len(ring); j++ {
				x0, y0 := toPixel(ring[j])
				x1, y1 := toPixel(ring[j+1])
				drawLine(img, x0, y0, x1, y1, c)
			}
		}
	}

	peakColor := color.NRGBA{255, 140, 0, 255}
	for _, band := range r.Result.Bands {
		for _, peak := range band.Peaks {
			px, py := toPixel(peak.Point.XY())
			drawLine(img, px-3, py-3, px+3, py+3, peakColor)
			drawLine(img, px-3, py+3, px+3, py-3, peakColor)
			drawLabel(img, px+5, py-2, peak.Name, color.NRGBA{0, 0, 0, 255})
		}
	}

	return img
}

// SavePNG renders the preview and writes it to a file.
func (r *QuickLookRenderer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating preview file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, r.Render()); err != nil {
		return fmt.Errorf("encoding preview PNG: %w", err)
	}
	return nil
}

// drawLine draws a line using Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawLabel renders small text using the basic 7x13 bitmap font.
func drawLabel(img *image.RGBA, x, y int, text string, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
