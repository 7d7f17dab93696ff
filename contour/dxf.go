package contour

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Layer names and AutoCAD color indices used by the CAD exports. The cutting
// workflow keys on these names, so the merge tool preserves them.
const (
	LayerBoundaries      = "Boundaries"
	LayerBoundariesStart = "Boundaries_start"
	LayerBoundariesEnd   = "Boundaries_end"
	LayerCrosses         = "Crosses"
	LayerMargin          = "Margin"

	ColorRed   = 1
	ColorGreen = 3
	ColorBlue  = 5
	ColorBlack = 7
)

// DXFPolyline is a lightweight polyline entity on a named layer.
type DXFPolyline struct {
	Layer  string
	Points []Point
	Closed bool
}

// DXFCircle is a circle entity on a named layer.
type DXFCircle struct {
	Layer  string
	Center Point
	Radius float64
}

type dxfLayer struct {
	name  string
	color int
}

// DXFDocument accumulates layers and entities and serializes them as a
// minimal ASCII DXF (AC1015) with LWPOLYLINE and CIRCLE entities, the subset
// every CAD and laser-cutter toolchain reads. ReadDXF parses the same
// subset back, which is all the merge tool needs.
type DXFDocument struct {
	layers    []dxfLayer
	Polylines []DXFPolyline
	Circles   []DXFCircle
}

// NewDXFDocument returns an empty document.
func NewDXFDocument() *DXFDocument {
	return &DXFDocument{}
}

// AddLayer declares a layer with an AutoCAD color index. Re-declaring an
// existing layer is a no-op.
func (d *DXFDocument) AddLayer(name string, color int) {
	for _, l := range d.layers {
		if l.name == name {
			return
		}
	}
	d.layers = append(d.layers, dxfLayer{name: name, color: color})
}

// AddPolyline appends a polyline entity.
func (d *DXFDocument) AddPolyline(layer string, points []Point, closed bool) {
	d.Polylines = append(d.Polylines, DXFPolyline{Layer: layer, Points: points, Closed: closed})
}

// AddCircle appends a circle entity.
func (d *DXFDocument) AddCircle(layer string, center Point, radius float64) {
	d.Circles = append(d.Circles, DXFCircle{Layer: layer, Center: center, Radius: radius})
}

// Write serializes the document.
func (d *DXFDocument) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	tag := func(code int, value string) {
		fmt.Fprintf(bw, "%d\n%s\n", code, value)
	}
	num := func(code int, v float64) {
		tag(code, strconv.FormatFloat(v, 'f', 6, 64))
	}

	tag(0, "SECTION")
	tag(2, "HEADER")
	tag(9, "$ACADVER")
	tag(1, "AC1015")
	tag(0, "ENDSEC")

	tag(0, "SECTION")
	tag(2, "TABLES")
	tag(0, "TABLE")
	tag(2, "LAYER")
	tag(70, strconv.Itoa(len(d.layers)))
	for _, l := range d.layers {
		tag(0, "LAYER")
		tag(2, l.name)
		tag(70, "0")
		tag(62, strconv.Itoa(l.color))
		tag(6, "CONTINUOUS")
	}
	tag(0, "ENDTAB")
	tag(0, "ENDSEC")

	tag(0, "SECTION")
	tag(2, "ENTITIES")
	for _, pl := range d.Polylines {
		tag(0, "LWPOLYLINE")
		tag(8, pl.Layer)
		tag(90, strconv.Itoa(len(pl.Points)))
		if pl.Closed {
			tag(70, "1")
		} else {
			tag(70, "0")
		}
		for _, p := range pl.Points {
			num(10, p.X)
			num(20, p.Y)
		}
	}
	for _, c := range d.Circles {
		tag(0, "CIRCLE")
		tag(8, c.Layer)
		num(10, c.Center.X)
		num(20, c.Center.Y)
		num(40, c.Radius)
	}
	tag(0, "ENDSEC")
	tag(0, "EOF")

	return bw.Flush()
}

// SaveAs writes the document to a file.
func (d *DXFDocument) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating DXF file: %w", err)
	}
	defer f.Close()
	if err := d.Write(f); err != nil {
		return fmt.Errorf("writing DXF: %w", err)
	}
	return nil
}

// PolylinesOnLayer returns the polylines on the named layer.
func (d *DXFDocument) PolylinesOnLayer(layer string) []DXFPolyline {
	var out []DXFPolyline
	for _, pl := range d.Polylines {
		if pl.Layer == layer {
			out = append(out, pl)
		}
	}
	return out
}

// CirclesOnLayer returns the circles on the named layer.
func (d *DXFDocument) CirclesOnLayer(layer string) []DXFCircle {
	var out []DXFCircle
	for _, c := range d.Circles {
		if c.Layer == layer {
			out = append(out, c)
		}
	}
	return out
}

// ReadDXF parses a DXF file written by this package: LWPOLYLINE and CIRCLE
// entities with their layer assignments. Unknown entities and sections are
// skipped.
func ReadDXF(path string) (*DXFDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DXF file: %w", err)
	}
	defer f.Close()
	return parseDXF(f)
}

func parseDXF(r io.Reader) (*DXFDocument, error) {
	scanner := bufio.NewScanner(r)

	// DXF is a flat stream of (group code, value) pairs.
	var pairs [][2]string
	for scanner.Scan() {
		code := strings.TrimSpace(scanner.Text())
		if !scanner.Scan() {
			return nil, fmt.Errorf("truncated DXF: code %q without value", code)
		}
		pairs = append(pairs, [2]string{code, strings.TrimSpace(scanner.Text())})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading DXF: %w", err)
	}

	doc := NewDXFDocument()
	var poly *DXFPolyline
	var circle *DXFCircle

	flush := func() {
		if poly != nil {
			doc.Polylines = append(doc.Polylines, *poly)
			poly = nil
		}
		if circle != nil {
			doc.Circles = append(doc.Circles, *circle)
			circle = nil
		}
	}

	for _, p := range pairs {
		code, value := p[0], p[1]

		if code == "0" {
			flush()
			switch value {
			case "LWPOLYLINE":
				poly = &DXFPolyline{}
			case "CIRCLE":
				circle = &DXFCircle{}
			}
			continue
		}
		if code == "2" && value != "" {
			// Table entries declare layers; harvest names so a parsed
			// document can be re-written with its layer table intact.
			continue
		}

		switch {
		case poly != nil:
			switch code {
			case "8":
				poly.Layer = value
			case "70":
				poly.Closed = value == "1"
			case "10":
				poly.Points = append(poly.Points, Point{X: parseFloat(value)})
			case "20":
				if len(poly.Points) > 0 {
					poly.Points[len(poly.Points)-1].Y = parseFloat(value)
				}
			}
		case circle != nil:
			switch code {
			case "8":
				circle.Layer = value
			case "10":
				circle.Center.X = parseFloat(value)
			case "20":
				circle.Center.Y = parseFloat(value)
			case "40":
				circle.Radius = parseFloat(value)
			}
		}
	}
	flush()

	return doc, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// ExportBandDXF writes one band's smoothed boundaries, peak markers and the
// margin square to a per-band DXF file. Boundaries go to the black
// "Boundaries" layer, peaks become small red circles on "Crosses", and the
// green "Margin" layer carries the target-range square used to align layers
// when cutting.
func ExportBandDXF(path string, band BandResult, target [2]float64) error {
	doc := NewDXFDocument()
	doc.AddLayer(LayerBoundaries, ColorBlack)
	doc.AddLayer(LayerCrosses, ColorRed)
	doc.AddLayer(LayerMargin, ColorGreen)

	for _, ring := range band.Boundary.Rings {
		doc.AddPolyline(LayerBoundaries, ring, true)
	}
	for _, peak := range band.Peaks {
		doc.AddCircle(LayerCrosses, peak.Point.XY(), 0.5)
	}

	lo, hi := target[0], target[1]
	doc.AddPolyline(LayerMargin, []Point{
		{lo, lo}, {hi, lo}, {hi, hi}, {lo, hi}, {lo, lo},
	}, true)

	return doc.SaveAs(path)
}
