package contour

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestDXFDocument_RoundTrip(t *testing.T) {
	doc := NewDXFDocument()
	doc.AddLayer(LayerBoundaries, ColorBlack)
	doc.AddLayer(LayerCrosses, ColorRed)
	doc.AddPolyline(LayerBoundaries, []Point{{0, 0}, {10, 0}, {10, 10}, {0, 0}}, true)
	doc.AddPolyline(LayerMargin, []Point{{0, 0}, {333, 0}}, false)
	doc.AddCircle(LayerCrosses, Point{5, 5}, 0.5)

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"AC1015", "LWPOLYLINE", "CIRCLE", "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	parsed, err := parseDXF(&buf)
	if err != nil {
		t.Fatalf("parseDXF: %v", err)
	}

	if len(parsed.Polylines) != 2 {
		t.Fatalf("got %d polylines, want 2", len(parsed.Polylines))
	}
	pl := parsed.Polylines[0]
	if pl.Layer != LayerBoundaries || !pl.Closed {
		t.Errorf("polyline = layer %q closed %v, want %q closed", pl.Layer, pl.Closed, LayerBoundaries)
	}
	if len(pl.Points) != 4 || pl.Points[2] != (Point{10, 10}) {
		t.Errorf("polyline points = %v", pl.Points)
	}
	if parsed.Polylines[1].Closed {
		t.Error("open polyline parsed as closed")
	}

	if len(parsed.Circles) != 1 {
		t.Fatalf("got %d circles, want 1", len(parsed.Circles))
	}
	c := parsed.Circles[0]
	if c.Layer != LayerCrosses || c.Center != (Point{5, 5}) || !almostEqual(c.Radius, 0.5) {
		t.Errorf("circle = %+v", c)
	}
}

func TestDXFDocument_AddLayerIdempotent(t *testing.T) {
	doc := NewDXFDocument()
	doc.AddLayer(LayerBoundaries, ColorBlack)
	doc.AddLayer(LayerBoundaries, ColorRed)

	if len(doc.layers) != 1 {
		t.Errorf("got %d layers, want 1", len(doc.layers))
	}
}

func TestExportBandDXF(t *testing.T) {
	band := BandResult{
		Category: AltitudeCategory{Label: 9, Lower: 450, Upper: 500},
		Boundary: SmoothedBoundary{
			Category: 9,
			Rings:    []Ring{{{10, 10}, {50, 10}, {50, 50}, {10, 50}, {10, 10}}},
		},
		Peaks: []NamedPeak{{Name: "Puig Alt", Point: Point3D{30, 30, 470}}},
	}

	path := filepath.Join(t.TempDir(), band.Category.Name()+".dxf")
	if err := ExportBandDXF(path, band, [2]float64{0, 333}); err != nil {
		t.Fatalf("ExportBandDXF: %v", err)
	}

	doc, err := ReadDXF(path)
	if err != nil {
		t.Fatalf("ReadDXF: %v", err)
	}

	if got := doc.PolylinesOnLayer(LayerBoundaries); len(got) != 1 {
		t.Errorf("got %d boundary polylines, want 1", len(got))
	}
	margin := doc.PolylinesOnLayer(LayerMargin)
	if len(margin) != 1 {
		t.Fatalf("got %d margin polylines, want 1", len(margin))
	}
	if margin[0].Points[2] != (Point{333, 333}) {
		t.Errorf("margin corner = %+v, want (333, 333)", margin[0].Points[2])
	}
	crosses := doc.CirclesOnLayer(LayerCrosses)
	if len(crosses) != 1 || crosses[0].Center != (Point{30, 30}) {
		t.Errorf("crosses = %+v", crosses)
	}
}

func TestBandFileLowerBound(t *testing.T) {
	tests := []struct {
		path string
		want float64
		ok   bool
	}{
		{"output/450m to 500m.dxf", 450, true},
		{"1000m to 1050m.dxf", 1000, true},
		{"notes.dxf", 0, false},
	}

	for _, tt := range tests {
		got, err := bandFileLowerBound(tt.path)
		if tt.ok != (err == nil) {
			t.Errorf("%q: err = %v, want ok=%v", tt.path, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("%q: bound = %g, want %g", tt.path, got, tt.want)
		}
	}
}

// writeBandFile drops a minimal per-band DXF into dir for the merge tests.
func writeBandFile(t *testing.T, dir string, lower, upper float64, withPeak bool) string {
	t.Helper()
	band := BandResult{
		Category: AltitudeCategory{Lower: lower, Upper: upper},
		Boundary: SmoothedBoundary{
			Rings: []Ring{{{lower, 0}, {lower + 1, 0}, {lower + 1, 1}, {lower, 0}}},
		},
	}
	if withPeak {
		band.Peaks = []NamedPeak{{Name: "p", Point: Point3D{X: lower, Y: lower}}}
	}
	path := filepath.Join(dir, band.Category.Name()+".dxf")
	if err := ExportBandDXF(path, band, [2]float64{0, 333}); err != nil {
		t.Fatalf("ExportBandDXF: %v", err)
	}
	return path
}

func TestListBandDXFFiles_SortsNumerically(t *testing.T) {
	dir := t.TempDir()
	writeBandFile(t, dir, 1000, 1050, false)
	writeBandFile(t, dir, 450, 500, false)
	writeBandFile(t, dir, 500, 550, false)

	files, err := ListBandDXFFiles(dir)
	if err != nil {
		t.Fatalf("ListBandDXFFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	// Lexical order would put 1000m first.
	want := []string{"450m to 500m.dxf", "500m to 550m.dxf", "1000m to 1050m.dxf"}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("file %d = %q, want %q", i, filepath.Base(f), want[i])
		}
	}
}

func TestMergeDXFByGap(t *testing.T) {
	dir := t.TempDir()
	writeBandFile(t, dir, 0, 50, true)
	writeBandFile(t, dir, 50, 100, true)
	writeBandFile(t, dir, 100, 150, true)

	files, err := ListBandDXFFiles(dir)
	if err != nil {
		t.Fatalf("ListBandDXFFiles: %v", err)
	}

	outDir := filepath.Join(dir, "merged")
	if err := MergeDXFByGap(files, 100, 50, outDir); err != nil {
		t.Fatalf("MergeDXFByGap: %v", err)
	}

	doc, err := ReadDXF(filepath.Join(outDir, "0m to 100m.dxf"))
	if err != nil {
		t.Fatalf("ReadDXF: %v", err)
	}

	if got := doc.PolylinesOnLayer(LayerBoundariesStart); len(got) != 1 {
		t.Errorf("got %d start boundaries, want 1", len(got))
	}
	if got := doc.PolylinesOnLayer(LayerBoundariesEnd); len(got) != 1 {
		t.Errorf("got %d end boundaries, want 1", len(got))
	}
	if got := doc.PolylinesOnLayer(LayerMargin); len(got) != 1 {
		t.Errorf("got %d margin polylines, want 1", len(got))
	}
	// Crosses accumulate from the start band through every band above it.
	if got := doc.CirclesOnLayer(LayerCrosses); len(got) != 3 {
		t.Errorf("got %d crosses, want 3", len(got))
	}
}

func TestMergeDXFByGap_Validation(t *testing.T) {
	if err := MergeDXFByGap(nil, 100, 50, t.TempDir()); err == nil {
		t.Error("no error for empty file list")
	}
	if err := MergeDXFByGap([]string{"x.dxf"}, 25, 50, t.TempDir()); err == nil {
		t.Error("no error for gap smaller than band width")
	}
}
