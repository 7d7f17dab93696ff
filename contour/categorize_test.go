package contour

import (
	"errors"
	"testing"
)

func TestCategorize_WidthBins(t *testing.T) {
	points := []Point3D{
		{0, 0, 10}, {10, 0, 12}, {10, 10, 11}, {0, 10, 9}, {5, 5, 10.5},
	}

	cats, err := Categorize(points, 5, nil)
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}

	low := cats[0]
	if low.Lower != 5 || low.Upper != 10 || low.Closed {
		t.Errorf("low band = [%g, %g] closed=%v, want [5, 10)", low.Lower, low.Upper, low.Closed)
	}
	if len(low.Points) != 1 || low.Points[0].Z != 9 {
		t.Errorf("low band points = %v, want the single z=9 point", low.Points)
	}

	high := cats[1]
	if high.Lower != 10 || high.Upper != 15 || !high.Closed {
		t.Errorf("high band = [%g, %g] closed=%v, want [10, 15]", high.Lower, high.Upper, high.Closed)
	}
	if len(high.Points) != 4 {
		t.Errorf("high band has %d points, want 4", len(high.Points))
	}
}

func TestCategorize_PartitionInvariant(t *testing.T) {
	points := []Point3D{
		{0, 0, 1}, {1, 0, 2.5}, {2, 0, 5}, {3, 0, 7.499}, {4, 0, 7.5}, {5, 0, 9.99},
	}

	cats, err := Categorize(points, 2.5, nil)
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}

	total := 0
	for i, c := range cats {
		total += len(c.Points)
		if c.Label != i {
			t.Errorf("category %d has label %d", i, c.Label)
		}
		if i > 0 {
			prev := cats[i-1]
			if c.Lower != prev.Upper {
				t.Errorf("bounds not contiguous: %g then %g", prev.Upper, c.Lower)
			}
			if c.Lower <= prev.Lower {
				t.Errorf("categories not ascending at %d", i)
			}
		}
		for _, p := range c.Points {
			if !c.Contains(p.Z) {
				t.Errorf("point z=%g outside its band [%g, %g]", p.Z, c.Lower, c.Upper)
			}
		}
	}
	if total != len(points) {
		t.Errorf("partition lost points: %d of %d assigned", total, len(points))
	}
}

func TestCategorize_BoundaryBelongsToHigherBin(t *testing.T) {
	points := []Point3D{{0, 0, 0}, {1, 0, 5}, {2, 0, 10}}

	cats, err := Categorize(points, 5, nil)
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	// z=5 sits exactly on the interior edge and belongs to the higher bin;
	// z=10 is the closed upper bound of the last bin.
	if len(cats[0].Points) != 1 {
		t.Errorf("first bin has %d points, want 1", len(cats[0].Points))
	}
	if len(cats[1].Points) != 2 {
		t.Errorf("second bin has %d points, want 2", len(cats[1].Points))
	}
}

func TestCategorize_EmptyBinsRetained(t *testing.T) {
	points := []Point3D{{0, 0, 0.5}, {1, 0, 10.5}}

	cats, err := Categorize(points, 1, nil)
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if len(cats) != 11 {
		t.Fatalf("got %d categories, want 11", len(cats))
	}
	empty := 0
	for _, c := range cats {
		if len(c.Points) == 0 {
			empty++
		}
	}
	if empty != 9 {
		t.Errorf("got %d empty bins, want 9", empty)
	}
}

func TestCategorize_ExplicitEdges(t *testing.T) {
	points := []Point3D{{0, 0, -5}, {1, 0, 150}, {2, 0, 450}, {3, 0, 2000}}

	cats, err := Categorize(points, 0, []float64{0, 300, 600, 900})
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	if len(cats) != 3 {
		t.Fatalf("got %d categories, want 3", len(cats))
	}
	// Out-of-domain points clamp into the first and last bands.
	if len(cats[0].Points) != 2 {
		t.Errorf("first band has %d points, want 2", len(cats[0].Points))
	}
	if len(cats[2].Points) != 1 {
		t.Errorf("last band has %d points, want 1", len(cats[2].Points))
	}
}

func TestCategorize_InvalidConfig(t *testing.T) {
	points := []Point3D{{0, 0, 1}}

	tests := []struct {
		name  string
		width float64
		edges []float64
	}{
		{"zero width", 0, nil},
		{"negative width", -5, nil},
		{"single edge", 0, []float64{10}},
		{"non-monotonic edges", 0, []float64{0, 100, 50}},
		{"duplicate edges", 0, []float64{0, 100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Categorize(points, tt.width, tt.edges)
			if !errors.Is(err, ErrInvalidBinConfig) {
				t.Errorf("err = %v, want ErrInvalidBinConfig", err)
			}
		})
	}
}

func TestCategorize_Name(t *testing.T) {
	c := AltitudeCategory{Lower: 450, Upper: 500}
	if got := c.Name(); got != "450m to 500m" {
		t.Errorf("Name() = %q, want %q", got, "450m to 500m")
	}
}

func TestBandPoints_Cumulative(t *testing.T) {
	cats := []AltitudeCategory{
		{Label: 0, Points: []Point3D{{0, 0, 1}}},
		{Label: 1, Points: []Point3D{{1, 0, 2}, {2, 0, 2}}},
		{Label: 2, Points: []Point3D{{3, 0, 3}}},
	}

	if got := len(BandPoints(cats, 0, true)); got != 4 {
		t.Errorf("cumulative band 0 has %d points, want 4", got)
	}
	if got := len(BandPoints(cats, 1, true)); got != 3 {
		t.Errorf("cumulative band 1 has %d points, want 3", got)
	}
	if got := len(BandPoints(cats, 1, false)); got != 2 {
		t.Errorf("plain band 1 has %d points, want 2", got)
	}
}

func TestSummarize(t *testing.T) {
	cats := []AltitudeCategory{
		{Label: 0, Lower: 0, Upper: 50, Points: []Point3D{{0, 0, 10}, {1, 0, 20}}},
		{Label: 1, Lower: 50, Upper: 100},
	}

	stats := Summarize(cats)
	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}
	if !almostEqual(stats[0].MeanZ, 15) {
		t.Errorf("mean = %g, want 15", stats[0].MeanZ)
	}
	if stats[1].Count != 0 || stats[1].MeanZ != 0 {
		t.Errorf("empty band stats = %+v, want zeros", stats[1])
	}
}
