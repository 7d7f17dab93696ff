package contour

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BuildFeatureCollection converts the pipeline result into a GeoJSON
// FeatureCollection: one Polygon feature per smoothed ring and one Point
// feature per named peak, all in the rescaled output coordinate space.
func BuildFeatureCollection(result *Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, band := range result.Bands {
		for i, ring := range band.Boundary.Rings {
			f := geojson.NewFeature(orb.Polygon{toOrbRing(ring)})
			f.Properties["kind"] = "boundary"
			f.Properties["category"] = band.Category.Label
			f.Properties["band"] = band.Category.Name()
			f.Properties["lower"] = band.Category.Lower
			f.Properties["upper"] = band.Category.Upper
			f.Properties["ring"] = i
			if band.Hull.ConvexFallback {
				f.Properties["convexFallback"] = true
			}
			fc.Append(f)
		}

		for _, peak := range band.Peaks {
			f := geojson.NewFeature(orb.Point{peak.Point.X, peak.Point.Y})
			f.Properties["kind"] = "peak"
			f.Properties["name"] = peak.Name
			f.Properties["category"] = peak.Category
			f.Properties["altitude"] = peak.Point.Z
			fc.Append(f)
		}
	}

	return fc
}

// ExportGeoJSON writes the result as a GeoJSON file.
func ExportGeoJSON(path string, result *Result) error {
	fc := BuildFeatureCollection(result)
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling GeoJSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing GeoJSON: %w", err)
	}
	return nil
}
