package contour

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

// FindShapefiles lists the .shp files in dir whose name contains tag. The
// source dataset marks its 3D point layers with a filename tag, so other
// layers in the same directory are ignored. An empty tag matches everything.
func FindShapefiles(dir, tag string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading shapefile dir: %w", err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".shp") {
			continue
		}
		if tag != "" && !strings.Contains(name, tag) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// LoadShapefiles reads every matching shapefile in dir and returns the
// combined geometry records in file order. Each record exposes the vertex
// coordinates, the altitude when the geometry carries one, and the full
// attribute row keyed by lower-cased field name.
func LoadShapefiles(dir, tag string) ([]Record, error) {
	files, err := FindShapefiles(dir, tag)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no shapefiles matching %q in %s", tag, dir)
	}

	var records []Record
	for _, f := range files {
		recs, err := ReadShapefile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		records = append(records, recs...)
	}
	return records, nil
}

// ReadShapefile reads one shapefile into geometry records. Point geometries
// yield one record; polylines yield one record per vertex sharing the row's
// attributes. Geometry types without planar vertices are skipped.
func ReadShapefile(path string) ([]Record, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile: %w", err)
	}
	defer reader.Close()

	fields := reader.Fields()

	var records []Record
	for reader.Next() {
		row, shape := reader.Shape()

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			v := strings.TrimSpace(reader.ReadAttribute(row, i))
			if v != "" {
				attrs[strings.ToLower(f.String())] = v
			}
		}

		records = append(records, shapeRecords(shape, attrs)...)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("reading shapes: %w", err)
	}

	return records, nil
}

// shapeRecords flattens one shape into records.
func shapeRecords(shape shp.Shape, attrs map[string]string) []Record {
	switch s := shape.(type) {
	case *shp.PointZ:
		return []Record{{X: s.X, Y: s.Y, Z: s.Z, HasZ: true, Attrs: attrs}}
	case *shp.Point:
		return []Record{{X: s.X, Y: s.Y, Attrs: attrs}}
	case *shp.PointM:
		return []Record{{X: s.X, Y: s.Y, Attrs: attrs}}
	case *shp.PolyLineZ:
		out := make([]Record, 0, len(s.Points))
		for i, p := range s.Points {
			r := Record{X: p.X, Y: p.Y, Attrs: attrs}
			if i < len(s.ZArray) {
				r.Z = s.ZArray[i]
				r.HasZ = true
			}
			out = append(out, r)
		}
		return out
	case *shp.PolyLine:
		out := make([]Record, 0, len(s.Points))
		for _, p := range s.Points {
			out = append(out, Record{X: p.X, Y: p.Y, Attrs: attrs})
		}
		return out
	default:
		return nil
	}
}
