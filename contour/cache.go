package contour

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// The cache file uses the same column names as the upstream dataset exports,
// so files produced by either tool interchange.
var cacheHeader = []string{"longitude", "latitude", "altitude", "nom"}

// SaveRecords writes cleaned records to a CSV cache so repeat runs can skip
// shapefile parsing. Only the peak-name attribute survives the round trip;
// the remaining attribute columns are not needed after extraction.
func SaveRecords(path string, records []Record, peakAttr string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(cacheHeader); err != nil {
		return fmt.Errorf("writing cache header: %w", err)
	}

	for _, r := range records {
		z := ""
		if r.HasZ {
			z = strconv.FormatFloat(r.Z, 'g', -1, 64)
		}
		row := []string{
			strconv.FormatFloat(r.X, 'g', -1, 64),
			strconv.FormatFloat(r.Y, 'g', -1, 64),
			z,
			r.PeakName(peakAttr),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing cache row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing cache: %w", err)
	}
	return nil
}

// LoadRecords reads a CSV cache previously written by SaveRecords.
func LoadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing cache CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Tolerate files without the header row.
	start := 0
	if rows[0][0] == cacheHeader[0] {
		start = 1
	}

	records := make([]Record, 0, len(rows)-start)
	for i, row := range rows[start:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("cache row %d has %d columns, want at least 3", i+start+1, len(row))
		}

		x, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("cache row %d longitude: %w", i+start+1, err)
		}
		y, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("cache row %d latitude: %w", i+start+1, err)
		}

		rec := Record{X: x, Y: y}
		if row[2] != "" {
			z, err := strconv.ParseFloat(row[2], 64)
			if err != nil {
				return nil, fmt.Errorf("cache row %d altitude: %w", i+start+1, err)
			}
			rec.Z = z
			rec.HasZ = true
		}
		if len(row) > 3 && row[3] != "" {
			rec.Attrs = map[string]string{"nom": row[3]}
		}

		records = append(records, rec)
	}
	return records, nil
}
