package contour

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// bandFileLowerBound parses the lower altitude bound out of a per-band DXF
// filename such as "450m to 500m.dxf".
func bandFileLowerBound(path string) (float64, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	first := strings.Fields(stem)
	if len(first) == 0 {
		return 0, fmt.Errorf("cannot parse band bound from %q", path)
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(first[0], "m"), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse band bound from %q: %w", path, err)
	}
	return v, nil
}

// ListBandDXFFiles returns the per-band DXF files in dir sorted ascending by
// their lower altitude bound.
func ListBandDXFFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading DXF dir: %w", err)
	}

	type bandFile struct {
		path  string
		lower float64
	}
	var files []bandFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".dxf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		lower, err := bandFileLowerBound(path)
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name()).Msg("skipping unparseable DXF filename")
			continue
		}
		files = append(files, bandFile{path: path, lower: lower})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].lower < files[j].lower })

	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.path
	}
	return out, nil
}

// MergeDXFByGap combines per-band DXF files into thicker slabs. For a gap of
// 100 and 50-unit bands, every second file pairs with the one `step` bands
// above it: the lower file's boundaries land on "Boundaries_start" (black),
// the upper file's on "Boundaries_end" (blue), and the peak circles of every
// band from the start upward accumulate on "Crosses" so summits stay visible
// through all slabs above their own. The margin square comes from the start
// file unchanged.
//
// files must be sorted ascending (see ListBandDXFFiles); bandWidth is the
// altitude span each input file covers.
func MergeDXFByGap(files []string, gap, bandWidth float64, outputDir string) error {
	if len(files) == 0 {
		return fmt.Errorf("no DXF files to merge")
	}
	if bandWidth <= 0 || gap < bandWidth {
		return fmt.Errorf("gap %g must be at least the band width %g", gap, bandWidth)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	step := int(gap / bandWidth)

	for i := 0; i < len(files); i += step {
		endIdx := i + step
		if endIdx >= len(files) {
			endIdx = len(files) - 1
		}

		startStem := strings.Fields(strings.TrimSuffix(filepath.Base(files[i]), ".dxf"))[0]
		endStem := strings.Fields(strings.TrimSuffix(filepath.Base(files[endIdx]), ".dxf"))[0]
		outPath := filepath.Join(outputDir, fmt.Sprintf("%s to %s.dxf", startStem, endStem))

		if err := mergePair(files[i], files[endIdx], files[i:], outPath); err != nil {
			return fmt.Errorf("merging %s: %w", outPath, err)
		}
		log.Info().Str("output", outPath).Msg("merged DXF slab")
	}

	return nil
}

// mergePair combines a start and end band file plus the crosses of every
// band at or above the start into one output document.
func mergePair(startFile, endFile string, upperFiles []string, outPath string) error {
	combined := NewDXFDocument()
	combined.AddLayer(LayerBoundariesStart, ColorBlack)
	combined.AddLayer(LayerBoundariesEnd, ColorBlue)
	combined.AddLayer(LayerCrosses, ColorRed)
	combined.AddLayer(LayerMargin, ColorGreen)

	startDoc, err := ReadDXF(startFile)
	if err != nil {
		return err
	}
	for _, pl := range startDoc.PolylinesOnLayer(LayerBoundaries) {
		combined.AddPolyline(LayerBoundariesStart, pl.Points, pl.Closed)
	}
	for _, pl := range startDoc.PolylinesOnLayer(LayerMargin) {
		combined.AddPolyline(LayerMargin, pl.Points, pl.Closed)
	}

	endDoc, err := ReadDXF(endFile)
	if err != nil {
		return err
	}
	for _, pl := range endDoc.PolylinesOnLayer(LayerBoundaries) {
		combined.AddPolyline(LayerBoundariesEnd, pl.Points, pl.Closed)
	}

	// Crosses accumulate from the start band upward.
	for _, f := range upperFiles {
		doc := startDoc
		switch f {
		case startFile:
		case endFile:
			doc = endDoc
		default:
			doc, err = ReadDXF(f)
			if err != nil {
				return err
			}
		}
		for _, c := range doc.CirclesOnLayer(LayerCrosses) {
			combined.AddCircle(LayerCrosses, c.Center, c.Radius)
		}
	}

	return combined.SaveAs(outPath)
}
