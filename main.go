package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xavib/reliefcut/contour"
)

// Version is set at build time via -ldflags
var Version = "dev"

type Options struct {
	ConfigFile string  `short:"c" long:"config" description:"Path to configuration file" default:"config.yaml"`
	DataDir    string  `short:"d" long:"data-dir" description:"Directory with input shapefiles (overrides config)"`
	OutputDir  string  `short:"o" long:"output" description:"Output directory (overrides config)"`
	BinWidth   float64 `short:"b" long:"bin-width" description:"Altitude band width in meters (overrides config)"`
	Alpha      float64 `short:"a" long:"alpha" description:"Alpha parameter; 0 selects automatic search (overrides config)"`

	MergeGap  float64 `short:"m" long:"merge-gap" description:"Merge mode: combine per-band DXFs into slabs of this altitude gap"`
	StatsOnly bool    `short:"s" long:"stats-only" description:"Print per-band statistics and exit"`

	NoCache bool `long:"no-cache" description:"Ignore and do not write the processed-data CSV cache"`
	Verbose bool `short:"v" long:"verbose" description:"Enable debug logging"`
	Version bool `short:"V" long:"version" description:"Print version and exit"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	setupLogger(opts.Verbose)

	if opts.Version {
		fmt.Printf("reliefcut version: %s\n", Version)
		return
	}

	cfg := loadConfig(&opts)

	if opts.MergeGap > 0 {
		runMerge(cfg, opts.MergeGap)
		return
	}

	records := loadRecords(cfg, &opts)

	pipeline, err := contour.NewPipeline(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid pipeline configuration")
	}

	result, err := pipeline.Run(records)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline failed")
	}

	logSummary(result)

	if opts.StatsOnly {
		printStats(result)
		return
	}

	writeOutputs(cfg, result)
}

func setupLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func loadConfig(opts *Options) *contour.Config {
	cfg := contour.DefaultConfig()
	if _, err := os.Stat(opts.ConfigFile); err == nil {
		cfg, err = contour.LoadConfig(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	} else if opts.ConfigFile != "config.yaml" {
		// An explicitly requested config file must exist; only the default
		// path silently falls back to built-in defaults.
		log.Fatal().Str("config", opts.ConfigFile).Msg("Config file not found")
	}

	// CLI flags take precedence over file values.
	if opts.DataDir != "" {
		cfg.ShapefileDir = opts.DataDir
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.BinWidth > 0 {
		cfg.BinWidth = opts.BinWidth
		cfg.BinEdges = nil
	}
	if opts.Alpha > 0 {
		cfg.Alpha = opts.Alpha
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	return cfg
}

// loadRecords prefers the processed-data cache when present so repeat runs
// skip shapefile parsing, matching the original workflow.
func loadRecords(cfg *contour.Config, opts *Options) []contour.Record {
	cachePath := cfg.CacheFile
	if cachePath == "" {
		cachePath = filepath.Join(cfg.OutputDir, "processed_data.csv")
	}

	if !opts.NoCache {
		if _, err := os.Stat(cachePath); err == nil {
			log.Info().Str("cache", cachePath).Msg("Loading preprocessed data")
			records, err := contour.LoadRecords(cachePath)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to load cache")
			}
			return records
		}
	}

	if cfg.ShapefileDir == "" {
		log.Fatal().Msg("No shapefile directory configured and no cache found")
	}

	log.Info().Str("dir", cfg.ShapefileDir).Str("tag", cfg.FilenameTag).Msg("Loading shapefiles")
	records, err := contour.LoadShapefiles(cfg.ShapefileDir, cfg.FilenameTag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load shapefiles")
	}
	log.Info().Int("records", len(records)).Msg("Shapefiles loaded")

	if !opts.NoCache {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err == nil {
			if err := contour.SaveRecords(cachePath, records, cfg.PeakAttribute); err != nil {
				log.Warn().Err(err).Msg("Failed to write cache")
			}
		}
	}

	return records
}

func runMerge(cfg *contour.Config, gap float64) {
	files, err := contour.ListBandDXFFiles(cfg.OutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list band DXF files")
	}

	outDir := filepath.Join(cfg.OutputDir, fmt.Sprintf("dxf%g", gap))
	if err := contour.MergeDXFByGap(files, gap, cfg.BinWidth, outDir); err != nil {
		log.Fatal().Err(err).Msg("DXF merge failed")
	}
	log.Info().Str("dir", outDir).Msg("Merge complete")
}

func logSummary(result *contour.Result) {
	log.Info().
		Int("categories", len(result.Categories)).
		Int("bands", len(result.Bands)).
		Int("skipped", len(result.Skipped)).
		Float64("scale", result.Transform.Scale).
		Msg("Pipeline complete")

	for _, s := range result.Skipped {
		log.Warn().Str("band", s.Name).Err(s.Err).Msg("Band produced no boundary")
	}
}

func printStats(result *contour.Result) {
	for _, s := range contour.Summarize(result.Categories) {
		fmt.Printf("%-20s %6d points  mean %8.1fm  stddev %6.1fm\n", s.Name, s.Count, s.MeanZ, s.StdDev)
	}
}

func writeOutputs(cfg *contour.Config, result *contour.Result) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	for _, band := range result.Bands {
		path := filepath.Join(cfg.OutputDir, band.Category.Name()+".dxf")
		if err := contour.ExportBandDXF(path, band, cfg.TargetRange); err != nil {
			log.Error().Err(err).Str("band", band.Category.Name()).Msg("DXF export failed")
			continue
		}
		log.Debug().Str("file", path).Msg("Wrote band DXF")
	}

	chartPath := filepath.Join(cfg.OutputDir, "bands.html")
	if err := contour.ExportCharts(chartPath, result, cfg.TargetRange); err != nil {
		log.Error().Err(err).Msg("Chart export failed")
	}

	geojsonPath := filepath.Join(cfg.OutputDir, "bands.geojson")
	if err := contour.ExportGeoJSON(geojsonPath, result); err != nil {
		log.Error().Err(err).Msg("GeoJSON export failed")
	}

	renderer := contour.NewBandRenderer(result, cfg.TargetRange)
	svgFile, err := os.Create(filepath.Join(cfg.OutputDir, "bands.svg"))
	if err == nil {
		if err := renderer.RenderToSVG(svgFile); err != nil {
			log.Error().Err(err).Msg("SVG render failed")
		}
		svgFile.Close()
	}

	quick := contour.NewQuickLookRenderer(result, cfg.TargetRange)
	if err := quick.SavePNG(filepath.Join(cfg.OutputDir, "preview.png")); err != nil {
		log.Error().Err(err).Msg("Preview render failed")
	}

	var cleaned []contour.Point3D
	for _, c := range result.Categories {
		cleaned = append(cleaned, c.Points...)
	}
	if err := contour.SaveAltitudeHistogram(filepath.Join(cfg.OutputDir, "altitude_hist.png"), cleaned, 30); err != nil {
		log.Warn().Err(err).Msg("Histogram export failed")
	}

	log.Info().Str("dir", cfg.OutputDir).Msg("Outputs written")
}
