package contour

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InterpolationConfig selects the kernel used to repair missing altitudes.
// The exact kernel is a strategy, not a fixed algorithm: "idw" (default)
// inverse-distance-weights the k nearest valid samples, "nearest" copies the
// closest one.
type InterpolationConfig struct {
	Strategy  string  `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Neighbors int     `yaml:"neighbors,omitempty" json:"neighbors,omitempty"`
	Power     float64 `yaml:"power,omitempty" json:"power,omitempty"`

	// MinValid is the sentinel threshold: altitudes at or below it are
	// treated as missing. The source data uses 0 and negative placeholders.
	MinValid float64 `yaml:"minValid,omitempty" json:"minValid,omitempty"`
}

// Config is the full configuration for a pipeline run. Every knob the
// components consume is explicit here; there is no process-wide state.
type Config struct {
	ShapefileDir string `yaml:"shapefileDir,omitempty" json:"shapefileDir,omitempty"`
	FilenameTag  string `yaml:"filenameTag,omitempty" json:"filenameTag,omitempty"`
	OutputDir    string `yaml:"outputDir,omitempty" json:"outputDir,omitempty"`
	CacheFile    string `yaml:"cacheFile,omitempty" json:"cacheFile,omitempty"`

	// PeakAttribute names the shapefile attribute carrying summit names.
	PeakAttribute string `yaml:"peakAttribute,omitempty" json:"peakAttribute,omitempty"`

	BinWidth float64   `yaml:"binWidth,omitempty" json:"binWidth,omitempty"`
	BinEdges []float64 `yaml:"binEdges,omitempty" json:"binEdges,omitempty"`

	// Alpha controls hull concavity; 0 selects the automatic search.
	Alpha float64 `yaml:"alpha,omitempty" json:"alpha,omitempty"`

	SmoothingPasses int     `yaml:"smoothingPasses,omitempty" json:"smoothingPasses,omitempty"`
	AreaTolerance   float64 `yaml:"areaTolerance,omitempty" json:"areaTolerance,omitempty"`

	// MinRingArea drops hull rings smaller than the threshold; the threshold
	// decays by MinRingAreaDecay per band so higher, smaller bands keep
	// their rings.
	MinRingArea      float64 `yaml:"minRingArea,omitempty" json:"minRingArea,omitempty"`
	MinRingAreaDecay float64 `yaml:"minRingAreaDecay,omitempty" json:"minRingAreaDecay,omitempty"`

	// TargetRange is the square output coordinate space, e.g. [0, 333].
	TargetRange [2]float64 `yaml:"targetRange,omitempty" json:"targetRange,omitempty"`

	// Cumulative builds each band's hull from its own points plus every
	// higher band's, so a contour at level L encloses all terrain above L.
	Cumulative *bool `yaml:"cumulative,omitempty" json:"cumulative,omitempty"`

	Interpolation InterpolationConfig `yaml:"interpolation,omitempty" json:"interpolation,omitempty"`
}

// DefaultConfig returns a Config with the defaults used by the CLI.
func DefaultConfig() *Config {
	cumulative := true
	return &Config{
		FilenameTag:      "_PUN_ACO",
		OutputDir:        "output",
		PeakAttribute:    "nom",
		BinWidth:         50,
		Alpha:            0,
		SmoothingPasses:  3,
		AreaTolerance:    0.05,
		MinRingArea:      4.0,
		MinRingAreaDecay: 0.02,
		TargetRange:      [2]float64{0, 333},
		Cumulative:       &cumulative,
		Interpolation: InterpolationConfig{
			Strategy:  "idw",
			Neighbors: 8,
			Power:     2,
			MinValid:  0,
		},
	}
}

// CumulativeBands reports whether band point sets accumulate upward.
func (c *Config) CumulativeBands() bool {
	if c.Cumulative == nil {
		return true
	}
	return *c.Cumulative
}

// Validate checks the configuration before any processing starts. A bad bin
// setup is a caller mistake and aborts the whole run.
func (c *Config) Validate() error {
	if len(c.BinEdges) == 0 && c.BinWidth <= 0 {
		return fmt.Errorf("%w: bin width must be > 0, got %g", ErrInvalidBinConfig, c.BinWidth)
	}
	if len(c.BinEdges) > 0 {
		if len(c.BinEdges) < 2 {
			return fmt.Errorf("%w: need at least 2 bin edges, got %d", ErrInvalidBinConfig, len(c.BinEdges))
		}
		for i := 1; i < len(c.BinEdges); i++ {
			if c.BinEdges[i] <= c.BinEdges[i-1] {
				return fmt.Errorf("%w: bin edges must be strictly increasing at index %d", ErrInvalidBinConfig, i)
			}
		}
	}
	if c.TargetRange[1] <= c.TargetRange[0] {
		return fmt.Errorf("target range [%g, %g] is empty", c.TargetRange[0], c.TargetRange[1])
	}
	if c.AreaTolerance < 0 {
		return fmt.Errorf("area tolerance must be >= 0, got %g", c.AreaTolerance)
	}
	if c.SmoothingPasses < 0 {
		return fmt.Errorf("smoothing passes must be >= 0, got %d", c.SmoothingPasses)
	}
	switch c.Interpolation.Strategy {
	case "", "idw", "nearest":
	default:
		return fmt.Errorf("unknown interpolation strategy %q", c.Interpolation.Strategy)
	}
	return nil
}

// LoadConfig loads the configuration from a YAML file and applies defaults
// for unset fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
