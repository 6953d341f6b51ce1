package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/wavegen/internal/logger"
)

// GeneratorConfig holds the full configuration for a wavegen run: output
// topology, the tile rotation group, the tile model source, the
// constraint pipeline, solver knobs, and logging. One YAML file drives
// the whole run rather than splitting logging into a second file.
type GeneratorConfig struct {
	Output      OutputConfig       `yaml:"output"`
	Rotation    RotationConfig     `yaml:"rotation"`
	Model       ModelConfig        `yaml:"model"`
	Constraints []ConstraintConfig `yaml:"constraints"`
	Solver      SolverConfig       `yaml:"solver"`
	Logging     logger.Config      `yaml:"logging"`
}

// OutputConfig describes the grid being solved: its dimensions and which
// axes wrap (periodic boundary conditions).
type OutputConfig struct {
	// Width, Height, Depth are the output grid dimensions. Depth is 1 for
	// a 2D grid.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Depth  int `yaml:"depth"`

	PeriodicX bool `yaml:"periodic_x"`
	PeriodicY bool `yaml:"periodic_y"`
	PeriodicZ bool `yaml:"periodic_z"`
}

// RotationConfig parameterizes the tile-rotation builder: how many
// rotations form the symmetry group, whether reflections are included,
// and how tiles with no declared transform are treated.
type RotationConfig struct {
	// RotationalSymmetry is 1 (no rotation), 2, or 4.
	RotationalSymmetry int `yaml:"rotational_symmetry"`

	// ReflectionalSymmetry doubles the group with mirrored variants.
	ReflectionalSymmetry bool `yaml:"reflectional_symmetry"`

	// DefaultTreatment is one of "unchanged", "missing", "generated" and
	// governs tiles that declare no explicit rotation mapping.
	DefaultTreatment string `yaml:"default_treatment"`
}

// ModelConfig selects and configures the tile model: either an Adjacent
// model (explicit per-direction adjacency rules) or an Overlapping model
// (an N x M x L window slid across a sample grid).
type ModelConfig struct {
	// Type is "adjacent" or "overlapping".
	Type string `yaml:"type"`

	// AdjacencyFile is the rule file for an Adjacent model.
	AdjacencyFile string `yaml:"adjacency_file"`

	// SampleFile, N, M, L configure an Overlapping model.
	SampleFile string `yaml:"sample_file"`
	N          int    `yaml:"n"`
	M          int    `yaml:"m"`
	L          int    `yaml:"l"`
}

// ConstraintConfig is one entry in the constraint pipeline. Type is the
// constraint's string tag (e.g. "path", "border", "fixedTile",
// "maxConsecutive", "mirror", "edgedPath"); Params is passed through to
// that constraint's own decoding.
type ConstraintConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// SolverConfig holds the knobs exposed on the propagator and the
// seeded-retry generator wrapping it.
type SolverConfig struct {
	// BacktrackDepth bounds the undo journal; -1 means unlimited.
	BacktrackDepth int `yaml:"backtrack_depth"`

	// Seed seeds the generator's PRNG. Zero means derive one at run time.
	Seed int64 `yaml:"seed"`

	// MaxRetries is how many reseeded attempts Generate will make before
	// giving up.
	MaxRetries int `yaml:"max_retries"`
}

// DefaultConfig returns a GeneratorConfig with safe defaults: a 16x16
// non-periodic grid, no rotation symmetry, a 2x2 overlapping model, and
// ten retries with an unbounded backtrack journal.
func DefaultConfig() *GeneratorConfig {
	return &GeneratorConfig{
		Output: OutputConfig{
			Width:  16,
			Height: 16,
			Depth:  1,
		},
		Rotation: RotationConfig{
			RotationalSymmetry:   1,
			ReflectionalSymmetry: false,
			DefaultTreatment:     "unchanged",
		},
		Model: ModelConfig{
			Type: "overlapping",
			N:    2,
			M:    2,
			L:    1,
		},
		Solver: SolverConfig{
			BacktrackDepth: -1,
			MaxRetries:     10,
		},
		Logging: logger.DefaultConfig(),
	}
}

// LoadConfig loads generator configuration from a YAML file, applying
// LOG_* environment variable overrides to the logging section
// regardless of whether the file existed.
// If the file doesn't exist or can't be parsed, returns default config.
func LoadConfig(path string) (*GeneratorConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.ApplyEnvOverrides(&config.Logging)
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	logger.ApplyEnvOverrides(&config.Logging)
	return config, nil
}

// Validate checks the configuration for internal consistency, filling in
// a few zero-value fields with their defaults along the way, and returns
// a descriptive error for the first problem it can't repair.
func (c *GeneratorConfig) Validate() error {
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return &ConfigError{"output width and height must be positive"}
	}
	if c.Output.Depth <= 0 {
		c.Output.Depth = 1
	}

	switch c.Rotation.RotationalSymmetry {
	case 0:
		c.Rotation.RotationalSymmetry = 1
	case 1, 2, 4:
		// valid
	default:
		return &ConfigError{"rotation.rotational_symmetry must be 1, 2, or 4, got " + itoa(c.Rotation.RotationalSymmetry)}
	}
	if c.Rotation.DefaultTreatment == "" {
		c.Rotation.DefaultTreatment = "unchanged"
	}

	switch c.Model.Type {
	case "adjacent":
		if c.Model.AdjacencyFile == "" {
			return &ConfigError{"model.type=adjacent requires model.adjacency_file"}
		}
	case "overlapping":
		if c.Model.SampleFile == "" {
			return &ConfigError{"model.type=overlapping requires model.sample_file"}
		}
		if c.Model.N <= 0 || c.Model.M <= 0 {
			return &ConfigError{"model.n and model.m must be positive"}
		}
		if c.Model.L <= 0 {
			c.Model.L = 1
		}
	default:
		return &ConfigError{"model.type must be \"adjacent\" or \"overlapping\", got " + c.Model.Type}
	}

	for _, cc := range c.Constraints {
		switch cc.Type {
		case "path", "edgedPath", "border", "fixedTile", "maxConsecutive", "mirror":
			// recognized tags; params are validated by the constraint
			// factory that decodes them.
		default:
			return &ConfigError{"unrecognized constraint type " + cc.Type}
		}
	}

	if c.Solver.MaxRetries <= 0 {
		c.Solver.MaxRetries = 10
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.ConsoleFormat == "" {
		c.Logging.ConsoleFormat = "text"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/wavegen.log"
	}
	if c.Logging.FileFormat == "" {
		c.Logging.FileFormat = "text"
	}
	if c.Logging.FileMaxSizeMB <= 0 {
		c.Logging.FileMaxSizeMB = 10
	}
	if c.Logging.FileMaxBackups <= 0 {
		c.Logging.FileMaxBackups = 5
	}
	if c.Logging.FileMaxAgeDays <= 0 {
		c.Logging.FileMaxAgeDays = 30
	}

	return nil
}

// ConfigError reports a malformed GeneratorConfig.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Message
}

// DescribeConstraints returns a short human-readable summary of the
// configured constraint pipeline, in registration order.
func DescribeConstraints(cs []ConstraintConfig) string {
	if len(cs) == 0 {
		return "none"
	}
	tags := make([]string, len(cs))
	for i, c := range cs {
		tags[i] = c.Type
	}
	return strings.Join(tags, ", ")
}

// itoa converts an int to a string without importing strconv, matching
// the rest of this package's dependency-light formatting helpers.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}
