// Command wavegen solves a Wave Function Collapse tile model against a
// YAML-described generator configuration and writes the resulting grid.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lawnchairsociety/wavegen/internal/config"
	"github.com/lawnchairsociety/wavegen/internal/logger"
	"github.com/lawnchairsociety/wavegen/wfc"
)

func main() {
	configPath := flag.String("config", "", "path to generator config YAML (required)")
	outPath := flag.String("out", "", "output file path (default: stdout)")
	format := flag.String("format", "text", "output format: text or yaml")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --config is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load generator config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid generator config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *outPath, *format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.GeneratorConfig, outPath, format string) error {
	treatment, err := parseTreatment(cfg.Rotation.DefaultTreatment)
	if err != nil {
		return err
	}
	group, err := wfc.NewRotationGroup(cfg.Rotation.RotationalSymmetry, cfg.Rotation.ReflectionalSymmetry)
	if err != nil {
		return err
	}
	rotation := wfc.NewTileRotation(group, treatment)

	topology := buildTopology(cfg.Output)

	model, err := loadModel(cfg.Model, rotation, topology.Directions)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	constraints, err := buildConstraints(cfg.Constraints)
	if err != nil {
		return fmt.Errorf("building constraints: %w", err)
	}

	seed := cfg.Solver.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fmt.Printf("Solving %s cells (%s constraints: %s)\n",
		humanize.Comma(int64(topology.Size())),
		humanize.Comma(int64(len(constraints))),
		config.DescribeConstraints(cfg.Constraints))

	gen := wfc.NewGenerator(&wfc.GenerationConfig{
		Model:          model,
		Topology:       topology,
		Constraints:    constraints,
		BacktrackDepth: cfg.Solver.BacktrackDepth,
		Seed:           seed,
		MaxRetries:     cfg.Solver.MaxRetries,
	})

	result, err := gen.Generate()
	if err != nil {
		return err
	}

	fmt.Printf("Solved in %s attempt(s), %s backtrack(s), %s patterns compiled\n",
		humanize.Comma(int64(result.Attempts)),
		humanize.Comma(int64(result.Propagator.BacktrackCount())),
		humanize.Comma(int64(result.Propagator.PatternCount())))

	return writeOutput(result, topology, outPath, format)
}

func buildTopology(oc config.OutputConfig) *wfc.Topology {
	if oc.Depth <= 1 {
		return wfc.NewTopology2D(oc.Width, oc.Height, oc.PeriodicX, oc.PeriodicY)
	}
	return wfc.NewTopology3D(oc.Width, oc.Height, oc.Depth, oc.PeriodicX, oc.PeriodicY, oc.PeriodicZ)
}

func parseTreatment(s string) (wfc.Treatment, error) {
	switch s {
	case "", "unchanged":
		return wfc.TreatmentUnchanged, nil
	case "missing":
		return wfc.TreatmentMissing, nil
	case "generated":
		return wfc.TreatmentGenerated, nil
	default:
		return 0, fmt.Errorf("unknown default_treatment %q", s)
	}
}
