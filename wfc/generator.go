package wfc

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/wavegen/internal/logger"
)

// GenerationConfig parameterizes a Generator: the tile model and output
// topology to solve over, the constraints and backtrack depth to run
// with, a base seed, and a retry budget for recovering from an
// unrecoverable contradiction by reseeding and starting over.
type GenerationConfig struct {
	Model          *TileModel
	Topology       *Topology
	Constraints    []Constraint
	BacktrackDepth int
	Seed           int64
	MaxRetries     int
}

// DefaultGenerationConfig fills in a conservative retry budget; callers
// must still set Model and Topology.
func DefaultGenerationConfig(seed int64) *GenerationConfig {
	return &GenerationConfig{
		BacktrackDepth: -1,
		Seed:           seed,
		MaxRetries:     10,
	}
}

// GeneratedOutput is the result of a successful Generate call.
type GeneratedOutput struct {
	Tiles      []Tile
	Propagator *TilePropagator
	Attempts   int
}

// Generator drives TilePropagator.Run, reseeding and retrying on
// unrecoverable contradiction up to MaxRetries times.
type Generator struct {
	config *GenerationConfig
}

// NewGenerator builds a Generator over config. config.MaxRetries <= 0 is
// treated as 1 (a single attempt, no retry).
func NewGenerator(config *GenerationConfig) *Generator {
	return &Generator{config: config}
}

// Generate runs the propagator to completion, retrying with a
// derived-but-distinct seed on each unrecoverable contradiction. When
// every attempt contradicts, the returned error wraps both ErrNoSolution
// and ErrUnrecoverableContradiction.
func (g *Generator) Generate() (*GeneratedOutput, error) {
	retries := g.config.MaxRetries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		seed := g.config.Seed + int64(attempt)*1000
		p, err := NewTilePropagator(g.config.Model, g.config.Topology, Options{
			BacktrackDepth: g.config.BacktrackDepth,
			Constraints:    g.config.Constraints,
			Random:         rand.New(rand.NewSource(seed)),
		})
		if err != nil {
			return nil, err
		}
		if p.Status() == StatusContradiction {
			lastErr = ErrUnrecoverableContradiction
			logger.RunSummary(seed, attempt, p.BacktrackCount(), "contradiction-at-init")
			continue
		}

		status := p.Run()
		if status == StatusContradiction {
			lastErr = ErrUnrecoverableContradiction
			logger.RunSummary(seed, attempt, p.BacktrackCount(), "contradiction")
			continue
		}

		logger.RunSummary(seed, attempt, p.BacktrackCount(), "decided")
		return &GeneratedOutput{
			Tiles:      p.ToArray(nil, nil),
			Propagator: p,
			Attempts:   attempt + 1,
		}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: failed after %d attempts: %w", ErrNoSolution, retries, lastErr)
	}
	return nil, ErrNoSolution
}
