package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/wavegen/internal/config"
	"github.com/lawnchairsociety/wavegen/wfc"
)

// loadModel builds a TileModel from a ModelConfig, reading whichever
// source file the model type names.
func loadModel(mc config.ModelConfig, rotation *wfc.TileRotation, directions *wfc.DirectionSet) (*wfc.TileModel, error) {
	switch mc.Type {
	case "adjacent":
		return loadAdjacentModel(mc.AdjacencyFile, rotation, directions)
	case "overlapping":
		return loadOverlappingModel(mc.SampleFile, mc.N, mc.M, rotation, directions)
	default:
		return nil, fmt.Errorf("unknown model type %q", mc.Type)
	}
}

// adjacencyFile is the YAML schema for an Adjacent model's rule file:
// a tile palette with relative frequencies, plus declared directed
// adjacency pairs. Each pair is symmetrized when the model is compiled
// (b beside a in dir is the same fact as a beside b in the opposite
// direction), so only one direction needs declaring per pair.
type adjacencyFile struct {
	Tiles []struct {
		Name      string  `yaml:"name"`
		Frequency float64 `yaml:"frequency"`
	} `yaml:"tiles"`
	Adjacency []struct {
		Dir string `yaml:"dir"`
		A   string `yaml:"a"`
		B   string `yaml:"b"`
	} `yaml:"adjacency"`
}

func loadAdjacentModel(path string, rotation *wfc.TileRotation, directions *wfc.DirectionSet) (*wfc.TileModel, error) {
	if path == "" {
		return nil, fmt.Errorf("adjacency_file is required for an adjacent model")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file adjacencyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	model := wfc.NewAdjacentModel(rotation, directions)
	for _, t := range file.Tiles {
		freq := t.Frequency
		if freq <= 0 {
			freq = 1
		}
		model.SetFrequency(t.Name, freq)
	}
	for _, a := range file.Adjacency {
		dir, ok := parseDirection(directions, a.Dir)
		if !ok {
			return nil, fmt.Errorf("unknown direction %q in adjacency rule %s->%s", a.Dir, a.A, a.B)
		}
		model.Allow(dir, a.A, a.B)
	}
	return model, nil
}

// loadOverlappingModel reads a plain-text sample grid, one tile per
// rune, and builds a 2D Overlapping model over it. Sample windows never
// wrap the sample's own edges; wrapping is a property of the output
// topology (OutputConfig.PeriodicX/Y), not of the sample.
func loadOverlappingModel(path string, n, m int, rotation *wfc.TileRotation, directions *wfc.DirectionSet) (*wfc.TileModel, error) {
	if path == "" {
		return nil, fmt.Errorf("sample_file is required for an overlapping model")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	sample := make([][]wfc.Tile, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		row := make([]wfc.Tile, 0, len(line))
		for _, r := range line {
			row = append(row, string(r))
		}
		sample = append(sample, row)
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("%s: empty sample grid", path)
	}

	return wfc.NewOverlappingModel(sample, n, m, false, rotation, directions), nil
}

// parseDirection resolves a direction tag against the two built-in
// Cartesian direction sets. A custom DirectionSet has no named tags and
// always fails to resolve.
func parseDirection(ds *wfc.DirectionSet, s string) (wfc.Direction, bool) {
	switch ds.Name {
	case "cartesian2d":
		switch s {
		case "x-":
			return wfc.DirXMinus, true
		case "x+":
			return wfc.DirXPlus, true
		case "y-":
			return wfc.DirYMinus, true
		case "y+":
			return wfc.DirYPlus, true
		}
	case "cartesian3d":
		switch s {
		case "x-":
			return wfc.Dir3XMinus, true
		case "x+":
			return wfc.Dir3XPlus, true
		case "y-":
			return wfc.Dir3YMinus, true
		case "y+":
			return wfc.Dir3YPlus, true
		case "z-":
			return wfc.Dir3ZMinus, true
		case "z+":
			return wfc.Dir3ZPlus, true
		}
	}
	return 0, false
}
