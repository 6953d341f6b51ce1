package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/wavegen/wfc"
)

// gridYAML is the YAML shape a solved grid is written as: one row of
// tile names per Y (and, for 3D output, grouped by Z layer).
type gridYAML struct {
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Depth  int        `yaml:"depth"`
	Layers [][]string `yaml:"layers"` // layers[z*height+y] = row of tile names
}

func writeOutput(result *wfc.GeneratedOutput, topology *wfc.Topology, outPath, format string) error {
	var out *os.File
	if outPath == "" {
		out = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "text":
		return writeText(out, result, topology)
	case "yaml":
		return writeYAML(out, result, topology)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(out *os.File, result *wfc.GeneratedOutput, topology *wfc.Topology) error {
	for z := 0; z < topology.Depth; z++ {
		if topology.Depth > 1 {
			fmt.Fprintf(out, "# layer %d\n", z)
		}
		for y := 0; y < topology.Height; y++ {
			var row strings.Builder
			for x := 0; x < topology.Width; x++ {
				row.WriteString(tileString(result.Tiles[topology.Index(x, y, z)]))
			}
			fmt.Fprintln(out, row.String())
		}
		if topology.Depth > 1 {
			fmt.Fprintln(out)
		}
	}
	return nil
}

func writeYAML(out *os.File, result *wfc.GeneratedOutput, topology *wfc.Topology) error {
	grid := gridYAML{Width: topology.Width, Height: topology.Height, Depth: topology.Depth}
	for z := 0; z < topology.Depth; z++ {
		for y := 0; y < topology.Height; y++ {
			row := make([]string, topology.Width)
			for x := 0; x < topology.Width; x++ {
				row[x] = tileString(result.Tiles[topology.Index(x, y, z)])
			}
			grid.Layers = append(grid.Layers, row)
		}
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(grid)
}

func tileString(t wfc.Tile) string {
	if t == nil {
		return "?"
	}
	return fmt.Sprintf("%v", t)
}
