package wfc

import (
	"github.com/katalvlaran/lvlath/gridgraph"

	"github.com/lawnchairsociety/wavegen/internal/logger"
)

// Point is a tile-space coordinate, used by PathConstraint/EdgedPathConstraint
// to name the cells a path must connect.
type Point struct{ X, Y, Z int }

// PathConstraint maintains a set of cells that must lie on a connected
// path of PathTiles, per spec.md §4.5. On each Check it computes the
// subgraph of cells still capable of being a path tile and bans the
// non-path tiles at any cell whose removal from that subgraph would
// disconnect two Required points. Path/EdgedPath reason over a single Z
// layer: gridgraph, the library grounding the connectivity check, treats
// a grid as purely 2D.
type PathConstraint struct {
	PathTiles []Tile
	Required  []Point
	Z         int
}

// Init runs the same check Check does, so the early wave already
// reflects the path's connectivity requirement.
func (c *PathConstraint) Init(p *TilePropagator) {
	c.Check(p)
}

// Check re-derives path-capability from the current wave and prunes.
func (c *PathConstraint) Check(p *TilePropagator) {
	capable, pathPatterns := c.capableGrid(p)
	if pathPatterns == nil {
		return
	}
	c.enforce(p, capable, pathPatterns)
}

// capableGrid reports, for every cell in the Z layer, whether a
// PathTiles pattern is still possible there, plus the union bitset of
// PathTiles' patterns (nil if no tile in PathTiles is recognized).
func (c *PathConstraint) capableGrid(p *TilePropagator) ([]bool, *bitset) {
	t := p.topology
	pathPatterns := newBitset(p.wave.Patterns.Count)
	any := false
	for _, tl := range c.PathTiles {
		patterns := p.lookupPatterns(0, tl)
		if patterns == nil {
			continue
		}
		any = true
		for i := range pathPatterns.words {
			pathPatterns.words[i] |= patterns.words[i]
		}
	}
	if !any {
		return nil, nil
	}

	capable := make([]bool, t.Size())
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			i := t.Index(x, y, c.Z)
			capable[i] = !t.IsMasked(i) && p.wave.possible[i].intersects(&pathPatterns)
		}
	}
	return capable, &pathPatterns
}

// enforce computes connectivity over the capable grid, checks Required
// points still share a component, and protects cells whose removal
// would split one.
func (c *PathConstraint) enforce(p *TilePropagator, capable []bool, pathPatterns *bitset) {
	t := p.topology
	compOf, err := c.buildGraph(t, capable)
	if err != nil {
		logger.Debugf("wfc: path constraint could not build grid graph: %v", err)
		return
	}

	reqIdx := make([]int, 0, len(c.Required))
	for _, pt := range c.Required {
		i := t.Index(pt.X, pt.Y, c.Z)
		if !capable[i] {
			p.SetContradiction()
			return
		}
		reqIdx = append(reqIdx, i)
	}
	if len(reqIdx) < 2 {
		return
	}
	base := compOf[reqIdx[0]]
	for _, i := range reqIdx[1:] {
		if compOf[i] != base {
			p.SetContradiction()
			return
		}
	}

	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			i := t.Index(x, y, c.Z)
			if !capable[i] || compOf[i] != base || p.wave.patternCount[i] <= 1 {
				continue
			}
			if !c.isArticulation(t, capable, i, reqIdx) {
				continue
			}
			c.forcePath(p, x, y, c.Z, pathPatterns)
			if p.status == StatusContradiction {
				return
			}
		}
	}
}

func (c *PathConstraint) buildGraph(t *Topology, capable []bool) ([]int, error) {
	values := make([][]int, t.Height)
	for y := 0; y < t.Height; y++ {
		values[y] = make([]int, t.Width)
		for x := 0; x < t.Width; x++ {
			if capable[t.Index(x, y, c.Z)] {
				values[y][x] = 1
			}
		}
	}
	gg, err := gridgraph.NewGridGraph(values, gridgraph.GridOptions{LandThreshold: 1, Conn: gridgraph.Conn4})
	if err != nil {
		return nil, err
	}
	compOf := make([]int, t.Size())
	for ci, comp := range gg.ConnectedComponents() {
		for _, idx := range comp {
			x, y := gg.Coordinate(idx)
			compOf[t.Index(x, y, c.Z)] = ci
		}
	}
	return compOf, nil
}

// isArticulation reports whether excluding cell i from capable would
// leave any two Required points in different components.
func (c *PathConstraint) isArticulation(t *Topology, capable []bool, i int, reqIdx []int) bool {
	trial := append([]bool(nil), capable...)
	trial[i] = false
	compOf, err := c.buildGraph(t, trial)
	if err != nil {
		return false
	}
	base := compOf[reqIdx[0]]
	for _, j := range reqIdx[1:] {
		if compOf[j] != base {
			return true
		}
	}
	return false
}

func (c *PathConstraint) forcePath(p *TilePropagator, x, y, z int, pathPatterns *bitset) {
	i := p.topology.Index(x, y, z)
	pc, _ := p.mapping.CellOffset(i)
	for pid := 0; pid < p.wave.Patterns.Count; pid++ {
		if p.status == StatusContradiction {
			return
		}
		if !pathPatterns.get(pid) && p.wave.isPossible(pc, pid) {
			p.banPattern(pc, pid)
		}
	}
	p.drain()
}

// EdgedPathConstraint is PathConstraint's exit-aware variant: each path
// tile declares which of its sides offer a path exit, and a path edge is
// only valid between two cells whose facing exits agree, per spec.md
// §4.5. Connectivity is still evaluated over PathTiles as a whole; Exits
// additionally bans any path tile at a decided neighbor whose exit isn't
// reciprocated.
type EdgedPathConstraint struct {
	PathConstraint
	Exits map[Tile][]Direction
}

// Check runs the base connectivity enforcement, then, for every pair of
// decided neighbors on layer Z, bans the neighbor's tile when one side
// declares an exit toward the other that the other does not declare
// back. A declared exit that points off the grid is a contradiction.
func (c *EdgedPathConstraint) Check(p *TilePropagator) {
	c.PathConstraint.Check(p)
	if p.status == StatusContradiction {
		return
	}
	c.enforceExits(p)
}

func (c *EdgedPathConstraint) enforceExits(p *TilePropagator) {
	t := p.topology
	ds := p.wave.Patterns.Directions
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			i := t.Index(x, y, c.Z)
			tile, ok := decidedTile(p, i)
			if !ok {
				continue
			}
			exits, declared := c.Exits[tile]
			if !declared {
				continue
			}
			for _, dir := range ds.All() {
				wantsExit := containsDirection(exits, dir)
				j, ok := t.Neighbor(i, dir)
				if !ok {
					if wantsExit {
						p.SetContradiction()
						return
					}
					continue
				}
				nTile, ok := decidedTile(p, j)
				if !ok {
					continue
				}
				nExits, nDeclared := c.Exits[nTile]
				reciprocated := nDeclared && containsDirection(nExits, ds.Opposite(dir))
				if wantsExit != reciprocated {
					nx, ny, nz := t.Coords(j)
					p.Ban(nx, ny, nz, nTile)
					if p.status == StatusContradiction {
						return
					}
				}
			}
		}
	}
}

func containsDirection(dirs []Direction, d Direction) bool {
	for _, x := range dirs {
		if x == d {
			return true
		}
	}
	return false
}
