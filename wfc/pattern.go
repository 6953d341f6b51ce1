package wfc

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// CompiledPatterns is the output of pattern compilation: the pattern
// count, their frequency weights, and the propagator table `prop[p][dir]`.
type CompiledPatterns struct {
	Count      int
	Weights    []float64
	Prop       [][]bitset // Prop[p][dir]
	Directions *DirectionSet
}

// Compile converts a TileModel into a CompiledPatterns table and the
// TileModelMapping needed to lift tile-space operations into it. An
// empty resulting pattern set is a ConfigurationError (ErrEmptyPatternSet):
// spec.md §4.1 treats that as fatal, since no solution is possible.
func Compile(model *TileModel) (*CompiledPatterns, *TileModelMapping, error) {
	switch model.Kind {
	case ModelAdjacent:
		return compileAdjacent(model)
	case ModelOverlapping:
		return compileOverlapping(model)
	default:
		return nil, nil, &ConfigurationError{Message: "unknown model kind"}
	}
}

func compileAdjacent(model *TileModel) (*CompiledPatterns, *TileModelMapping, error) {
	directions := model.Directions
	D := directions.Len()

	// Canonicalize and dedup tiles into patterns.
	patternOf := make(map[Tile]int)
	var tiles []Tile
	var weights []float64
	for _, t := range model.tiles {
		canon := model.Rotation.Canonicalize(t)
		if _, ok := patternOf[canon]; ok {
			continue
		}
		patternOf[canon] = len(tiles)
		tiles = append(tiles, canon)
		weights = append(weights, model.frequencies[t])
	}
	P := len(tiles)
	if P == 0 {
		return nil, nil, ErrEmptyPatternSet
	}

	prop := make([][]bitset, P)
	for p := range prop {
		prop[p] = make([]bitset, D)
		for d := range prop[p] {
			prop[p][d] = newBitset(P)
		}
	}

	group := model.Rotation.Group
	for dir, pairs := range model.adjacency {
		for pair := range pairs {
			for _, r := range group.Elements() {
				ra, ok1 := model.Rotation.Transform(pair.A, r)
				if !ok1 {
					continue
				}
				rb, ok2 := model.Rotation.Transform(pair.B, r)
				if !ok2 {
					continue
				}
				ra = model.Rotation.Canonicalize(ra)
				rb = model.Rotation.Canonicalize(rb)
				pa, ok1 := patternOf[ra]
				pb, ok2 := patternOf[rb]
				if !ok1 || !ok2 {
					continue
				}
				rdir := directions.Rotate(dir, r)
				prop[pa][rdir].set(pb)
				// Allow(dir, a, b) means b may sit in direction dir of a,
				// which is the same fact as a sitting in the opposite
				// direction of b: symmetrize here so a caller declaring
				// only one side of a pair can't leave compat's counter
				// accounting (drain assumes p in Prop[q][opp] whenever
				// q in Prop[p][dir]) silently inconsistent.
				prop[pb][directions.Opposite(rdir)].set(pa)
			}
		}
	}

	mapping := &TileModelMapping{
		OffsetCount: 1,
		tilesToPatterns: []map[Tile]*bitset{
			func() map[Tile]*bitset {
				m := make(map[Tile]*bitset, P)
				for t, p := range patternOf {
					b := newBitset(P)
					b.set(p)
					m[t] = &b
				}
				return m
			}(),
		},
		patternsToTiles: [][]Tile{tiles},
	}

	return &CompiledPatterns{Count: P, Weights: weights, Prop: prop, Directions: directions}, mapping, nil
}

func compileOverlapping(model *TileModel) (*CompiledPatterns, *TileModelMapping, error) {
	directions := model.Directions
	D := directions.Len()
	n, m, l := model.n, model.m, model.l
	if (model.Rotation.Group.RotationalSymmetry > 1 || model.Rotation.Group.ReflectionalSymmetry) && (n != m) {
		return nil, nil, &ConfigurationError{Message: "rotational/reflectional symmetry on an overlapping model requires a square N x M window"}
	}
	seen := make(map[Tile]bool, len(model.tiles))
	for _, t := range model.tiles {
		seen[t] = true
	}
	for _, plane := range model.sample {
		for _, row := range plane {
			for _, t := range row {
				if !seen[t] {
					seen[t] = true
					model.tiles = append(model.tiles, t)
				}
			}
		}
	}

	type patternEntry struct {
		id     int
		window []Tile // n*m*l tiles, x-fastest then y then z
		weight float64
	}
	byKey := make(map[[16]byte]*patternEntry)
	var patterns []*patternEntry

	addWindow := func(window []Tile) {
		key := windowKey(window)
		if e, ok := byKey[key]; ok {
			e.weight++
			return
		}
		e := &patternEntry{id: len(patterns), window: window, weight: 1}
		byKey[key] = e
		patterns = append(patterns, e)
	}

	extent := func(size, span int) int {
		if model.samplePeriodic {
			return size
		}
		v := size - span + 1
		if v < 0 {
			return 0
		}
		return v
	}
	ew := extent(model.sampleW, n)
	eh := extent(model.sampleH, m)
	ed := extent(model.sampleD, l)

	readWindow := func(ox, oy, oz int, r Rotation) ([]Tile, bool) {
		window := make([]Tile, n*m*l)
		idx := 0
		for dz := 0; dz < l; dz++ {
			for dy := 0; dy < m; dy++ {
				for dx := 0; dx < n; dx++ {
					sx, sy := rotateWindowCoord(dx, dy, n, m, r)
					x := (ox + sx) % model.sampleW
					y := (oy + sy) % model.sampleH
					z := (oz + dz) % model.sampleD
					if x < 0 {
						x += model.sampleW
					}
					if y < 0 {
						y += model.sampleH
					}
					t := model.sample[z][y][x]
					rt, ok := model.Rotation.Transform(t, r)
					if !ok {
						return nil, false
					}
					window[idx] = model.Rotation.Canonicalize(rt)
					idx++
				}
			}
		}
		return window, true
	}

	for oz := 0; oz < ed; oz++ {
		for oy := 0; oy < eh; oy++ {
			for ox := 0; ox < ew; ox++ {
				for _, r := range model.Rotation.Group.Elements() {
					if window, ok := readWindow(ox, oy, oz, r); ok {
						addWindow(window)
					}
				}
			}
		}
	}

	P := len(patterns)
	if P == 0 {
		return nil, nil, ErrEmptyPatternSet
	}
	weights := make([]float64, P)
	for _, e := range patterns {
		weights[e.id] = e.weight
	}

	// Adjacency by window shift: q may follow p in direction dir iff,
	// after shifting q's window by one unit in dir relative to p's
	// window, every overlapping cell agrees.
	prop := make([][]bitset, P)
	for p := range prop {
		prop[p] = make([]bitset, D)
		for d := range prop[p] {
			prop[p][d] = newBitset(P)
		}
	}
	for _, dir := range directions.All() {
		off := directions.Offset(dir)
		for _, pe := range patterns {
			for _, qe := range patterns {
				if windowsAgree(pe.window, qe.window, n, m, l, off) {
					prop[pe.id][dir].set(qe.id)
				}
			}
		}
	}

	// Anchor-cell decoding: offset 0 is the tile at the window's own
	// origin corner (dx=dy=dz=0). See the "wfc/tile.go, wfc/pattern.go"
	// entry of DESIGN.md's Ledger.
	tileToPatterns := make(map[Tile]*bitset)
	patternToTile := make([]Tile, P)
	for _, pe := range patterns {
		origin := pe.window[0]
		patternToTile[pe.id] = origin
		b, ok := tileToPatterns[origin]
		if !ok {
			nb := newBitset(P)
			b = &nb
			tileToPatterns[origin] = b
		}
		b.set(pe.id)
	}

	mapping := &TileModelMapping{
		OffsetCount:     1,
		tilesToPatterns: []map[Tile]*bitset{tileToPatterns},
		patternsToTiles: [][]Tile{patternToTile},
	}

	return &CompiledPatterns{Count: P, Weights: weights, Prop: prop, Directions: directions}, mapping, nil
}

// rotateWindowCoord maps an (dx,dy) cell offset within an n x m window
// through rotation r, for a square window (n==m whenever r is not the
// identity, enforced by the caller).
func rotateWindowCoord(dx, dy, n, m int, r Rotation) (int, int) {
	x, y := dx, dy
	if r.ReflectX {
		x = n - 1 - x
	}
	turns := (r.Angle / 90) % 4
	if turns < 0 {
		turns += 4
	}
	for i := 0; i < turns; i++ {
		x, y = m-1-y, x
	}
	return x, y
}

// windowsAgree reports whether window q, placed at a +off shift from
// window p, agrees with p on every tile-space cell both windows cover.
func windowsAgree(p, q []Tile, n, m, l int, off Offset) bool {
	idx := func(x, y, z int) int { return (z*m+y)*n + x }
	for z := 0; z < l; z++ {
		for y := 0; y < m; y++ {
			for x := 0; x < n; x++ {
				// cell (x,y,z) in p's frame corresponds to
				// (x-off.X, y-off.Y, z-off.Z) in q's frame.
				qx, qy, qz := x-off.X, y-off.Y, z-off.Z
				if qx < 0 || qx >= n || qy < 0 || qy >= m || qz < 0 || qz >= l {
					continue
				}
				if p[idx(x, y, z)] != q[idx(qx, qy, qz)] {
					return false
				}
			}
		}
	}
	return true
}

func windowKey(window []Tile) [16]byte {
	h, _ := blake2b.New(16, nil)
	for _, t := range window {
		fmt.Fprintf(h, "%v|", t)
	}
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}
