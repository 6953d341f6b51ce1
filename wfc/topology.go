package wfc

// Topology describes the output grid: its extent, which axes wrap, the
// direction set propagation walks, and an optional mask of inactive
// cells.
type Topology struct {
	Width, Height, Depth          int
	PeriodicX, PeriodicY, PeriodicZ bool
	Directions                    *DirectionSet

	// mask[i] true means cell i is excluded from selection and
	// propagation entirely, as if it did not exist. Nil means every
	// cell is active.
	mask []bool
}

// NewTopology2D builds a single-layer (Depth=1) topology over the
// 4-connected Cartesian direction set.
func NewTopology2D(width, height int, periodicX, periodicY bool) *Topology {
	return &Topology{
		Width: width, Height: height, Depth: 1,
		PeriodicX: periodicX, PeriodicY: periodicY,
		Directions: NewCartesian2D(),
	}
}

// NewTopology3D builds a topology over the 6-connected Cartesian
// direction set.
func NewTopology3D(width, height, depth int, periodicX, periodicY, periodicZ bool) *Topology {
	return &Topology{
		Width: width, Height: height, Depth: depth,
		PeriodicX: periodicX, PeriodicY: periodicY, PeriodicZ: periodicZ,
		Directions: NewCartesian3D(),
	}
}

// Size returns the total cell count W*H*D.
func (t *Topology) Size() int {
	return t.Width * t.Height * t.Depth
}

// Index maps tile-space coordinates to a flat cell index.
func (t *Topology) Index(x, y, z int) int {
	return (z*t.Height+y)*t.Width + x
}

// Coords inverts Index.
func (t *Topology) Coords(i int) (x, y, z int) {
	x = i % t.Width
	rest := i / t.Width
	y = rest % t.Height
	z = rest / t.Height
	return
}

// SetMask installs a per-cell active mask. mask must have length
// Size(); a true entry marks the cell inactive. Passing nil clears any
// existing mask.
func (t *Topology) SetMask(mask []bool) {
	if mask == nil {
		t.mask = nil
		return
	}
	t.mask = append([]bool(nil), mask...)
}

// IsMasked reports whether cell i is excluded from the topology.
func (t *Topology) IsMasked(i int) bool {
	return t.mask != nil && t.mask[i]
}

// Neighbor returns the cell adjacent to i in direction dir, wrapping
// around periodic axes. The second return is false when there is no
// neighbor: the axis is non-periodic and i is at the edge, or the
// neighbor cell is masked out.
func (t *Topology) Neighbor(i int, dir Direction) (int, bool) {
	x, y, z := t.Coords(i)
	off := t.Directions.Offset(dir)

	nx, ok := wrapAxis(x, off.X, t.Width, t.PeriodicX)
	if !ok {
		return 0, false
	}
	ny, ok := wrapAxis(y, off.Y, t.Height, t.PeriodicY)
	if !ok {
		return 0, false
	}
	nz, ok := wrapAxis(z, off.Z, t.Depth, t.PeriodicZ)
	if !ok {
		return 0, false
	}

	j := t.Index(nx, ny, nz)
	if t.IsMasked(j) {
		return 0, false
	}
	return j, true
}

func wrapAxis(coord, delta, size int, periodic bool) (int, bool) {
	n := coord + delta
	if n >= 0 && n < size {
		return n, true
	}
	if !periodic {
		return 0, false
	}
	n %= size
	if n < 0 {
		n += size
	}
	return n, true
}
