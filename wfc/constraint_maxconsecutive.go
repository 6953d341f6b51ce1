package wfc

// MaxConsecutiveConstraint bans a tile from extending a run of identical
// decided tiles along Axis past Limit, per spec.md §4.5. Axis must be one
// supported by the topology's direction set (AxisX/Y for Cartesian2D,
// AxisX/Y/Z for Cartesian3D); any other axis makes Check a no-op.
type MaxConsecutiveConstraint struct {
	Axis  Axis
	Limit int
}

// Init does nothing: MaxConsecutive only ever reacts to decisions made
// during solving.
func (c *MaxConsecutiveConstraint) Init(p *TilePropagator) {}

// Check bans, at every still-undecided cell, any tile whose run along
// either direction of Axis has already reached Limit.
func (c *MaxConsecutiveConstraint) Check(p *TilePropagator) {
	if c.Limit <= 0 {
		return
	}
	ds := p.wave.Patterns.Directions
	neg, pos, ok := axisDirections(ds, c.Axis)
	if !ok {
		return
	}
	t := p.topology
	for i := 0; i < t.Size(); i++ {
		if t.IsMasked(i) || p.wave.patternCount[i] <= 1 {
			continue
		}
		for _, dir := range [2]Direction{neg, pos} {
			tile, count, ok := runInDirection(p, i, dir)
			if !ok || count < c.Limit {
				continue
			}
			x, y, z := t.Coords(i)
			p.Ban(x, y, z, tile)
			if p.status == StatusContradiction {
				return
			}
		}
	}
}

// axisDirections resolves Axis to the pair of opposite directions that
// walk it, for the two built-in Cartesian direction sets.
func axisDirections(ds *DirectionSet, axis Axis) (neg, pos Direction, ok bool) {
	switch ds.Name {
	case "cartesian2d":
		switch axis {
		case AxisX:
			return DirXMinus, DirXPlus, true
		case AxisY:
			return DirYMinus, DirYPlus, true
		}
	case "cartesian3d":
		switch axis {
		case AxisX:
			return Dir3XMinus, Dir3XPlus, true
		case AxisY:
			return Dir3YMinus, Dir3YPlus, true
		case AxisZ:
			return Dir3ZMinus, Dir3ZPlus, true
		}
	}
	return 0, 0, false
}

// decidedTile reports the single remaining tile at cell i, if decided.
func decidedTile(p *TilePropagator, i int) (Tile, bool) {
	if p.wave.patternCount[i] != 1 {
		return nil, false
	}
	pc, offset := p.mapping.CellOffset(i)
	pid := firstSetBit(&p.wave.possible[pc])
	return p.mapping.PatternToTile(offset, pid), true
}

// runInDirection walks from i's neighbor in dir, then onward in the same
// direction, counting a consecutive run of one decided, identical tile.
// ok is false if the immediate neighbor is missing or undecided.
func runInDirection(p *TilePropagator, i int, dir Direction) (Tile, int, bool) {
	t := p.topology
	j, ok := t.Neighbor(i, dir)
	if !ok {
		return nil, 0, false
	}
	tile, ok := decidedTile(p, j)
	if !ok {
		return nil, 0, false
	}
	count := 1
	cur := j
	for {
		next, ok := t.Neighbor(cur, dir)
		if !ok {
			break
		}
		nt, ok := decidedTile(p, next)
		if !ok || nt != tile {
			break
		}
		count++
		cur = next
	}
	return tile, count, true
}
