package wfc

// MirrorConstraint enforces that the output is symmetric under
// reflection/rotation across Axis (spec.md §4.5). Rotation names the
// tile-space transform a tile at a cell must undergo to match the tile
// at its mirror partner; it is resolved through the model's TileRotation
// the same way pattern compilation expands adjacencies. Which axis the
// mirror applies to is left unspecified by spec.md (an open question);
// this package resolves it by requiring callers to say so explicitly.
//
// The inverse of Rotation is found by brute-force search over the
// model's rotation group. A Rotation that is not an element of that
// group has no inverse there and is used as its own inverse.
type MirrorConstraint struct {
	Axis     Axis
	Rotation Rotation
}

// Init runs the same synchronization Check does, so the mirror relation
// holds from the very first wave.
func (c *MirrorConstraint) Init(p *TilePropagator) {
	c.Check(p)
}

// Check bans any tile at a cell whose required mirror-partner tile is no
// longer possible at its partner cell, in both directions, until the two
// cells' possibility sets agree under Rotation.
func (c *MirrorConstraint) Check(p *TilePropagator) {
	t := p.topology
	for i := 0; i < t.Size(); i++ {
		if t.IsMasked(i) {
			continue
		}
		j := mirrorCell(t, i, c.Axis)
		if t.IsMasked(j) {
			continue
		}
		if j == i {
			c.syncSelf(p, i)
		} else if j > i {
			c.syncPair(p, i, j)
		}
		if p.status == StatusContradiction {
			return
		}
	}
}

func (c *MirrorConstraint) syncSelf(p *TilePropagator, i int) {
	x, y, z := p.topology.Coords(i)
	for _, tl := range cellTileSet(p, i) {
		expected, ok := p.rotation.Transform(tl, c.Rotation)
		if !ok || expected != tl {
			p.Ban(x, y, z, tl)
			if p.status == StatusContradiction {
				return
			}
		}
	}
}

func (c *MirrorConstraint) syncPair(p *TilePropagator, i, j int) {
	t := p.topology
	xi, yi, zi := t.Coords(i)
	xj, yj, zj := t.Coords(j)

	tilesI := cellTileSet(p, i)
	tilesJ := cellTileSet(p, j)
	setJ := make(map[Tile]bool, len(tilesJ))
	for _, tl := range tilesJ {
		setJ[tl] = true
	}
	for _, tl := range tilesI {
		expected, ok := p.rotation.Transform(tl, c.Rotation)
		if ok && !setJ[expected] {
			p.Ban(xi, yi, zi, tl)
			if p.status == StatusContradiction {
				return
			}
		}
	}

	setI := make(map[Tile]bool, len(tilesI))
	for _, tl := range tilesI {
		setI[tl] = true
	}
	inv := inverseRotation(p.rotation.Group, c.Rotation)
	for _, tl := range tilesJ {
		expected, ok := p.rotation.Transform(tl, inv)
		if ok && !setI[expected] {
			p.Ban(xj, yj, zj, tl)
			if p.status == StatusContradiction {
				return
			}
		}
	}
}

// mirrorCell reflects cell i's coordinate along axis about the
// topology's center.
func mirrorCell(t *Topology, i int, axis Axis) int {
	x, y, z := t.Coords(i)
	switch axis {
	case AxisX:
		x = t.Width - 1 - x
	case AxisY:
		y = t.Height - 1 - y
	case AxisZ:
		z = t.Depth - 1 - z
	}
	return t.Index(x, y, z)
}

// cellTileSet decodes cell i's full remaining tile set.
func cellTileSet(p *TilePropagator, i int) []Tile {
	pc, offset := p.mapping.CellOffset(i)
	var tiles []Tile
	p.wave.possible[pc].forEach(func(q int) bool {
		tiles = append(tiles, p.mapping.PatternToTile(offset, q))
		return true
	})
	return tiles
}

// inverseRotation searches group for the element that composes with r to
// the identity. See MirrorConstraint's doc comment for the scope of
// correctness this provides.
func inverseRotation(group *RotationGroup, r Rotation) Rotation {
	id := group.Identity()
	for _, e := range group.Elements() {
		if group.Compose(r, e) == id {
			return e
		}
	}
	return r
}
