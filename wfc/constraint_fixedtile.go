package wfc

// FixedTileConstraint pins a single tile at a single cell, per spec.md
// §4.5. If HasPoint is false, a uniformly random unmasked cell is chosen
// at Init time.
type FixedTileConstraint struct {
	Tile     Tile
	X, Y, Z  int
	HasPoint bool
}

// Init selects Tile at the configured (or randomly chosen) point.
func (c *FixedTileConstraint) Init(p *TilePropagator) {
	x, y, z := c.X, c.Y, c.Z
	if !c.HasPoint {
		var ok bool
		x, y, z, ok = p.RandomUnmaskedCell()
		if !ok {
			p.SetContradiction()
			return
		}
	}
	if err := p.Select(x, y, z, c.Tile); err != nil {
		p.SetContradiction()
	}
}

// Check is a no-op: FixedTile only ever constrains the initial wave.
func (c *FixedTileConstraint) Check(p *TilePropagator) {}
