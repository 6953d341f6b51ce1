package wfc

// Side names one face of the output topology.
type Side int

const (
	SideXMin Side = iota
	SideXMax
	SideYMin
	SideYMax
	SideZMin
	SideZMax
)

// BorderConstraint bans (or forces) a set of tiles on the named sides of
// the topology, per spec.md §4.5. With InvertArea set, the area acted on
// is every cell NOT on the named sides instead. With Force set, the
// listed tiles are selected rather than banned.
type BorderConstraint struct {
	Sides      []Side
	Tiles      []Tile
	InvertArea bool
	Force      bool
}

// Init applies the border rule once, at wave initialization.
func (c *BorderConstraint) Init(p *TilePropagator) {
	t := p.topology
	for i := 0; i < t.Size(); i++ {
		if t.IsMasked(i) {
			continue
		}
		onBorder := c.onNamedSide(t, i)
		if onBorder == c.InvertArea {
			continue
		}
		x, y, z := t.Coords(i)
		if c.Force {
			p.SelectSet(x, y, z, c.Tiles)
		} else {
			p.BanSet(x, y, z, c.Tiles)
		}
		if p.status == StatusContradiction {
			return
		}
	}
}

// Check is a no-op: Border only ever constrains the initial wave.
func (c *BorderConstraint) Check(p *TilePropagator) {}

func (c *BorderConstraint) onNamedSide(t *Topology, i int) bool {
	x, y, z := t.Coords(i)
	for _, s := range c.Sides {
		switch s {
		case SideXMin:
			if x == 0 {
				return true
			}
		case SideXMax:
			if x == t.Width-1 {
				return true
			}
		case SideYMin:
			if y == 0 {
				return true
			}
		case SideYMax:
			if y == t.Height-1 {
				return true
			}
		case SideZMin:
			if z == 0 {
				return true
			}
		case SideZMax:
			if z == t.Depth-1 {
				return true
			}
		}
	}
	return false
}
