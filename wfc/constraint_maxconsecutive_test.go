package wfc

import (
	"math/rand"
	"testing"
)

func TestMaxConsecutiveConstraintBansRunExtension(t *testing.T) {
	topo := NewTopology2D(4, 1, false, false)
	c := &MaxConsecutiveConstraint{Axis: AxisX, Limit: 2}
	p := newTestPropagator(t, twoTileFreeModel(t), topo, Options{
		Random:      rand.New(rand.NewSource(1)),
		Constraints: []Constraint{c},
	})
	if err := p.Select(0, 0, 0, "grass"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := p.Select(1, 0, 0, "grass"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	c.Check(p)
	p.drain()
	if !p.IsBanned(2, 0, 0, "grass") {
		t.Fatal("a run of 2 grass at Limit=2 should ban grass from extending to the next cell")
	}
}

func TestMaxConsecutiveConstraintLimitZeroIsNoOp(t *testing.T) {
	topo := NewTopology2D(3, 1, false, false)
	c := &MaxConsecutiveConstraint{Axis: AxisX, Limit: 0}
	p := newTestPropagator(t, twoTileFreeModel(t), topo, Options{
		Random:      rand.New(rand.NewSource(1)),
		Constraints: []Constraint{c},
	})
	p.Select(0, 0, 0, "grass")
	p.Select(1, 0, 0, "grass")
	c.Check(p)
	if p.IsBanned(2, 0, 0, "grass") {
		t.Fatal("Limit=0 should disable the constraint entirely")
	}
}

func TestAxisDirectionsUnsupportedDirectionSet(t *testing.T) {
	custom := NewDirectionSet("hex", []Offset{{1, 0, 0}}, []Direction{0}, nil, nil)
	_, _, ok := axisDirections(custom, AxisX)
	if ok {
		t.Fatal("a custom direction set without Cartesian names should not resolve an axis")
	}
}

func TestDecidedTileUndecidedCell(t *testing.T) {
	topo := NewTopology2D(2, 2, false, false)
	p := newTestPropagator(t, twoTileFreeModel(t), topo, Options{Random: rand.New(rand.NewSource(1))})
	if _, ok := decidedTile(p, 0); ok {
		t.Fatal("a fresh undecided cell should not report a decided tile")
	}
}

func TestDecidedTileAfterSelect(t *testing.T) {
	topo := NewTopology2D(2, 2, false, false)
	p := newTestPropagator(t, twoTileFreeModel(t), topo, Options{Random: rand.New(rand.NewSource(1))})
	p.Select(0, 0, 0, "grass")
	tile, ok := decidedTile(p, topo.Index(0, 0, 0))
	if !ok || tile != "grass" {
		t.Fatalf("decidedTile after select = (%v, %v), want (grass, true)", tile, ok)
	}
}
