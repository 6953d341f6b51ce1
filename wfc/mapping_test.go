package wfc

import "testing"

func TestCellOffsetAnchorConvention(t *testing.T) {
	m := &TileModelMapping{OffsetCount: 1}
	cell, offset := m.CellOffset(42)
	if cell != 42 || offset != 0 {
		t.Fatalf("CellOffset(42) = (%d, %d), want (42, 0)", cell, offset)
	}
}

func TestTilesToPatternsMissingTile(t *testing.T) {
	b := newBitset(4)
	b.set(1)
	m := &TileModelMapping{
		OffsetCount:     1,
		tilesToPatterns: []map[Tile]*bitset{{"grass": &b}},
		patternsToTiles: [][]Tile{{nil, "grass", nil, nil}},
	}
	if got := m.TilesToPatterns(0, "water"); got != nil {
		t.Fatalf("TilesToPatterns for an unregistered tile = %v, want nil", got)
	}
	got := m.TilesToPatterns(0, "grass")
	if got == nil || !got.get(1) {
		t.Fatal("TilesToPatterns(0, grass) should return the bitset with pattern 1 set")
	}
}

func TestPatternToTile(t *testing.T) {
	m := &TileModelMapping{
		OffsetCount:     1,
		patternsToTiles: [][]Tile{{"grass", "water"}},
	}
	if got := m.PatternToTile(0, 1); got != "water" {
		t.Fatalf("PatternToTile(0, 1) = %v, want water", got)
	}
}
