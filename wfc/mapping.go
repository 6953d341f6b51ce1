package wfc

// TileModelMapping connects tile space to pattern space. For an Adjacent
// model the mapping is the identity with a single offset (0): each tile
// is exactly one pattern. For an Overlapping model this package uses an
// anchor-cell convention (see DESIGN.md): pattern space has the same
// dimensions as tile space, and a pattern's "offset 0" tile is the one
// at its window's own origin corner, which is always the tile actually
// occupying that cell once the solver commits to a single pattern there.
type TileModelMapping struct {
	OffsetCount int

	tilesToPatterns []map[Tile]*bitset // [offset]
	patternsToTiles [][]Tile           // [offset][pattern]
}

// TilesToPatterns returns the set of patterns in which tile appears at
// the given offset, or nil if tile never appears there.
func (m *TileModelMapping) TilesToPatterns(offset int, tile Tile) *bitset {
	return m.tilesToPatterns[offset][tile]
}

// PatternToTile returns the tile pattern p contributes at the given
// offset.
func (m *TileModelMapping) PatternToTile(offset int, p int) Tile {
	return m.patternsToTiles[offset][p]
}

// CellOffset reports, for this mapping's convention, which pattern-space
// cell and offset a tile-space coordinate resolves to. With the
// anchor-cell convention pattern space mirrors tile space 1:1, so this
// is always (i, 0); it is kept as a method (rather than inlined at call
// sites) so a future mapping with genuine multi-offset coverage only
// needs to change this one place.
func (m *TileModelMapping) CellOffset(i int) (patternCell, offset int) {
	return i, 0
}
