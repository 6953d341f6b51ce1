package wfc

import "testing"

func buildSimpleAdjacentModel(t *testing.T) *TileModel {
	t.Helper()
	g, err := NewRotationGroup(1, false)
	if err != nil {
		t.Fatalf("NewRotationGroup: %v", err)
	}
	tr := NewTileRotation(g, TreatmentUnchanged)
	model := NewAdjacentModel(tr, NewCartesian2D())
	model.SetFrequency("grass", 1)
	model.SetFrequency("water", 1)
	model.Allow(DirXPlus, "grass", "grass")
	model.Allow(DirXMinus, "grass", "grass")
	model.Allow(DirYPlus, "grass", "grass")
	model.Allow(DirYMinus, "grass", "grass")
	model.Allow(DirXPlus, "water", "water")
	model.Allow(DirXMinus, "water", "water")
	model.Allow(DirYPlus, "water", "water")
	model.Allow(DirYMinus, "water", "water")
	model.Allow(DirXPlus, "grass", "water")
	model.Allow(DirXMinus, "water", "grass")
	return model
}

func TestCompileAdjacentBasic(t *testing.T) {
	model := buildSimpleAdjacentModel(t)
	compiled, mapping, err := Compile(model)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if compiled.Count != 2 {
		t.Fatalf("pattern count = %d, want 2", compiled.Count)
	}
	grassSet := mapping.TilesToPatterns(0, "grass")
	waterSet := mapping.TilesToPatterns(0, "water")
	if grassSet == nil || waterSet == nil {
		t.Fatal("expected both grass and water to map to a pattern")
	}
	if grassSet.popcount() != 1 || waterSet.popcount() != 1 {
		t.Fatal("an Adjacent model tile should map to exactly one pattern")
	}

	var grassP, waterP int
	grassSet.forEach(func(p int) bool { grassP = p; return true })
	waterSet.forEach(func(p int) bool { waterP = p; return true })

	if !compiled.Prop[grassP][DirXPlus].get(waterP) {
		t.Fatal("grass should be allowed to have water to its +X")
	}
	if !compiled.Prop[waterP][DirXMinus].get(grassP) {
		t.Fatal("water should be allowed to have grass to its -X")
	}
	if compiled.Prop[grassP][DirYPlus].get(waterP) {
		t.Fatal("grass should not be allowed water to its +Y (never declared)")
	}
}

func TestCompileAdjacentEmptyModelErrors(t *testing.T) {
	g, _ := NewRotationGroup(1, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	model := NewAdjacentModel(tr, NewCartesian2D())
	_, _, err := Compile(model)
	if err == nil {
		t.Fatal("compiling a model with no tiles should error")
	}
}

func TestCompileAdjacentPatternToTileRoundTrip(t *testing.T) {
	model := buildSimpleAdjacentModel(t)
	compiled, mapping, err := Compile(model)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for p := 0; p < compiled.Count; p++ {
		tile := mapping.PatternToTile(0, p)
		back := mapping.TilesToPatterns(0, tile)
		if !back.get(p) {
			t.Fatalf("pattern %d round-trips to tile %v but not back to itself", p, tile)
		}
	}
}

func TestCompileOverlappingDedupsIdenticalWindows(t *testing.T) {
	g, _ := NewRotationGroup(1, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	// A uniform 4x4 sample of a single tile only ever produces one
	// distinct 2x2 window.
	sample := make([][]Tile, 4)
	for y := range sample {
		sample[y] = make([]Tile, 4)
		for x := range sample[y] {
			sample[y][x] = "A"
		}
	}
	model := NewOverlappingModel(sample, 2, 2, true, tr, NewCartesian2D())
	compiled, _, err := Compile(model)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if compiled.Count != 1 {
		t.Fatalf("pattern count = %d, want 1 for a uniform sample", compiled.Count)
	}
}

func TestCompileOverlappingRejectsNonSquareWindowWithSymmetry(t *testing.T) {
	g, _ := NewRotationGroup(4, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	sample := [][]Tile{{"A", "B", "C"}, {"D", "E", "F"}}
	model := NewOverlappingModel(sample, 3, 2, false, tr, NewCartesian2D())
	_, _, err := Compile(model)
	if err == nil {
		t.Fatal("a non-square window with rotational symmetry > 1 should error")
	}
}

func TestCompileOverlappingAnchorCellConvention(t *testing.T) {
	g, _ := NewRotationGroup(1, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	sample := [][]Tile{
		{"A", "B"},
		{"C", "D"},
	}
	model := NewOverlappingModel(sample, 2, 2, false, tr, NewCartesian2D())
	compiled, mapping, err := Compile(model)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// With a 2x2 non-periodic sample and 2x2 window, there is exactly
	// one window, anchored at (0,0) = tile "A".
	if compiled.Count != 1 {
		t.Fatalf("pattern count = %d, want 1", compiled.Count)
	}
	if got := mapping.PatternToTile(0, 0); got != "A" {
		t.Fatalf("anchor tile for the single window = %v, want A", got)
	}
}
