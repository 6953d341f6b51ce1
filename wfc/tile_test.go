package wfc

import "testing"

func TestSetFrequencyRegistersTileOnce(t *testing.T) {
	g, _ := NewRotationGroup(1, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	model := NewAdjacentModel(tr, NewCartesian2D())

	model.SetFrequency("grass", 1)
	model.SetFrequency("grass", 5) // overwrite, not a second registration
	model.SetFrequency("water", 2)

	tiles := model.Tiles()
	if len(tiles) != 2 {
		t.Fatalf("Tiles() = %v, want 2 distinct tiles", tiles)
	}
	if model.frequencies["grass"] != 5 {
		t.Fatalf("frequency for grass = %v, want overwritten value 5", model.frequencies["grass"])
	}
}

func TestNewOverlappingModelDerivesSampleExtent(t *testing.T) {
	g, _ := NewRotationGroup(1, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	sample := [][]Tile{
		{"A", "B", "C"},
		{"D", "E", "F"},
	}
	model := NewOverlappingModel(sample, 2, 2, false, tr, NewCartesian2D())
	if model.sampleW != 3 || model.sampleH != 2 || model.sampleD != 1 {
		t.Fatalf("sample dims = (%d,%d,%d), want (3,2,1)", model.sampleW, model.sampleH, model.sampleD)
	}
	if model.Kind != ModelOverlapping {
		t.Fatalf("Kind = %v, want ModelOverlapping", model.Kind)
	}
}

func TestNewOverlappingModel3DDerivesSampleExtent(t *testing.T) {
	g, _ := NewRotationGroup(1, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	sample := [][][]Tile{
		{{"A", "B"}, {"C", "D"}},
		{{"E", "F"}, {"G", "H"}},
	}
	model := NewOverlappingModel3D(sample, 2, 2, 2, false, tr, NewCartesian3D())
	if model.sampleW != 2 || model.sampleH != 2 || model.sampleD != 2 {
		t.Fatalf("sample dims = (%d,%d,%d), want (2,2,2)", model.sampleW, model.sampleH, model.sampleD)
	}
}

func TestAllowStoresDirectedPair(t *testing.T) {
	g, _ := NewRotationGroup(1, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	model := NewAdjacentModel(tr, NewCartesian2D())
	model.Allow(DirXPlus, "grass", "water")
	if !model.adjacency[DirXPlus][tilePair{"grass", "water"}] {
		t.Fatal("Allow should record the declared directed pair")
	}
	if model.adjacency[DirXPlus][tilePair{"water", "grass"}] {
		t.Fatal("Allow should not implicitly declare the reverse pair")
	}
}
