package wfc

import (
	"errors"
	"testing"
)

func TestDefaultGenerationConfigDefaults(t *testing.T) {
	cfg := DefaultGenerationConfig(42)
	if cfg.Seed != 42 {
		t.Fatalf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.BacktrackDepth != -1 {
		t.Fatalf("BacktrackDepth = %d, want -1 (unlimited)", cfg.BacktrackDepth)
	}
	if cfg.MaxRetries != 10 {
		t.Fatalf("MaxRetries = %d, want 10", cfg.MaxRetries)
	}
}

func TestGenerateSolvesCheckerboard(t *testing.T) {
	cfg := &GenerationConfig{
		Model:          checkerModel(t),
		Topology:       NewTopology2D(4, 4, false, false),
		BacktrackDepth: -1,
		Seed:           7,
		MaxRetries:     3,
	}
	out, err := NewGenerator(cfg).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1 for a model with no contradictions possible", out.Attempts)
	}
	if len(out.Tiles) != 16 {
		t.Fatalf("len(Tiles) = %d, want 16", len(out.Tiles))
	}
	for _, tl := range out.Tiles {
		if tl != "black" && tl != "white" {
			t.Fatalf("unexpected decoded tile %v", tl)
		}
	}
}

func TestGenerateMaxRetriesClampedToOne(t *testing.T) {
	cfg := &GenerationConfig{
		Model:      checkerModel(t),
		Topology:   NewTopology2D(2, 2, false, false),
		Seed:       1,
		MaxRetries: 0,
	}
	out, err := NewGenerator(cfg).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1 when MaxRetries<=0 clamps to a single attempt", out.Attempts)
	}
}

func TestGenerateFailsOnEmptyPatternSet(t *testing.T) {
	g, _ := NewRotationGroup(1, false)
	tr := NewTileRotation(g, TreatmentUnchanged)
	emptyModel := NewAdjacentModel(tr, NewCartesian2D()) // no tiles registered

	cfg := &GenerationConfig{
		Model:    emptyModel,
		Topology: NewTopology2D(2, 2, false, false),
		Seed:     1,
	}
	_, err := NewGenerator(cfg).Generate()
	if err == nil {
		t.Fatal("Generate over an empty pattern set should error")
	}
}

func TestGenerateUnsatisfiableContradictsEveryAttempt(t *testing.T) {
	// A 1x1 topology force-selected at Init to an impossible pair of
	// mutually exclusive constraints contradicts on every retry, with no
	// backtracking budget to recover.
	topo := NewTopology2D(1, 1, false, false)
	cfg := &GenerationConfig{
		Model:    checkerModel(t),
		Topology: topo,
		Constraints: []Constraint{
			&FixedTileConstraint{Tile: "black", X: 0, Y: 0, Z: 0, HasPoint: true},
			&BorderConstraint{Sides: []Side{SideXMin}, Tiles: []Tile{"black"}},
		},
		BacktrackDepth: 0,
		Seed:           1,
		MaxRetries:     2,
	}
	_, err := NewGenerator(cfg).Generate()
	if err == nil {
		t.Fatal("forcing black then banning it on the same cell should fail every attempt")
	}
	if !errors.Is(err, ErrUnrecoverableContradiction) {
		t.Fatalf("error = %v, want it to wrap ErrUnrecoverableContradiction", err)
	}
}
