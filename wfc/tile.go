package wfc

// Tile is an opaque, user-supplied identity. Values must be comparable
// (usable as a map key) since the library only ever needs equality and
// hashing, never a method set — the "equatable-hashable contract, not
// an open type hierarchy" spec.md §9 asks for. A RotatedTile is itself a
// valid Tile value, letting the rotation group synthesize new tiles
// without a parallel type hierarchy.
type Tile = any

// ModelKind selects which of the two TileModel variants a model holds.
type ModelKind int

const (
	ModelAdjacent ModelKind = iota
	ModelOverlapping
)

type tilePair struct {
	A, B Tile
}

// TileModel holds tiles, their frequencies, and either adjacency rules
// (ModelAdjacent) or sample windows (ModelOverlapping). Build one with
// NewAdjacentModel or NewOverlappingModel, not directly.
type TileModel struct {
	Kind       ModelKind
	Rotation   *TileRotation
	Directions *DirectionSet

	tiles       []Tile
	frequencies map[Tile]float64

	// Adjacent-model state: declared edges before rotation expansion.
	adjacency map[Direction]map[tilePair]bool

	// Overlapping-model state.
	sample      [][][]Tile // sample[z][y][x]
	sampleW     int
	sampleH     int
	sampleD     int
	samplePeriodic bool
	n, m, l     int
}

// NewAdjacentModel creates an empty Adjacent TileModel over directions,
// with tile transforms resolved through rotation.
func NewAdjacentModel(rotation *TileRotation, directions *DirectionSet) *TileModel {
	return &TileModel{
		Kind:        ModelAdjacent,
		Rotation:    rotation,
		Directions:  directions,
		frequencies: make(map[Tile]float64),
		adjacency:   make(map[Direction]map[tilePair]bool),
	}
}

// SetFrequency declares tile's relative frequency (must be > 0). Tiles
// are discovered lazily: declaring a frequency is how a tile is
// registered with the model at all.
func (m *TileModel) SetFrequency(tile Tile, freq float64) {
	if _, seen := m.frequencies[tile]; !seen {
		m.tiles = append(m.tiles, tile)
	}
	m.frequencies[tile] = freq
}

// Allow declares that tile b may appear immediately in direction dir of
// tile a. Compile symmetrizes this automatically (b beside a in dir
// implies a beside b in the opposite direction), so the reciprocal
// pair never needs declaring separately. Valid only on an Adjacent
// model; calling it on an Overlapping model is a ConfigurationError
// surfaced at Compile time instead of here, matching the teacher's
// pattern of deferring validation to the point a value is actually used.
func (m *TileModel) Allow(dir Direction, a, b Tile) {
	if m.adjacency[dir] == nil {
		m.adjacency[dir] = make(map[tilePair]bool)
	}
	m.adjacency[dir][tilePair{a, b}] = true
}

// NewOverlappingModel creates an Overlapping TileModel from a 2D sample
// grid (sample[y][x]), windows of size n x m x 1. periodic controls
// whether windows wrap around the sample's own edges during extraction.
func NewOverlappingModel(sample [][]Tile, n, m int, periodic bool, rotation *TileRotation, directions *DirectionSet) *TileModel {
	grid3d := make([][][]Tile, 1)
	grid3d[0] = sample
	h := len(sample)
	w := 0
	if h > 0 {
		w = len(sample[0])
	}
	return &TileModel{
		Kind:           ModelOverlapping,
		Rotation:       rotation,
		Directions:     directions,
		frequencies:    make(map[Tile]float64),
		sample:         grid3d,
		sampleW:        w,
		sampleH:        h,
		sampleD:        1,
		samplePeriodic: periodic,
		n:              n,
		m:              m,
		l:              1,
	}
}

// NewOverlappingModel3D is NewOverlappingModel generalized to a 3D
// sample grid (sample[z][y][x]) with an N x M x L window.
func NewOverlappingModel3D(sample [][][]Tile, n, m, l int, periodic bool, rotation *TileRotation, directions *DirectionSet) *TileModel {
	d := len(sample)
	h, w := 0, 0
	if d > 0 {
		h = len(sample[0])
		if h > 0 {
			w = len(sample[0][0])
		}
	}
	return &TileModel{
		Kind:           ModelOverlapping,
		Rotation:       rotation,
		Directions:     directions,
		frequencies:    make(map[Tile]float64),
		sample:         sample,
		sampleW:        w,
		sampleH:        h,
		sampleD:        d,
		samplePeriodic: periodic,
		n:              n,
		m:              m,
		l:              l,
	}
}

// Tiles returns every tile registered via SetFrequency (Adjacent model)
// or discovered in the sample grid (Overlapping model, populated during
// Compile).
func (m *TileModel) Tiles() []Tile {
	return append([]Tile(nil), m.tiles...)
}
