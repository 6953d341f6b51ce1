package wfc

// Rotation is an element of a tile symmetry group: a rotation angle in
// degrees plus an independent X-reflection flag.
type Rotation struct {
	Angle    int
	ReflectX bool
}

// RotationGroup is the finite group of Rotations generated by
// rotationalSymmetry (1, 2, or 4 quarter-turn steps around 360 degrees)
// and, optionally, a reflection. Group size is one of {1,2,4,8}.
type RotationGroup struct {
	RotationalSymmetry   int
	ReflectionalSymmetry bool
	elements             []Rotation
}

// NewRotationGroup builds the group for the given symmetry parameters.
// rotationalSymmetry must be 1, 2, or 4.
func NewRotationGroup(rotationalSymmetry int, reflectionalSymmetry bool) (*RotationGroup, error) {
	switch rotationalSymmetry {
	case 1, 2, 4:
	default:
		return nil, &ConfigurationError{Message: "rotationalSymmetry must be 1, 2, or 4"}
	}

	step := 360 / rotationalSymmetry
	var elements []Rotation
	for i := 0; i < rotationalSymmetry; i++ {
		elements = append(elements, Rotation{Angle: i * step})
	}
	if reflectionalSymmetry {
		for i := 0; i < rotationalSymmetry; i++ {
			elements = append(elements, Rotation{Angle: i * step, ReflectX: true})
		}
	}

	return &RotationGroup{
		RotationalSymmetry:   rotationalSymmetry,
		ReflectionalSymmetry: reflectionalSymmetry,
		elements:             elements,
	}, nil
}

// SmallestAngle is 360 / rotationalSymmetry.
func (g *RotationGroup) SmallestAngle() int {
	return 360 / g.RotationalSymmetry
}

// Size is the number of elements in the group.
func (g *RotationGroup) Size() int {
	return len(g.elements)
}

// Elements returns every rotation in the group, in a stable order.
func (g *RotationGroup) Elements() []Rotation {
	return append([]Rotation(nil), g.elements...)
}

// Identity returns the group's identity element.
func (g *RotationGroup) Identity() Rotation {
	return Rotation{}
}

// Compose applies b after a: rotate by a, then by b, reflecting first
// when either operand reflects (reflection and rotation commute up to
// sign, matching the reflect-then-rotate convention used by Rotate on
// DirectionSet: ReflectX happens before the quarter-turns).
func (g *RotationGroup) Compose(a, b Rotation) Rotation {
	reflect := a.ReflectX != b.ReflectX
	angle := a.Angle
	if b.ReflectX {
		angle = -angle
	}
	angle += b.Angle
	angle %= 360
	if angle < 0 {
		angle += 360
	}
	return Rotation{Angle: angle, ReflectX: reflect}
}

// Treatment governs how a tile behaves when no explicit rotation
// transform is declared for it.
type Treatment int

const (
	// TreatmentUnchanged returns the tile itself (identity transform).
	TreatmentUnchanged Treatment = iota
	// TreatmentMissing reports failure; the caller must handle it.
	TreatmentMissing
	// TreatmentGenerated synthesizes a RotatedTile(tile, rotation).
	TreatmentGenerated
)

// RotatedTile is a synthetic tile produced when no declared transform
// exists for (Base, Rotation) and the governing Treatment is Generated.
// It is a tagged-variant value, not a subtype: code that needs to know
// whether a Tile is "really" a RotatedTile type-switches on it.
type RotatedTile struct {
	Base     Tile
	Rotation Rotation
}

type tileRotationKey struct {
	tile Tile
	rot  Rotation
}

// TileRotation is the partial map (Tile, Rotation) -> Tile described in
// spec.md §3, plus per-tile treatment overrides and a group-wide
// default.
type TileRotation struct {
	Group            *RotationGroup
	DefaultTreatment Treatment

	transforms map[tileRotationKey]Tile
	treatments map[Tile]Treatment
}

// NewTileRotation builds an empty TileRotation over group.
func NewTileRotation(group *RotationGroup, defaultTreatment Treatment) *TileRotation {
	return &TileRotation{
		Group:            group,
		DefaultTreatment: defaultTreatment,
		transforms:       make(map[tileRotationKey]Tile),
		treatments:       make(map[Tile]Treatment),
	}
}

// SetTransform declares that tile, rotated by r, becomes result.
func (tr *TileRotation) SetTransform(tile Tile, r Rotation, result Tile) {
	tr.transforms[tileRotationKey{tile, r}] = result
}

// SetTreatment overrides the default treatment for tile.
func (tr *TileRotation) SetTreatment(tile Tile, t Treatment) {
	tr.treatments[tile] = t
}

func (tr *TileRotation) treatmentFor(tile Tile) Treatment {
	if t, ok := tr.treatments[tile]; ok {
		return t
	}
	return tr.DefaultTreatment
}

// Transform resolves (tile, r). ok is false only under TreatmentMissing
// with no declared transform; callers in pattern compilation must drop
// the expansion being attempted in that case rather than fail outright.
func (tr *TileRotation) Transform(tile Tile, r Rotation) (Tile, bool) {
	if r == tr.Group.Identity() {
		return tile, true
	}
	if result, ok := tr.transforms[tileRotationKey{tile, r}]; ok {
		return result, true
	}
	switch tr.treatmentFor(tile) {
	case TreatmentUnchanged:
		return tile, true
	case TreatmentGenerated:
		return RotatedTile{Base: tile, Rotation: r}, true
	default: // TreatmentMissing
		return nil, false
	}
}

// Canonicalize reduces a RotatedTile to its canonical representative
// where one is known: if rt.Base with rt.Rotation has a declared
// transform (or resolves under Unchanged treatment to rt.Base itself),
// that resolution is returned. Tiles that are not RotatedTile values are
// already canonical.
func (tr *TileRotation) Canonicalize(t Tile) Tile {
	rt, ok := t.(RotatedTile)
	if !ok {
		return t
	}
	if resolved, ok := tr.Transform(rt.Base, rt.Rotation); ok {
		return resolved
	}
	return t
}
