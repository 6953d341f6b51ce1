package wfc

import "github.com/google/uuid"

// Constraint is the capability interface user constraints implement.
// Init runs once after wave initialization; Check runs at every
// propagation quiescence, in registration order, before the observer
// picks the next cell. Both may call Ban/Select/SetContradiction on the
// propagator passed in; neither may add possibilities, only remove them
// (spec.md §4.5's monotonicity contract). Constraint-owned state that
// must survive backtracking registers its own undo via
// TilePropagator.RegisterUndo.
type Constraint interface {
	Init(p *TilePropagator)
	Check(p *TilePropagator)
}

// Identity gives a Constraint a stable handle, used in place of a
// pointer by constraints that need to refer to "this registration" from
// inside a journaled undo closure — spec.md §9's "index- and id-based
// design... rather than pointer graphs".
type Identity struct {
	id uuid.UUID
}

// NewIdentity allocates a fresh constraint identity.
func NewIdentity() Identity {
	return Identity{id: uuid.New()}
}

// String returns the identity's UUID text form, useful in log lines.
func (id Identity) String() string {
	return id.id.String()
}
