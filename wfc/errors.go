package wfc

import "errors"

// ConfigurationError reports contradictory or incomplete inputs: a
// rotational symmetry other than 1, 2 or 4, an unknown model kind, a
// non-square window on an Overlapping model with symmetry, an empty
// compiled pattern set, a tile the model does not recognize passed to
// Select, an adjacency declared against a non-Adjacent model.
// Directions and axes are not validated, and a rotation transform
// missing under Missing treatment drops that expansion rather than
// raising this error.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "wfc: configuration error: " + e.Message
}

// LogicError reports a violated internal invariant, such as a
// compatibility counter (Wave.decCompat) being decremented past zero —
// which can only happen if drain processed the same removal twice.
// These indicate a bug in this package, not bad input; they are raised
// by panicking rather than returned, since the wave is no longer
// trustworthy once one fires.
type LogicError struct {
	Message string
}

func (e *LogicError) Error() string {
	return "wfc: internal invariant violated: " + e.Message
}

// ErrUnrecoverableContradiction marks a generation attempt that ended in
// StatusContradiction, either at construction or because Run exhausted
// backtracking (the journal is empty and a contradiction remains). Run
// and Step report this as a Status; Generator.Generate wraps this error
// in the one it returns once every attempt has ended that way.
var ErrUnrecoverableContradiction = errors.New("wfc: unrecoverable contradiction, backtracking exhausted")

// ErrEmptyPatternSet is a ConfigurationError raised when pattern
// compilation produces zero patterns (no solution is possible by
// construction).
var ErrEmptyPatternSet = &ConfigurationError{Message: "compiled pattern set is empty"}

// ErrNoSolution is returned by Generator.Generate when every retry
// attempt ended in an unrecoverable contradiction.
var ErrNoSolution = errors.New("wfc: no solution found within retry budget")
