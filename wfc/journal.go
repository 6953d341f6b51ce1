package wfc

// journal is the backtrack journal: a bounded-depth stack of decision
// frames, each recording the undo closures for every mutation performed
// since that frame was opened. Constraints register arbitrary undo
// callbacks through the same mechanism the propagator uses for its own
// bit/counter restores (spec.md §4.5's "journal hook for arbitrary undo
// callbacks").
type journal struct {
	actions     []func()
	frameStarts []int
	maxDepth    int // <0 unlimited, 0 disabled, >0 bounded
	discarded   int // count of frames dropped for exceeding maxDepth
}

func newJournal(maxDepth int) *journal {
	return &journal{maxDepth: maxDepth}
}

// enabled reports whether backtracking is configured at all.
func (j *journal) enabled() bool {
	return j.maxDepth != 0
}

// openFrame starts a new decision frame. If maxDepth is positive and the
// frame count would exceed it, the oldest retained frame's actions are
// dropped outright: those decisions become irrevocable, as spec.md §4.4
// describes.
func (j *journal) openFrame() {
	if !j.enabled() {
		return
	}
	j.frameStarts = append(j.frameStarts, len(j.actions))
	if j.maxDepth > 0 && len(j.frameStarts) > j.maxDepth {
		drop := j.frameStarts[1]
		j.frameStarts = j.frameStarts[1:]
		j.actions = j.actions[drop:]
		for i := range j.frameStarts {
			j.frameStarts[i] -= drop
		}
		j.discarded++
	}
}

// record appends an undo closure to the currently open frame. If
// backtracking is disabled, the closure is simply dropped: there is
// nothing to ever undo.
func (j *journal) record(undo func()) {
	if !j.enabled() {
		return
	}
	j.actions = append(j.actions, undo)
}

// hasFrames reports whether any frame remains to backtrack into.
func (j *journal) hasFrames() bool {
	return len(j.frameStarts) > 0
}

// popFrame undoes and discards the most recently opened frame, running
// its undo closures in reverse (LIFO) order.
func (j *journal) popFrame() {
	if len(j.frameStarts) == 0 {
		return
	}
	start := j.frameStarts[len(j.frameStarts)-1]
	j.frameStarts = j.frameStarts[:len(j.frameStarts)-1]
	for i := len(j.actions) - 1; i >= start; i-- {
		j.actions[i]()
	}
	j.actions = j.actions[:start]
}
