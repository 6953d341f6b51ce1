package wfc

import (
	"math"
	"math/rand"
)

// Status classifies a Wave's overall progress, per spec.md §3 invariant 4.
type Status int

const (
	StatusUndecided    Status = -1
	StatusDecided      Status = -2
	StatusContradiction Status = -3
)

// Wave is the per-cell bitset of still-possible patterns plus the
// bookkeeping (popcount, entropy, compatibility counters) propagation
// needs. It is owned and exclusively mutated through TilePropagator;
// callers only ever read it via the decoders on TilePropagator.
type Wave struct {
	Topology *Topology
	Patterns *CompiledPatterns

	possible     []bitset
	patternCount []int

	sumWeights          []float64
	sumWeightLogWeights []float64
	noise               []float64

	// compat[i][p][dir] = remaining patterns in neighbor(i,dir)
	// compatible with p via Patterns.Prop[p][dir].
	compat [][][]int
}

func newWave(topology *Topology, patterns *CompiledPatterns, rnd *rand.Rand) *Wave {
	n := topology.Size()

	w := &Wave{
		Topology:            topology,
		Patterns:            patterns,
		possible:            make([]bitset, n),
		patternCount:        make([]int, n),
		sumWeights:          make([]float64, n),
		sumWeightLogWeights: make([]float64, n),
		noise:               make([]float64, n),
		compat:              make([][][]int, n),
	}
	w.reset(rnd)
	return w
}

// reset reinitializes every cell to "all patterns possible", per
// spec.md §4.2. Masked cells are set to zero patterns and excluded from
// entropy/selection/propagation by the topology's own Neighbor masking.
func (w *Wave) reset(rnd *rand.Rand) {
	P := w.Patterns.Count
	D := w.Patterns.Directions.Len()
	sumW, sumWLogW := 0.0, 0.0
	for _, wt := range w.Patterns.Weights {
		sumW += wt
		if wt > 0 {
			sumWLogW += wt * math.Log(wt)
		}
	}

	for i := 0; i < w.Topology.Size(); i++ {
		if w.Topology.IsMasked(i) {
			w.possible[i] = newBitset(P)
			w.patternCount[i] = 0
			w.sumWeights[i] = 0
			w.sumWeightLogWeights[i] = 0
			w.compat[i] = make([][]int, P)
			for p := range w.compat[i] {
				w.compat[i][p] = make([]int, D)
			}
			continue
		}
		w.possible[i] = newFullBitset(P)
		w.patternCount[i] = P
		w.sumWeights[i] = sumW
		w.sumWeightLogWeights[i] = sumWLogW
		if rnd != nil {
			w.noise[i] = rnd.Float64() * 1e-6
		}

		w.compat[i] = make([][]int, P)
		for p := 0; p < P; p++ {
			w.compat[i][p] = make([]int, D)
			for d := 0; d < D; d++ {
				w.compat[i][p][d] = w.Patterns.Prop[p][d].popcount()
			}
		}
	}
}

// entropy returns cell i's Shannon entropy over its remaining patterns'
// normalized weights, plus its fixed tiebreak noise.
func (w *Wave) entropy(i int) float64 {
	sw := w.sumWeights[i]
	if sw <= 0 {
		return 0
	}
	return math.Log(sw) - w.sumWeightLogWeights[i]/sw + w.noise[i]
}

func (w *Wave) isPossible(i, p int) bool {
	return w.possible[i].get(p)
}

// status reports the Wave's overall classification: Contradiction if
// any unmasked cell has zero remaining patterns, Decided if every
// unmasked cell has exactly one, Undecided otherwise.
func (w *Wave) status() Status {
	decided := true
	for i := 0; i < w.Topology.Size(); i++ {
		if w.Topology.IsMasked(i) {
			continue
		}
		switch w.patternCount[i] {
		case 0:
			return StatusContradiction
		case 1:
		default:
			decided = false
		}
	}
	if decided {
		return StatusDecided
	}
	return StatusUndecided
}

// banBit clears pattern p at cell i. Returns the weight removed and
// whether the bit was actually set beforehand (a no-op ban returns
// ok=false and must not be journaled or re-propagated, per §4.3).
func (w *Wave) banBit(i, p int) (weight float64, ok bool) {
	if !w.possible[i].clear(p) {
		return 0, false
	}
	w.patternCount[i]--
	wt := w.Patterns.Weights[p]
	w.sumWeights[i] -= wt
	if wt > 0 {
		w.sumWeightLogWeights[i] -= wt * math.Log(wt)
	}
	return wt, true
}

// restoreBit is banBit's inverse, used by backtracking.
func (w *Wave) restoreBit(i, p int) {
	if !w.possible[i].set(p) {
		return
	}
	w.patternCount[i]++
	wt := w.Patterns.Weights[p]
	w.sumWeights[i] += wt
	if wt > 0 {
		w.sumWeightLogWeights[i] += wt * math.Log(wt)
	}
}

// decCompat decrements compat[i][p][dir] and returns the new value. A
// counter must never be decremented past zero: that would mean drain
// processed the same (neighbor, pattern, direction) removal twice,
// violating spec.md §3's counter-coherence invariant. This is an
// asserted internal invariant (spec.md §7 LogicError), not a condition
// a caller can trigger — it fails fast rather than silently corrupting
// the wave.
func (w *Wave) decCompat(i, p int, dir Direction) int {
	w.compat[i][p][dir]--
	if w.compat[i][p][dir] < 0 {
		panic(&LogicError{Message: "compatibility counter decremented past zero"})
	}
	return w.compat[i][p][dir]
}

// incCompat is decCompat's inverse, used by backtracking.
func (w *Wave) incCompat(i, p int, dir Direction) {
	w.compat[i][p][dir]++
}
