package wfc

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/wavegen/internal/logger"
)

// Options configures a TilePropagator.
type Options struct {
	// BacktrackDepth: 0 disables backtracking, <0 is unlimited, >0
	// bounds the journal to that many decision frames.
	BacktrackDepth int
	Constraints    []Constraint
	Random         *rand.Rand
}

type queueItem struct {
	cell, pattern int
}

type decisionFrame struct {
	cell, pattern int
	hasChoice     bool
}

// TilePropagator is the public solver object: it owns a Wave, drives
// propagation, the observer loop, and constraint dispatch, and lifts
// tile-space operations into the underlying pattern space via a
// TileModelMapping. Not safe for concurrent use (spec.md §5).
type TilePropagator struct {
	wave     *Wave
	topology *Topology
	mapping  *TileModelMapping
	rotation *TileRotation

	journal     *journal
	decisions   []decisionFrame
	constraints []Constraint
	rnd         *rand.Rand

	queue          []queueItem
	status         Status
	backtrackCount int
}

// NewTilePropagator compiles model, builds a Wave over topology, runs
// every constraint's Init, and drains propagation once before returning
// — matching spec.md §4.2/§4.5's "called once after wave initialization".
func NewTilePropagator(model *TileModel, topology *Topology, opts Options) (*TilePropagator, error) {
	patterns, mapping, err := Compile(model)
	if err != nil {
		return nil, err
	}

	rnd := opts.Random
	if rnd == nil {
		rnd = rand.New(rand.NewSource(1))
	}

	p := &TilePropagator{
		wave:        newWave(topology, patterns, rnd),
		topology:    topology,
		mapping:     mapping,
		rotation:    model.Rotation,
		journal:     newJournal(opts.BacktrackDepth),
		constraints: append([]Constraint(nil), opts.Constraints...),
		rnd:         rnd,
		status:      StatusUndecided,
	}

	p.seedInitialBans()
	if p.status != StatusContradiction {
		p.initConstraints()
	}
	return p, nil
}

// seedInitialBans enforces arc-consistency (spec.md §3 invariant 1)
// before anything else touches the wave. A pattern with no compatible
// neighbor at all in some direction (Prop[p][dir] empty) has
// compat[i][p][dir]==0 the instant the wave is created, for every cell
// i that actually has a neighbor in dir — but nothing has enqueued it
// for a ban yet, since drain only bans on a decrement reaching zero.
// Left unbanned, such a pattern can be selected directly by the
// observer despite having no legal neighbor (spec.md §8 scenario 3:
// empty adjacency must yield Contradiction, not a decided-but-illegal
// output).
func (p *TilePropagator) seedInitialBans() {
	directions := p.wave.Patterns.Directions
	count := p.wave.Patterns.Count
	for _, dir := range directions.All() {
		var deadEnd []int
		for pid := 0; pid < count; pid++ {
			if p.wave.Patterns.Prop[pid][dir].popcount() == 0 {
				deadEnd = append(deadEnd, pid)
			}
		}
		if len(deadEnd) == 0 {
			continue
		}
		for i := 0; i < p.topology.Size(); i++ {
			if p.topology.IsMasked(i) {
				continue
			}
			if _, ok := p.topology.Neighbor(i, dir); !ok {
				continue
			}
			for _, pid := range deadEnd {
				p.banPattern(i, pid)
			}
			if p.status == StatusContradiction {
				return
			}
		}
	}
	p.drain()
	if p.wave.status() == StatusContradiction {
		p.status = StatusContradiction
	}
}

func (p *TilePropagator) initConstraints() {
	for _, c := range p.constraints {
		if p.status == StatusContradiction {
			break
		}
		c.Init(p)
	}
	p.drain()
	if p.wave.status() == StatusContradiction {
		p.status = StatusContradiction
	}
	if p.status != StatusContradiction {
		p.runConstraintsAndDrain()
	}
}

// Clear resets the wave to its initial "all patterns possible" state and
// re-runs constraint initialization.
func (p *TilePropagator) Clear() {
	p.wave.reset(p.rnd)
	p.journal = newJournal(p.journal.maxDepth)
	p.decisions = nil
	p.queue = nil
	p.status = StatusUndecided
	p.backtrackCount = 0
	p.initConstraints()
}

// Status returns the propagator's current classification.
func (p *TilePropagator) Status() Status { return p.status }

// BacktrackCount returns how many times backtrack() has run.
func (p *TilePropagator) BacktrackCount() int { return p.backtrackCount }

// PatternCount returns the number of compiled patterns the underlying
// model produced.
func (p *TilePropagator) PatternCount() int { return p.wave.Patterns.Count }

// Progress returns the fraction of unmasked cells that are Decided.
func (p *TilePropagator) Progress() float64 {
	total, decided := 0, 0
	for i := 0; i < p.topology.Size(); i++ {
		if p.topology.IsMasked(i) {
			continue
		}
		total++
		if p.wave.patternCount[i] == 1 {
			decided++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(decided) / float64(total)
}

// SetContradiction forces the propagator into the Contradiction status;
// constraints call this when they detect a violation that banning
// alone cannot express directly.
func (p *TilePropagator) SetContradiction() {
	p.status = StatusContradiction
}

// RegisterUndo journals an arbitrary undo closure alongside the
// propagator's own bit/counter restores, so constraint-owned state
// rolls back correctly on backtrack.
func (p *TilePropagator) RegisterUndo(undo func()) {
	p.journal.record(undo)
}

// Topology exposes the output topology, read-only, for constraints that
// need to reason about neighbors or bounds.
func (p *TilePropagator) Topology() *Topology { return p.topology }

// RandomUnmaskedCell picks a uniformly random unmasked cell's tile-space
// coordinates, for constraints that accept an unspecified point (e.g.
// FixedTile). Returns ok=false if every cell is masked.
func (p *TilePropagator) RandomUnmaskedCell() (x, y, z int, ok bool) {
	var candidates []int
	for i := 0; i < p.topology.Size(); i++ {
		if !p.topology.IsMasked(i) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, 0, 0, false
	}
	i := candidates[p.rnd.Intn(len(candidates))]
	x, y, z = p.topology.Coords(i)
	return x, y, z, true
}

// --- tile-space lifting -----------------------------------------------

func (p *TilePropagator) lookupPatterns(offset int, tile Tile) *bitset {
	if b := p.mapping.TilesToPatterns(offset, tile); b != nil {
		return b
	}
	canon := p.rotation.Canonicalize(tile)
	return p.mapping.TilesToPatterns(offset, canon)
}

// Ban removes tile as a possibility at (x,y,z).
func (p *TilePropagator) Ban(x, y, z int, tile Tile) error {
	return p.BanSet(x, y, z, []Tile{tile})
}

// BanSet removes every tile in tiles as a possibility at (x,y,z).
func (p *TilePropagator) BanSet(x, y, z int, tiles []Tile) error {
	i := p.topology.Index(x, y, z)
	pc, offset := p.mapping.CellOffset(i)
	for _, tile := range tiles {
		patterns := p.lookupPatterns(offset, tile)
		if patterns == nil {
			continue
		}
		patterns.forEach(func(pid int) bool {
			p.banPattern(pc, pid)
			return true
		})
	}
	p.drain()
	return nil
}

// Select commits (x,y,z) to tile, banning every other remaining pattern
// there in a single batch.
func (p *TilePropagator) Select(x, y, z int, tile Tile) error {
	return p.SelectSet(x, y, z, []Tile{tile})
}

// SelectSet commits (x,y,z) to the union of tiles' patterns.
func (p *TilePropagator) SelectSet(x, y, z int, tiles []Tile) error {
	i := p.topology.Index(x, y, z)
	pc, offset := p.mapping.CellOffset(i)
	allowed := newBitset(p.wave.Patterns.Count)
	for _, tile := range tiles {
		patterns := p.lookupPatterns(offset, tile)
		if patterns == nil {
			return &ConfigurationError{Message: "tile not recognized by model at this offset"}
		}
		for i := range allowed.words {
			allowed.words[i] |= patterns.words[i]
		}
	}
	p.selectPatterns(pc, &allowed, -1, false)
	return nil
}

// IsBanned reports whether none of tile's patterns remain possible at
// (x,y,z).
func (p *TilePropagator) IsBanned(x, y, z int, tile Tile) bool {
	i := p.topology.Index(x, y, z)
	pc, offset := p.mapping.CellOffset(i)
	patterns := p.lookupPatterns(offset, tile)
	if patterns == nil {
		return true
	}
	return !p.wave.possible[pc].intersects(patterns)
}

// IsSelected reports whether tile is the only tile still possible at
// (x,y,z): every remaining pattern there resolves to one of tile's
// patterns.
func (p *TilePropagator) IsSelected(x, y, z int, tile Tile) bool {
	i := p.topology.Index(x, y, z)
	pc, offset := p.mapping.CellOffset(i)
	patterns := p.lookupPatterns(offset, tile)
	if patterns == nil || p.wave.patternCount[pc] == 0 {
		return false
	}
	selected := true
	p.wave.possible[pc].forEach(func(q int) bool {
		if !patterns.get(q) {
			selected = false
			return false
		}
		return true
	})
	return selected
}

// GetBannedSelected reports both IsBanned and IsSelected for tile at
// (x,y,z) from a single wave lookup.
func (p *TilePropagator) GetBannedSelected(x, y, z int, tile Tile) (banned, selected bool) {
	i := p.topology.Index(x, y, z)
	pc, offset := p.mapping.CellOffset(i)
	patterns := p.lookupPatterns(offset, tile)
	if patterns == nil {
		return true, false
	}
	if !p.wave.possible[pc].intersects(patterns) {
		return true, false
	}
	if p.wave.patternCount[pc] == 0 {
		return false, false
	}
	selected = true
	p.wave.possible[pc].forEach(func(q int) bool {
		if !patterns.get(q) {
			selected = false
			return false
		}
		return true
	})
	return false, selected
}

// ToArray decodes every cell to a single tile: undecided for cells with
// more than one remaining pattern, contradiction for cells with none.
func (p *TilePropagator) ToArray(undecided, contradiction Tile) []Tile {
	out := make([]Tile, p.topology.Size())
	for i := range out {
		if p.topology.IsMasked(i) {
			out[i] = undecided
			continue
		}
		pc, offset := p.mapping.CellOffset(i)
		switch p.wave.patternCount[pc] {
		case 0:
			out[i] = contradiction
		case 1:
			pid := firstSetBit(&p.wave.possible[pc])
			out[i] = p.mapping.PatternToTile(offset, pid)
		default:
			out[i] = undecided
		}
	}
	return out
}

// ToArraySets decodes every cell to its full set of remaining tiles.
func (p *TilePropagator) ToArraySets() [][]Tile {
	out := make([][]Tile, p.topology.Size())
	for i := range out {
		pc, offset := p.mapping.CellOffset(i)
		var tiles []Tile
		p.wave.possible[pc].forEach(func(q int) bool {
			tiles = append(tiles, p.mapping.PatternToTile(offset, q))
			return true
		})
		out[i] = tiles
	}
	return out
}

func firstSetBit(b *bitset) int {
	pid := -1
	b.forEach(func(q int) bool {
		pid = q
		return false
	})
	return pid
}

// ToValueArray decodes every cell through decode, the way ToArray does
// for raw Tile values. A free function, not a method, since Go methods
// cannot carry their own type parameters.
func ToValueArray[T any](p *TilePropagator, decode func(Tile) T, undecided, contradiction T) []T {
	out := make([]T, p.topology.Size())
	for i := range out {
		if p.topology.IsMasked(i) {
			out[i] = undecided
			continue
		}
		pc, offset := p.mapping.CellOffset(i)
		switch p.wave.patternCount[pc] {
		case 0:
			out[i] = contradiction
		case 1:
			pid := firstSetBit(&p.wave.possible[pc])
			out[i] = decode(p.mapping.PatternToTile(offset, pid))
		default:
			out[i] = undecided
		}
	}
	return out
}

// ToValueSets decodes every cell's full remaining tile set through decode.
func ToValueSets[T any](p *TilePropagator, decode func(Tile) T) [][]T {
	sets := p.ToArraySets()
	out := make([][]T, len(sets))
	for i, s := range sets {
		vs := make([]T, len(s))
		for j, t := range s {
			vs[j] = decode(t)
		}
		out[i] = vs
	}
	return out
}

// --- propagation core ---------------------------------------------------

// banPattern is the sole mutator of possible bits (spec.md §4.3). A
// no-op ban (bit already clear) is neither journaled nor enqueued.
func (p *TilePropagator) banPattern(i, pid int) {
	_, ok := p.wave.banBit(i, pid)
	if !ok {
		return
	}
	ic, pc := i, pid
	p.journal.record(func() { p.wave.restoreBit(ic, pc) })
	p.queue = append(p.queue, queueItem{i, pid})
	logger.Ban(i, pid)
	if p.wave.patternCount[i] == 0 {
		p.status = StatusContradiction
		logger.Contradiction(i)
	}
}

// drain processes the propagation queue to quiescence, per spec.md
// §4.3. On contradiction the remaining queue is discarded.
func (p *TilePropagator) drain() {
	directions := p.wave.Patterns.Directions
	for len(p.queue) > 0 {
		item := p.queue[0]
		p.queue = p.queue[1:]

		for _, dir := range directions.All() {
			j, ok := p.topology.Neighbor(item.cell, dir)
			if !ok {
				continue
			}
			opp := directions.Opposite(dir)
			contradiction := false
			p.wave.Patterns.Prop[item.pattern][dir].forEach(func(q int) bool {
				newVal := p.wave.decCompat(j, q, opp)
				jc, qc := j, q
				p.journal.record(func() { p.wave.incCompat(jc, qc, opp) })
				if newVal == 0 && p.wave.isPossible(j, q) {
					p.banPattern(j, q)
					if p.status == StatusContradiction {
						contradiction = true
						return false
					}
				}
				return true
			})
			if contradiction {
				p.queue = nil
				return
			}
		}
	}
}

func (p *TilePropagator) openFrame(cell, pattern int, hasChoice bool) {
	p.journal.openFrame()
	if !p.journal.enabled() {
		return
	}
	p.decisions = append(p.decisions, decisionFrame{cell, pattern, hasChoice})
	if p.journal.maxDepth > 0 && len(p.decisions) > p.journal.maxDepth {
		p.decisions = p.decisions[1:]
	}
}

func (p *TilePropagator) popDecision() (decisionFrame, bool) {
	if len(p.decisions) == 0 {
		return decisionFrame{}, false
	}
	d := p.decisions[len(p.decisions)-1]
	p.decisions = p.decisions[:len(p.decisions)-1]
	return d, true
}

// selectPatterns bans every remaining pattern at cell i not in allowed,
// in a single journaled decision frame, then drains.
func (p *TilePropagator) selectPatterns(i int, allowed *bitset, chosenPattern int, hasChoice bool) {
	p.openFrame(i, chosenPattern, hasChoice)
	for pid := 0; pid < p.wave.Patterns.Count; pid++ {
		if p.status == StatusContradiction {
			break
		}
		if !allowed.get(pid) && p.wave.isPossible(i, pid) {
			p.banPattern(i, pid)
		}
	}
	p.drain()
}

// --- observer / decision loop -------------------------------------------

// Step performs one observer iteration: pick the minimum-entropy cell,
// weighted-random-pick a pattern, select it, drain, run constraints, and
// backtrack on contradiction.
func (p *TilePropagator) Step() Status {
	if p.status != StatusUndecided {
		return p.status
	}

	i, ok := p.pickCell()
	if !ok {
		p.status = StatusDecided
		return p.status
	}

	pid := p.weightedPick(i)
	allowed := newBitset(p.wave.Patterns.Count)
	allowed.set(pid)
	p.selectPatterns(i, &allowed, pid, true)

	if p.status != StatusContradiction {
		p.runConstraintsAndDrain()
	}

	if p.status == StatusContradiction || p.wave.status() == StatusContradiction {
		p.status = StatusContradiction
		return p.backtrack()
	}
	if p.wave.status() == StatusDecided {
		p.status = StatusDecided
		return p.status
	}
	p.status = StatusUndecided
	return p.status
}

// Run repeats Step until a terminal status is reached.
func (p *TilePropagator) Run() Status {
	for {
		s := p.Step()
		if s != StatusUndecided {
			return s
		}
	}
}

func (p *TilePropagator) runConstraintsAndDrain() {
	for _, c := range p.constraints {
		if p.status == StatusContradiction {
			return
		}
		c.Check(p)
		p.drain()
		if p.wave.status() == StatusContradiction {
			p.status = StatusContradiction
			return
		}
	}
}

func (p *TilePropagator) pickCell() (int, bool) {
	best := -1
	bestEntropy := math.Inf(1)
	for i := 0; i < p.topology.Size(); i++ {
		if p.topology.IsMasked(i) || p.wave.patternCount[i] <= 1 {
			continue
		}
		e := p.wave.entropy(i)
		if e < bestEntropy {
			bestEntropy = e
			best = i
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func (p *TilePropagator) weightedPick(i int) int {
	total := 0.0
	p.wave.possible[i].forEach(func(q int) bool {
		total += p.wave.Patterns.Weights[q]
		return true
	})
	r := p.rnd.Float64() * total
	chosen := -1
	p.wave.possible[i].forEach(func(q int) bool {
		r -= p.wave.Patterns.Weights[q]
		if r <= 0 {
			chosen = q
			return false
		}
		return true
	})
	if chosen == -1 {
		p.wave.possible[i].forEach(func(q int) bool {
			chosen = q
			return true
		})
	}
	return chosen
}

// backtrack pops the latest decision frame, restores its bans, then
// bans the choice that led there so it is not retried, per spec.md
// §4.4. Recurses on a fresh contradiction; returns Contradiction once
// the journal is exhausted.
func (p *TilePropagator) backtrack() Status {
	if !p.journal.enabled() || !p.journal.hasFrames() {
		p.status = StatusContradiction
		return p.status
	}

	d, _ := p.popDecision()
	p.journal.popFrame()
	p.backtrackCount++
	p.status = StatusUndecided
	logger.Backtrack(p.backtrackCount, d.cell)

	if d.hasChoice {
		p.banPattern(d.cell, d.pattern)
		p.drain()
	}

	if p.status == StatusContradiction {
		return p.backtrack()
	}
	return StatusUndecided
}
