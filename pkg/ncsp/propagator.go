package ncsp

// Propagator is the AC3-style fixed-point scheduler of §4.6: a queue of
// contractors, initially full, where contracting one re-enqueues every
// other contractor whose depends_on bit overlaps a variable that just
// shrunk by more than relTol. Confluence (§4.6 "the final box is
// independent of pop order") follows from HC4/BC3/BC4/Newton all being
// monotone and contracting, which this type itself does not need to
// know — it only needs every member contractor to honor that contract.
//
// Every contractor's DependsOn(slot) must be indexed against the same
// global scope (typically the Dag's own scope, the scope passed to
// NewDag) for the re-enqueue bookkeeping to mean anything; scope here is
// that global scope, not the union of the contractors' individual ones.
type Propagator struct {
	contractors []Contractor
	scope       *Scope
	relTol      float64
	iterCap     int
}

// NewPropagator builds a propagator over contractors, all sharing
// scope's slot numbering. relTol is the relative width-reduction
// threshold that triggers re-enqueuing dependents; iterCap bounds the
// total number of contract calls.
func NewPropagator(contractors []Contractor, scope *Scope, relTol float64, iterCap int) *Propagator {
	return &Propagator{contractors: contractors, scope: scope, relTol: relTol, iterCap: iterCap}
}

func (p *Propagator) Scope() *Scope { return p.scope }

func (p *Propagator) DependsOn(slot int) bool {
	for _, c := range p.contractors {
		if c.DependsOn(slot) {
			return true
		}
	}
	return false
}

// Contract drains the queue, returning Empty as soon as any contractor
// does, the min-fold of every non-Empty proof otherwise (matching
// ListContractor's proof-fusion rule, since a propagator is in effect a
// List contractor with dynamic re-scheduling instead of one static
// left-to-right pass).
func (p *Propagator) Contract(box *Box) Proof {
	n := len(p.contractors)
	if n == 0 {
		return Inner
	}

	queue := make([]int, n)
	inQueue := make([]bool, n)
	for i := range queue {
		queue[i] = i
		inQueue[i] = true
	}

	proof := Inner
	iterations := 0

	for len(queue) > 0 {
		if iterations >= p.iterCap {
			break
		}
		iterations++

		idx := queue[0]
		queue = queue[1:]
		inQueue[idx] = false

		before := p.snapshotWidths(box)
		result := p.contractors[idx].Contract(box)
		if result == Empty {
			return Empty
		}
		proof = MinProof(proof, result)

		for _, slot := range p.shrunkSlots(before, box) {
			for ci, c := range p.contractors {
				if ci == idx || inQueue[ci] {
					continue
				}
				if c.DependsOn(slot) {
					queue = append(queue, ci)
					inQueue[ci] = true
				}
			}
		}
	}
	return proof
}

func (p *Propagator) snapshotWidths(box *Box) []float64 {
	out := make([]float64, p.scope.Size())
	for i, v := range p.scope.Variables() {
		out[i] = box.Interval(v).Width()
	}
	return out
}

// shrunkSlots reports the slots whose width dropped by more than relTol
// relative to its value in before.
func (p *Propagator) shrunkSlots(before []float64, box *Box) []int {
	var out []int
	for i, v := range p.scope.Variables() {
		b := before[i]
		if b == 0 {
			continue
		}
		after := box.Interval(v).Width()
		if (b-after)/b > p.relTol {
			out = append(out, i)
		}
	}
	return out
}
