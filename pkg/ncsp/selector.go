package ncsp

// Selector picks the next variable to split a box on (§4.7). Select
// reports found=false once every variable already satisfies its
// tolerance, meaning the box is canonical and the search node is done.
type Selector interface {
	Scope() *Scope
	Select(box *Box) (slot int, found bool)
}

// violates reports whether slot's current domain still exceeds its
// variable's tolerance, the common "still worth splitting" predicate
// every selector variant below filters candidates by.
func violates(scope *Scope, box *Box, slot int) bool {
	v := scope.At(slot)
	return !v.Tolerance().Satisfied(box.IntervalAt(slot))
}

// RoundRobinSelector cycles through scope's slots in order, always
// resuming just after the last slot it returned, and skips any slot
// already within tolerance (§4.7 "pick the next variable after the last
// split that exceeds its per-variable tolerance").
type RoundRobinSelector struct {
	scope *Scope
	last  int
}

// NewRoundRobinSelector builds a round-robin selector over scope,
// starting the cycle before slot 0.
func NewRoundRobinSelector(scope *Scope) *RoundRobinSelector {
	return &RoundRobinSelector{scope: scope, last: -1}
}

func (s *RoundRobinSelector) Scope() *Scope { return s.scope }

func (s *RoundRobinSelector) Select(box *Box) (int, bool) {
	n := s.scope.Size()
	for i := 1; i <= n; i++ {
		slot := (s.last + i) % n
		if violates(s.scope, box, slot) {
			s.last = slot
			return slot, true
		}
	}
	return 0, false
}

// LargestDomainSelector always returns the widest non-canonical domain,
// ties broken by scope order (§4.7 "Largest domain").
type LargestDomainSelector struct {
	scope *Scope
}

func NewLargestDomainSelector(scope *Scope) *LargestDomainSelector {
	return &LargestDomainSelector{scope: scope}
}

func (s *LargestDomainSelector) Scope() *Scope { return s.scope }

func (s *LargestDomainSelector) Select(box *Box) (int, bool) {
	best := -1.0
	bestSlot := -1
	for slot := 0; slot < s.scope.Size(); slot++ {
		if !violates(s.scope, box, slot) {
			continue
		}
		w := box.IntervalAt(slot).Width()
		if w > best {
			best = w
			bestSlot = slot
		}
	}
	return bestSlot, bestSlot >= 0
}

// SmearSumRelSelector implements §4.7's smear-sum-rel heuristic: for each
// variable v, score Σᵢ |∂fᵢ/∂v| · width(v) / deficit(fᵢ), where deficit(fᵢ)
// is how far constraint i's current evaluated range sits outside its
// target image (the part of the constraint not yet known to hold), and
// pick the variable with the largest total score. A constraint already
// fully inside its image (zero deficit) contributes nothing; a positive
// deficit is floored at a small epsilon to keep the division bounded.
type SmearSumRelSelector struct {
	dag         *Dag
	constraints []*Constraint
	scope       *Scope
}

func NewSmearSumRelSelector(dag *Dag, constraints []*Constraint, scope *Scope) *SmearSumRelSelector {
	return &SmearSumRelSelector{dag: dag, constraints: constraints, scope: scope}
}

func (s *SmearSumRelSelector) Scope() *Scope { return s.scope }

func (s *SmearSumRelSelector) Select(box *Box) (int, bool) {
	n := s.scope.Size()
	scores := make([]float64, n)
	any := false
	for slot := 0; slot < n; slot++ {
		if violates(s.scope, box, slot) {
			any = true
		}
	}
	if !any {
		return 0, false
	}

	for _, c := range s.constraints {
		ids := s.dag.reachableFrom(c.Root())
		for _, id := range ids {
			s.dag.evalNode(id, box)
		}
		fi := s.dag.ValueAt(c.Root())
		deficit := imageDeficit(fi, c.Image())
		if deficit == 0 {
			continue
		}
		if deficit < 1e-12 {
			deficit = 1e-12
		}
		row := s.dag.JacobianRow(c.Root(), box, s.scope)
		for slot, partial := range row {
			if partial.IsEmpty() {
				continue
			}
			mag := maxAbs(partial.Lo(), partial.Hi())
			width := box.IntervalAt(slot).Width()
			scores[slot] += mag * width / deficit
		}
	}

	best := -1.0
	bestSlot := -1
	for slot := 0; slot < n; slot++ {
		if !violates(s.scope, box, slot) {
			continue
		}
		if scores[slot] > best {
			best = scores[slot]
			bestSlot = slot
		}
	}
	return bestSlot, bestSlot >= 0
}

// imageDeficit measures how far i protrudes outside target: the summed
// width of the parts of i lying below target.Lo() or above target.Hi().
// Zero when i is already a subset of target.
func imageDeficit(i, target Interval) float64 {
	if i.IsEmpty() {
		return 0
	}
	deficit := 0.0
	if i.Lo() < target.Lo() {
		hi := target.Lo()
		if i.Hi() < hi {
			hi = i.Hi()
		}
		deficit += hi - i.Lo()
	}
	if i.Hi() > target.Hi() {
		lo := target.Hi()
		if i.Lo() > lo {
			lo = i.Lo()
		}
		deficit += i.Hi() - lo
	}
	return deficit
}

// HybridDomRobinSelector alternates between a largest-domain selector and
// a round-robin selector with period f (§4.7 "Hybrid-dom-robin").
type HybridDomRobinSelector struct {
	scope  *Scope
	dom    *LargestDomainSelector
	robin  *RoundRobinSelector
	period int
	calls  int
}

// NewHybridDomRobinSelector builds a hybrid selector over scope that
// uses largest-domain selection once every period calls and round-robin
// selection otherwise.
func NewHybridDomRobinSelector(scope *Scope, period int) *HybridDomRobinSelector {
	if period < 1 {
		period = 1
	}
	return &HybridDomRobinSelector{
		scope:  scope,
		dom:    NewLargestDomainSelector(scope),
		robin:  NewRoundRobinSelector(scope),
		period: period,
	}
}

func (s *HybridDomRobinSelector) Scope() *Scope { return s.scope }

func (s *HybridDomRobinSelector) Select(box *Box) (int, bool) {
	s.calls++
	if s.calls%s.period == 0 {
		return s.dom.Select(box)
	}
	return s.robin.Select(box)
}
