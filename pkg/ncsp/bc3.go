package ncsp

// BC3Contractor enforces box consistency on one variable inside one
// constraint's function (§4.4): peel each endpoint by a factor p,
// discard infeasible peels, and refine the remaining slice with a 1-D
// interval Newton step, iterating to a fixed point or a maxiter cap.
type BC3Contractor struct {
	dag     *Dag
	c       *Constraint
	v       *Variable
	peel    float64
	maxIter int
	scope   *Scope
}

// NewBC3Contractor builds the BC3 contractor for variable v inside
// constraint c. peel is the peeling factor p∈(0,1) (0.1 is realpaver's
// usual default); maxIter caps both the peel/Newton loop and the number
// of peels tried per side.
func NewBC3Contractor(dag *Dag, c *Constraint, v *Variable, peel float64, maxIter int) *BC3Contractor {
	return &BC3Contractor{dag: dag, c: c, v: v, peel: peel, maxIter: maxIter, scope: dag.ScopeOf(c.Root())}
}

func (bc *BC3Contractor) Scope() *Scope { return bc.scope }
func (bc *BC3Contractor) DependsOn(slot int) bool { return bc.dag.DependsOn(bc.c.Root(), slot) }

func (bc *BC3Contractor) Contract(box *Box) Proof {
	slot, ok := box.Scope().IndexOf(bc.v)
	if !ok {
		return Maybe
	}
	dom := box.IntervalAt(slot)
	if dom.IsEmpty() {
		return Empty
	}

	left := bc.narrow(box, slot, dom, true)
	if left.IsEmpty() {
		return Empty
	}
	right := bc.narrow(box, slot, left, false)
	if right.IsEmpty() {
		return Empty
	}

	box.SetDomainAt(slot, NewIntervalDomain(right))
	if box.DomainAt(slot).IsEmpty() {
		return Empty
	}
	return Maybe
}

// narrow shrinks one endpoint of cur (the left endpoint if fromLeft,
// else the right), peeling a p-fraction at a time and discarding peels
// that are infeasible outright, then refining a feasible peel with a 1-D
// interval Newton step.
func (bc *BC3Contractor) narrow(box *Box, slot int, cur Interval, fromLeft bool) Interval {
	for iter := 0; iter < bc.maxIter; iter++ {
		width := cur.Width()
		if width <= 0 {
			return cur
		}
		peelWidth := bc.peel * width
		var candidate Interval
		if fromLeft {
			candidate = NewInterval(cur.Lo(), cur.Lo()+peelWidth)
		} else {
			candidate = NewInterval(cur.Hi()-peelWidth, cur.Hi())
		}

		if bc.feasible(box, slot, candidate) {
			refined := bc.newton1D(box, slot, candidate)
			if refined.IsEmpty() {
				// Newton proved this peel infeasible too; drop it and
				// keep peeling from the same side.
			} else {
				if fromLeft {
					return NewInterval(refined.Lo(), cur.Hi())
				}
				return NewInterval(cur.Lo(), refined.Hi())
			}
		}

		if fromLeft {
			next := NewInterval(candidate.Hi(), cur.Hi())
			if next.IsEmpty() || next.Width() >= cur.Width() {
				return cur
			}
			cur = next
		} else {
			next := NewInterval(cur.Lo(), candidate.Lo())
			if next.IsEmpty() || next.Width() >= cur.Width() {
				return cur
			}
			cur = next
		}
	}
	return cur
}

// feasible reports whether the constraint's function, forward-evaluated
// with v pinned to candidate and every other variable at its current box
// value, can possibly satisfy the constraint's image — a necessary, not
// sufficient, condition used only to discard provably-infeasible peels.
func (bc *BC3Contractor) feasible(box *Box, slot int, candidate Interval) bool {
	probe := box.Clone()
	probe.SetDomainAt(slot, NewIntervalDomain(candidate))
	ids := bc.dag.reachableFrom(bc.c.Root())
	for _, id := range ids {
		bc.dag.evalNode(id, probe)
	}
	return bc.dag.ValueAt(bc.c.Root()).Overlaps(bc.c.Image())
}

// newton1D runs a few interval-Newton steps on the univariate thick
// function obtained by pinning v to candidate, using the DAG's
// reverse-mode Jacobian for the derivative enclosure (§4.5's general
// Newton step specialized to n=1).
func (bc *BC3Contractor) newton1D(box *Box, slot int, candidate Interval) Interval {
	cur := candidate
	for i := 0; i < 5; i++ {
		if cur.IsEmpty() {
			return cur
		}
		mid := Singleton(cur.Mid())

		probe := box.Clone()
		probe.SetDomainAt(slot, NewIntervalDomain(mid))
		ids := bc.dag.reachableFrom(bc.c.Root())
		for _, id := range ids {
			bc.dag.evalNode(id, probe)
		}
		fMidVal := bc.dag.ValueAt(bc.c.Root())
		if fMidVal.Overlaps(bc.c.Image()) {
			return cur
		}
		target := clampToInterval(fMidVal.Mid(), bc.c.Image())
		residual := fMidVal.Sub(Singleton(target))

		probe.SetDomainAt(slot, NewIntervalDomain(cur))
		row := bc.dag.JacobianRow(bc.c.Root(), probe, box.Scope())
		deriv := row[slot]

		if deriv.IsEmpty() || (deriv.Lo() <= 0 && deriv.Hi() >= 0) {
			return cur
		}
		step := residual.Div(deriv)
		next := cur.Intersect(mid.Sub(step))
		if next.IsEmpty() {
			return EmptyInterval()
		}
		if next.Width() >= cur.Width() {
			return next
		}
		cur = next
	}
	return cur
}

// clampToInterval projects x onto the nearest point of i; i must be
// non-empty. Used to turn an inequality's half-line image into a
// concrete root-finding target for Newton (its boundary nearest the
// current residual), and degenerates to i's single point for equalities.
func clampToInterval(x float64, i Interval) float64 {
	if x < i.Lo() {
		return i.Lo()
	}
	if x > i.Hi() {
		return i.Hi()
	}
	return x
}
