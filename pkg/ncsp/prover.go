package ncsp

// certainlyHolds reports whether value certainly satisfies rel against
// zero, honoring strictness exactly (unlike RelKind.image, which treats
// a strict inequality as its non-strict closure for contraction
// purposes). This is the one place §4.10's "every constraint is
// certainly satisfied" classification needs the strict/non-strict
// distinction the DAG's own propagation deliberately elides.
func certainlyHolds(rel RelKind, value Interval) bool {
	zero := Singleton(0)
	switch rel {
	case RelEq:
		return value.CertainlyEq(zero)
	case RelLe:
		return value.CertainlyLe(zero)
	case RelLt:
		return value.CertainlyLt(zero)
	case RelGe:
		return zero.CertainlyLe(value)
	case RelGt:
		return zero.CertainlyLt(value)
	default:
		return false
	}
}

// ClassifyInner reports whether every constraint is certainly satisfied
// everywhere in box (§4.10 "Inner-region classification is separate: a
// box is Inner iff every constraint is certainly satisfied on the box").
func ClassifyInner(dag *Dag, constraints []*Constraint, box *Box) bool {
	for _, c := range constraints {
		for _, id := range dag.reachableFrom(c.Root()) {
			dag.evalNode(id, box)
		}
		if !certainlyHolds(c.Rel(), dag.ValueAt(c.Root())) {
			return false
		}
	}
	return true
}

// Prover implements §4.10: given a candidate solution box and a square
// subsystem of equations, run Newton with inflation retries up to
// maxInflate, upgrading Maybe to Feasible on strict inclusion. Empty at
// any point discards the candidate.
type Prover struct {
	newton     *NewtonCertifier
	delta      float64
	chi        float64
	maxInflate int
}

// NewProver builds a prover around newton, retrying up to maxInflate
// inflation rounds (§4.5 "Inflation") with the given delta/chi.
func NewProver(newton *NewtonCertifier, delta, chi float64, maxInflate int) *Prover {
	return &Prover{newton: newton, delta: delta, chi: chi, maxInflate: maxInflate}
}

// Certify runs Newton on a clone of box, then retries with progressively
// inflated boxes until existence is certified, the system is proven
// infeasible, or maxInflate rounds are exhausted. Returns the certified
// proof and the box it was certified on (nil on Empty).
func (p *Prover) Certify(box *Box) (Proof, *Box) {
	trial := box.Clone()
	proof := p.newton.Contract(trial)
	if proof == Empty {
		return Empty, nil
	}
	if proof == Feasible {
		return Feasible, trial
	}

	X := p.newton.currentBox(trial)
	for i := 0; i < p.maxInflate; i++ {
		inflated := p.newton.Inflate(X, p.delta, p.chi)
		attempt := box.Clone()
		p.newton.writeBack(attempt, inflated)

		proof = p.newton.Contract(attempt)
		if proof == Feasible {
			return Feasible, attempt
		}
		if proof == Empty {
			break
		}
		X = p.newton.currentBox(attempt)
	}
	return Maybe, box
}
