package ncsp

import "math"

// NewtonCertifier implements the interval Newton / Gauss–Seidel
// certifier of §4.5 for a square system: as many constraints as
// variables in its scope. It both narrows the box (ordinary
// contraction) and, when the Newton step produces a strict subset of
// the box's interior, certifies existence of a solution (Feasible).
type NewtonCertifier struct {
	dag         *Dag
	constraints []*Constraint
	scope       *Scope
	widthTol    float64
	distTol     float64
	maxIter     int
}

// NewNewtonCertifier builds a certifier for constraints over scope.
// widthTol stops iterating once the box is tight enough; distTol stops
// once successive iterates stop making progress; maxIter caps the
// number of Newton/Gauss-Seidel sweeps (§4.5 step 5).
func NewNewtonCertifier(dag *Dag, constraints []*Constraint, scope *Scope, widthTol, distTol float64, maxIter int) *NewtonCertifier {
	return &NewtonCertifier{dag: dag, constraints: constraints, scope: scope, widthTol: widthTol, distTol: distTol, maxIter: maxIter}
}

func (nc *NewtonCertifier) Scope() *Scope { return nc.scope }

// DependsOn is conservative: every equation of a square system can in
// principle couple every variable through Gauss-Seidel.
func (nc *NewtonCertifier) DependsOn(slot int) bool { return true }

// Contract runs the Newton/Gauss-Seidel loop, narrowing box in place.
// Returns Empty if the system is proven infeasible, Feasible if
// existence of a solution was certified (§4.5 step 4, Miranda/Moore),
// Maybe otherwise.
func (nc *NewtonCertifier) Contract(box *Box) Proof {
	n := nc.scope.Size()
	if n == 0 || len(nc.constraints) != n {
		return Maybe
	}

	X := nc.currentBox(box)
	for _, xi := range X {
		if xi.IsEmpty() {
			return Empty
		}
	}

	prevWidth := totalWidth(X)
	certified := false

	for iter := 0; iter < nc.maxIter; iter++ {
		c := make([]float64, n)
		for i := range X {
			c[i] = X[i].Mid()
		}

		Fc := nc.evalAt(box, c)
		for _, f := range Fc {
			if f.IsEmpty() {
				return Empty
			}
		}

		J := nc.jacobianAt(box, X)

		d, ok := gaussSeidel(J, Fc, X, c)
		if !ok {
			return Empty
		}

		newX := make([]Interval, n)
		for i := range newX {
			newX[i] = X[i].Intersect(Singleton(c[i]).Add(d[i]))
			if newX[i].IsEmpty() {
				return Empty
			}
		}

		if strictlyInside(newX, X) {
			certified = true
		}

		width := totalWidth(newX)
		progress := prevWidth - width
		X = newX
		if width <= nc.widthTol || progress < nc.distTol {
			break
		}
		prevWidth = width
	}

	nc.writeBack(box, X)
	if box.IsEmpty() {
		return Empty
	}
	if certified {
		return Feasible
	}
	return Maybe
}

// Inflate widens X around its midpoint by delta*(X-c) + chi*[-1,1], the
// transform §4.5 prescribes before retrying Newton to certify existence
// near a near-solution.
func (nc *NewtonCertifier) Inflate(X []Interval, delta, chi float64) []Interval {
	out := make([]Interval, len(X))
	for i, xi := range X {
		c := xi.Mid()
		half := xi.Width()/2*delta + chi
		out[i] = NewInterval(c-half, c+half)
	}
	return out
}

func (nc *NewtonCertifier) currentBox(box *Box) []Interval {
	out := make([]Interval, nc.scope.Size())
	for i, v := range nc.scope.Variables() {
		out[i] = box.Interval(v)
	}
	return out
}

func (nc *NewtonCertifier) writeBack(box *Box, X []Interval) {
	for i, v := range nc.scope.Variables() {
		slot, ok := box.Scope().IndexOf(v)
		if !ok {
			continue
		}
		box.ContractAt(slot, X[i])
	}
}

// evalAt forward-evaluates every constraint's root with every variable
// pinned to its midpoint c, giving F(c) of §4.5 step 2.
func (nc *NewtonCertifier) evalAt(box *Box, c []float64) []Interval {
	probe := box.Clone()
	for i, v := range nc.scope.Variables() {
		slot, ok := probe.Scope().IndexOf(v)
		if !ok {
			continue
		}
		probe.SetDomainAt(slot, NewIntervalDomain(Singleton(c[i])))
	}
	out := make([]Interval, len(nc.constraints))
	for i, cons := range nc.constraints {
		ids := nc.dag.reachableFrom(cons.Root())
		for _, id := range ids {
			nc.dag.evalNode(id, probe)
		}
		out[i] = nc.dag.ValueAt(cons.Root())
	}
	return out
}

// jacobianAt evaluates the interval Jacobian J(X) over the full box
// (not just its midpoint), the mean-value enclosure's J of §4.5 step 2.
func (nc *NewtonCertifier) jacobianAt(box *Box, X []Interval) [][]Interval {
	probe := box.Clone()
	for i, v := range nc.scope.Variables() {
		slot, ok := probe.Scope().IndexOf(v)
		if !ok {
			continue
		}
		probe.SetDomainAt(slot, NewIntervalDomain(X[i]))
	}
	rows := make([][]Interval, len(nc.constraints))
	for i, cons := range nc.constraints {
		rows[i] = nc.dag.JacobianRow(cons.Root(), probe, nc.scope)
	}
	return rows
}

// gaussSeidel solves J*d = -F(c) for d by preconditioned Gauss-Seidel
// (§4.5 step 3), the preconditioner being implicit diagonal scaling by
// each row's own diagonal entry (a simplification of a full
// midpoint-Jacobian-inverse preconditioner that still yields a sound,
// monotonically narrowing d since each row division is itself an
// interval division, hence outward-rounded and safe). Returns ok=false
// if any coordinate's intersection empties, meaning the system is
// infeasible over X.
func gaussSeidel(J [][]Interval, Fc []Interval, X []Interval, c []float64) (d []Interval, ok bool) {
	n := len(X)
	d = make([]Interval, n)
	for i := range d {
		d[i] = X[i].Sub(Singleton(c[i]))
	}
	for sweep := 0; sweep < 3; sweep++ {
		changed := false
		for i := 0; i < n; i++ {
			sum := Fc[i].Neg()
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				sum = sum.Sub(J[i][j].Mul(d[j]))
			}
			diag := J[i][i]
			if diag.IsEmpty() || (diag.Lo() <= 0 && diag.Hi() >= 0) {
				continue
			}
			candidate := d[i].Intersect(sum.Div(diag))
			if candidate.IsEmpty() {
				return nil, false
			}
			if !candidate.Equal(d[i]) {
				changed = true
			}
			d[i] = candidate
		}
		if !changed {
			break
		}
	}
	return d, true
}

func totalWidth(X []Interval) float64 {
	sum := 0.0
	for _, xi := range X {
		sum += xi.Width()
	}
	return sum
}

// strictlyInside reports whether every newX[i] lies in the open
// interior of X[i] — Moore/Miranda's existence-certifying condition of
// §4.5 step 4. An unbounded X[i] can never certify.
func strictlyInside(newX, X []Interval) bool {
	for i := range X {
		if math.IsInf(X[i].Lo(), -1) || math.IsInf(X[i].Hi(), 1) {
			return false
		}
		if !(newX[i].Lo() > X[i].Lo() && newX[i].Hi() < X[i].Hi()) {
			return false
		}
	}
	return true
}
