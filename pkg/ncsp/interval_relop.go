package ncsp

// This file implements the projection primitives of §4.1: op_pX, op_pY,
// op_pZ for a binary constraint z = op(x, y), and the unary equivalent
// z = op(x). These are the atoms HC4-revise (dag_project.go) composes
// into a full reverse-projection sweep over the DAG. Each primitive
// intersects its own current stored interval with the value implied by
// the other two/one, so repeated application monotonically narrows and
// is safe to iterate to a fixed point (§8 "Monotonicity").

// ProjAdd narrows (x, y, z) for the constraint z = x + y.
func ProjAdd(x, y, z Interval) (nx, ny, nz Interval) {
	nz = z.Intersect(x.Add(y))
	nx = x.Intersect(nz.Sub(y))
	ny = y.Intersect(nz.Sub(x))
	return
}

// ProjSub narrows (x, y, z) for the constraint z = x - y.
func ProjSub(x, y, z Interval) (nx, ny, nz Interval) {
	nz = z.Intersect(x.Sub(y))
	nx = x.Intersect(nz.Add(y))
	ny = y.Intersect(x.Sub(nz))
	return
}

// ProjMul narrows (x, y, z) for the constraint z = x * y.
func ProjMul(x, y, z Interval) (nx, ny, nz Interval) {
	nz = z.Intersect(x.Mul(y))
	if !y.IsEmpty() && !(y.lo <= 0 && y.hi >= 0) {
		nx = x.Intersect(nz.Div(y))
	} else {
		nx = x
	}
	if !x.IsEmpty() && !(x.lo <= 0 && x.hi >= 0) {
		ny = y.Intersect(nz.Div(x))
	} else {
		ny = y
	}
	return
}

// ProjDiv narrows (x, y, z) for the constraint z = x / y.
func ProjDiv(x, y, z Interval) (nx, ny, nz Interval) {
	nz = z.Intersect(x.Div(y))
	nx = x.Intersect(nz.Mul(y))
	if !nz.IsEmpty() && !(nz.lo <= 0 && nz.hi >= 0) {
		ny = y.Intersect(x.Div(nz))
	} else {
		ny = y
	}
	return
}

// ProjMin narrows (x, y, z) for the constraint z = min(x, y).
func ProjMin(x, y, z Interval) (nx, ny, nz Interval) {
	nz = z.Intersect(x.Min(y))
	// x >= z is necessary whenever x could be the argmin; same for y.
	nx = x.Intersect(NewInterval(nz.lo, x.hi))
	ny = y.Intersect(NewInterval(nz.lo, y.hi))
	return
}

// ProjMax narrows (x, y, z) for the constraint z = max(x, y).
func ProjMax(x, y, z Interval) (nx, ny, nz Interval) {
	nz = z.Intersect(x.Max(y))
	nx = x.Intersect(NewInterval(x.lo, nz.hi))
	ny = y.Intersect(NewInterval(y.lo, nz.hi))
	return
}

// ProjNeg narrows (x, z) for z = -x.
func ProjNeg(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Neg())
	nx = x.Intersect(nz.Neg())
	return
}

// ProjAbs narrows (x, z) for z = |x|.
func ProjAbs(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Abs())
	if nz.IsEmpty() {
		return EmptyInterval(), EmptyInterval()
	}
	allowed := NewInterval(-nz.hi, nz.hi)
	nx = x.Intersect(allowed)
	return
}

// ProjSqr narrows (x, z) for z = x^2.
func ProjSqr(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Sqr())
	if nz.IsEmpty() || nz.hi < 0 {
		return EmptyInterval(), EmptyInterval()
	}
	root := nz.Sqrt()
	allowed := root.Neg().Hull(root)
	nx = x.Intersect(allowed)
	return
}

// ProjSqrt narrows (x, z) for z = sqrt(x).
func ProjSqrt(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Sqrt())
	nx = x.Intersect(nz.Sqr())
	return
}

// ProjExp narrows (x, z) for z = exp(x).
func ProjExp(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Exp())
	nx = x.ExpRel(nz)
	return
}

// ProjLog narrows (x, z) for z = log(x).
func ProjLog(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Log())
	nx = x.LogRel(nz)
	return
}

// ProjCos narrows (x, z) for z = cos(x).
func ProjCos(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Cos())
	nx = x.CosRel(nz)
	return
}

// ProjSin narrows (x, z) for z = sin(x).
func ProjSin(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Sin())
	nx = x.SinRel(nz)
	return
}

// ProjTan narrows (x, z) for z = tan(x).
func ProjTan(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.Tan())
	nx = x.TanRel(nz)
	return
}

// ProjPowN narrows (x, z) for z = x^n, n a small non-negative integer
// rewritten by the term layer (§4.2); odd powers are monotone and invert
// directly, even powers fold back to ProjSqr-style branch selection.
func ProjPowN(x, z Interval, n int) (nx, nz Interval) {
	nz = z.Intersect(x.PowN(n))
	if n%2 == 1 {
		// monotone increasing: invert via n-th root preserving sign
		if nz.IsEmpty() {
			return EmptyInterval(), EmptyInterval()
		}
		nx = x.Intersect(nthRootOdd(nz, n))
		return
	}
	if nz.IsEmpty() || nz.hi < 0 {
		return EmptyInterval(), EmptyInterval()
	}
	root := nthRootEven(nz, n)
	allowed := root.Neg().Hull(root)
	nx = x.Intersect(allowed)
	return
}

// ProjSgn narrows (x, z) for z = sgn(x), case-analyzing the 3-bit sign
// lattice of §4.1.
func ProjSgn(x, z Interval) (nx, nz Interval) {
	nz = z.Intersect(x.SgnInterval())
	if nz.IsEmpty() {
		return EmptyInterval(), EmptyInterval()
	}
	allowNeg := nz.Contains(-1)
	allowZero := nz.Contains(0)
	allowPos := nz.Contains(1)
	lo, hi := x.lo, x.hi
	if !allowNeg && lo < 0 {
		lo = 0
	}
	if !allowPos && hi > 0 {
		hi = 0
	}
	if !allowZero {
		// cannot represent the single excluded point 0 in an Interval hull;
		// soundly keep it (a Domain-level contractor can split it out).
	}
	nx = x.Intersect(NewInterval(lo, hi))
	return
}
