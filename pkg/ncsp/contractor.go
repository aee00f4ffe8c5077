package ncsp

// Contractor is the uniform interface of §4.3: every operator that
// narrows a Box implements scope/depends_on/contract. Contractor
// instances are shared, immutable once built, and safe to reference
// from multiple pools (§9 "Contractor instances ... are shared across
// all boxes but parameterized only at construction").
type Contractor interface {
	// Scope returns the variables this contractor can narrow.
	Scope() *Scope
	// DependsOn reports whether this contractor's outcome can change
	// when the variable occupying slot (in some ambient scope) changes.
	DependsOn(slot int) bool
	// Contract mutates box in place, returning its Proof. On Empty the
	// box is left unspecified; callers must discard it rather than keep
	// reading (§4.3).
	Contract(box *Box) Proof
}

// HC4Contractor applies one HC4-revise pass for a single constraint
// (§4.4 "HC4 is a single reverse-projection pass over one DAG
// function").
type HC4Contractor struct {
	dag   *Dag
	c     *Constraint
	scope *Scope
}

// NewHC4Contractor builds the HC4 contractor for constraint c over dag.
func NewHC4Contractor(dag *Dag, c *Constraint) *HC4Contractor {
	return &HC4Contractor{dag: dag, c: c, scope: dag.ScopeOf(c.Root())}
}

func (hc *HC4Contractor) Scope() *Scope { return hc.scope }
func (hc *HC4Contractor) DependsOn(slot int) bool { return hc.dag.DependsOn(hc.c.Root(), slot) }
func (hc *HC4Contractor) Contract(box *Box) Proof { return hc.dag.Revise(hc.c, box) }

// ListContractor applies its children left-to-right, short-circuiting on
// Empty and merging proofs by min over the non-Empty outcomes (§4.3).
type ListContractor struct {
	children []Contractor
	scope    *Scope
}

// NewListContractor builds a list contractor from children, computing
// its aggregate scope as the union of every child's scope.
func NewListContractor(children ...Contractor) *ListContractor {
	scope := NewScope()
	for _, c := range children {
		scope = scope.Union(c.Scope())
	}
	return &ListContractor{children: children, scope: scope}
}

func (l *ListContractor) Scope() *Scope { return l.scope }

func (l *ListContractor) DependsOn(slot int) bool {
	for _, c := range l.children {
		if c.DependsOn(slot) {
			return true
		}
	}
	return false
}

func (l *ListContractor) Contract(box *Box) Proof {
	proof := Inner
	for _, c := range l.children {
		p := c.Contract(box)
		if p == Empty {
			return Empty
		}
		proof = MinProof(proof, p)
	}
	return proof
}

// LoopContractor iterates a single operator to a fixed point: repeat
// until the relative width reduction across a full pass drops below tau,
// or maxIter passes have run (§4.3 "Loop contractor"). Termination is
// guaranteed by the wrapped operator's contraction monotonicity.
type LoopContractor struct {
	inner   Contractor
	tau     float64
	maxIter int
}

// NewLoopContractor wraps inner, iterating until progress falls below
// tau (relative width reduction per pass) or maxIter passes have run.
func NewLoopContractor(inner Contractor, tau float64, maxIter int) *LoopContractor {
	return &LoopContractor{inner: inner, tau: tau, maxIter: maxIter}
}

func (lp *LoopContractor) Scope() *Scope { return lp.inner.Scope() }
func (lp *LoopContractor) DependsOn(slot int) bool { return lp.inner.DependsOn(slot) }

func (lp *LoopContractor) Contract(box *Box) Proof {
	proof := Inner
	for pass := 0; pass < lp.maxIter; pass++ {
		before := scopeWidthSum(lp.Scope(), box)
		p := lp.inner.Contract(box)
		if p == Empty {
			return Empty
		}
		proof = MinProof(proof, p)
		after := scopeWidthSum(lp.Scope(), box)
		if before == 0 || (before-after)/before < lp.tau {
			break
		}
	}
	return proof
}

func scopeWidthSum(scope *Scope, box *Box) float64 {
	sum := 0.0
	for _, v := range scope.Variables() {
		sum += box.Interval(v).Width()
	}
	return sum
}

// CIDContractor (§4.3 "CID / Max-CID") slices sliceVar's domain into k
// slices, contracts inner independently on each, and replaces sliceVar's
// domain with the hull of the non-Empty slices. Proof is the min of the
// non-Empty per-slice proofs; Empty iff every slice is Empty.
type CIDContractor struct {
	inner    Contractor
	sliceVar *Variable
	k        int
	scope    *Scope
}

// NewCIDContractor builds a CID contractor slicing sliceVar's domain
// into k parts before delegating to inner on each slice.
func NewCIDContractor(inner Contractor, sliceVar *Variable, k int) *CIDContractor {
	scope := inner.Scope()
	if !scope.Contains(sliceVar) {
		b := NewScopeBuilder()
		for _, v := range scope.Variables() {
			b.Add(v)
		}
		b.Add(sliceVar)
		scope = b.Build()
	}
	return &CIDContractor{inner: inner, sliceVar: sliceVar, k: k, scope: scope}
}

func (cid *CIDContractor) Scope() *Scope { return cid.scope }
func (cid *CIDContractor) DependsOn(slot int) bool { return cid.inner.DependsOn(slot) }

func (cid *CIDContractor) Contract(box *Box) Proof {
	slot, ok := box.Scope().IndexOf(cid.sliceVar)
	if !ok {
		return cid.inner.Contract(box)
	}
	original := box.IntervalAt(slot)
	if original.IsEmpty() || cid.k <= 1 {
		return cid.inner.Contract(box)
	}

	width := original.Width() / float64(cid.k)
	proof := Inner
	var hull Interval
	haveHull := false
	base := box.Clone()

	for s := 0; s < cid.k; s++ {
		lo := original.Lo() + float64(s)*width
		hi := lo + width
		if s == cid.k-1 {
			hi = original.Hi()
		}
		slice := base.Clone()
		slice.SetDomainAt(slot, NewIntervalDomain(NewInterval(lo, hi)))
		p := cid.inner.Contract(slice)
		if p == Empty {
			continue
		}
		proof = MinProof(proof, p)
		sliceResult := slice.IntervalAt(slot)
		copyBoxInto(box, slice, slot, !haveHull)
		if !haveHull {
			hull = sliceResult
			haveHull = true
		} else {
			hull = hull.Hull(sliceResult)
		}
	}

	if !haveHull {
		return Empty
	}
	box.SetDomainAt(slot, NewIntervalDomain(hull))
	return proof
}

// copyBoxInto merges every slot other than sliceSlot from src back into
// dst: the first surviving slice (first=true) replaces dst's value, every
// later one is hulled with it — the other variables may also have
// narrowed during a slice's contraction and CID must not silently
// discard that.
func copyBoxInto(dst, src *Box, sliceSlot int, first bool) {
	for slot, v := range dst.Scope().Variables() {
		if slot == sliceSlot {
			continue
		}
		_ = v
		merged := src.IntervalAt(slot)
		if !first {
			merged = dst.IntervalAt(slot).Hull(merged)
		}
		dst.SetDomainAt(slot, NewIntervalDomain(merged))
	}
}

// NewMaxCIDContractor builds a CID contractor that, at Contract time,
// slices the box variable picked by Box.MaxRelWidthSlot: the one, among
// those not yet within tolerance, whose width relative to its tolerance
// is largest
// (§4.3 "Max-CID picks the variable of largest relative domain width
// before splitting").
func NewMaxCIDContractor(inner Contractor, k int) Contractor {
	return &maxCIDContractor{inner: inner, k: k}
}

type maxCIDContractor struct {
	inner Contractor
	k     int
}

func (m *maxCIDContractor) Scope() *Scope { return m.inner.Scope() }
func (m *maxCIDContractor) DependsOn(slot int) bool { return m.inner.DependsOn(slot) }

func (m *maxCIDContractor) Contract(box *Box) Proof {
	slot, found := box.MaxRelWidthSlot()
	if !found {
		return m.inner.Contract(box)
	}
	v := box.Scope().At(slot)
	return NewCIDContractor(m.inner, v, m.k).Contract(box)
}

// DisconnectionContractor collapses a disconnected (union-of-intervals)
// domain back to a single interval, hulled with the variable's initial
// domain (§3 "Disconnected domains expose an explicit contractor that
// hulls with the initial set").
type DisconnectionContractor struct {
	v     *Variable
	scope *Scope
}

// NewDisconnectionContractor builds the disconnection contractor for v.
func NewDisconnectionContractor(v *Variable) *DisconnectionContractor {
	return &DisconnectionContractor{v: v, scope: NewScope(v)}
}

func (dc *DisconnectionContractor) Scope() *Scope { return dc.scope }
func (dc *DisconnectionContractor) DependsOn(slot int) bool {
	s, ok := dc.scope.IndexOf(dc.v)
	return ok && s == slot
}

func (dc *DisconnectionContractor) Contract(box *Box) Proof {
	slot, ok := box.Scope().IndexOf(dc.v)
	if !ok {
		return Maybe
	}
	dom := box.DomainAt(slot)
	union, isUnion := dom.(*UnionDomain)
	if !isUnion || !union.IsDisconnected() {
		if dom.IsEmpty() {
			return Empty
		}
		return Maybe
	}
	box.SetDomainAt(slot, union.HullWithInitial(dc.v.InitialDomain()))
	if box.DomainAt(slot).IsEmpty() {
		return Empty
	}
	return Maybe
}
