package ncsp

import "strings"

// Box maps a Scope to one Domain per slot (§3 "Box / DomainBox. Mapping
// scope → domain (or scope → interval for the lightweight variant)."
// Interval/IntervalAt are the lightweight view every arithmetic/DAG
// consumer uses; Domain/DomainAt expose the full sum type for callers
// that care about integer-ness or disconnection.
//
// A Box is owned by exactly one search node (§9 "Boxes are owned by
// search nodes (deep-cloned on split)"); contractors mutate it in place,
// and after an Empty outcome its contents are unspecified (ContractAt
// still writes the empty domain), so callers discard rather than inspect
// a box once Contract/a contractor reports Empty.
type Box struct {
	scope *Scope
	doms  []Domain
}

// NewBox builds the initial box for scope, one Domain per variable seeded
// from its declared initial domain and kind.
func NewBox(scope *Scope) *Box {
	doms := make([]Domain, scope.Size())
	for slot, v := range scope.Variables() {
		if v.Kind() == VarInteger {
			lo, hi := v.InitialDomain().Lo(), v.InitialDomain().Hi()
			doms[slot] = NewIntegerDomain(int64(ceilInt(lo)), int64(floorInt(hi)))
		} else {
			doms[slot] = NewIntervalDomain(v.InitialDomain())
		}
	}
	return &Box{scope: scope, doms: doms}
}

func ceilInt(x float64) float64 {
	i := int64(x)
	if float64(i) < x {
		i++
	}
	return float64(i)
}

func floorInt(x float64) float64 {
	i := int64(x)
	if float64(i) > x {
		i--
	}
	return float64(i)
}

// Scope returns the box's scope.
func (b *Box) Scope() *Scope { return b.scope }

// DomainAt returns the domain occupying slot.
func (b *Box) DomainAt(slot int) Domain { return b.doms[slot] }

// Domain returns v's domain; panics (an assertion failure, §7 category 5)
// if v is not in the box's scope, since that violates the scope-superset
// invariant every caller must already have checked.
func (b *Box) Domain(v *Variable) Domain {
	slot, ok := b.scope.IndexOf(v)
	if !ok {
		panic(WrapAssertion("box.Domain: variable %s not in scope", v.Name()))
	}
	return b.doms[slot]
}

// SetDomainAt replaces the domain at slot.
func (b *Box) SetDomainAt(slot int, d Domain) { b.doms[slot] = d }

// SetDomain replaces v's domain.
func (b *Box) SetDomain(v *Variable, d Domain) {
	slot, ok := b.scope.IndexOf(v)
	if !ok {
		panic(WrapAssertion("box.SetDomain: variable %s not in scope", v.Name()))
	}
	b.doms[slot] = d
}

// IntervalAt returns the lightweight hull view of slot's domain.
func (b *Box) IntervalAt(slot int) Interval { return b.doms[slot].Hull() }

// Interval returns the lightweight hull view of v's domain.
func (b *Box) Interval(v *Variable) Interval { return b.Domain(v).Hull() }

// ContractAt intersects slot's domain with i in place and reports the
// resulting Proof: Empty if the intersection is empty, Maybe otherwise.
// This is the single mutation path every contractor funnels through, so
// "leave the box unspecified on Empty" (§4.3) is enforced in one place:
// on Empty the new (empty) domain is still written, but every caller of a
// contractor is contractually required to discard the box rather than
// read it further, per §4.3 and §7 category 3.
func (b *Box) ContractAt(slot int, i Interval) Proof {
	b.doms[slot] = b.doms[slot].Contract(i)
	if b.doms[slot].IsEmpty() {
		return Empty
	}
	return Maybe
}

// IsEmpty reports whether any slot's domain is empty.
func (b *Box) IsEmpty() bool {
	for _, d := range b.doms {
		if d.IsEmpty() {
			return true
		}
	}
	return false
}

// Clone deep-copies every domain, producing a box a search-tree split can
// hand to a child node without aliasing the parent's state.
func (b *Box) Clone() *Box {
	doms := make([]Domain, len(b.doms))
	for i, d := range b.doms {
		doms[i] = d.Clone()
	}
	return &Box{scope: b.scope, doms: doms}
}

// MaxRelWidthSlot returns the slot, among those not yet within tolerance,
// with the largest domain width relative to its variable's tolerance
// value (width/tolerance; the plain width when that value is not
// positive), used by the Max-CID contractor.
func (b *Box) MaxRelWidthSlot() (slot int, found bool) {
	best := -1.0
	bestSlot := -1
	for i, v := range b.scope.Variables() {
		w := b.doms[i].Hull().Width()
		if tol := v.Tolerance().Value; tol > 0 {
			w /= tol
		}
		if !v.Tolerance().Satisfied(b.doms[i].Hull()) && w > best {
			best = w
			bestSlot = i
		}
	}
	return bestSlot, bestSlot >= 0
}

// IsCanonical reports whether every slot's domain satisfies its
// variable's tolerance (§6 "precise enough").
func (b *Box) IsCanonical() bool {
	for i, v := range b.scope.Variables() {
		if !v.Tolerance().Satisfied(b.doms[i].Hull()) {
			return false
		}
	}
	return true
}

func (b *Box) String() string {
	var sb strings.Builder
	for i, v := range b.scope.Variables() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.Name())
		sb.WriteString(" = ")
		sb.WriteString(b.doms[i].String())
	}
	return sb.String()
}
