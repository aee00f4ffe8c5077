package ncsp

import (
	"fmt"
	"math"
	"sort"
)

// Domain is the sum type of §3: a plain interval, an integer range, a
// finite union of disjoint intervals, or (degenerately, when an
// IntegerDomain's bounds coincide) a single integer. Every variant
// supports the same five operations; IsDisconnected/Parts exist only to
// let a disconnection-aware contractor (§3 "Disconnected domains expose
// an explicit contractor that hulls with the initial set") tell them
// apart.
type Domain interface {
	// Hull returns the smallest enclosing Interval.
	Hull() Interval
	// IsEmpty reports whether the domain has no values.
	IsEmpty() bool
	// IsCanonical reports whether the domain cannot be contracted any
	// further given the representable doubles (or, for IntegerDomain, is
	// a single integer).
	IsCanonical() bool
	// Contract intersects the domain with i, returning a new Domain.
	Contract(i Interval) Domain
	// Clone returns an independent copy safe to mutate via a fresh
	// Contract call without aliasing the receiver.
	Clone() Domain
	// IsDisconnected reports whether the domain is a non-trivial union of
	// more than one interval.
	IsDisconnected() bool
	String() string
}

// IntervalDomain is a plain real-valued interval domain.
type IntervalDomain struct {
	iv Interval
}

// NewIntervalDomain wraps i as a Domain.
func NewIntervalDomain(i Interval) *IntervalDomain { return &IntervalDomain{iv: i} }

func (d *IntervalDomain) Hull() Interval        { return d.iv }
func (d *IntervalDomain) IsEmpty() bool         { return d.iv.IsEmpty() }
func (d *IntervalDomain) IsCanonical() bool     { return d.iv.IsCanonical() }
func (d *IntervalDomain) IsDisconnected() bool  { return false }
func (d *IntervalDomain) Clone() Domain         { return &IntervalDomain{iv: d.iv} }
func (d *IntervalDomain) Contract(i Interval) Domain {
	return &IntervalDomain{iv: d.iv.Intersect(i)}
}
func (d *IntervalDomain) String() string { return d.iv.String() }

// IntegerDomain is an integer-range domain, collapsing to the "single
// integer" sum-type case of §3 when Lo()==Hi().
type IntegerDomain struct {
	lo, hi int64
}

// NewIntegerDomain builds the integer range [lo, hi].
func NewIntegerDomain(lo, hi int64) *IntegerDomain {
	return &IntegerDomain{lo: lo, hi: hi}
}

func (d *IntegerDomain) Hull() Interval {
	if d.IsEmpty() {
		return EmptyInterval()
	}
	return NewInterval(float64(d.lo), float64(d.hi))
}
func (d *IntegerDomain) IsEmpty() bool        { return d.lo > d.hi }
func (d *IntegerDomain) IsSingleton() bool    { return !d.IsEmpty() && d.lo == d.hi }
func (d *IntegerDomain) IsCanonical() bool    { return d.IsSingleton() }
func (d *IntegerDomain) IsDisconnected() bool { return false }
func (d *IntegerDomain) Clone() Domain        { return &IntegerDomain{lo: d.lo, hi: d.hi} }
func (d *IntegerDomain) Value() int64         { return d.lo }

// Contract intersects the integer range with i, rounding inward to the
// tightest enclosed integers (ceil of i.Lo, floor of i.Hi).
func (d *IntegerDomain) Contract(i Interval) Domain {
	if i.IsEmpty() || d.IsEmpty() {
		return &IntegerDomain{lo: 1, hi: 0}
	}
	lo := d.lo
	if c := int64(math.Ceil(i.Lo())); c > lo {
		lo = c
	}
	hi := d.hi
	if f := int64(math.Floor(i.Hi())); f < hi {
		hi = f
	}
	return &IntegerDomain{lo: lo, hi: hi}
}

func (d *IntegerDomain) String() string {
	if d.IsEmpty() {
		return "[]"
	}
	if d.IsSingleton() {
		return fmt.Sprintf("%d", d.lo)
	}
	return fmt.Sprintf("[%d, %d] integer", d.lo, d.hi)
}

// UnionDomain is a finite union of disjoint, sorted, non-adjacent
// intervals (§3 "finite-union-of-intervals").
type UnionDomain struct {
	parts []Interval
}

// NewUnionDomain builds a UnionDomain from arbitrary (possibly
// overlapping/adjacent) intervals, normalizing them into sorted disjoint
// parts.
func NewUnionDomain(parts ...Interval) *UnionDomain {
	return &UnionDomain{parts: normalizeParts(parts)}
}

func normalizeParts(parts []Interval) []Interval {
	var kept []Interval
	for _, p := range parts {
		if !p.IsEmpty() {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Lo() < kept[j].Lo() })
	merged := []Interval{kept[0]}
	for _, p := range kept[1:] {
		last := &merged[len(merged)-1]
		if p.Lo() <= last.Hi() {
			*last = last.Hull(p)
		} else {
			merged = append(merged, p)
		}
	}
	return merged
}

func (d *UnionDomain) Hull() Interval {
	if len(d.parts) == 0 {
		return EmptyInterval()
	}
	h := d.parts[0]
	for _, p := range d.parts[1:] {
		h = h.Hull(p)
	}
	return h
}
func (d *UnionDomain) IsEmpty() bool { return len(d.parts) == 0 }
func (d *UnionDomain) IsCanonical() bool {
	return len(d.parts) == 1 && d.parts[0].IsCanonical()
}
func (d *UnionDomain) IsDisconnected() bool { return len(d.parts) > 1 }
func (d *UnionDomain) Parts() []Interval {
	out := make([]Interval, len(d.parts))
	copy(out, d.parts)
	return out
}
func (d *UnionDomain) Clone() Domain {
	return &UnionDomain{parts: append([]Interval(nil), d.parts...)}
}
func (d *UnionDomain) Contract(i Interval) Domain {
	var kept []Interval
	for _, p := range d.parts {
		if part := p.Intersect(i); !part.IsEmpty() {
			kept = append(kept, part)
		}
	}
	return &UnionDomain{parts: kept}
}

// HullWithInitial collapses a disconnected domain back to a single
// interval, the hull intersected with initial (§3: "Disconnected domains
// expose an explicit contractor that hulls with the initial set").
// Used by DisconnectionContractor in contractor.go.
func (d *UnionDomain) HullWithInitial(initial Interval) Domain {
	return &IntervalDomain{iv: d.Hull().Intersect(initial)}
}

func (d *UnionDomain) String() string {
	if d.IsEmpty() {
		return "[]"
	}
	s := ""
	for i, p := range d.parts {
		if i > 0 {
			s += " U "
		}
		s += p.String()
	}
	return s
}
