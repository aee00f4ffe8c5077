package ncsp

// Slicer bisects one variable's current domain into sub-domains for a
// search-tree split (§4.7 "Slicer output is the sequence of sub-domains
// for one variable").
type Slicer interface {
	Slice(dom Domain) []Domain
}

// BisectionSlicer splits an interval domain at its midpoint and an
// integer domain at its median integer.
type BisectionSlicer struct{}

func NewBisectionSlicer() BisectionSlicer { return BisectionSlicer{} }

func (BisectionSlicer) Slice(dom Domain) []Domain {
	switch d := dom.(type) {
	case *IntegerDomain:
		return sliceInteger(d)
	default:
		return sliceHull(dom)
	}
}

// sliceHull bisects dom's hull at its midpoint, used for both
// IntervalDomain and UnionDomain; a disconnected UnionDomain is split
// across its hull, so the gap between its parts lands inside one or
// both halves.
func sliceHull(dom Domain) []Domain {
	h := dom.Hull()
	if h.IsEmpty() {
		return nil
	}
	mid := h.Mid()
	left := NewIntervalDomain(NewInterval(h.Lo(), mid))
	right := NewIntervalDomain(NewInterval(mid, h.Hi()))
	return []Domain{left, right}
}

// sliceInteger splits [lo,hi] into [lo,m] and [m+1,hi] at the median
// integer m, degenerating to a single singleton part when lo==hi.
func sliceInteger(d *IntegerDomain) []Domain {
	lo, hi := d.Hull().Lo(), d.Hull().Hi()
	loI, hiI := int64(lo), int64(hi)
	if loI == hiI {
		return []Domain{NewIntegerDomain(loI, hiI)}
	}
	mid := loI + (hiI-loI)/2
	left := NewIntegerDomain(loI, mid)
	right := NewIntegerDomain(mid+1, hiI)
	return []Domain{left, right}
}
