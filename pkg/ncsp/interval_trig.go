package ncsp

import (
	"math"

	"github.com/gitrdm/realpaver/internal/roundmode"
)

// Exp computes a correctly-rounded enclosure of e^[a,b]. exp is monotone
// increasing so the hull of the true image is exactly [e^a, e^b] rounded
// outward (§4.1 tightness guarantee for monotone ops).
func (i Interval) Exp() Interval {
	if i.IsEmpty() {
		return EmptyInterval()
	}
	return NewInterval(roundmode.Down(math.Exp(i.lo)), roundmode.Up(math.Exp(i.hi)))
}

// Log computes ln([a,b]); undefined (Empty) below 0, clamped at 0.
func (i Interval) Log() Interval {
	if i.IsEmpty() || i.hi <= 0 {
		return EmptyInterval()
	}
	lo := math.Inf(-1)
	if i.lo > 0 {
		lo = roundmode.Down(math.Log(i.lo))
	}
	return NewInterval(lo, roundmode.Up(math.Log(i.hi)))
}

// ExpRel is the relational inverse of Exp: given the argument interval x
// and the current image interval y = exp(x), returns x intersected with
// log(y). Used by reverse projection (§4.1 "relational inverse variants").
func (i Interval) ExpRel(image Interval) Interval {
	return i.Intersect(image.Log())
}

// LogRel is the relational inverse of Log: given argument x and image
// y = log(x), returns x intersected with exp(y).
func (i Interval) LogRel(image Interval) Interval {
	return i.Intersect(image.Exp())
}

// widthCoversFullPeriod reports whether i is at least one period wide,
// signaling that the trig image is the whole [-1,1] (or for tan, the
// whole reals) range.
func widthCoversFullPeriod(i Interval, period float64) bool {
	return !i.IsEmpty() && i.Width() >= period
}

// Cos computes a sound enclosure of cos([a,b]). Exactness is not claimed
// (only soundness is guaranteed for non-monotone transcendentals per
// §4.1); the implementation samples the endpoints and every extremum
// (multiple of pi) that falls inside the interval.
func (i Interval) Cos() Interval {
	if i.IsEmpty() {
		return EmptyInterval()
	}
	if widthCoversFullPeriod(i, 2*math.Pi) {
		return NewInterval(-1, 1)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	consider := func(x float64) {
		v := math.Cos(x)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	consider(i.lo)
	consider(i.hi)
	// extrema of cos at x = k*pi
	kStart := math.Ceil(i.lo / math.Pi)
	for k := kStart; k*math.Pi <= i.hi; k++ {
		consider(k * math.Pi)
	}
	return NewInterval(roundmode.Down(lo), roundmode.Up(hi))
}

// Sin computes a sound enclosure of sin([a,b]) via the cos(x - pi/2) shift.
func (i Interval) Sin() Interval {
	if i.IsEmpty() {
		return EmptyInterval()
	}
	shifted := i.Sub(Singleton(math.Pi / 2))
	return shifted.Cos()
}

// CosRel is the relational inverse of Cos used by reverse projection:
// given argument x and the current cos-image, intersects x with every
// branch acos(image)+2k*pi and -acos(image)+2k*pi landing inside x.
func (i Interval) CosRel(image Interval) Interval {
	clipped := image.Intersect(NewInterval(-1, 1))
	if clipped.IsEmpty() || i.IsEmpty() {
		return EmptyInterval()
	}
	hiAcos := math.Acos(clipped.lo)
	loAcos := math.Acos(clipped.hi)
	base := NewInterval(roundmode.Down(loAcos), roundmode.Up(hiAcos))
	return unionBranchesInRange(i, base, 2*math.Pi, true)
}

// SinRel is the relational inverse of Sin.
func (i Interval) SinRel(image Interval) Interval {
	shiftedArg := i.Sub(Singleton(math.Pi / 2))
	got := shiftedArg.CosRel(image)
	if got.IsEmpty() {
		return EmptyInterval()
	}
	return got.Add(Singleton(math.Pi / 2)).Intersect(i)
}

// unionBranchesInRange folds the periodic branches of an inverse trig
// principal value (and, when symmetric is true, its negation) across
// every period multiple that can land inside domain, and hulls the
// portions that intersect domain. The result is a (possibly loose) hull
// enclosure, not the exact disconnected preimage — disconnected results
// are outside what a single Interval can represent; callers needing the
// tighter set use the Domain-level finite-union-of-intervals contractor.
func unionBranchesInRange(domain, principal Interval, period float64, symmetric bool) Interval {
	if domain.IsEmpty() || principal.IsEmpty() {
		return EmptyInterval()
	}
	result := EmptyInterval()
	kLo := math.Floor((domain.lo - principal.hi) / period)
	kHi := math.Ceil((domain.hi - principal.lo) / period)
	for k := kLo; k <= kHi; k++ {
		shifted := principal.Add(Singleton(k * period))
		if part := domain.Intersect(shifted); !part.IsEmpty() {
			result = result.Hull(part)
		}
		if symmetric {
			negShifted := principal.Neg().Add(Singleton(k * period))
			if part := domain.Intersect(negShifted); !part.IsEmpty() {
				result = result.Hull(part)
			}
		}
	}
	return result
}

// Tan computes a sound enclosure of tan([a,b]); returns Universe whenever
// the interval width reaches or exceeds a half-period or straddles an
// asymptote at pi/2 + k*pi, matching the non-monotone/unbounded case of
// §4.1.
func (i Interval) Tan() Interval {
	if i.IsEmpty() {
		return EmptyInterval()
	}
	if widthCoversFullPeriod(i, math.Pi) {
		return Universe()
	}
	kStart := math.Floor((i.lo - math.Pi/2) / math.Pi)
	for k := kStart; ; k++ {
		asym := math.Pi/2 + k*math.Pi
		if asym > i.hi+math.Pi {
			break
		}
		if i.lo < asym && asym < i.hi {
			return Universe()
		}
	}
	lo := roundmode.Down(math.Tan(i.lo))
	hi := roundmode.Up(math.Tan(i.hi))
	if lo > hi {
		return Universe()
	}
	return NewInterval(lo, hi)
}

// TanRel is the relational inverse of Tan.
func (i Interval) TanRel(image Interval) Interval {
	if image.IsEmpty() || i.IsEmpty() {
		return EmptyInterval()
	}
	base := NewInterval(roundmode.Down(math.Atan(image.lo)), roundmode.Up(math.Atan(image.hi)))
	return unionBranchesInRange(i, base, math.Pi, false)
}
