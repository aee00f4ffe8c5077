package ncsp

import "fmt"

// VarKind distinguishes a real-valued variable from an integer-valued one
// (§3 "Variable... kind∈{real, integer}").
type VarKind int

const (
	// VarReal is an ordinary continuous variable.
	VarReal VarKind = iota
	// VarInteger is restricted to integer values; its Domain is an
	// integer-range or single-integer sum-type case (§3 "Domain").
	VarInteger
)

func (k VarKind) String() string {
	if k == VarInteger {
		return "integer"
	}
	return "real"
}

// ToleranceKind selects whether a Tolerance is measured in absolute width
// or relative to the domain's magnitude (§6).
type ToleranceKind int

const (
	// ToleranceAbsolute compares width(dom) against Value directly.
	ToleranceAbsolute ToleranceKind = iota
	// ToleranceRelative compares width(dom)/|dom| against Value.
	ToleranceRelative
)

// Tolerance is {absolute|relative, value} (§6). A variable is "precise
// enough" when its domain satisfies Satisfied below.
type Tolerance struct {
	Kind  ToleranceKind
	Value float64
}

// DefaultTolerance matches realpaver's default variable precision: an
// absolute width of 1e-8.
func DefaultTolerance() Tolerance {
	return Tolerance{Kind: ToleranceAbsolute, Value: 1e-8}
}

// Satisfied reports whether the interval's width is within this
// tolerance (§6: "width(dom) <= abs_tol or width(dom)/|dom| <= rel_tol").
func (t Tolerance) Satisfied(dom Interval) bool {
	if dom.IsEmpty() {
		return true
	}
	w := dom.Width()
	switch t.Kind {
	case ToleranceRelative:
		mag := maxAbs(dom.Lo(), dom.Hi())
		if mag == 0 {
			return w == 0
		}
		return w/mag <= t.Value
	default:
		return w <= t.Value
	}
}

func maxAbs(a, b float64) float64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}

// Variable is an immutable, structurally-identified problem entity (§3
// "Variable. Immutable identity {id, name, tolerance, kind}. Identity is
// structural: two references are equal iff they share the same id.
// Variables live for the lifetime of the problem.").
//
// Variable is always handled by pointer; NewVariable is the only
// constructor, so pointer identity and structural identity coincide.
type Variable struct {
	id        int
	name      string
	kind      VarKind
	tolerance Tolerance
	initial   Interval
}

// NewVariable creates a fresh variable with a process-unique id. The
// Problem builder is the intended caller; id assignment there determines
// a variable's Scope slot order.
func NewVariable(id int, name string, kind VarKind, initial Interval, tol Tolerance) (*Variable, error) {
	if initial.IsEmpty() {
		return nil, ErrDomain.New(fmt.Sprintf("variable %q has an empty initial domain", name))
	}
	return &Variable{id: id, name: name, kind: kind, tolerance: tol, initial: initial}, nil
}

// ID returns the variable's process-unique identity.
func (v *Variable) ID() int { return v.id }

// Name returns the variable's declared name.
func (v *Variable) Name() string { return v.name }

// Kind returns whether the variable is real or integer typed.
func (v *Variable) Kind() VarKind { return v.kind }

// Tolerance returns the variable's precision requirement.
func (v *Variable) Tolerance() Tolerance { return v.tolerance }

// InitialDomain returns the variable's declared initial bounds.
func (v *Variable) InitialDomain() Interval { return v.initial }

// Equal reports structural identity: same id.
func (v *Variable) Equal(other *Variable) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.id == other.id
}

func (v *Variable) String() string { return v.name }
