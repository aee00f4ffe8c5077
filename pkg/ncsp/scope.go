package ncsp

import (
	"fmt"

	iradix "github.com/hashicorp/go-immutable-radix"
)

// Scope is an ordered set of variables with O(1) membership, O(log n)
// name lookup, and a stable slot order that every Box built over this
// Scope indexes by (§3 "Scope"). Scope is shared, immutable once built
// (§9 "DAGs, scopes, variables ... are shared immutable"), and safe to
// reference from every contractor and search node concurrently (there is
// only ever one writer, the ScopeBuilder, and it never mutates a Scope
// already handed out).
type Scope struct {
	vars   []*Variable
	slotOf map[int]int // variable id -> slot
	byName *iradix.Tree
}

// ScopeBuilder accumulates variables before freezing them into a Scope.
type ScopeBuilder struct {
	vars   []*Variable
	slotOf map[int]int
	byName *iradix.Tree
}

// NewScopeBuilder starts an empty builder.
func NewScopeBuilder() *ScopeBuilder {
	return &ScopeBuilder{slotOf: make(map[int]int), byName: iradix.New()}
}

// Add appends v to the scope being built, assigning it the next slot.
// Adding the same variable twice is a no-op (idempotent by id).
func (b *ScopeBuilder) Add(v *Variable) *ScopeBuilder {
	if _, ok := b.slotOf[v.id]; ok {
		return b
	}
	slot := len(b.vars)
	b.vars = append(b.vars, v)
	b.slotOf[v.id] = slot
	tree, _, _ := b.byName.Insert([]byte(v.name), slot)
	b.byName = tree
	return b
}

// Build freezes the accumulated variables into an immutable Scope.
func (b *ScopeBuilder) Build() *Scope {
	vars := make([]*Variable, len(b.vars))
	copy(vars, b.vars)
	slotOf := make(map[int]int, len(b.slotOf))
	for k, v := range b.slotOf {
		slotOf[k] = v
	}
	return &Scope{vars: vars, slotOf: slotOf, byName: b.byName}
}

// NewScope builds a Scope directly from an ordered variable list.
func NewScope(vars ...*Variable) *Scope {
	b := NewScopeBuilder()
	for _, v := range vars {
		b.Add(v)
	}
	return b.Build()
}

// Size returns the number of variables in the scope.
func (s *Scope) Size() int { return len(s.vars) }

// Variables returns the scope's variables in stable slot order. The
// returned slice must not be mutated by the caller.
func (s *Scope) Variables() []*Variable { return s.vars }

// Contains reports O(1) membership by variable identity.
func (s *Scope) Contains(v *Variable) bool {
	_, ok := s.slotOf[v.id]
	return ok
}

// IndexOf returns v's stable slot, or (-1, false) if v is not in scope.
func (s *Scope) IndexOf(v *Variable) (int, bool) {
	slot, ok := s.slotOf[v.id]
	return slot, ok
}

// At returns the variable occupying the given slot.
func (s *Scope) At(slot int) *Variable { return s.vars[slot] }

// ByName looks up a variable by its declared name in O(log n) via the
// shared immutable radix index, matching the external §6 text format's
// resolution of constraint/alias identifiers to variables.
func (s *Scope) ByName(name string) (*Variable, bool) {
	slot, ok := s.byName.Get([]byte(name))
	if !ok {
		return nil, false
	}
	return s.vars[slot.(int)], true
}

// Union returns a new Scope containing every variable of s and other, in
// s's order followed by any of other's variables not already present.
func (s *Scope) Union(other *Scope) *Scope {
	b := NewScopeBuilder()
	for _, v := range s.vars {
		b.Add(v)
	}
	for _, v := range other.vars {
		b.Add(v)
	}
	return b.Build()
}

// IsSupersetOf reports whether every variable of other is in s — the
// invariant a contractor's scope must hold against the box it is applied
// to (§3 "the scope of a box is a superset of every contractor applied to
// it").
func (s *Scope) IsSupersetOf(other *Scope) bool {
	for _, v := range other.vars {
		if !s.Contains(v) {
			return false
		}
	}
	return true
}

func (s *Scope) String() string {
	return fmt.Sprintf("Scope(%d vars)", len(s.vars))
}
