package ncsp

import (
	"fmt"
	"math"

	"github.com/mitchellh/hashstructure"
)

// dagNode is one hash-consed node of the shared expression graph (§4.2).
// Children are stored as node ids rather than pointers so the whole
// graph can be indexed by a single slice and walked in id order, which
// doubles as topological order: insert always allocates a parent's id
// strictly after every one of its children's ids.
type dagNode struct {
	op       TermOp
	value    float64
	variable *Variable
	n        int
	children []int
}

// nodeKey is the hashstructure input used to find candidate matches for
// hash-consing; VarID disambiguates OpVar leaves without hashing the
// *Variable pointer itself.
type nodeKey struct {
	Op       TermOp
	Value    float64
	VarID    int
	N        int
	Children []int
}

// RelKind is the relational operator of a constraint's root (§4.2: "Each
// function root carries its image interval").
type RelKind int

const (
	RelEq RelKind = iota
	RelLe
	RelGe
	RelLt
	RelGt
)

func (r RelKind) String() string {
	switch r {
	case RelEq:
		return "="
	case RelLe:
		return "<="
	case RelGe:
		return ">="
	case RelLt:
		return "<"
	case RelGt:
		return ">"
	default:
		return "?"
	}
}

// image returns the interval the root node of `lhs - rhs` must lie in
// for the relation to hold. Strict inequalities are treated as their
// non-strict closure: interval arithmetic cannot represent an open
// bound, so RelLt/RelGt contract exactly as RelLe/RelGe and strictness
// is only meaningful to the Inner classification of the prover (§4.10),
// which re-checks it directly on the certified box.
func (r RelKind) image() Interval {
	switch r {
	case RelEq:
		return Singleton(0)
	case RelLe, RelLt:
		return NewInterval(math.Inf(-1), 0)
	case RelGe, RelGt:
		return NewInterval(0, math.Inf(1))
	default:
		panic(WrapAssertion("RelKind.image: unknown relation %d", r))
	}
}

// Constraint is a named root of the DAG: the function f = lhs - rhs
// together with the image interval its relation implies.
type Constraint struct {
	Name  string
	root  int
	rel   RelKind
	image Interval
}

func (c *Constraint) Root() int { return c.root }
func (c *Constraint) Rel() RelKind { return c.rel }
func (c *Constraint) Image() Interval { return c.image }

// Dag is the shared, hash-consed expression graph of §3/§4.2. One Dag
// serves every constraint of a problem; Variable/Scope/Dag are the
// shared-immutable handles of §9, safe to reference from every search
// node's Box without copying.
type Dag struct {
	scope     *Scope
	nodes     []dagNode
	hashIndex map[uint64][]int
	deps      []varSet
	values    []Interval

	constraints []*Constraint
}

// NewDag creates an empty graph over scope. scope must already contain
// every variable the problem's constraints will reference; dependency
// bitsets are sized to scope.Size() once at construction.
func NewDag(scope *Scope) *Dag {
	return &Dag{
		scope:     scope,
		hashIndex: make(map[uint64][]int),
	}
}

// Scope returns the variable scope the DAG was built over.
func (d *Dag) Scope() *Scope { return d.scope }

// Constraints returns every constraint inserted so far.
func (d *Dag) Constraints() []*Constraint { return d.constraints }

// NodeCount returns the number of distinct (hash-consed) nodes.
func (d *Dag) NodeCount() int { return len(d.nodes) }

// varSet is a small fixed-size bitset over variable scope slots, used to
// record each node's variable dependency set and to answer a
// contractor's depends_on(bitset) query (§4.3) in O(words).
type varSet []uint64

func newVarSet(n int) varSet { return make(varSet, (n+63)/64) }

func (s varSet) set(i int) { s[i/64] |= 1 << uint(i%64) }

func (s varSet) test(i int) bool {
	if i/64 >= len(s) {
		return false
	}
	return s[i/64]&(1<<uint(i%64)) != 0
}

func (s varSet) union(other varSet) varSet {
	out := make(varSet, len(s))
	for i := range s {
		out[i] = s[i] | other[i]
	}
	return out
}

func (s varSet) intersects(other varSet) bool {
	for i := range s {
		if s[i]&other[i] != 0 {
			return true
		}
	}
	return false
}

func dagNodesEqual(a, b dagNode) bool {
	if a.op != b.op || a.n != b.n {
		return false
	}
	switch a.op {
	case OpConst:
		return a.value == b.value
	case OpVar:
		return a.variable.Equal(b.variable)
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if a.children[i] != b.children[i] {
			return false
		}
	}
	return true
}

func (d *Dag) depsFor(n dagNode) varSet {
	vs := newVarSet(d.scope.Size())
	switch n.op {
	case OpConst:
		return vs
	case OpVar:
		if slot, ok := d.scope.IndexOf(n.variable); ok {
			vs.set(slot)
		}
		return vs
	}
	for _, c := range n.children {
		vs = vs.union(d.deps[c])
	}
	return vs
}

// intern hash-conses n, returning an existing node id if a structurally
// identical node is already present.
func (d *Dag) intern(n dagNode) int {
	key := nodeKey{Op: n.op, Value: n.value, N: n.n, Children: n.children}
	if n.variable != nil {
		key.VarID = n.variable.ID()
	} else {
		key.VarID = -1
	}
	h, err := hashstructure.Hash(key, nil)
	if err != nil {
		panic(WrapAssertion("dag: hashing node failed: %v", err))
	}
	for _, id := range d.hashIndex[h] {
		if dagNodesEqual(d.nodes[id], n) {
			return id
		}
	}
	id := len(d.nodes)
	d.nodes = append(d.nodes, n)
	d.values = append(d.values, Universe())
	d.deps = append(d.deps, d.depsFor(n))
	d.hashIndex[h] = append(d.hashIndex[h], id)
	return id
}

// Insert recursively maps a Term tree to DAG nodes, reusing existing
// nodes whenever a structurally identical sub-term has already been
// inserted (§4.2 "insert(constraint)").
func (d *Dag) Insert(t *Term) int {
	children := make([]int, len(t.children))
	for i, c := range t.children {
		children[i] = d.Insert(c)
	}
	return d.intern(dagNode{op: t.op, value: t.value, variable: t.variable, n: t.n, children: children})
}

// InsertConstraint lifts lhs REL rhs into the DAG as a new root f = lhs -
// rhs with the relation's implied image interval, and records it.
func (d *Dag) InsertConstraint(name string, lhs, rhs *Term, rel RelKind) *Constraint {
	root := d.Insert(Sub(lhs, rhs))
	c := &Constraint{Name: name, root: root, rel: rel, image: rel.image()}
	d.constraints = append(d.constraints, c)
	return c
}

// DependsOn reports whether the subgraph rooted at id depends on the
// variable occupying slot.
func (d *Dag) DependsOn(id, slot int) bool { return d.deps[id].test(slot) }

// ScopeOf returns the Scope of variables the subgraph rooted at id
// actually references (a subset of d.scope), for a contractor's
// scope() method (§4.3).
func (d *Dag) ScopeOf(id int) *Scope {
	b := NewScopeBuilder()
	for slot, v := range d.scope.Variables() {
		if d.deps[id].test(slot) {
			b.Add(v)
		}
	}
	return b.Build()
}

// OccurrenceCounts counts, with multiplicity, how many times each
// variable appears as a leaf in the tree rooted at id — walking the DAG
// as if it were unshared, since BC3/BC4 (§4.4) needs true leaf-occurrence
// counts, not the count of distinct shared nodes. Used to detect
// "multiple occurrence" variables for BC4's extra BC3 passes.
func (d *Dag) OccurrenceCounts(id int) map[*Variable]int {
	counts := make(map[*Variable]int)
	var walk func(int)
	walk = func(nid int) {
		n := d.nodes[nid]
		if n.op == OpVar {
			counts[n.variable]++
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(id)
	return counts
}

// MultiOccurrenceVars returns the subset of variables occurring more
// than once (with multiplicity) in the tree rooted at id.
func (d *Dag) MultiOccurrenceVars(id int) []*Variable {
	var out []*Variable
	for v, n := range d.OccurrenceCounts(id) {
		if n > 1 {
			out = append(out, v)
		}
	}
	return out
}

// reachableFrom returns every node id in the subgraph rooted at root,
// root included, in post-order: every node after all of its children (a
// topological order, not necessarily ascending by id).
func (d *Dag) reachableFrom(root int) []int {
	seen := make(map[int]bool)
	var order []int
	var walk func(int)
	walk = func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, c := range d.nodes[id].children {
			walk(c)
		}
		order = append(order, id)
	}
	walk(root)
	return order
}

func (d *Dag) String() string {
	return fmt.Sprintf("Dag(%d nodes, %d constraints)", len(d.nodes), len(d.constraints))
}
