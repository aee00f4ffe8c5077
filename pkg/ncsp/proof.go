package ncsp

// Proof is the certificate a contractor or the prover attaches to a box.
// It is a small totally ordered enum, never a boolean (§9 "Proof lattice"):
// conjunction of contractors takes the minimum of their non-Empty outcomes,
// and an Empty anywhere short-circuits the whole conjunction.
type Proof int

const (
	// Empty means the box provably contains no solution.
	Empty Proof = iota
	// Maybe means the box was contracted but neither emptiness nor
	// feasibility could be decided.
	Maybe
	// Feasible means the prover certified at least one real solution
	// exists inside the box (§4.10, §4.5 step 4 "existence is certified").
	Feasible
	// Inner means every constraint is certainly satisfied everywhere in
	// the box (§4.10 "Inner-region classification").
	Inner
	// Optimal is reserved for the bound-constrained-optimization variant;
	// spec.md §1 says that variant "reuses the same machinery and is not
	// separately specified", so nothing in this package ever produces it.
	Optimal
)

func (p Proof) String() string {
	switch p {
	case Empty:
		return "Empty"
	case Maybe:
		return "Maybe"
	case Feasible:
		return "Feasible"
	case Inner:
		return "Inner"
	case Optimal:
		return "Optimal"
	default:
		return "Unknown"
	}
}

// MinProof returns the weaker of two proofs, the combinator a conjunction
// of contractors uses: the conjunction's outcome can only be as strong as
// its weakest surviving member (§3 "Combinators use min over a conjunction
// ... Empty short-circuits").
func MinProof(a, b Proof) Proof {
	if a == Empty || b == Empty {
		return Empty
	}
	if a < b {
		return a
	}
	return b
}

// MaxProof returns the stronger of two proofs. ClusterSolutions uses it
// to give a merged cluster the strongest proof among its members; CID
// combines its slices with MinProof instead. Kept as a small explicit
// helper so callers never reach for boolean logic to express it.
func MaxProof(a, b Proof) Proof {
	if a > b {
		return a
	}
	return b
}

// Tag renders the §6 solution-output tag for a terminal proof.
func (p Proof) Tag() string {
	switch p {
	case Inner:
		return "(I)"
	case Feasible:
		return "(F)"
	default:
		return "(U)"
	}
}
