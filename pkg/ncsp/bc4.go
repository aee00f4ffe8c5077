package ncsp

// BC4Contractor combines HC4 and BC3 for one constraint (§4.4 "BC4
// combines them: first HC4 on f, then BC3 on every variable that occurs
// multiply in f"). Multi-occurrence variables are found once at
// construction via the DAG's leaf-occurrence counter.
type BC4Contractor struct {
	hc4   *HC4Contractor
	bc3s  []*BC3Contractor
	scope *Scope
}

// NewBC4Contractor builds the BC4 contractor for constraint c over dag,
// using peel/maxIter for every BC3 pass it runs.
func NewBC4Contractor(dag *Dag, c *Constraint, peel float64, maxIter int) *BC4Contractor {
	hc4 := NewHC4Contractor(dag, c)
	multi := dag.MultiOccurrenceVars(c.Root())
	bc3s := make([]*BC3Contractor, len(multi))
	for i, v := range multi {
		bc3s[i] = NewBC3Contractor(dag, c, v, peel, maxIter)
	}
	return &BC4Contractor{hc4: hc4, bc3s: bc3s, scope: hc4.Scope()}
}

func (b *BC4Contractor) Scope() *Scope { return b.scope }
func (b *BC4Contractor) DependsOn(slot int) bool { return b.hc4.DependsOn(slot) }

func (b *BC4Contractor) Contract(box *Box) Proof {
	proof := b.hc4.Contract(box)
	if proof == Empty {
		return Empty
	}
	for _, bc3 := range b.bc3s {
		p := bc3.Contract(box)
		if p == Empty {
			return Empty
		}
		proof = MinProof(proof, p)
	}
	return proof
}

// NewBC4Pool builds one BC4Contractor per constraint of dag, wrapped in
// a ListContractor, the usual deployment shape (mirrors NewHC4Pool).
func NewBC4Pool(dag *Dag, peel float64, maxIter int) Contractor {
	children := make([]Contractor, len(dag.Constraints()))
	for i, c := range dag.Constraints() {
		children[i] = NewBC4Contractor(dag, c, peel, maxIter)
	}
	return NewListContractor(children...)
}
