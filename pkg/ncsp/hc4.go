package ncsp

// NewHC4Pool builds one HC4Contractor per constraint of dag, wrapped in
// a ListContractor — the usual way HC4 is deployed: one reverse-revise
// pass per constraint, applied left to right (§4.4).
func NewHC4Pool(dag *Dag) Contractor {
	children := make([]Contractor, len(dag.Constraints()))
	for i, c := range dag.Constraints() {
		children[i] = NewHC4Contractor(dag, c)
	}
	return NewListContractor(children...)
}
