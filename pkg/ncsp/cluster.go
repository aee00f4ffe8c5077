package ncsp

// Solution is one terminal box the search loop collected, tagged by the
// strongest proof reached for it (Maybe, Feasible, or Inner).
type Solution struct {
	Box   *Box
	Proof Proof
}

// ClusterSolutions merges solutions whose bounding hulls lie within gap
// of each other in every variable (§4.9 "Clustering": "merge solutions
// whose bounding hulls are within a configured gap per variable"). Each
// merged group collapses to one solution hulling the group's boxes and
// taking the strongest (MaxProof) of the group's proofs. gap<=0 disables
// clustering (every solution stays distinct).
func ClusterSolutions(solutions []Solution, gap float64) []Solution {
	if gap <= 0 || len(solutions) < 2 {
		return solutions
	}

	merged := make([]Solution, len(solutions))
	copy(merged, solutions)

	for {
		mergedAny := false
	outer:
		for i := 0; i < len(merged); i++ {
			for j := i + 1; j < len(merged); j++ {
				if withinGap(merged[i].Box, merged[j].Box, gap) {
					merged[i] = mergeSolutions(merged[i], merged[j])
					merged = append(merged[:j], merged[j+1:]...)
					mergedAny = true
					break outer
				}
			}
		}
		if !mergedAny {
			break
		}
	}
	return merged
}

// withinGap reports whether a and b's hulls are within gap of each
// other in every slot: either they already overlap, or the closest
// points across the gap are no farther apart than gap.
func withinGap(a, b *Box, gap float64) bool {
	n := a.Scope().Size()
	for slot := 0; slot < n; slot++ {
		ia, ib := a.IntervalAt(slot), b.IntervalAt(slot)
		if ia.Lo() > ib.Hi()+gap || ib.Lo() > ia.Hi()+gap {
			return false
		}
	}
	return true
}

// mergeSolutions hulls a and b's boxes slot by slot and keeps the
// stronger of their two proofs.
func mergeSolutions(a, b Solution) Solution {
	merged := a.Box.Clone()
	n := merged.Scope().Size()
	for slot := 0; slot < n; slot++ {
		h := merged.IntervalAt(slot).Hull(b.Box.IntervalAt(slot))
		merged.SetDomainAt(slot, NewIntervalDomain(h))
	}
	return Solution{Box: merged, Proof: MaxProof(a.Proof, b.Proof)}
}
