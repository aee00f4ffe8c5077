package ncsp

import "testing"

func TestClusterSolutionsMergesWithinGap(t *testing.T) {
	scope, vars := newTestScope(t, "x")
	a := NewBox(scope)
	a.SetDomain(vars["x"], NewIntervalDomain(NewInterval(1.0, 1.01)))
	b := NewBox(scope)
	b.SetDomain(vars["x"], NewIntervalDomain(NewInterval(1.02, 1.03)))

	merged := ClusterSolutions([]Solution{{Box: a, Proof: Feasible}, {Box: b, Proof: Inner}}, 0.05)
	if len(merged) != 1 {
		t.Fatalf("expected the two close solutions to merge into 1, got %d", len(merged))
	}
	got := merged[0].Box.Interval(vars["x"])
	if got.Lo() != 1.0 || got.Hi() != 1.03 {
		t.Fatalf("expected hull [1.0,1.03], got %s", got)
	}
	if merged[0].Proof != Inner {
		t.Fatalf("expected the merged proof to be the stronger Inner, got %s", merged[0].Proof)
	}
}

func TestClusterSolutionsKeepsFarApartDistinct(t *testing.T) {
	scope, vars := newTestScope(t, "x")
	a := NewBox(scope)
	a.SetDomain(vars["x"], NewIntervalDomain(NewInterval(0, 1)))
	b := NewBox(scope)
	b.SetDomain(vars["x"], NewIntervalDomain(NewInterval(100, 101)))

	merged := ClusterSolutions([]Solution{{Box: a, Proof: Maybe}, {Box: b, Proof: Maybe}}, 0.1)
	if len(merged) != 2 {
		t.Fatalf("expected two distinct solutions to remain, got %d", len(merged))
	}
}

func TestClusterSolutionsZeroGapDisablesMerging(t *testing.T) {
	scope, vars := newTestScope(t, "x")
	a := NewBox(scope)
	a.SetDomain(vars["x"], NewIntervalDomain(NewInterval(1, 1)))
	b := NewBox(scope)
	b.SetDomain(vars["x"], NewIntervalDomain(NewInterval(1, 1)))

	merged := ClusterSolutions([]Solution{{Box: a, Proof: Maybe}, {Box: b, Proof: Maybe}}, 0)
	if len(merged) != 2 {
		t.Fatalf("expected gap<=0 to disable clustering entirely, got %d", len(merged))
	}
}
