package ncsp

import "testing"

func TestRoundRobinSelectorCyclesSkippingCanonical(t *testing.T) {
	scope, vars := newTestScope(t, "x", "y", "z")
	box := NewBox(scope)
	box.SetDomain(vars["x"], NewIntervalDomain(NewInterval(0, 10)))
	box.SetDomain(vars["y"], NewIntervalDomain(Singleton(1))) // already canonical
	box.SetDomain(vars["z"], NewIntervalDomain(NewInterval(0, 10)))

	sel := NewRoundRobinSelector(scope)
	slot, found := sel.Select(box)
	if !found || scope.At(slot).Name() != "x" {
		t.Fatalf("expected x first, got slot=%d found=%v", slot, found)
	}
	slot, found = sel.Select(box)
	if !found || scope.At(slot).Name() != "z" {
		t.Fatalf("expected z next (y is canonical), got slot=%d found=%v", slot, found)
	}
}

func TestRoundRobinSelectorReportsDoneWhenCanonical(t *testing.T) {
	scope, vars := newTestScope(t, "x")
	box := NewBox(scope)
	box.SetDomain(vars["x"], NewIntervalDomain(Singleton(1)))

	sel := NewRoundRobinSelector(scope)
	if _, found := sel.Select(box); found {
		t.Fatalf("expected no variable to split once every domain is canonical")
	}
}

func TestLargestDomainSelectorPicksWidest(t *testing.T) {
	scope, vars := newTestScope(t, "x", "y")
	box := NewBox(scope)
	box.SetDomain(vars["x"], NewIntervalDomain(NewInterval(0, 1)))
	box.SetDomain(vars["y"], NewIntervalDomain(NewInterval(0, 100)))

	sel := NewLargestDomainSelector(scope)
	slot, found := sel.Select(box)
	if !found || scope.At(slot).Name() != "y" {
		t.Fatalf("expected y (widest), got slot=%d found=%v", slot, found)
	}
}

func TestSmearSumRelSelectorPrefersHigherSensitivity(t *testing.T) {
	// f = 10*x + y over x,y in [-1,1]: x's partial derivative (10) and
	// width dominate y's (1), so SSR should pick x even though the two
	// domains are equally wide.
	scope, vars := newTestScope(t, "x", "y")
	dag := NewDag(scope)
	box := NewBox(scope)
	box.SetDomain(vars["x"], NewIntervalDomain(NewInterval(-1, 1)))
	box.SetDomain(vars["y"], NewIntervalDomain(NewInterval(-1, 1)))

	f := Add(Mul(ConstTerm(10), VarTerm(vars["x"])), VarTerm(vars["y"]))
	c := dag.InsertConstraint("c1", f, ConstTerm(0), RelEq)

	sel := NewSmearSumRelSelector(dag, []*Constraint{c}, scope)
	slot, found := sel.Select(box)
	if !found || scope.At(slot).Name() != "x" {
		t.Fatalf("expected x to score higher, got slot=%d found=%v", slot, found)
	}
}

func TestHybridDomRobinSelectorAlternates(t *testing.T) {
	scope, vars := newTestScope(t, "x", "y")
	box := NewBox(scope)
	box.SetDomain(vars["x"], NewIntervalDomain(NewInterval(0, 1)))
	box.SetDomain(vars["y"], NewIntervalDomain(NewInterval(0, 100)))

	sel := NewHybridDomRobinSelector(scope, 2)
	// call 1: round-robin (not a multiple of period) -> x (slot 0, first cycle)
	slot1, _ := sel.Select(box)
	// call 2: largest-domain (multiple of period) -> y (widest)
	slot2, _ := sel.Select(box)
	if scope.At(slot1).Name() != "x" {
		t.Fatalf("expected round-robin pick x first, got %s", scope.At(slot1).Name())
	}
	if scope.At(slot2).Name() != "y" {
		t.Fatalf("expected largest-domain pick y second, got %s", scope.At(slot2).Name())
	}
}

func TestImageDeficitZeroWhenInsideTarget(t *testing.T) {
	if d := imageDeficit(NewInterval(1, 2), NewInterval(0, 3)); d != 0 {
		t.Fatalf("expected 0 deficit for a fully contained interval, got %v", d)
	}
}

func TestImageDeficitPositiveWhenOutside(t *testing.T) {
	d := imageDeficit(NewInterval(4, 6), NewInterval(0, 3))
	if d <= 0 {
		t.Fatalf("expected a positive deficit, got %v", d)
	}
}
