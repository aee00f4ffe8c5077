package ncsp

import "testing"

func newTestScope(t *testing.T, names ...string) (*Scope, map[string]*Variable) {
	t.Helper()
	vars := make(map[string]*Variable)
	b := NewScopeBuilder()
	for i, name := range names {
		v, err := NewVariable(i+1, name, VarReal, NewInterval(-10, 10), DefaultTolerance())
		if err != nil {
			t.Fatalf("NewVariable(%s): %v", name, err)
		}
		vars[name] = v
		b.Add(v)
	}
	return b.Build(), vars
}

func TestDagHashConsing(t *testing.T) {
	scope, vars := newTestScope(t, "x", "y")
	dag := NewDag(scope)

	x, y := VarTerm(vars["x"]), VarTerm(vars["y"])
	t1 := Add(x, y)
	t2 := Add(x, y)

	id1 := dag.Insert(t1)
	id2 := dag.Insert(t2)
	if id1 != id2 {
		t.Fatalf("structurally identical terms should hash-cons to the same node: got %d and %d", id1, id2)
	}
	if dag.NodeCount() != 3 {
		t.Fatalf("expected 3 distinct nodes (x, y, x+y), got %d", dag.NodeCount())
	}
}

func TestDagReviseLinearEquation(t *testing.T) {
	// x + y = 5, x in [-10,10], y in [-10,10]: no contraction possible
	// without further constraints, so this only checks soundness (the
	// root's image must contain the line x+y=5).
	scope, vars := newTestScope(t, "x", "y")
	dag := NewDag(scope)
	box := NewBox(scope)

	c := dag.InsertConstraint("c1", Add(VarTerm(vars["x"]), VarTerm(vars["y"])), ConstTerm(5), RelEq)
	proof := dag.Revise(c, box)
	if proof == Empty {
		t.Fatalf("x+y=5 should remain satisfiable over [-10,10]x[-10,10]")
	}
}

func TestDagReviseContractsSingleton(t *testing.T) {
	// x = 3, x in [-10, 10] contracts to [3,3].
	scope, vars := newTestScope(t, "x")
	dag := NewDag(scope)
	box := NewBox(scope)

	c := dag.InsertConstraint("c1", VarTerm(vars["x"]), ConstTerm(3), RelEq)
	if proof := dag.Revise(c, box); proof == Empty {
		t.Fatalf("x=3 should be satisfiable")
	}
	got := box.Interval(vars["x"])
	if got.Lo() != 3 || got.Hi() != 3 {
		t.Fatalf("expected x contracted to [3,3], got %s", got)
	}
}

func TestDagReviseDetectsInfeasibility(t *testing.T) {
	// x = 100 is infeasible given x in [-10, 10].
	scope, vars := newTestScope(t, "x")
	dag := NewDag(scope)
	box := NewBox(scope)

	c := dag.InsertConstraint("c1", VarTerm(vars["x"]), ConstTerm(100), RelEq)
	if proof := dag.Revise(c, box); proof != Empty {
		t.Fatalf("expected Empty for an out-of-range equation, got %s", proof)
	}
}

func TestDagMultiOccurrence(t *testing.T) {
	scope, vars := newTestScope(t, "x", "y")
	dag := NewDag(scope)

	// x*x + y: x occurs twice, y once.
	f := Add(Mul(VarTerm(vars["x"]), VarTerm(vars["x"])), VarTerm(vars["y"]))
	root := dag.Insert(f)

	counts := dag.OccurrenceCounts(root)
	if counts[vars["x"]] != 2 {
		t.Fatalf("expected x to occur twice, got %d", counts[vars["x"]])
	}
	if counts[vars["y"]] != 1 {
		t.Fatalf("expected y to occur once, got %d", counts[vars["y"]])
	}

	multi := dag.MultiOccurrenceVars(root)
	if len(multi) != 1 || !multi[0].Equal(vars["x"]) {
		t.Fatalf("expected exactly x as the multi-occurrence variable, got %v", multi)
	}
}

func TestDagJacobianLinear(t *testing.T) {
	// f(x, y) = 2x + 3y: df/dx = 2, df/dy = 3 everywhere.
	scope, vars := newTestScope(t, "x", "y")
	dag := NewDag(scope)
	box := NewBox(scope)

	f := Add(Mul(ConstTerm(2), VarTerm(vars["x"])), Mul(ConstTerm(3), VarTerm(vars["y"])))
	root := dag.Insert(f)

	row := dag.JacobianRow(root, box, scope)
	if !row[0].Contains(2) {
		t.Fatalf("df/dx should enclose 2, got %s", row[0])
	}
	if !row[1].Contains(3) {
		t.Fatalf("df/dy should enclose 3, got %s", row[1])
	}
}

func TestDagEvalOnlyMatchesFullEval(t *testing.T) {
	scope, vars := newTestScope(t, "x", "y")
	dag := NewDag(scope)
	box := NewBox(scope)

	f := Add(VarTerm(vars["x"]), Sqr(VarTerm(vars["y"])))
	root := dag.Insert(f)
	dag.EvalForward(box)
	full := dag.ValueAt(root)

	box.SetDomain(vars["x"], NewIntervalDomain(NewInterval(2, 2)))
	slot, _ := scope.IndexOf(vars["x"])
	dag.EvalOnly(slot, box)
	incremental := dag.ValueAt(root)

	dag.EvalForward(box)
	wantFull := dag.ValueAt(root)

	if !incremental.Equal(wantFull) {
		t.Fatalf("EvalOnly result %s diverged from a full EvalForward %s", incremental, wantFull)
	}
	_ = full
}
