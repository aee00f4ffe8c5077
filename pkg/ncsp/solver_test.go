package ncsp

import "testing"

func buildLinearProblem(t *testing.T) (*Problem, map[string]*Variable) {
	scope, vars := newTestScope(t, "x", "y")
	vars["x"].initial = NewInterval(-100, 100)
	vars["y"].initial = NewInterval(-100, 100)
	dag := NewDag(scope)
	c1 := dag.InsertConstraint("sum", Add(VarTerm(vars["x"]), VarTerm(vars["y"])), ConstTerm(10), RelEq)
	c2 := dag.InsertConstraint("diff", Sub(VarTerm(vars["x"]), VarTerm(vars["y"])), ConstTerm(2), RelEq)
	return &Problem{Scope: scope, Dag: dag, Constraints: []*Constraint{c1, c2}}, vars
}

func TestSolverFindsLinearSolution(t *testing.T) {
	problem, vars := buildLinearProblem(t)
	pool := NewHC4Pool(problem.Dag)
	loop := NewLoopContractor(pool, 1e-12, 100)
	newton := NewNewtonCertifier(problem.Dag, problem.Constraints, problem.Scope, 1e-9, 1e-12, 30)
	prover := NewProver(newton, 0.1, 1e-10, 3)

	solver := NewSolver(problem, SolverConfig{
		Pool:       loop,
		Selector:   NewRoundRobinSelector(problem.Scope),
		Slicer:     NewBisectionSlicer(),
		Space:      NewDFSSearchSpace(),
		Prover:     prover,
		Budgets:    Budgets{NodeLimit: 1000},
		ClusterGap: 1e-6,
	})

	result := solver.Solve()
	if len(result.Solutions) == 0 {
		t.Fatalf("expected at least one solution")
	}
	found := false
	for _, sol := range result.Solutions {
		x := sol.Box.Interval(vars["x"])
		y := sol.Box.Interval(vars["y"])
		if x.Contains(6) && y.Contains(4) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a solution enclosing x=6,y=4, got %+v", result.Solutions)
	}
	if result.Env.RunID == "" {
		t.Fatalf("expected a non-empty run ID")
	}
}

func TestSolverStopsAtNodeLimit(t *testing.T) {
	problem, _ := buildLinearProblem(t)
	pool := NewHC4Pool(problem.Dag)

	solver := NewSolver(problem, SolverConfig{
		Pool:     pool,
		Selector: NewRoundRobinSelector(problem.Scope),
		Slicer:   NewBisectionSlicer(),
		Space:    NewDFSSearchSpace(),
		Budgets:  Budgets{NodeLimit: 2},
	})

	result := solver.Solve()
	if result.Env.FiredLimit != LimitNode {
		t.Fatalf("expected LimitNode to fire, got %s", result.Env.FiredLimit)
	}
	if result.Env.NodesExplored > 2 {
		t.Fatalf("expected at most 2 nodes explored, got %d", result.Env.NodesExplored)
	}
}

func TestSolverDetectsInfeasibleProblem(t *testing.T) {
	scope, vars := newTestScope(t, "x")
	dag := NewDag(scope)
	c1 := dag.InsertConstraint("c1", VarTerm(vars["x"]), ConstTerm(5), RelEq)
	c2 := dag.InsertConstraint("c2", VarTerm(vars["x"]), ConstTerm(-5), RelEq)
	problem := &Problem{Scope: scope, Dag: dag, Constraints: []*Constraint{c1, c2}}

	pool := NewHC4Pool(dag)
	solver := NewSolver(problem, SolverConfig{
		Pool:     pool,
		Selector: NewRoundRobinSelector(scope),
		Slicer:   NewBisectionSlicer(),
		Space:    NewDFSSearchSpace(),
		Budgets:  Budgets{NodeLimit: 100},
	})

	result := solver.Solve()
	if len(result.Solutions) != 0 {
		t.Fatalf("expected no solutions for an infeasible problem, got %d", len(result.Solutions))
	}
}
