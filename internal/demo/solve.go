// Package demo wires the default solver pipeline (HC4 propagation with
// Newton certification, round-robin splitting, plain DFS search) into a
// single call, so a caller only has to state its problem, not repeat the
// solver wiring cmd/realpaver's buildSolverConfig does for the CLI. No
// other package in this module imports it.
package demo

import "github.com/gitrdm/realpaver/pkg/ncsp"

// Solve runs problem to completion under realpaver's stock defaults.
func Solve(problem *ncsp.Problem) *ncsp.Result {
	p := ncsp.DefaultParams()

	children := make([]ncsp.Contractor, len(problem.Constraints))
	for i, c := range problem.Constraints {
		children[i] = ncsp.NewHC4Contractor(problem.Dag, c)
	}
	pool := ncsp.Contractor(ncsp.NewPropagator(children, problem.Scope, p.PropagationDTol, p.PropagationIterLimit))

	var prover *ncsp.Prover
	if len(problem.Constraints) == problem.Scope.Size() {
		newton := ncsp.NewNewtonCertifier(problem.Dag, problem.Constraints, problem.Scope,
			p.NewtonXTol, p.NewtonCertifyDTol, p.NewtonCertifyIterLimit)
		pool = ncsp.NewListContractor(pool, newton)
		prover = ncsp.NewProver(newton, p.InflationDelta, p.InflationChi, p.NewtonCertifyIterLimit)
	}

	cfg := ncsp.SolverConfig{
		Pool:       ncsp.NewLoopContractor(pool, p.PropagationDTol, p.PropagationIterLimit),
		Selector:   ncsp.NewRoundRobinSelector(problem.Scope),
		Slicer:     ncsp.NewBisectionSlicer(),
		Space:      ncsp.NewDFSSearchSpace(),
		Prover:     prover,
		Budgets:    p.Budgets(),
		ClusterGap: p.SolutionClusterGap,
	}
	return ncsp.NewSolver(problem, cfg).Solve()
}
