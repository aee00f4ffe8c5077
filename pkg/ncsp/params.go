package ncsp

import "time"

// Params bundles every tunable named by §6's parameter file: propagation
// base and tolerances, Newton/Gauss-Seidel settings, the search-space and
// split strategy selection, and the budgets of §4.9. internal/params
// parses a flat `KEY VALUE` file (or a named YAML preset) into one of
// these; cmd/realpaver wires the result straight into a SolverConfig.
type Params struct {
	Preprocessing bool

	PropagationBase        string // "HC4" | "BC4"
	PropagationDTol        float64
	PropagationIterLimit   int
	PropagationWithCID     bool
	PropagationWithPolytope string // "no" | "RLT" | "TAYLOR" -- always treated as "no" (§3 documented limitation)
	PropagationWithNewton  bool

	NewtonXTol      float64
	NewtonDTol      float64
	NewtonIterLimit int

	InflationDelta float64
	InflationChi   float64

	GaussSeidelXTol      float64
	GaussSeidelDTol      float64
	GaussSeidelIterLimit int

	BPNodeSelection string // "DFS" | "BFS" | "DMDFS" | "IDFS" | "PDFS" | "GPDFS"
	SplitSelector   string // "RR" | "LF" | "SF" | "MIXED_SLF" | "SSR"
	SplitSlicer     string // "BISECTION"
	SplitInner      bool

	TimeLimit          time.Duration
	NodeLimit          int
	SolutionLimit      int
	DepthLimit         int
	SolutionClusterGap float64

	RelaxationEqTol        float64
	NewtonCertifyIterLimit int
	NewtonCertifyDTol      float64
}

// DefaultParams returns realpaver's stock defaults: HC4 propagation with
// Newton certification enabled, round-robin splitting, plain DFS search,
// and no budgets (everything unbounded until the caller tightens it).
func DefaultParams() Params {
	return Params{
		Preprocessing: true,

		PropagationBase:         "HC4",
		PropagationDTol:         1e-8,
		PropagationIterLimit:    200,
		PropagationWithCID:      false,
		PropagationWithPolytope: "no",
		PropagationWithNewton:   true,

		NewtonXTol:      1e-9,
		NewtonDTol:      1e-12,
		NewtonIterLimit: 30,

		InflationDelta: 0.1,
		InflationChi:   1e-10,

		GaussSeidelXTol:      1e-9,
		GaussSeidelDTol:      1e-12,
		GaussSeidelIterLimit: 30,

		BPNodeSelection: "DFS",
		SplitSelector:   "RR",
		SplitSlicer:     "BISECTION",
		SplitInner:      false,

		TimeLimit:          0,
		NodeLimit:          0,
		SolutionLimit:      0,
		DepthLimit:         0,
		SolutionClusterGap: 1e-6,

		RelaxationEqTol:        1e-8,
		NewtonCertifyIterLimit: 3,
		NewtonCertifyDTol:      1e-10,
	}
}

// Budgets projects the budget-related fields into the Budgets value the
// solver driver's loop actually checks.
func (p Params) Budgets() Budgets {
	return Budgets{
		TimeLimit:     p.TimeLimit,
		NodeLimit:     p.NodeLimit,
		SolutionLimit: p.SolutionLimit,
		DepthLimit:    p.DepthLimit,
	}
}
