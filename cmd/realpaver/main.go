// Command realpaver runs the branch-and-prune solver of §4 over a model
// written in the text format of §6: `realpaver solve MODEL.rp [flags]`.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/sirupsen/logrus"

	"github.com/gitrdm/realpaver/internal/checkpoint"
	"github.com/gitrdm/realpaver/internal/lang"
	"github.com/gitrdm/realpaver/internal/params"
	"github.com/gitrdm/realpaver/internal/report"
	"github.com/gitrdm/realpaver/pkg/ncsp"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the CLI and returns the process exit code: 0 on normal
// termination, 1 on any malformed input (§7 category 1, the only
// category the CLI itself is responsible for mapping).
func run(args []string) int {
	if len(args) == 0 || args[0] != "solve" {
		fmt.Fprintln(os.Stderr, "usage: realpaver solve MODEL.rp [flags]")
		return 1
	}

	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	paramsPath := fs.String("params", "", "parameter file (§6 Preprocessing/Propagation/... sections)")
	preset := fs.String("preset", "", "named built-in parameter preset (fast, thorough, certify-only)")
	resume := fs.String("resume", "", "run ID to resume from --checkpoint")
	checkpointPath := fs.String("checkpoint", "realpaver.checkpoint", "checkpoint database path")
	style := fs.String("style", "vertical", "solution report style: vertical or single")
	verbose := fs.Bool("verbose", false, "log every dispatched search node")
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: realpaver solve MODEL.rp [flags]")
		return 1
	}

	log := logrus.New()
	if !*verbose {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}

	p, err := loadParams(*paramsPath, *preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "realpaver: %v\n", err)
		return 1
	}

	modelPath := fs.Arg(0)
	src, err := os.ReadFile(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "realpaver: reading %s: %v\n", modelPath, err)
		return 1
	}

	model, err := lang.NewParser(string(src)).Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "realpaver: %v\n", err)
		return 1
	}

	problem, err := newLowerer().lowerProblem(model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "realpaver: %v\n", err)
		return 1
	}

	store, err := checkpoint.Open(*checkpointPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "realpaver: %v\n", err)
		return 1
	}
	defer store.Close()

	cfg, err := buildSolverConfig(problem, p, log.WithField("model", modelPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "realpaver: %v\n", err)
		return 1
	}

	runID := *resume
	if runID != "" {
		pending, _, err := store.Load(runID, problem.Scope)
		if err != nil {
			fmt.Fprintf(os.Stderr, "realpaver: %v\n", err)
			return 1
		}
		for _, node := range pending {
			cfg.Space.Insert(node)
		}
	} else {
		runID = newRunID()
	}

	result := ncsp.NewSolver(problem, cfg).Solve()

	w := report.NewWriter(problem, reportStyle(*style))
	for _, sol := range result.Solutions {
		if err := w.WriteSolution(os.Stdout, sol); err != nil {
			fmt.Fprintf(os.Stderr, "realpaver: writing solution: %v\n", err)
			return 1
		}
	}

	if len(result.Pending) > 0 {
		if err := store.Save(runID, result.Pending, result.Solutions); err != nil {
			fmt.Fprintf(os.Stderr, "realpaver: saving checkpoint: %v\n", err)
			return 1
		}
		boxes := make([]*ncsp.Box, len(result.Pending))
		for i, n := range result.Pending {
			boxes[i] = n.Box
		}
		if err := w.WritePending(os.Stdout, boxes); err != nil {
			fmt.Fprintf(os.Stderr, "realpaver: writing pending boxes: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "realpaver: %s fired; resume with --resume %s\n",
			result.Env.FiredLimit, runID)
	}

	return 0
}

func reportStyle(s string) report.Style {
	if s == "single" {
		return report.StyleSingleLine
	}
	return report.StyleVertical
}

// loadParams resolves the effective ncsp.Params from, in order of
// precedence, an explicit --params file, a named --preset, or the stock
// defaults (§6 "a run with no parameter file uses the documented
// defaults").
func loadParams(paramsPath, preset string) (ncsp.Params, error) {
	if paramsPath != "" {
		text, err := os.ReadFile(paramsPath)
		if err != nil {
			return ncsp.Params{}, fmt.Errorf("reading parameter file %s: %w", paramsPath, err)
		}
		return params.Parse(string(text))
	}
	if preset != "" {
		presets, err := params.BuiltinPresets()
		if err != nil {
			return ncsp.Params{}, err
		}
		return presets.Apply(preset)
	}
	return ncsp.DefaultParams(), nil
}

// newRunID produces a fresh checkpoint key when a run is not resuming
// one; the solver's own Environment.RunID (stamped via satori/go.uuid)
// is generated independently per Solve call, so the CLI keeps its own
// stable key to save and resume under.
func newRunID() string {
	return fmt.Sprintf("run-%d", time.Now().UnixNano())
}

var errUnknownEnum = goerrors.NewKind("unrecognized parameter value %q for %s")

// buildSolverConfig wires a ncsp.SolverConfig from p: the propagation
// pool (HC4 or BC4, optionally wrapped with CID and Newton per §4.3/§4.6),
// the selector/slicer pair of §4.7, the search space of §4.8, and the
// prover of §4.10 when the problem is a square system.
func buildSolverConfig(problem *ncsp.Problem, p ncsp.Params, log *logrus.Entry) (ncsp.SolverConfig, error) {
	pool, err := buildPropagationPool(problem, p)
	if err != nil {
		return ncsp.SolverConfig{}, err
	}

	selector, err := buildSelector(problem, p)
	if err != nil {
		return ncsp.SolverConfig{}, err
	}

	space, err := buildSearchSpace(p)
	if err != nil {
		return ncsp.SolverConfig{}, err
	}

	var prover *ncsp.Prover
	if len(problem.Constraints) == problem.Scope.Size() {
		// NEWTON_CERTIFY_{ITER_LIMIT,DTOL} (§6) control this pass
		// specifically; it shares the general NEWTON_XTOL width
		// tolerance since §6 names no separate certify-phase one.
		newton := ncsp.NewNewtonCertifier(problem.Dag, problem.Constraints, problem.Scope,
			p.NewtonXTol, p.NewtonCertifyDTol, p.NewtonCertifyIterLimit)
		prover = ncsp.NewProver(newton, p.InflationDelta, p.InflationChi, p.NewtonCertifyIterLimit)
	}

	return ncsp.SolverConfig{
		Pool:       pool,
		Selector:   selector,
		Slicer:     ncsp.NewBisectionSlicer(),
		Space:      space,
		Prover:     prover,
		Budgets:    p.Budgets(),
		SplitInner: p.SplitInner,
		ClusterGap: p.SolutionClusterGap,
		Log:        log,
	}, nil
}

func buildPropagationPool(problem *ncsp.Problem, p ncsp.Params) (ncsp.Contractor, error) {
	children := make([]ncsp.Contractor, len(problem.Constraints))
	for i, c := range problem.Constraints {
		switch p.PropagationBase {
		case "BC4":
			// §6 names no separate BC3 peel factor; reuse the
			// general Newton tolerances for BC4's inner BC3 passes.
			children[i] = ncsp.NewBC4Contractor(problem.Dag, c, p.NewtonXTol, p.NewtonIterLimit)
		case "HC4", "":
			children[i] = ncsp.NewHC4Contractor(problem.Dag, c)
		default:
			return nil, errUnknownEnum.New(p.PropagationBase, "PROPAGATION_BASE")
		}
	}

	var pool ncsp.Contractor = ncsp.NewPropagator(children, problem.Scope, p.PropagationDTol, p.PropagationIterLimit)

	if p.PropagationWithNewton && len(problem.Constraints) == problem.Scope.Size() {
		newton := ncsp.NewNewtonCertifier(problem.Dag, problem.Constraints, problem.Scope,
			p.NewtonXTol, p.NewtonDTol, p.NewtonIterLimit)
		pool = ncsp.NewListContractor(pool, newton)
	}

	if p.PropagationWithCID {
		pool = ncsp.NewMaxCIDContractor(pool, 3)
	}

	return ncsp.NewLoopContractor(pool, p.PropagationDTol, p.PropagationIterLimit), nil
}

func buildSelector(problem *ncsp.Problem, p ncsp.Params) (ncsp.Selector, error) {
	switch p.SplitSelector {
	case "RR", "":
		return ncsp.NewRoundRobinSelector(problem.Scope), nil
	case "LF", "SF":
		// Only the widest-domain heuristic is implemented;
		// both "largest first" and "smallest first" resolve to it.
		return ncsp.NewLargestDomainSelector(problem.Scope), nil
	case "MIXED_SLF":
		return ncsp.NewHybridDomRobinSelector(problem.Scope, 4), nil
	case "SSR":
		return ncsp.NewSmearSumRelSelector(problem.Dag, problem.Constraints, problem.Scope), nil
	default:
		return nil, errUnknownEnum.New(p.SplitSelector, "SPLIT_SELECTOR")
	}
}

func buildSearchSpace(p ncsp.Params) (ncsp.SearchSpace, error) {
	switch p.BPNodeSelection {
	case "DFS", "":
		return ncsp.NewDFSSearchSpace(), nil
	case "BFS":
		return ncsp.NewBFSSearchSpace(), nil
	case "DMDFS":
		return ncsp.NewDMDFSSearchSpace(), nil
	case "IDFS":
		return ncsp.NewHybridSearchSpace(ncsp.MetricDepth, 4), nil
	case "PDFS":
		return ncsp.NewHybridSearchSpace(ncsp.MetricBoxPerimeter, 4), nil
	case "GPDFS":
		return ncsp.NewHybridSearchSpace(ncsp.MetricGridPerimeter, 4), nil
	default:
		return nil, errUnknownEnum.New(p.BPNodeSelection, "BP_NODE_SELECTION")
	}
}
