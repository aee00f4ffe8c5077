package ncsp

import (
	"time"

	"github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// Problem bundles the shared immutable handles a solve run needs: the
// scope every box is built over, the DAG every constraint's expression
// lives in, the constraints themselves, and any aliases (§6, supplement:
// named DAG terms reported alongside solutions but never branched on,
// per original_source/Alias.cpp).
type Problem struct {
	Scope       *Scope
	Dag         *Dag
	Constraints []*Constraint
	Aliases     []*Alias
}

// Alias is a named expression evaluated read-only against a certified
// solution and rendered alongside it (§6 optional "Aliases" section).
type Alias struct {
	Name string
	Term *Term
}

// Eval evaluates the alias's term against box.
func (a *Alias) Eval(box *Box) Interval { return a.Term.Eval(box) }

// NodeInfo is the supplemented per-node auxiliary record of
// original_source/NcspNodeInfoMap.cpp: which budget discarded a node (if
// any) and which variable it was split on, kept independent of the box
// so it survives after the box itself is gone.
type NodeInfo struct {
	Depth       int
	SplitVar    string
	DiscardedBy LimitKind
}

// Environment carries the run-scoped, mutable state of one Solve call:
// its correlation ID (§1 ambient stack, stamped via satori/go.uuid), a
// logger, node counters, which loop-stopping budget (if any) fired, and
// the NodeInfo of every node dispatched.
type Environment struct {
	RunID         string
	Log           *logrus.Entry
	NodesExplored int
	FiredLimit    LimitKind
	NodeInfos     map[int]*NodeInfo
	startedAt     time.Time
}

func newEnvironment(log *logrus.Entry) *Environment {
	runID := "unknown"
	if id, err := uuid.NewV4(); err == nil {
		runID = id.String()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Environment{
		RunID:     runID,
		Log:       log.WithField("run_id", runID),
		NodeInfos: make(map[int]*NodeInfo),
		startedAt: time.Now(),
	}
}

// SolverConfig bundles the wiring a Solver needs beyond the Problem
// itself: whichever contractor pool, selector, slicer, search-space
// strategy, and prover the parameter file (§6) selected.
type SolverConfig struct {
	Pool       Contractor
	Selector   Selector
	Slicer     Slicer
	Space      SearchSpace
	Prover     *Prover
	Budgets    Budgets
	SplitInner bool
	ClusterGap float64
	Tracer     opentracing.Tracer
	Log        *logrus.Entry
}

// Solver drives the outer branch-and-prune loop of §4.9 over a fixed
// Problem and SolverConfig.
type Solver struct {
	problem    *Problem
	pool       Contractor
	selector   Selector
	slicer     Slicer
	space      SearchSpace
	prover     *Prover
	budgets    Budgets
	splitInner bool
	clusterGap float64
	tracer     opentracing.Tracer
	log        *logrus.Entry
}

// NewSolver builds a Solver for problem using cfg's wiring.
func NewSolver(problem *Problem, cfg SolverConfig) *Solver {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Solver{
		problem:    problem,
		pool:       cfg.Pool,
		selector:   cfg.Selector,
		slicer:     cfg.Slicer,
		space:      cfg.Space,
		prover:     cfg.Prover,
		budgets:    cfg.Budgets,
		splitInner: cfg.SplitInner,
		clusterGap: cfg.ClusterGap,
		tracer:     tracer,
		log:        log,
	}
}

// Result is what Solve reports back: the collected, certified, clustered
// solutions, and the run's Environment for introspection.
type Result struct {
	Solutions []Solution
	Pending   []*SearchNode
	Env       *Environment
}

// Solve runs the outer loop pseudo-contract of §4.9: pop a node, contract
// it, classify it Empty/Inner/split/depth-cut, repeat while pending nodes
// remain and every budget is unspent; then certifies and clusters the
// collected candidates.
func (s *Solver) Solve() *Result {
	env := newEnvironment(s.log)

	root := &SearchNode{Box: NewBox(s.problem.Scope), Depth: 0}
	s.space.Insert(root)

	var collected []Solution

	for s.space.Size() > 0 {
		elapsed := time.Since(env.startedAt)
		if limit := s.budgets.exceeded(elapsed, env.NodesExplored, len(collected)); limit != LimitNone {
			env.FiredLimit = limit
			env.Log.WithField("limit", limit.String()).Warn("budget fired, stopping search")
			break
		}

		node, ok := s.space.PopNext()
		if !ok {
			break
		}
		env.NodesExplored++
		nodeIdx := env.NodesExplored

		span := s.tracer.StartSpan("contract")
		span.SetTag("run_id", env.RunID)
		span.SetTag("depth", node.Depth)
		proof := s.pool.Contract(node.Box)
		span.Finish()

		env.Log.WithFields(logrus.Fields{
			"node":  nodeIdx,
			"depth": node.Depth,
			"proof": proof.String(),
		}).Debug("dispatched search node")

		if proof == Empty {
			continue
		}

		if ClassifyInner(s.problem.Dag, s.problem.Constraints, node.Box) {
			if !s.splitInner {
				collected = append(collected, Solution{Box: node.Box, Proof: Inner})
				continue
			}
		}

		if s.budgets.depthExceeded(node.Depth) {
			env.NodeInfos[nodeIdx] = &NodeInfo{Depth: node.Depth, DiscardedBy: LimitDepth}
			env.Log.WithField("node", nodeIdx).Warn("node discarded: depth limit")
			continue
		}

		slot, found := s.selector.Select(node.Box)
		if !found {
			collected = append(collected, Solution{Box: node.Box, Proof: proof})
			continue
		}

		v := s.selector.Scope().At(slot)
		parts := s.slicer.Slice(node.Box.DomainAt(slot))
		env.NodeInfos[nodeIdx] = &NodeInfo{Depth: node.Depth, SplitVar: v.Name()}

		for _, part := range parts {
			child := node.Box.Clone()
			child.SetDomainAt(slot, part)
			s.space.Insert(&SearchNode{Box: child, Depth: node.Depth + 1})
		}
	}

	if s.prover != nil {
		collected = s.certifyAll(collected, env)
	}

	var pending []*SearchNode
	for s.space.Size() > 0 {
		node, ok := s.space.PopNext()
		if !ok {
			break
		}
		pending = append(pending, node)
	}

	return &Result{Solutions: ClusterSolutions(collected, s.clusterGap), Pending: pending, Env: env}
}

// certifyAll upgrades every non-Inner candidate via the prover (§4.10),
// dropping any the prover proves infeasible.
func (s *Solver) certifyAll(solutions []Solution, env *Environment) []Solution {
	out := make([]Solution, 0, len(solutions))
	for _, sol := range solutions {
		if sol.Proof == Inner {
			out = append(out, sol)
			continue
		}
		proof, certified := s.prover.Certify(sol.Box)
		if proof == Empty {
			env.Log.Debug("prover discarded a candidate solution")
			continue
		}
		out = append(out, Solution{Box: certified, Proof: proof})
	}
	return out
}
