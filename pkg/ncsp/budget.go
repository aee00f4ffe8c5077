package ncsp

import "time"

// LimitKind names which budget of §4.9 fired, recorded on Environment so
// a caller can tell a partial result from a complete one (§7 category 4:
// "limit reached is not itself fatal").
type LimitKind int

const (
	// LimitNone means no budget has fired.
	LimitNone LimitKind = iota
	// LimitTime means the wall-clock time limit fired.
	LimitTime
	// LimitNode means the node-count limit fired.
	LimitNode
	// LimitSolution means the solution-count limit fired.
	LimitSolution
	// LimitDepth means a node was discarded for exceeding the depth
	// limit (§4.9 "discard with flag"), distinct from the other three
	// which stop the whole loop.
	LimitDepth
)

func (k LimitKind) String() string {
	switch k {
	case LimitTime:
		return "TIME_LIMIT"
	case LimitNode:
		return "NODE_LIMIT"
	case LimitSolution:
		return "SOLUTION_LIMIT"
	case LimitDepth:
		return "DEPTH_LIMIT"
	default:
		return "none"
	}
}

// Budgets bounds the outer B&P loop (§4.9 "Budgets"). Zero/negative
// fields mean "unbounded" for that dimension.
type Budgets struct {
	TimeLimit     time.Duration
	NodeLimit     int
	SolutionLimit int
	DepthLimit    int
}

// exceeded reports which of the three loop-stopping budgets (time, node,
// solution) has fired given the current counters, or LimitNone if none
// has. DepthLimit is checked per-node by the driver directly since it
// discards one node rather than stopping the whole loop.
func (b Budgets) exceeded(elapsed time.Duration, nodes, solutions int) LimitKind {
	if b.TimeLimit > 0 && elapsed >= b.TimeLimit {
		return LimitTime
	}
	if b.NodeLimit > 0 && nodes >= b.NodeLimit {
		return LimitNode
	}
	if b.SolutionLimit > 0 && solutions >= b.SolutionLimit {
		return LimitSolution
	}
	return LimitNone
}

// depthExceeded reports whether depth has reached the configured depth
// limit (0/negative meaning unbounded).
func (b Budgets) depthExceeded(depth int) bool {
	return b.DepthLimit > 0 && depth >= b.DepthLimit
}
