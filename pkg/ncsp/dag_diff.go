package ncsp

// Reverse-mode interval differentiation (§4.2 "Differentiation"): a
// single descending sweep over a constraint's subgraph accumulates, at
// every node, the interval-enclosed adjoint ∂root/∂node, seeded with 1 at
// the root. Non-smooth ops (Abs, Sgn, Min, Max) use a sound sub-gradient
// enclosure rather than a single selected branch.

// JacobianRow returns ∂f/∂v for every v in scope, f the function rooted
// at root, evaluated over box's current intervals. Unreferenced
// variables get the zero interval.
func (d *Dag) JacobianRow(root int, box *Box, scope *Scope) []Interval {
	ids := d.reachableFrom(root)
	for _, id := range ids {
		d.evalNode(id, box)
	}

	adj := make(map[int]Interval, len(ids))
	adj[root] = Singleton(1)

	row := make([]Interval, scope.Size())
	for i := range row {
		row[i] = Singleton(0)
	}

	for k := len(ids) - 1; k >= 0; k-- {
		id := ids[k]
		a, ok := adj[id]
		if !ok || a.IsEmpty() {
			continue
		}
		node := d.nodes[id]
		if node.op == OpConst {
			continue
		}
		if node.op == OpVar {
			if slot, ok := scope.IndexOf(node.variable); ok {
				row[slot] = row[slot].Add(a)
			}
			continue
		}
		for ci, local := range localPartials(d, id, node) {
			child := node.children[ci]
			contrib := a.Mul(local)
			if existing, ok := adj[child]; ok {
				adj[child] = existing.Add(contrib)
			} else {
				adj[child] = contrib
			}
		}
	}
	return row
}

// Jacobian stacks JacobianRow for every constraint, yielding the
// interval Jacobian J(X) the Newton/Gauss–Seidel certifier (§4.5) needs
// for a square system.
func (d *Dag) Jacobian(constraints []*Constraint, box *Box, scope *Scope) [][]Interval {
	rows := make([][]Interval, len(constraints))
	for i, c := range constraints {
		rows[i] = d.JacobianRow(c.root, box, scope)
	}
	return rows
}

// localPartials returns, for each of node's children (in order), the
// interval enclosure of the partial derivative of node's value with
// respect to that child, evaluated using the children's (and node's own)
// last cached forward values.
func localPartials(d *Dag, id int, node dagNode) []Interval {
	x := d.values[node.children[0]]
	switch node.op {
	case OpNeg:
		return []Interval{Singleton(-1)}
	case OpAbs:
		return []Interval{x.SgnInterval()}
	case OpSgn:
		return []Interval{Singleton(0)}
	case OpSqr:
		return []Interval{x.Mul(Singleton(2))}
	case OpSqrt:
		z := d.values[id]
		return []Interval{Singleton(0.5).Div(z)}
	case OpPowN:
		return []Interval{Singleton(float64(node.n)).Mul(x.PowN(node.n - 1))}
	case OpExp:
		return []Interval{d.values[id]}
	case OpLog:
		return []Interval{Singleton(1).Div(x)}
	case OpCos:
		return []Interval{x.Sin().Neg()}
	case OpSin:
		return []Interval{x.Cos()}
	case OpTan:
		z := d.values[id]
		return []Interval{Singleton(1).Add(z.Sqr())}
	case OpAdd:
		return []Interval{Singleton(1), Singleton(1)}
	case OpSub:
		return []Interval{Singleton(1), Singleton(-1)}
	case OpMul:
		y := d.values[node.children[1]]
		return []Interval{y, x}
	case OpDiv:
		y := d.values[node.children[1]]
		return []Interval{Singleton(1).Div(y), x.Neg().Div(y.Sqr())}
	case OpMin, OpMax:
		return []Interval{NewInterval(0, 1), NewInterval(0, 1)}
	default:
		panic(WrapAssertion("dag.localPartials: unhandled op %d", node.op))
	}
}
