package ncsp

// Revise is HC4-revise (§4.4): one reverse-projection sweep over the
// subgraph of a single constraint's root, writing the refined variable
// intervals back to box. Returns Empty iff any intersection along the
// way is empty; the box is left unspecified in that case, matching the
// contractor contract of §4.3.
func (d *Dag) Revise(c *Constraint, box *Box) Proof {
	ids := d.reachableFrom(c.root)
	for _, id := range ids {
		d.evalNode(id, box)
	}

	root := d.values[c.root].Intersect(c.image)
	if root.IsEmpty() {
		return Empty
	}
	d.values[c.root] = root

	for k := len(ids) - 1; k >= 0; k-- {
		id := ids[k]
		n := d.nodes[id]
		switch n.op.arity() {
		case 0:
			continue
		case 1:
			nx, nz := projectUnary(n.op, d.values[n.children[0]], d.values[id], n.n)
			d.values[id] = nz
			if !d.tighten(n.children[0], nx) {
				return Empty
			}
		case 2:
			nx, ny, nz := projectBinary(n.op, d.values[n.children[0]], d.values[n.children[1]], d.values[id])
			d.values[id] = nz
			if !d.tighten(n.children[0], nx) {
				return Empty
			}
			if !d.tighten(n.children[1], ny) {
				return Empty
			}
		}
	}

	for _, id := range ids {
		if d.nodes[id].op == OpVar {
			slot, ok := box.Scope().IndexOf(d.nodes[id].variable)
			if !ok {
				continue
			}
			if box.ContractAt(slot, d.values[id]) == Empty {
				return Empty
			}
		}
	}
	return Maybe
}

// tighten intersects id's cached value with proposal in place, reporting
// false (and leaving the DAG's cache at the empty result) if the
// intersection is empty.
func (d *Dag) tighten(id int, proposal Interval) bool {
	v := d.values[id].Intersect(proposal)
	d.values[id] = v
	return !v.IsEmpty()
}

func projectUnary(op TermOp, x, z Interval, n int) (nx, nz Interval) {
	switch op {
	case OpNeg:
		return ProjNeg(x, z)
	case OpAbs:
		return ProjAbs(x, z)
	case OpSgn:
		return ProjSgn(x, z)
	case OpSqr:
		return ProjSqr(x, z)
	case OpSqrt:
		return ProjSqrt(x, z)
	case OpPowN:
		return ProjPowN(x, z, n)
	case OpExp:
		return ProjExp(x, z)
	case OpLog:
		return ProjLog(x, z)
	case OpCos:
		return ProjCos(x, z)
	case OpSin:
		return ProjSin(x, z)
	case OpTan:
		return ProjTan(x, z)
	default:
		panic(WrapAssertion("dag.projectUnary: unhandled op %d", op))
	}
}

func projectBinary(op TermOp, x, y, z Interval) (nx, ny, nz Interval) {
	switch op {
	case OpAdd:
		return ProjAdd(x, y, z)
	case OpSub:
		return ProjSub(x, y, z)
	case OpMul:
		return ProjMul(x, y, z)
	case OpDiv:
		return ProjDiv(x, y, z)
	case OpMin:
		return ProjMin(x, y, z)
	case OpMax:
		return ProjMax(x, y, z)
	default:
		panic(WrapAssertion("dag.projectBinary: unhandled op %d", op))
	}
}
