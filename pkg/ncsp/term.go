package ncsp

import "fmt"

// TermOp tags the kind of a Term node (§3 "Term"). Unlike the DAG's
// hash-consed nodes, a Term is a plain tree: sharing happens once
// insert(constraint) lifts it into the DAG (dag.go).
type TermOp int

const (
	OpConst TermOp = iota
	OpVar
	OpNeg
	OpAbs
	OpSgn
	OpSqr
	OpSqrt
	OpPowN
	OpExp
	OpLog
	OpCos
	OpSin
	OpTan
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
)

// arity reports how many children an op expects: 0 for leaves, 1 for
// unary, 2 for binary.
func (op TermOp) arity() int {
	switch op {
	case OpConst, OpVar:
		return 0
	case OpAdd, OpSub, OpMul, OpDiv, OpMin, OpMax:
		return 2
	default:
		return 1
	}
}

// Term is an immutable expression tree node. Constructors constant-fold
// eagerly (§4.2 "Constructors of composite terms constant-fold when all
// children are constant"), so a fully-built Term already has no
// foldable sub-expression left. Go's garbage collector takes the place
// of the original's explicit reference counting for sharing sub-terms
// across multiple parents; nothing here needs a manual refcount.
type Term struct {
	op       TermOp
	value    float64   // meaningful for OpConst
	variable *Variable // meaningful for OpVar
	n        int       // meaningful for OpPowN
	children []*Term
}

// ConstTerm builds a constant leaf.
func ConstTerm(v float64) *Term { return &Term{op: OpConst, value: v} }

// VarTerm builds a variable leaf.
func VarTerm(v *Variable) *Term { return &Term{op: OpVar, variable: v} }

// IsConstant reports whether the term folded to (or was built as) a
// constant.
func (t *Term) IsConstant() bool { return t.op == OpConst }

// ConstValue returns the constant value; ok is false if t is not
// constant.
func (t *Term) ConstValue() (v float64, ok bool) {
	if t.op != OpConst {
		return 0, false
	}
	return t.value, true
}

// IsLinear reports whether t is an affine function of its free variables:
// constants and variables are linear; Add/Sub of linear terms are linear;
// Mul/Div are linear only when one side is a non-zero constant (§3 "Term
// ... linearity test").
func (t *Term) IsLinear() bool {
	switch t.op {
	case OpConst, OpVar:
		return true
	case OpAdd, OpSub:
		return t.children[0].IsLinear() && t.children[1].IsLinear()
	case OpMul:
		a, b := t.children[0], t.children[1]
		return (a.IsConstant() && b.IsLinear()) || (b.IsConstant() && a.IsLinear())
	case OpDiv:
		a, b := t.children[0], t.children[1]
		return a.IsLinear() && b.IsConstant()
	case OpNeg:
		return t.children[0].IsLinear()
	default:
		return false
	}
}

// FreeVars returns the Scope of variables appearing anywhere in t.
func (t *Term) FreeVars() *Scope {
	b := NewScopeBuilder()
	t.collectVars(b)
	return b.Build()
}

func (t *Term) collectVars(b *ScopeBuilder) {
	if t.op == OpVar {
		b.Add(t.variable)
		return
	}
	for _, c := range t.children {
		c.collectVars(b)
	}
}

// Eval interval-evaluates t directly over the tree (no DAG sharing, no
// memoized sub-results); used for small ad hoc evaluations such as
// Alias rendering. The DAG (dag.go) is the path every contractor uses.
func (t *Term) Eval(box *Box) Interval {
	switch t.op {
	case OpConst:
		return Singleton(t.value)
	case OpVar:
		return box.Interval(t.variable)
	case OpNeg:
		return t.children[0].Eval(box).Neg()
	case OpAbs:
		return t.children[0].Eval(box).Abs()
	case OpSgn:
		return t.children[0].Eval(box).SgnInterval()
	case OpSqr:
		return t.children[0].Eval(box).Sqr()
	case OpSqrt:
		return t.children[0].Eval(box).Sqrt()
	case OpPowN:
		return t.children[0].Eval(box).PowN(t.n)
	case OpExp:
		return t.children[0].Eval(box).Exp()
	case OpLog:
		return t.children[0].Eval(box).Log()
	case OpCos:
		return t.children[0].Eval(box).Cos()
	case OpSin:
		return t.children[0].Eval(box).Sin()
	case OpTan:
		return t.children[0].Eval(box).Tan()
	case OpAdd:
		return t.children[0].Eval(box).Add(t.children[1].Eval(box))
	case OpSub:
		return t.children[0].Eval(box).Sub(t.children[1].Eval(box))
	case OpMul:
		return t.children[0].Eval(box).Mul(t.children[1].Eval(box))
	case OpDiv:
		return t.children[0].Eval(box).Div(t.children[1].Eval(box))
	case OpMin:
		return t.children[0].Eval(box).Min(t.children[1].Eval(box))
	case OpMax:
		return t.children[0].Eval(box).Max(t.children[1].Eval(box))
	default:
		panic(WrapAssertion("Term.Eval: unhandled op %d", t.op))
	}
}

func (t *Term) String() string {
	switch t.op {
	case OpConst:
		return fmt.Sprintf("%g", t.value)
	case OpVar:
		return t.variable.Name()
	case OpAdd:
		return fmt.Sprintf("(%s + %s)", t.children[0], t.children[1])
	case OpSub:
		return fmt.Sprintf("(%s - %s)", t.children[0], t.children[1])
	case OpMul:
		return fmt.Sprintf("(%s * %s)", t.children[0], t.children[1])
	case OpDiv:
		return fmt.Sprintf("(%s / %s)", t.children[0], t.children[1])
	case OpNeg:
		return fmt.Sprintf("(-%s)", t.children[0])
	case OpPowN:
		return fmt.Sprintf("%s^%d", t.children[0], t.n)
	default:
		return fmt.Sprintf("%s(%s)", opName(t.op), t.children[0])
	}
}

func opName(op TermOp) string {
	switch op {
	case OpAbs:
		return "abs"
	case OpSgn:
		return "sgn"
	case OpSqr:
		return "sqr"
	case OpSqrt:
		return "sqrt"
	case OpExp:
		return "exp"
	case OpLog:
		return "log"
	case OpCos:
		return "cos"
	case OpSin:
		return "sin"
	case OpTan:
		return "tan"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	default:
		return "?"
	}
}

// --- constructors; every composite constructor constant-folds and
// applies the small algebraic rewrites of §4.2 ---

func foldUnary(op TermOp, a *Term, f func(float64) float64) *Term {
	if a.IsConstant() {
		return ConstTerm(f(a.value))
	}
	return &Term{op: op, children: []*Term{a}}
}

func foldBinary(op TermOp, a, b *Term, f func(x, y float64) float64) *Term {
	if a.IsConstant() && b.IsConstant() {
		return ConstTerm(f(a.value, b.value))
	}
	return &Term{op: op, children: []*Term{a, b}}
}

// Neg builds -a, folding double negation (§4.2 style rewrite) and
// constants.
func Neg(a *Term) *Term {
	if a.op == OpNeg {
		return a.children[0]
	}
	return foldUnary(OpNeg, a, func(x float64) float64 { return -x })
}

// Add builds a+b, folding 0+x -> x (§4.2).
func Add(a, b *Term) *Term {
	if a.IsConstant() {
		if v, _ := a.ConstValue(); v == 0 {
			return b
		}
	}
	if b.IsConstant() {
		if v, _ := b.ConstValue(); v == 0 {
			return a
		}
	}
	return foldBinary(OpAdd, a, b, func(x, y float64) float64 { return x + y })
}

// Sub builds a-b, folding x-0 -> x.
func Sub(a, b *Term) *Term {
	if b.IsConstant() {
		if v, _ := b.ConstValue(); v == 0 {
			return a
		}
	}
	return foldBinary(OpSub, a, b, func(x, y float64) float64 { return x - y })
}

// Mul builds a*b, folding 1*x -> x and 0*x -> 0 (§4.2).
func Mul(a, b *Term) *Term {
	if a.IsConstant() {
		if v, _ := a.ConstValue(); v == 1 {
			return b
		}
		if v, _ := a.ConstValue(); v == 0 {
			return ConstTerm(0)
		}
	}
	if b.IsConstant() {
		if v, _ := b.ConstValue(); v == 1 {
			return a
		}
		if v, _ := b.ConstValue(); v == 0 {
			return ConstTerm(0)
		}
	}
	return foldBinary(OpMul, a, b, func(x, y float64) float64 { return x * y })
}

// Div builds a/b; asserts the denominator is not the constant 0 at
// construction time (§4.2 "divisions assert non-zero denominators", §7
// category 2 domain error).
func Div(a, b *Term) *Term {
	if b.IsConstant() {
		v, _ := b.ConstValue()
		if v == 0 {
			panic(ErrDomain.New("division by the constant 0"))
		}
		if v == 1 {
			return a
		}
	}
	return foldBinary(OpDiv, a, b, func(x, y float64) float64 { return x / y })
}

// Abs builds |a|.
func Abs(a *Term) *Term { return foldUnary(OpAbs, a, mathAbs) }

// Sgn builds sgn(a).
func Sgn(a *Term) *Term {
	return foldUnary(OpSgn, a, func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	})
}

// Sqr builds a^2.
func Sqr(a *Term) *Term { return foldUnary(OpSqr, a, func(x float64) float64 { return x * x }) }

// Sqrt builds sqrt(a).
func Sqrt(a *Term) *Term { return foldUnary(OpSqrt, a, sqrtFloat) }

// Exp builds exp(a).
func Exp(a *Term) *Term { return foldUnary(OpExp, a, expFloat) }

// Log builds log(a).
func Log(a *Term) *Term { return foldUnary(OpLog, a, logFloat) }

// Cos builds cos(a).
func Cos(a *Term) *Term { return foldUnary(OpCos, a, cosFloat) }

// Sin builds sin(a).
func Sin(a *Term) *Term { return foldUnary(OpSin, a, sinFloat) }

// Tan builds tan(a).
func Tan(a *Term) *Term { return foldUnary(OpTan, a, tanFloat) }

// Min builds min(a,b).
func Min(a, b *Term) *Term {
	return foldBinary(OpMin, a, b, func(x, y float64) float64 {
		if x < y {
			return x
		}
		return y
	})
}

// Max builds max(a,b).
func Max(a, b *Term) *Term {
	return foldBinary(OpMax, a, b, func(x, y float64) float64 {
		if x > y {
			return x
		}
		return y
	})
}

// Pow builds a^n, rewriting small |n|<=2 per §4.2: pow(t,0)->1, pow(t,1)
// ->t, pow(t,2)->sqr(t), pow(t,-1)->1/t, pow(t,-2)->1/sqr(t). Larger |n|
// keeps a single OpPowN node (n>0) or is rewritten to 1/t^|n| (n<0).
func Pow(a *Term, n int) *Term {
	switch n {
	case 0:
		return ConstTerm(1)
	case 1:
		return a
	case 2:
		return Sqr(a)
	case -1:
		return Div(ConstTerm(1), a)
	case -2:
		return Div(ConstTerm(1), Sqr(a))
	}
	if n < 0 {
		return Div(ConstTerm(1), Pow(a, -n))
	}
	if a.IsConstant() {
		v, _ := a.ConstValue()
		r := 1.0
		for k := 0; k < n; k++ {
			r *= v
		}
		return ConstTerm(r)
	}
	return &Term{op: OpPowN, n: n, children: []*Term{a}}
}

func mathAbs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
