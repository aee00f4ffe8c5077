package main

import (
	"fmt"
	"math"

	"github.com/gitrdm/realpaver/internal/lang"
	"github.com/gitrdm/realpaver/pkg/ncsp"
)

// lowerer turns a parsed lang.Model into a ncsp.Problem: constants are
// folded to plain float64 values eagerly (§6 "Constants" are never
// branched on, only substituted), variables become ncsp.Variable
// instances in declaration order (fixing their Scope slot), and every
// expression becomes a ncsp.Term over the shared Dag.
type lowerer struct {
	constants map[string]float64
	vars      map[string]*ncsp.Variable
	funcs     map[string]*lang.FunctionDecl
	locals    map[string]*ncsp.Term // active function-parameter bindings
	nextID    int
}

func newLowerer() *lowerer {
	return &lowerer{
		constants: map[string]float64{},
		vars:      map[string]*ncsp.Variable{},
		funcs:     map[string]*lang.FunctionDecl{},
		locals:    map[string]*ncsp.Term{},
	}
}

// lowerProblem builds a ncsp.Problem from m. The Objective section, if
// present, is not lowered or read: bound-constrained optimization is
// explicitly out of scope (spec.md §1 Non-goals).
func (lw *lowerer) lowerProblem(m *lang.Model) (*ncsp.Problem, error) {
	for _, c := range m.Constants {
		v, err := lw.evalConst(c.Expr)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", c.Name, err)
		}
		lw.constants[c.Name] = v
	}
	for _, f := range m.Functions {
		f := f
		lw.funcs[f.Name] = &f
	}

	builder := ncsp.NewScopeBuilder()
	for _, vd := range m.Variables {
		kind := ncsp.VarReal
		lo, hi := vd.Lo, vd.Hi
		if vd.Integer || vd.Binary {
			kind = ncsp.VarInteger
		}
		if vd.Binary {
			lo, hi = 0, 1
		}
		tol := ncsp.DefaultTolerance()
		if vd.HasTol {
			tol = ncsp.Tolerance{Kind: ncsp.ToleranceAbsolute, Value: vd.Tolerance}
		}
		v, err := ncsp.NewVariable(lw.nextID, vd.Name, kind, ncsp.NewInterval(lo, hi), tol)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", vd.Name, err)
		}
		lw.nextID++
		lw.vars[vd.Name] = v
		builder.Add(v)
	}
	scope := builder.Build()
	dag := ncsp.NewDag(scope)
	problem := &ncsp.Problem{Scope: scope, Dag: dag}

	for i, cd := range m.Constraints {
		lhs, err := lw.lowerExpr(cd.LHS)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i+1, err)
		}
		switch cd.Op {
		case lang.RelEq, lang.RelLe, lang.RelGe:
			rhs, err := lw.lowerExpr(cd.RHS)
			if err != nil {
				return nil, fmt.Errorf("constraint %s: %w", cd.Name, err)
			}
			c := dag.InsertConstraint(cd.Name, lhs, rhs, relOpOf(cd.Op))
			problem.Constraints = append(problem.Constraints, c)
		case lang.RelIn:
			lo, err := lw.evalConst(cd.RangeLo)
			if err != nil {
				return nil, fmt.Errorf("constraint %s: %w", cd.Name, err)
			}
			hi, err := lw.evalConst(cd.RangeHi)
			if err != nil {
				return nil, fmt.Errorf("constraint %s: %w", cd.Name, err)
			}
			cLo := dag.InsertConstraint(cd.Name+"_lo", lhs, ncsp.ConstTerm(lo), ncsp.RelGe)
			cHi := dag.InsertConstraint(cd.Name+"_hi", lhs, ncsp.ConstTerm(hi), ncsp.RelLe)
			problem.Constraints = append(problem.Constraints, cLo, cHi)
		default:
			return nil, fmt.Errorf("constraint %s: unrecognized relation", cd.Name)
		}
	}

	for _, ad := range m.Aliases {
		term, err := lw.lowerExpr(ad.Expr)
		if err != nil {
			return nil, fmt.Errorf("alias %s: %w", ad.Name, err)
		}
		problem.Aliases = append(problem.Aliases, &ncsp.Alias{Name: ad.Name, Term: term})
	}

	return problem, nil
}

func relOpOf(op lang.RelOp) ncsp.RelKind {
	switch op {
	case lang.RelLe:
		return ncsp.RelLe
	case lang.RelGe:
		return ncsp.RelGe
	default:
		return ncsp.RelEq
	}
}

// lowerExpr turns an expression tree into a ncsp.Term over the variables
// and functions already registered on lw.
func (lw *lowerer) lowerExpr(e *lang.Expr) (*ncsp.Term, error) {
	switch e.Kind {
	case lang.ExprNumber:
		return ncsp.ConstTerm(e.Num), nil
	case lang.ExprIdent:
		if t, ok := lw.locals[e.Ident]; ok {
			return t, nil
		}
		if v, ok := lw.vars[e.Ident]; ok {
			return ncsp.VarTerm(v), nil
		}
		if c, ok := lw.constants[e.Ident]; ok {
			return ncsp.ConstTerm(c), nil
		}
		return nil, fmt.Errorf("line %d, col %d: undeclared identifier %q", e.Line, e.Col, e.Ident)
	case lang.ExprUnary:
		a, err := lw.lowerExpr(e.Args[0])
		if err != nil {
			return nil, err
		}
		return ncsp.Neg(a), nil
	case lang.ExprBinary:
		a, err := lw.lowerExpr(e.Args[0])
		if err != nil {
			return nil, err
		}
		b, err := lw.lowerExpr(e.Args[1])
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "+":
			return ncsp.Add(a, b), nil
		case "-":
			return ncsp.Sub(a, b), nil
		case "*":
			return ncsp.Mul(a, b), nil
		case "/":
			return ncsp.Div(a, b), nil
		case "^":
			exp, err := lw.evalConst(e.Args[1])
			if err != nil || exp != math.Trunc(exp) {
				return nil, fmt.Errorf("line %d, col %d: exponent must be a constant integer", e.Line, e.Col)
			}
			return ncsp.Pow(a, int(exp)), nil
		default:
			return nil, fmt.Errorf("line %d, col %d: unrecognized operator %q", e.Line, e.Col, e.Op)
		}
	case lang.ExprCall:
		return lw.lowerCall(e)
	default:
		return nil, fmt.Errorf("line %d, col %d: unrecognized expression", e.Line, e.Col)
	}
}

func (lw *lowerer) lowerCall(e *lang.Expr) (*ncsp.Term, error) {
	if fn, ok := lw.funcs[e.Op]; ok {
		return lw.lowerUserFunction(fn, e)
	}
	args := make([]*ncsp.Term, len(e.Args))
	for i, a := range e.Args {
		t, err := lw.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	switch e.Op {
	case "sin":
		return unaryCall(e, args, ncsp.Sin)
	case "cos":
		return unaryCall(e, args, ncsp.Cos)
	case "tan":
		return unaryCall(e, args, ncsp.Tan)
	case "exp":
		return unaryCall(e, args, ncsp.Exp)
	case "log":
		return unaryCall(e, args, ncsp.Log)
	case "sqrt":
		return unaryCall(e, args, ncsp.Sqrt)
	case "abs":
		return unaryCall(e, args, ncsp.Abs)
	case "sgn":
		return unaryCall(e, args, ncsp.Sgn)
	case "min":
		return binaryCall(e, args, ncsp.Min)
	case "max":
		return binaryCall(e, args, ncsp.Max)
	default:
		return nil, fmt.Errorf("line %d, col %d: unrecognized function %q", e.Line, e.Col, e.Op)
	}
}

func unaryCall(e *lang.Expr, args []*ncsp.Term, f func(*ncsp.Term) *ncsp.Term) (*ncsp.Term, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("line %d, col %d: %s takes exactly one argument", e.Line, e.Col, e.Op)
	}
	return f(args[0]), nil
}

func binaryCall(e *lang.Expr, args []*ncsp.Term, f func(*ncsp.Term, *ncsp.Term) *ncsp.Term) (*ncsp.Term, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("line %d, col %d: %s takes exactly two arguments", e.Line, e.Col, e.Op)
	}
	return f(args[0], args[1]), nil
}

// lowerUserFunction inlines a Functions-section declaration at its call
// site: each actual argument is lowered in the caller's scope, bound to
// its formal parameter name in lw.locals (shadowing any same-named
// variable or constant for the duration of the body's lowering), and the
// body is then lowered as an ordinary expression. The Dag has no notion
// of a parameterized subroutine of its own, so every call site gets its
// own inlined copy of the body's Term tree (hash-consing still collapses
// any resulting duplicate sub-terms).
func (lw *lowerer) lowerUserFunction(fn *lang.FunctionDecl, call *lang.Expr) (*ncsp.Term, error) {
	if len(call.Args) != len(fn.Params) {
		return nil, fmt.Errorf("line %d, col %d: %s expects %d argument(s), got %d",
			call.Line, call.Col, fn.Name, len(fn.Params), len(call.Args))
	}

	args := make([]*ncsp.Term, len(call.Args))
	for i, a := range call.Args {
		t, err := lw.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}

	saved := make(map[string]*ncsp.Term, len(fn.Params))
	hadSaved := make(map[string]bool, len(fn.Params))
	for i, param := range fn.Params {
		saved[param], hadSaved[param] = lw.locals[param]
		lw.locals[param] = args[i]
	}
	defer func() {
		for _, param := range fn.Params {
			if hadSaved[param] {
				lw.locals[param] = saved[param]
			} else {
				delete(lw.locals, param)
			}
		}
	}()

	return lw.lowerExpr(fn.Body)
}

func (lw *lowerer) evalConst(e *lang.Expr) (float64, error) {
	switch e.Kind {
	case lang.ExprNumber:
		return e.Num, nil
	case lang.ExprIdent:
		if c, ok := lw.constants[e.Ident]; ok {
			return c, nil
		}
		return 0, fmt.Errorf("line %d, col %d: %q is not a constant", e.Line, e.Col, e.Ident)
	case lang.ExprUnary:
		v, err := lw.evalConst(e.Args[0])
		if err != nil {
			return 0, err
		}
		return -v, nil
	case lang.ExprBinary:
		a, err := lw.evalConst(e.Args[0])
		if err != nil {
			return 0, err
		}
		b, err := lw.evalConst(e.Args[1])
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case "+":
			return a + b, nil
		case "-":
			return a - b, nil
		case "*":
			return a * b, nil
		case "/":
			return a / b, nil
		case "^":
			return math.Pow(a, b), nil
		}
		return 0, fmt.Errorf("line %d, col %d: unrecognized operator %q", e.Line, e.Col, e.Op)
	case lang.ExprCall:
		if len(e.Args) != 1 {
			return 0, fmt.Errorf("line %d, col %d: %s takes exactly one argument in a constant expression", e.Line, e.Col, e.Op)
		}
		a, err := lw.evalConst(e.Args[0])
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case "sin":
			return math.Sin(a), nil
		case "cos":
			return math.Cos(a), nil
		case "tan":
			return math.Tan(a), nil
		case "exp":
			return math.Exp(a), nil
		case "log":
			return math.Log(a), nil
		case "sqrt":
			return math.Sqrt(a), nil
		case "abs":
			return math.Abs(a), nil
		}
		return 0, fmt.Errorf("line %d, col %d: %q is not a constant function", e.Line, e.Col, e.Op)
	default:
		return 0, fmt.Errorf("line %d, col %d: not a constant expression", e.Line, e.Col)
	}
}
