// Package lang implements the recursive-descent parser for the §6 text
// model format: a hand-written lexer plus a parser producing a Model
// that cmd/realpaver lowers into a ncsp.Problem.
package lang

import "fmt"

// ExprKind distinguishes the node kinds of an arithmetic expression tree.
type ExprKind int

const (
	ExprNumber ExprKind = iota
	ExprIdent
	ExprUnary
	ExprBinary
	ExprCall
)

// Expr is one node of a parsed arithmetic expression. Op holds the
// operator for ExprUnary/ExprBinary ("+", "-", "*", "/", "^", "neg") or
// the function name for ExprCall ("sin", "cos", "tan", "exp", "log",
// "sqrt", "abs", "sgn", "min", "max").
type Expr struct {
	Kind  ExprKind
	Num   float64
	Ident string
	Op    string
	Args  []*Expr
	Line  int
	Col   int
}

func (e *Expr) String() string {
	switch e.Kind {
	case ExprNumber:
		return fmt.Sprintf("%g", e.Num)
	case ExprIdent:
		return e.Ident
	case ExprUnary:
		return fmt.Sprintf("(%s%s)", e.Op, e.Args[0])
	case ExprBinary:
		return fmt.Sprintf("(%s %s %s)", e.Args[0], e.Op, e.Args[1])
	case ExprCall:
		return fmt.Sprintf("%s(%s)", e.Op, e.Args)
	default:
		return "?"
	}
}

// ConstDecl is one entry of the Constants section: `name = expr`.
type ConstDecl struct {
	Name string
	Expr *Expr
}

// VarDecl is one entry of the Variables section: `name in [lo, up]`
// optionally `integer`/`binary` and optionally `tol <tolerance>`.
type VarDecl struct {
	Name      string
	Lo, Hi    float64
	Integer   bool
	Binary    bool
	HasTol    bool
	Tolerance float64
}

// RelOp is the relational operator of a Constraints-section entry.
type RelOp int

const (
	RelEq RelOp = iota
	RelLe
	RelGe
	RelIn
)

// ConstraintDecl is one entry of the Constraints section: an expression
// related to another expression, or `in [lo, up]` against a literal
// range.
type ConstraintDecl struct {
	Name    string
	LHS     *Expr
	Op      RelOp
	RHS     *Expr
	RangeLo *Expr
	RangeHi *Expr
}

// AliasDecl is one entry of the optional Aliases section: a named
// expression reported alongside a solution but never branched on.
type AliasDecl struct {
	Name string
	Expr *Expr
}

// ObjectiveDecl is the optional Objective section.
type ObjectiveDecl struct {
	Minimize bool
	Expr     *Expr
}

// FunctionDecl is one entry of the optional Functions section: a named,
// parameterized expression usable from Constraints/Aliases/Objective.
type FunctionDecl struct {
	Name   string
	Params []string
	Body   *Expr
}

// Model is the full parsed representation of one §6 text model.
type Model struct {
	Constants   []ConstDecl
	Variables   []VarDecl
	Constraints []ConstraintDecl
	Aliases     []AliasDecl
	Objective   *ObjectiveDecl
	Functions   []FunctionDecl
}
