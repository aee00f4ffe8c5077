package lang

import "testing"

func TestParserParsesMinimalModel(t *testing.T) {
	src := `
Variables
  x in [-10, 10], y in [-10, 10] tol 0.001;
Constraints
  x + y == 10, x - y == 2;
`
	p := NewParser(src)
	m, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(m.Variables) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(m.Variables))
	}
	if m.Variables[0].HasTol || !m.Variables[1].HasTol {
		t.Fatalf("expected tol attached to second declared variable only, got %+v", m.Variables)
	}
	if m.Variables[1].Tolerance != 0.001 {
		t.Fatalf("expected tolerance 0.001, got %v", m.Variables[1].Tolerance)
	}
	if len(m.Constraints) != 2 {
		t.Fatalf("expected 2 constraints, got %d", len(m.Constraints))
	}
	if m.Constraints[0].Op != RelEq || m.Constraints[1].Op != RelEq {
		t.Fatalf("expected both constraints to be equalities, got %+v", m.Constraints)
	}
}

func TestParserParsesConstantsIntegerBinaryAndRange(t *testing.T) {
	src := `
Constants
  k = 2 * 3;
Variables
  n in [0, 10] integer, b in [0, 1] binary;
Constraints
  n in [1, k];
`
	p := NewParser(src)
	m, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(m.Constants) != 1 || m.Constants[0].Name != "k" {
		t.Fatalf("expected constant k, got %+v", m.Constants)
	}
	if !m.Variables[0].Integer {
		t.Fatalf("expected n to be integer")
	}
	if !m.Variables[1].Binary || !m.Variables[1].Integer {
		t.Fatalf("expected b to be binary (and implicitly integer)")
	}
	if m.Constraints[0].Op != RelIn {
		t.Fatalf("expected a range constraint, got %+v", m.Constraints[0])
	}
}

func TestParserParsesOptionalSections(t *testing.T) {
	src := `
Variables
  x in [-5, 5];
Constraints
  x == x;
Aliases
  s = x * x;
Objective minimize x^2;
Functions
  f(x) = x^2 + 1;
`
	p := NewParser(src)
	m, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(m.Aliases) != 1 || m.Aliases[0].Name != "s" {
		t.Fatalf("expected alias s, got %+v", m.Aliases)
	}
	if m.Objective == nil || !m.Objective.Minimize {
		t.Fatalf("expected a minimize objective, got %+v", m.Objective)
	}
	if len(m.Functions) != 1 || m.Functions[0].Name != "f" || len(m.Functions[0].Params) != 1 {
		t.Fatalf("expected function f(x), got %+v", m.Functions)
	}
}

func TestParserHonorsOperatorPrecedenceAndRightAssociativePower(t *testing.T) {
	p := NewParser("2 + 3 * 2 ^ 2 ^ 1")
	e := p.parseExpr()
	if err := p.errs.ErrorOrNil(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	// 2 + (3 * (2 ^ (2 ^ 1)))
	if e.Kind != ExprBinary || e.Op != "+" {
		t.Fatalf("expected top-level +, got %+v", e)
	}
	mul := e.Args[1]
	if mul.Kind != ExprBinary || mul.Op != "*" {
		t.Fatalf("expected * as right operand of +, got %+v", mul)
	}
	pow := mul.Args[1]
	if pow.Kind != ExprBinary || pow.Op != "^" {
		t.Fatalf("expected ^ nested under *, got %+v", pow)
	}
	innerPow := pow.Args[1]
	if innerPow.Kind != ExprBinary || innerPow.Op != "^" {
		t.Fatalf("expected ^ right-associative, got %+v", innerPow)
	}
}

func TestParserResolvesPredefinedConstantsAndFunctionCalls(t *testing.T) {
	p := NewParser("sin(PI) + sqrt(E)")
	e := p.parseExpr()
	if err := p.errs.ErrorOrNil(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if e.Kind != ExprBinary || e.Op != "+" {
		t.Fatalf("expected top-level +, got %+v", e)
	}
	sinCall := e.Args[0]
	if sinCall.Kind != ExprCall || sinCall.Op != "sin" {
		t.Fatalf("expected sin(...) call, got %+v", sinCall)
	}
	if sinCall.Args[0].Kind != ExprNumber {
		t.Fatalf("expected PI to resolve to a literal number, got %+v", sinCall.Args[0])
	}
}

func TestParserAggregatesMultipleErrorsAcrossSections(t *testing.T) {
	src := `
Variables
  x in [0, 10], y in ;
Constraints
  x + == 1;
`
	p := NewParser(src)
	_, err := p.Parse()
	if err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestParserReportsMissingRequiredSections(t *testing.T) {
	p := NewParser("Constraints x == 1;")
	_, err := p.Parse()
	if err == nil {
		t.Fatalf("expected an error for a missing Variables section")
	}
}
