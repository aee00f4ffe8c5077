package lang

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
)

// parseError is a synchronizable parse diagnostic: the parser appends it
// to errs and skips tokens up to the next recognized synchronization
// point (a comma, semicolon, or EOF) rather than aborting the whole
// parse, so one malformed line doesn't hide every other one (§7 category
// 1 "every line/column noted").
type parseError struct {
	Line, Col int
	Msg       string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

// Parser is the recursive-descent parser over a Lexer token stream.
type Parser struct {
	lex  *Lexer
	tok  Token
	errs *multierror.Error
}

// NewParser builds a parser over src.
func NewParser(src string) *Parser {
	p := &Parser{lex: NewLexer(src)}
	p.advance()
	return p
}

func (p *Parser) advance() {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			if le, ok := err.(*LexError); ok {
				p.errs = multierror.Append(p.errs, &parseError{Line: le.Line, Col: le.Col, Msg: le.Msg})
			} else {
				p.errs = multierror.Append(p.errs, err)
			}
			continue
		}
		p.tok = tok
		return
	}
}

func (p *Parser) fail(format string, args ...interface{}) {
	p.errs = multierror.Append(p.errs, &parseError{Line: p.tok.Line, Col: p.tok.Col, Msg: fmt.Sprintf(format, args...)})
}

// synchronize skips tokens until a comma, semicolon, or EOF, the parser's
// statement-boundary recovery point after a malformed declaration.
func (p *Parser) synchronize() {
	for p.tok.Kind != TokComma && p.tok.Kind != TokSemicolon && p.tok.Kind != TokEOF {
		p.advance()
	}
}

func (p *Parser) expect(kind TokenKind) (Token, bool) {
	if p.tok.Kind != kind {
		p.fail("expected %s, found %s %q", kind, p.tok.Kind, p.tok.Text)
		return Token{}, false
	}
	tok := p.tok
	p.advance()
	return tok, true
}

func (p *Parser) isIdent(text string) bool {
	return p.tok.Kind == TokIdent && p.tok.Text == text
}

// Parse parses the full text model, returning every section found, and a
// single aggregated error (wrapping every parseError hit) if anything
// was malformed. Parse always returns the best-effort Model it managed
// to build, even alongside an error, so a caller that only warns on a
// parse error can still inspect what parsed. The error is the
// go-multierror aggregate itself, not wrapped in ncsp.ErrInput.
func (p *Parser) Parse() (*Model, error) {
	m := &Model{}

	if p.isIdent("Constants") {
		p.advance()
		m.Constants = p.parseConstants()
	}

	if !p.isIdent("Variables") {
		p.fail("expected Variables section")
	} else {
		p.advance()
		m.Variables = p.parseVariables()
	}

	if !p.isIdent("Constraints") {
		p.fail("expected Constraints section")
	} else {
		p.advance()
		m.Constraints = p.parseConstraints()
	}

	for p.tok.Kind != TokEOF {
		switch {
		case p.isIdent("Aliases"):
			p.advance()
			m.Aliases = p.parseAliases()
		case p.isIdent("Objective"):
			p.advance()
			m.Objective = p.parseObjective()
		case p.isIdent("Functions"):
			p.advance()
			m.Functions = p.parseFunctions()
		default:
			p.fail("unexpected token %q outside any section", p.tok.Text)
			p.advance()
		}
	}

	if p.errs != nil {
		return m, p.errs.ErrorOrNil()
	}
	return m, nil
}

func (p *Parser) parseConstants() []ConstDecl {
	var out []ConstDecl
	for p.tok.Kind == TokIdent {
		name := p.tok.Text
		p.advance()
		if _, ok := p.expect(TokEqEq); !ok {
			p.synchronize()
		} else {
			out = append(out, ConstDecl{Name: name, Expr: p.parseExpr()})
		}
		if p.tok.Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	p.expect(TokSemicolon)
	return out
}

func (p *Parser) parseVariables() []VarDecl {
	var out []VarDecl
	for p.tok.Kind == TokIdent {
		v := VarDecl{Name: p.tok.Text}
		p.advance()
		if _, ok := p.expect(TokIn); !ok {
			p.synchronize()
		} else if _, ok := p.expect(TokLBracket); !ok {
			p.synchronize()
		} else {
			lo := p.parseExpr()
			p.expect(TokComma)
			hi := p.parseExpr()
			p.expect(TokRBracket)
			v.Lo, v.Hi = evalConstExpr(lo), evalConstExpr(hi)
			for p.isIdent("integer") || p.isIdent("binary") || p.isIdent("tol") {
				switch p.tok.Text {
				case "integer":
					v.Integer = true
					p.advance()
				case "binary":
					v.Binary = true
					v.Integer = true
					p.advance()
				case "tol":
					p.advance()
					v.HasTol = true
					v.Tolerance = evalConstExpr(p.parseExpr())
				}
			}
			out = append(out, v)
		}
		if p.tok.Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	p.expect(TokSemicolon)
	return out
}

func (p *Parser) parseConstraints() []ConstraintDecl {
	var out []ConstraintDecl
	n := 0
	for p.tok.Kind != TokSemicolon && p.tok.Kind != TokEOF {
		n++
		lhs := p.parseExpr()
		decl := ConstraintDecl{Name: fmt.Sprintf("c%d", n), LHS: lhs}
		switch p.tok.Kind {
		case TokEqEq:
			p.advance()
			decl.Op = RelEq
			decl.RHS = p.parseExpr()
		case TokLe:
			p.advance()
			decl.Op = RelLe
			decl.RHS = p.parseExpr()
		case TokGe:
			p.advance()
			decl.Op = RelGe
			decl.RHS = p.parseExpr()
		case TokIn:
			p.advance()
			p.expect(TokLBracket)
			decl.Op = RelIn
			decl.RangeLo = p.parseExpr()
			p.expect(TokComma)
			decl.RangeHi = p.parseExpr()
			p.expect(TokRBracket)
		default:
			p.fail("expected a relational operator, found %s %q", p.tok.Kind, p.tok.Text)
			p.synchronize()
		}
		out = append(out, decl)
		if p.tok.Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	p.expect(TokSemicolon)
	return out
}

func (p *Parser) parseAliases() []AliasDecl {
	var out []AliasDecl
	for p.tok.Kind == TokIdent {
		name := p.tok.Text
		p.advance()
		if _, ok := p.expect(TokEqEq); !ok {
			p.synchronize()
		} else {
			out = append(out, AliasDecl{Name: name, Expr: p.parseExpr()})
		}
		if p.tok.Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	p.expect(TokSemicolon)
	return out
}

func (p *Parser) parseObjective() *ObjectiveDecl {
	obj := &ObjectiveDecl{}
	switch {
	case p.isIdent("minimize"):
		obj.Minimize = true
		p.advance()
	case p.isIdent("maximize"):
		obj.Minimize = false
		p.advance()
	default:
		p.fail("expected minimize|maximize, found %q", p.tok.Text)
	}
	obj.Expr = p.parseExpr()
	p.expect(TokSemicolon)
	return obj
}

func (p *Parser) parseFunctions() []FunctionDecl {
	var out []FunctionDecl
	for p.tok.Kind == TokIdent {
		fn := FunctionDecl{Name: p.tok.Text}
		p.advance()
		if _, ok := p.expect(TokLParen); ok {
			for p.tok.Kind == TokIdent {
				fn.Params = append(fn.Params, p.tok.Text)
				p.advance()
				if p.tok.Kind == TokComma {
					p.advance()
					continue
				}
				break
			}
			p.expect(TokRParen)
		}
		if _, ok := p.expect(TokEqEq); !ok {
			p.synchronize()
		} else {
			fn.Body = p.parseExpr()
			out = append(out, fn)
		}
		if p.tok.Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	p.expect(TokSemicolon)
	return out
}

// --- expression grammar: addsub -> muldiv -> unary -> pow -> primary ---

func (p *Parser) parseExpr() *Expr { return p.parseAddSub() }

func (p *Parser) parseAddSub() *Expr {
	left := p.parseMulDiv()
	for p.tok.Kind == TokPlus || p.tok.Kind == TokMinus {
		op := "+"
		if p.tok.Kind == TokMinus {
			op = "-"
		}
		line, col := p.tok.Line, p.tok.Col
		p.advance()
		right := p.parseMulDiv()
		left = &Expr{Kind: ExprBinary, Op: op, Args: []*Expr{left, right}, Line: line, Col: col}
	}
	return left
}

func (p *Parser) parseMulDiv() *Expr {
	left := p.parseUnary()
	for p.tok.Kind == TokStar || p.tok.Kind == TokSlash {
		op := "*"
		if p.tok.Kind == TokSlash {
			op = "/"
		}
		line, col := p.tok.Line, p.tok.Col
		p.advance()
		right := p.parseUnary()
		left = &Expr{Kind: ExprBinary, Op: op, Args: []*Expr{left, right}, Line: line, Col: col}
	}
	return left
}

func (p *Parser) parseUnary() *Expr {
	if p.tok.Kind == TokMinus {
		line, col := p.tok.Line, p.tok.Col
		p.advance()
		return &Expr{Kind: ExprUnary, Op: "neg", Args: []*Expr{p.parseUnary()}, Line: line, Col: col}
	}
	if p.tok.Kind == TokPlus {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePow()
}

func (p *Parser) parsePow() *Expr {
	base := p.parsePrimary()
	if p.tok.Kind == TokCaret {
		line, col := p.tok.Line, p.tok.Col
		p.advance()
		exp := p.parseUnary()
		return &Expr{Kind: ExprBinary, Op: "^", Args: []*Expr{base, exp}, Line: line, Col: col}
	}
	return base
}

var predefinedConstants = map[string]float64{
	"PI": math.Pi,
	"E":  math.E,
}

func (p *Parser) parsePrimary() *Expr {
	switch p.tok.Kind {
	case TokNumber:
		e := &Expr{Kind: ExprNumber, Num: p.tok.Num, Line: p.tok.Line, Col: p.tok.Col}
		p.advance()
		return e
	case TokLParen:
		p.advance()
		e := p.parseExpr()
		p.expect(TokRParen)
		return e
	case TokIdent:
		name := p.tok.Text
		line, col := p.tok.Line, p.tok.Col
		p.advance()
		if p.tok.Kind == TokLParen {
			p.advance()
			var args []*Expr
			for p.tok.Kind != TokRParen && p.tok.Kind != TokEOF {
				args = append(args, p.parseExpr())
				if p.tok.Kind == TokComma {
					p.advance()
					continue
				}
				break
			}
			p.expect(TokRParen)
			return &Expr{Kind: ExprCall, Op: name, Args: args, Line: line, Col: col}
		}
		if v, ok := predefinedConstants[name]; ok {
			return &Expr{Kind: ExprNumber, Num: v, Line: line, Col: col}
		}
		return &Expr{Kind: ExprIdent, Ident: name, Line: line, Col: col}
	default:
		p.fail("expected an expression, found %s %q", p.tok.Kind, p.tok.Text)
		e := &Expr{Kind: ExprNumber, Num: 0, Line: p.tok.Line, Col: p.tok.Col}
		p.advance()
		return e
	}
}

// evalConstExpr evaluates an expression that must be a compile-time
// constant (a variable's declared bounds, a tolerance value): literals,
// PI/E, and arithmetic over them. Any identifier reference beyond those
// predefined names degrades to 0, letting the parser keep going; the
// caller re-validates the Model's constant references during lowering.
func evalConstExpr(e *Expr) float64 {
	switch e.Kind {
	case ExprNumber:
		return e.Num
	case ExprUnary:
		v := evalConstExpr(e.Args[0])
		if e.Op == "neg" {
			return -v
		}
		return v
	case ExprBinary:
		a, b := evalConstExpr(e.Args[0]), evalConstExpr(e.Args[1])
		switch e.Op {
		case "+":
			return a + b
		case "-":
			return a - b
		case "*":
			return a * b
		case "/":
			return a / b
		case "^":
			return math.Pow(a, b)
		}
	case ExprCall:
		if len(e.Args) == 1 {
			a := evalConstExpr(e.Args[0])
			switch e.Op {
			case "sin":
				return math.Sin(a)
			case "cos":
				return math.Cos(a)
			case "tan":
				return math.Tan(a)
			case "exp":
				return math.Exp(a)
			case "log":
				return math.Log(a)
			case "sqrt":
				return math.Sqrt(a)
			case "abs":
				return math.Abs(a)
			}
		}
	}
	return 0
}
