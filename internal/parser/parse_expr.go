package parser

import (
	"strconv"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/token"
)

// parseExpr parses a full expression at the lowest precedence (`||`).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(token.OR) {
		op := p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Op: "||", Left: left, Right: right, Span: report.SpanOver(op.Span, right.Position())}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(token.AND) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Op: "&&", Left: left, Right: right, Span: report.SpanOver(op.Span, right.Position())}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.check(token.EQ) || p.check(token.NEQ) {
		op := p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right, Span: report.SpanOver(op.Span, right.Position())}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for p.check(token.LT) || p.check(token.LE) || p.check(token.GT) || p.check(token.GE) {
		op := p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right, Span: report.SpanOver(op.Span, right.Position())}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right, Span: report.SpanOver(op.Span, right.Position())}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right, Span: report.SpanOver(op.Span, right.Position())}
	}
	return left
}

// parseUnary parses right-associative `+ - !`.
func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.PLUS) || p.check(token.MINUS) || p.check(token.BANG) {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op.Kind.String(), Operand: operand, Span: report.SpanOver(op.Span, operand.Position())}
	}
	return p.parsePostfix()
}

// parsePostfix parses call/field/index chains at the highest precedence.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()

	for {
		switch p.cur.Kind {
		case token.LPAREN:
			p.advance()
			args := p.parseArgList()
			end := p.expect(token.RPAREN).Span
			expr = &ast.CallExpr{Callee: expr, Args: args, Span: report.SpanOver(expr.Position(), end)}
		case token.DOT:
			p.advance()
			field := p.expectIdent()
			expr = &ast.FieldExpr{Target: expr, Field: field, Span: expr.Position()}
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			end := p.expect(token.RBRACKET).Span
			expr = &ast.IndexExpr{Target: expr, Index: idx, Span: report.SpanOver(expr.Position(), end)}
		default:
			return expr
		}
	}
}

// parseArgList parses a comma-separated argument list with trailing comma
// acceptance, per spec.md §4.2.
func (p *Parser) parseArgList() []ast.Expr {
	var args []ast.Expr
	for !p.check(token.RPAREN) {
		args = append(args, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Kind {
	case token.INTLIT:
		tok := p.advance()
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			report.Raise("E-PARSE", tok.Span, "invalid integer literal %q", tok.Value)
		}
		return &ast.IntLit{Value: n, Span: tok.Span}
	case token.FLOATLIT:
		tok := p.advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			report.Raise("E-PARSE", tok.Span, "invalid float literal %q", tok.Value)
		}
		return &ast.FloatLit{Value: f, Span: tok.Span}
	case token.BOOLLIT:
		tok := p.advance()
		return &ast.BoolLit{Value: tok.Value == "true", Span: tok.Span}
	case token.STRINGLIT:
		tok := p.advance()
		return &ast.StringLit{Value: tok.Value, Span: tok.Span}
	case token.IDENT:
		tok := p.advance()
		if p.check(token.LBRACE) && !p.noStructLit {
			return p.parseStructLit(tok.Value, tok.Span)
		}
		return &ast.IdentExpr{Name: tok.Value, Span: tok.Span}
	case token.SELF:
		tok := p.advance()
		return &ast.IdentExpr{Name: "self", Span: tok.Span}
	case token.LPAREN:
		start := p.advance().Span
		inner := p.parseExpr()
		end := p.expect(token.RPAREN).Span
		return &ast.GroupExpr{Inner: inner, Span: report.SpanOver(start, end)}
	case token.LBRACKET:
		return p.parseArrayLitOrRepeat()
	case token.FN:
		return p.parseFnLit()
	default:
		// Struct literals and plain named-type expressions start with an
		// identifier, which is handled above; anything else here is an error.
		report.Raise("E-PARSE", p.cur.Span, "unexpected token %s in expression", p.cur.Kind)
		return nil
	}
}

// parseArrayLitOrRepeat parses `[e1, e2, ...]` or `[e; n]`.
func (p *Parser) parseArrayLitOrRepeat() ast.Expr {
	start := p.expect(token.LBRACKET).Span

	if p.check(token.RBRACKET) {
		end := p.advance().Span
		return &ast.ArrayLit{Span: report.SpanOver(start, end)}
	}

	first := p.parseExpr()

	if p.match(token.SEMI) {
		lenTok := p.expect(token.INTLIT)
		n, err := strconv.Atoi(lenTok.Value)
		if err != nil || n < 0 {
			report.Raise("E-PARSE", lenTok.Span, "array repeat length must be a non-negative integer literal")
		}
		end := p.expect(token.RBRACKET).Span
		return &ast.ArrayRepeatLit{Elem: first, Length: n, Span: report.SpanOver(start, end)}
	}

	elems := []ast.Expr{first}
	for p.match(token.COMMA) {
		if p.check(token.RBRACKET) {
			break
		}
		elems = append(elems, p.parseExpr())
	}

	end := p.expect(token.RBRACKET).Span
	return &ast.ArrayLit{Elems: elems, Span: report.SpanOver(start, end)}
}

// parseFnLit parses a non-capturing function literal `fn(params) -> R { body }`.
func (p *Parser) parseFnLit() ast.Expr {
	start := p.expect(token.FN).Span
	params := p.parseParamList()

	var ret ast.TypeExpr
	if p.match(token.ARROW) {
		ret = p.parseType()
	}

	body := p.parseBlock()
	return &ast.FnLit{Params: params, Return: ret, Body: body, Span: start}
}

// parseStructLit parses `Name { field: value, ... }`. It is invoked from
// callers that already know an identifier is followed by `{` in a context
// where that means a struct literal rather than a block (see the IDENT case
// of parsePrimary).
func (p *Parser) parseStructLit(name string, start *report.Span) ast.Expr {
	p.expect(token.LBRACE)

	lit := &ast.StructLit{StructName: name}
	for !p.check(token.RBRACE) {
		fname := p.expectIdent()
		p.expect(token.COLON)
		value := p.parseExpr()
		lit.Fields = append(lit.Fields, ast.StructFieldInit{Name: fname, Value: value})

		if !p.match(token.COMMA) {
			break
		}
	}

	end := p.expect(token.RBRACE).Span
	lit.Span = report.SpanOver(start, end)
	return lit
}
