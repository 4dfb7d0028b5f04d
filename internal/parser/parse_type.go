package parser

import (
	"strconv"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/token"
)

// parseType parses a type expression. The parser is permissive about types
// (spec.md §4.2): it records whatever shape it sees and leaves validation to
// sema.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.cur.Kind {
	case token.LBRACKET:
		return p.parseArrayType()
	case token.FN:
		return p.parseFnType()
	case token.IDENT:
		if p.cur.Value == "Fn" {
			return p.parseFnType()
		}
		return p.parseNamedOrVecType()
	case token.INT, token.FLOAT, token.BOOL, token.STRING, token.VOID:
		tok := p.advance()
		return &ast.NamedTypeExpr{Name: tok.Value, Span: tok.Span}
	default:
		report.Raise("E-PARSE", p.cur.Span, "expected a type, got %s", p.cur.Kind)
		return nil
	}
}

// parseArrayType parses `[T; N]`.
func (p *Parser) parseArrayType() ast.TypeExpr {
	start := p.expect(token.LBRACKET).Span
	elem := p.parseType()
	p.expect(token.SEMI)

	lenTok := p.expect(token.INTLIT)
	n, err := strconv.Atoi(lenTok.Value)
	if err != nil || n < 0 {
		report.Raise("E-PARSE", lenTok.Span, "array length must be a non-negative integer literal")
	}

	end := p.expect(token.RBRACKET).Span
	return &ast.ArrayTypeExpr{Elem: elem, Length: n, Span: report.SpanOver(start, end)}
}

// parseFnType parses `Fn(T1, T2) -> R`; the `fn` keyword is also accepted
// in place of `Fn`.
func (p *Parser) parseFnType() ast.TypeExpr {
	start := p.advance().Span
	p.expect(token.LPAREN)

	var params []ast.TypeExpr
	for !p.check(token.RPAREN) {
		params = append(params, p.parseType())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)

	p.expect(token.ARROW)
	ret := p.parseType()

	return &ast.FnTypeExpr{Params: params, Return: ret, Span: report.SpanOver(start, ret.Position())}
}

// parseNamedOrVecType parses a named/qualified type, or `Vec[T]`.
func (p *Parser) parseNamedOrVecType() ast.TypeExpr {
	nameTok := p.expect(token.IDENT)

	if nameTok.Value == "Vec" && p.check(token.LBRACKET) {
		p.advance()
		elem := p.parseType()
		end := p.expect(token.RBRACKET).Span
		return &ast.VecTypeExpr{Elem: elem, Span: report.SpanOver(nameTok.Span, end)}
	}

	if p.match(token.DOT) {
		member := p.expectIdent()
		return &ast.NamedTypeExpr{Qualifier: nameTok.Value, Name: member, Span: nameTok.Span}
	}

	return &ast.NamedTypeExpr{Name: nameTok.Value, Span: nameTok.Span}
}
