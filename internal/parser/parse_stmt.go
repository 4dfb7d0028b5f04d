package parser

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case token.LET:
		return p.parseLetStmt(true)
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.MATCH:
		return p.parseMatchStmt()
	case token.BREAK:
		tok := p.advance()
		end := p.expect(token.SEMI).Span
		return &ast.BreakStmt{Span: report.SpanOver(tok.Span, end)}
	case token.CONTINUE:
		tok := p.advance()
		end := p.expect(token.SEMI).Span
		return &ast.ContinueStmt{Span: report.SpanOver(tok.Span, end)}
	case token.RETURN:
		return p.parseReturnStmt()
	default:
		return p.parseSimpleStmt(true)
	}
}

func (p *Parser) parseLetStmt(withSemi bool) ast.Stmt {
	start := p.expect(token.LET).Span
	name := p.expectIdent()

	stmt := &ast.LetStmt{Name: name}
	if p.match(token.COLON) {
		stmt.Type = p.parseType()
	}

	p.expect(token.ASSIGN)
	stmt.Init = p.parseExpr()

	end := stmt.Init.Position()
	if withSemi {
		end = p.expect(token.SEMI).Span
	}
	stmt.Span = report.SpanOver(start, end)
	return stmt
}

// parseSimpleStmt parses an assignment or a bare expression statement,
// optionally consuming the trailing `;` (for-loop clauses omit it).
func (p *Parser) parseSimpleStmt(withSemi bool) ast.Stmt {
	start := p.cur.Span
	expr := p.parseExpr()

	if p.match(token.ASSIGN) {
		value := p.parseExpr()
		end := value.Position()
		if withSemi {
			end = p.expect(token.SEMI).Span
		}
		return &ast.AssignStmt{Target: expr, Value: value, Span: report.SpanOver(start, end)}
	}

	end := expr.Position()
	if withSemi {
		end = p.expect(token.SEMI).Span
	}
	return &ast.ExprStmt{Expr: expr, Span: report.SpanOver(start, end)}
}

// parseCondExpr parses an expression with struct-literal parsing suppressed,
// since `if x { ... }` must not read `x { ... }` as a struct literal.
func (p *Parser) parseCondExpr() ast.Expr {
	prev := p.noStructLit
	p.noStructLit = true
	defer func() { p.noStructLit = prev }()
	return p.parseExpr()
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.expect(token.IF).Span
	cond := p.parseCondExpr()
	then := p.parseBlock()

	stmt := &ast.IfStmt{Cond: cond, Then: then, Span: start}

	if p.match(token.ELSE) {
		if p.check(token.IF) {
			stmt.Else = []ast.Stmt{p.parseIfStmt()}
		} else {
			stmt.Else = p.parseBlock()
		}
	}

	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.expect(token.WHILE).Span
	cond := p.parseCondExpr()
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Span: start}
}

// parseForStmt parses `for (init; cond; step) { body }` where any clause
// may be omitted, per spec.md §4.2.
func (p *Parser) parseForStmt() ast.Stmt {
	start := p.expect(token.FOR).Span
	p.expect(token.LPAREN)

	stmt := &ast.ForStmt{Span: start}

	if !p.check(token.SEMI) {
		if p.check(token.LET) {
			stmt.Init = p.parseLetStmt(false)
		} else {
			stmt.Init = p.parseSimpleStmt(false)
		}
	}
	p.expect(token.SEMI)

	if !p.check(token.SEMI) {
		stmt.Cond = p.parseCondExpr()
	}
	p.expect(token.SEMI)

	if !p.check(token.RPAREN) {
		stmt.Step = p.parseSimpleStmt(false)
	}
	p.expect(token.RPAREN)

	stmt.Body = p.parseBlock()
	return stmt
}

// parseMatchStmt parses `match target { pattern(s) => { body } ... }`.
func (p *Parser) parseMatchStmt() ast.Stmt {
	start := p.expect(token.MATCH).Span
	target := p.parseCondExpr()
	p.expect(token.LBRACE)

	stmt := &ast.MatchStmt{Target: target}

	for !p.check(token.RBRACE) {
		arm := ast.MatchArm{}

		if p.match(token.WILDCARD) {
			arm.IsWildcard = true
		} else {
			arm.Patterns = append(arm.Patterns, p.parseLiteralExpr())
			for p.match(token.PIPE) {
				arm.Patterns = append(arm.Patterns, p.parseLiteralExpr())
			}
		}

		p.expect(token.ARROW)
		arm.Body = p.parseBlock()
		stmt.Arms = append(stmt.Arms, arm)
	}

	end := p.expect(token.RBRACE).Span
	stmt.Span = report.SpanOver(start, end)
	return stmt
}

// parseLiteralExpr parses a single literal used as a match pattern.
func (p *Parser) parseLiteralExpr() ast.Expr {
	switch p.cur.Kind {
	case token.INTLIT, token.FLOATLIT, token.BOOLLIT, token.STRINGLIT:
		return p.parsePrimary()
	default:
		report.Raise("E-PARSE", p.cur.Span, "expected a literal pattern, got %s", p.cur.Kind)
		return nil
	}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.expect(token.RETURN).Span

	if p.match(token.SEMI) {
		return &ast.ReturnStmt{Span: start}
	}

	value := p.parseExpr()
	end := p.expect(token.SEMI).Span
	return &ast.ReturnStmt{Value: value, Span: report.SpanOver(start, end)}
}
