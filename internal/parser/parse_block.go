package parser

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/token"
)

// parseBlock parses `{ stmt* }`, recovering per-statement so one bad
// statement doesn't abort the rest of the block (spec.md §4.2).
func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(token.LBRACE)

	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && p.cur.Kind != token.EOF {
		stmt := p.parseStmtRecovering()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	end := p.expect(token.RBRACE)
	p.lastBlockEnd = end.Span
	return stmts
}

func (p *Parser) parseStmtRecovering() (stmt ast.Stmt) {
	defer func() {
		if x := recover(); x != nil {
			if cerr, ok := x.(*report.CompileError); ok {
				report.Error(report.PhaseParse, cerr.Label, cerr.Span, "%s", cerr.Message)
			} else {
				panic(x)
			}
			p.synchronizeStmt()
			stmt = nil
		}
	}()

	return p.parseStmt()
}

// synchronizeStmt skips to the next `;` or block boundary.
func (p *Parser) synchronizeStmt() {
	for p.cur.Kind != token.EOF && p.cur.Kind != token.RBRACE {
		if p.cur.Kind == token.SEMI {
			p.advance()
			return
		}
		if p.cur.Kind == token.LBRACE {
			p.skipBalancedBlock()
			return
		}
		p.advance()
	}
}

func (p *Parser) skipBalancedBlock() {
	depth := 0
	for p.cur.Kind != token.EOF {
		if p.cur.Kind == token.LBRACE {
			depth++
		} else if p.cur.Kind == token.RBRACE {
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
