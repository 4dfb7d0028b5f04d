// Package parser implements Skepa's recursive-descent, Pratt-style
// expression parser, per spec.md §4.2 and the EBNF in §6.
package parser

import (
	"bufio"
	"io"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/lexer"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/token"
)

// Parser holds one file's token stream and lookahead.
type Parser struct {
	file string
	lex  *lexer.Lexer
	cur  *token.Token

	// lastBlockEnd is the span of the most recently consumed block's
	// closing brace, set by parseBlock. Used by callers that need the
	// end position of a block they just parsed (e.g. parseFunc).
	lastBlockEnd *report.Span

	// noStructLit suppresses parsing `Name { ... }` as a struct literal
	// while parsing a bare (unparenthesized) if/while/for/match condition,
	// so that the `{` is unambiguously the statement body's opening brace.
	noStructLit bool
}

// ParseFile parses one source file into an *ast.File. Parse errors are
// collected as E-PARSE diagnostics (via internal/report) rather than
// returned; the caller should check report.ShouldProceed() after calling
// ParseFile one or more times. Parsing always returns a (possibly partial)
// *ast.File so that later phases have something to inspect even when errors
// occurred, mirroring the teacher's per-declaration CatchErrors recovery.
func ParseFile(path string, r io.Reader) *ast.File {
	p := &Parser{file: path, lex: lexer.New(path, bufio.NewReader(r))}
	p.advance()

	f := &ast.File{Path: path}

	for p.cur.Kind != token.EOF {
		decl := p.parseTopDeclRecovering()
		if decl != nil {
			f.Decls = append(f.Decls, decl)
		}
	}

	return f
}

// parseTopDeclRecovering parses one top-level declaration, recovering to
// the next top-level `;` or block boundary on error so that multiple errors
// can be reported per file (spec.md §4.2).
func (p *Parser) parseTopDeclRecovering() (decl ast.Decl) {
	defer func() {
		if x := recover(); x != nil {
			if cerr, ok := x.(*report.CompileError); ok {
				report.Error(report.PhaseParse, cerr.Label, cerr.Span, "%s", cerr.Message)
			} else {
				panic(x)
			}
			p.synchronize()
			decl = nil
		}
	}()

	return p.parseTopDecl()
}

// synchronize skips tokens until a likely declaration boundary: a `;`
// (consumed) or a token that starts a new top-level declaration.
func (p *Parser) synchronize() {
	for p.cur.Kind != token.EOF {
		if p.cur.Kind == token.SEMI {
			p.advance()
			return
		}

		switch p.cur.Kind {
		case token.IMPORT, token.FROM, token.EXPORT, token.STRUCT, token.IMPL, token.FN, token.LET:
			return
		}

		p.advance()
	}
}

// -----------------------------------------------------------------------------
// low-level token helpers

func (p *Parser) advance() *token.Token {
	prev := p.cur
	p.cur = p.lex.NextToken()
	return prev
}

func (p *Parser) check(k token.Kind) bool {
	return p.cur.Kind == k
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches k, else raises E-PARSE.
func (p *Parser) expect(k token.Kind) *token.Token {
	if !p.check(k) {
		report.Raise("E-PARSE", p.cur.Span, "expected %s, got %s", k, p.cur.Kind)
	}
	return p.advance()
}

func (p *Parser) expectIdent() string {
	tok := p.expect(token.IDENT)
	return tok.Value
}
