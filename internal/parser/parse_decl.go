package parser

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/token"
)

// parseTopDecl parses a single top-level declaration.
func (p *Parser) parseTopDecl() ast.Decl {
	switch p.cur.Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseFromImport()
	case token.EXPORT:
		return p.parseExport()
	case token.STRUCT:
		return p.parseStruct()
	case token.IMPL:
		return p.parseImpl()
	case token.FN:
		return p.parseFunc(false)
	case token.LET:
		return p.parseGlobalLet()
	default:
		report.Raise("E-PARSE", p.cur.Span, "expected a declaration, got %s", p.cur.Kind)
		return nil
	}
}

// parseDottedPath parses `a.b.c` and returns the dot-joined string.
func (p *Parser) parseDottedPath() string {
	path := p.expectIdent()
	for p.match(token.DOT) {
		path += "." + p.expectIdent()
	}
	return path
}

func (p *Parser) parseImport() ast.Decl {
	start := p.expect(token.IMPORT).Span

	path := p.parseDottedPath()
	decl := &ast.ImportDecl{ModulePath: path}

	if p.match(token.AS) {
		decl.Alias = p.expectIdent()
	}

	end := p.expect(token.SEMI).Span
	decl.Span = report.SpanOver(start, end)
	return decl
}

// parseFromImport handles `from m import a, b as c;` / `from m import *;`.
// parseTopDecl dispatches here on a leading FROM token; parseImport handles
// only declarations that start with IMPORT.
func (p *Parser) parseFromImport() ast.Decl {
	start := p.expect(token.FROM).Span
	path := p.parseDottedPath()
	p.expect(token.IMPORT)

	decl := &ast.ImportDecl{ModulePath: path, IsFrom: true}

	if p.match(token.STAR) {
		decl.IsStar = true
	} else {
		decl.Items = p.parseImportItems()
	}

	end := p.expect(token.SEMI).Span
	decl.Span = report.SpanOver(start, end)
	return decl
}

func (p *Parser) parseImportItems() []ast.ImportItem {
	var items []ast.ImportItem
	for {
		name := p.expectIdent()
		alias := name
		if p.match(token.AS) {
			alias = p.expectIdent()
		}
		items = append(items, ast.ImportItem{Name: name, Alias: alias})

		if !p.match(token.COMMA) || p.check(token.SEMI) {
			break
		}
	}
	return items
}

func (p *Parser) parseExport() ast.Decl {
	start := p.expect(token.EXPORT).Span
	decl := &ast.ExportDecl{}

	if p.match(token.STAR) {
		decl.IsStar = true
		p.expect(token.FROM)
		decl.FromModule = p.parseDottedPath()
	} else {
		p.expect(token.LBRACE)
		for !p.check(token.RBRACE) {
			name := p.expectIdent()
			alias := name
			if p.match(token.AS) {
				alias = p.expectIdent()
			}
			decl.Items = append(decl.Items, ast.ExportItem{Name: name, Alias: alias})

			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)

		if p.match(token.FROM) {
			decl.FromModule = p.parseDottedPath()
		}
	}

	end := p.expect(token.SEMI).Span
	decl.Span = report.SpanOver(start, end)
	return decl
}

func (p *Parser) parseStruct() ast.Decl {
	start := p.expect(token.STRUCT).Span
	name := p.expectIdent()
	p.expect(token.LBRACE)

	decl := &ast.StructDecl{Name: name}
	for !p.check(token.RBRACE) {
		fname := p.expectIdent()
		p.expect(token.COLON)
		ftype := p.parseType()
		decl.Fields = append(decl.Fields, ast.FieldDecl{Name: fname, Type: ftype})

		if !p.match(token.COMMA) {
			break
		}
	}

	end := p.expect(token.RBRACE).Span
	decl.Span = report.SpanOver(start, end)
	return decl
}

func (p *Parser) parseImpl() ast.Decl {
	start := p.expect(token.IMPL).Span
	name := p.expectIdent()
	p.expect(token.LBRACE)

	decl := &ast.ImplDecl{StructName: name}
	for !p.check(token.RBRACE) {
		fn := p.parseFunc(true).(*ast.FuncDecl)
		decl.Methods = append(decl.Methods, fn)
	}

	end := p.expect(token.RBRACE).Span
	decl.Span = report.SpanOver(start, end)
	return decl
}

func (p *Parser) parseFunc(isMethod bool) ast.Decl {
	start := p.expect(token.FN).Span
	name := p.expectIdent()

	decl := &ast.FuncDecl{Name: name, IsMethod: isMethod}
	decl.Params = p.parseParamList()

	if p.match(token.ARROW) {
		decl.Return = p.parseType()
	}

	decl.Body = p.parseBlock()
	decl.Span = report.SpanOver(start, p.lastBlockEnd)
	return decl
}

// parseParamList parses `(name: Type, ...)`, with trailing commas accepted.
func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN)

	var params []ast.Param
	for !p.check(token.RPAREN) {
		pname := p.expectIdent()
		p.expect(token.COLON)
		ptype := p.parseType()
		params = append(params, ast.Param{Name: pname, Type: ptype})

		if !p.match(token.COMMA) {
			break
		}
	}

	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseGlobalLet() ast.Decl {
	start := p.expect(token.LET).Span
	name := p.expectIdent()

	decl := &ast.GlobalLetDecl{Name: name}
	if p.match(token.COLON) {
		decl.Type = p.parseType()
	}

	p.expect(token.ASSIGN)
	decl.Init = p.parseExpr()

	end := p.expect(token.SEMI).Span
	decl.Span = report.SpanOver(start, end)
	return decl
}
