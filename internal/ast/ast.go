// Package ast defines the untyped syntax tree produced by the parser, per
// spec.md §3 "AST node" and the EBNF in §6.
package ast

import "github.com/skepa-lang/skepa/internal/report"

// Decl is any top-level declaration: import, export, struct, impl, fn, or a
// global let.
type Decl interface {
	declNode()
	Position() *report.Span
}

// Stmt is any statement inside a function body.
type Stmt interface {
	stmtNode()
	Position() *report.Span
}

// Expr is any expression.
type Expr interface {
	exprNode()
	Position() *report.Span
}

// TypeExpr is a type as written in source syntax (before sema resolves it to
// a internal/types.Type). The parser is permissive: it records whatever
// shape of type syntax it sees without validating it.
type TypeExpr interface {
	typeExprNode()
	Position() *report.Span
}

// File is one parsed source file: its module-relative path and the ordered
// sequence of declarations found in it.
type File struct {
	Path  string
	Decls []Decl
}
