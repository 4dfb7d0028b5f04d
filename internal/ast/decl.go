package ast

import "github.com/skepa-lang/skepa/internal/report"

// ImportItem is one binding introduced by an import declaration.
type ImportItem struct {
	Name  string
	Alias string // equal to Name if unaliased
}

// ImportDecl covers `import m;`, `import m as n;`, `from m import a, b as c;`
// and `from m import *;` per spec.md §4.3.
type ImportDecl struct {
	ModulePath string // dotted path, e.g. "utils.math"
	Alias      string // for `import m as n`; empty otherwise

	IsFrom  bool // true for `from m import ...`
	IsStar  bool // true for `from m import *`
	Items   []ImportItem

	Span *report.Span
}

func (*ImportDecl) declNode()            {}
func (d *ImportDecl) Position() *report.Span { return d.Span }

// ExportItem is one name exported, possibly re-exported from another
// module and/or renamed.
type ExportItem struct {
	Name  string
	Alias string // equal to Name if unaliased
}

// ExportDecl covers `export { a, b as c };` and `export { a } from m;` and
// `export * from m;` per spec.md §4.3.
type ExportDecl struct {
	FromModule string // empty for a local `export { ... };`
	IsStar     bool
	Items      []ExportItem

	Span *report.Span
}

func (*ExportDecl) declNode()            {}
func (d *ExportDecl) Position() *report.Span { return d.Span }

// Param is a function or method parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// FuncDecl is `fn name(params) -> RetType { body }` or, inside an `impl`
// block, a method whose first parameter is literally `self: S`.
type FuncDecl struct {
	Name    string
	Params  []Param
	Return  TypeExpr // nil means Void
	Body    []Stmt
	IsMethod bool

	Span *report.Span
}

func (*FuncDecl) declNode()            {}
func (d *FuncDecl) Position() *report.Span { return d.Span }

// FieldDecl is one field of a struct definition.
type FieldDecl struct {
	Name string
	Type TypeExpr
}

// StructDecl is `struct S { field: T, ... }`.
type StructDecl struct {
	Name   string
	Fields []FieldDecl

	Span *report.Span
}

func (*StructDecl) declNode()            {}
func (d *StructDecl) Position() *report.Span { return d.Span }

// ImplDecl is `impl S { fn method(self: S, ...) -> R { ... } ... }`.
type ImplDecl struct {
	StructName string
	Methods    []*FuncDecl

	Span *report.Span
}

func (*ImplDecl) declNode()            {}
func (d *ImplDecl) Position() *report.Span { return d.Span }

// GlobalLetDecl is a top-level `let name: T = expr;` or `let name = expr;`.
type GlobalLetDecl struct {
	Name string
	Type TypeExpr // nil if unannotated
	Init Expr

	Span *report.Span
}

func (*GlobalLetDecl) declNode()            {}
func (d *GlobalLetDecl) Position() *report.Span { return d.Span }
