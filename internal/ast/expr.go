package ast

import "github.com/skepa-lang/skepa/internal/report"

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Span  *report.Span
}

func (*IntLit) exprNode()            {}
func (e *IntLit) Position() *report.Span { return e.Span }

// FloatLit is a floating-point literal.
type FloatLit struct {
	Value float64
	Span  *report.Span
}

func (*FloatLit) exprNode()            {}
func (e *FloatLit) Position() *report.Span { return e.Span }

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Span  *report.Span
}

func (*BoolLit) exprNode()            {}
func (e *BoolLit) Position() *report.Span { return e.Span }

// StringLit is a string literal with escapes already decoded by the lexer.
type StringLit struct {
	Value string
	Span  *report.Span
}

func (*StringLit) exprNode()            {}
func (e *StringLit) Position() *report.Span { return e.Span }

// IdentExpr is a bare identifier reference.
type IdentExpr struct {
	Name string
	Span *report.Span
}

func (*IdentExpr) exprNode()            {}
func (e *IdentExpr) Position() *report.Span { return e.Span }

// GroupExpr is a parenthesized expression, kept as a distinct node so
// disassembly/pretty-printing can round-trip parentheses if ever needed;
// sema treats it transparently.
type GroupExpr struct {
	Inner Expr
	Span  *report.Span
}

func (*GroupExpr) exprNode()            {}
func (e *GroupExpr) Position() *report.Span { return e.Span }

// UnaryExpr is `+e`, `-e`, or `!e`.
type UnaryExpr struct {
	Op      string
	Operand Expr
	Span    *report.Span
}

func (*UnaryExpr) exprNode()            {}
func (e *UnaryExpr) Position() *report.Span { return e.Span }

// BinaryExpr is any left-associative binary operator application.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Span  *report.Span
}

func (*BinaryExpr) exprNode()            {}
func (e *BinaryExpr) Position() *report.Span { return e.Span }

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Span   *report.Span
}

func (*CallExpr) exprNode()            {}
func (e *CallExpr) Position() *report.Span { return e.Span }

// FieldExpr is `target.field`, used both for struct field access and for
// method-call receivers (`receiver.method(args)` parses as a CallExpr whose
// Callee is a FieldExpr).
type FieldExpr struct {
	Target Expr
	Field  string
	Span   *report.Span
}

func (*FieldExpr) exprNode()            {}
func (e *FieldExpr) Position() *report.Span { return e.Span }

// IndexExpr is `target[index]`.
type IndexExpr struct {
	Target Expr
	Index  Expr
	Span   *report.Span
}

func (*IndexExpr) exprNode()            {}
func (e *IndexExpr) Position() *report.Span { return e.Span }

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	Elems []Expr
	Span  *report.Span
}

func (*ArrayLit) exprNode()            {}
func (e *ArrayLit) Position() *report.Span { return e.Span }

// ArrayRepeatLit is `[e; n]` where n is an integer literal.
type ArrayRepeatLit struct {
	Elem   Expr
	Length int
	Span   *report.Span
}

func (*ArrayRepeatLit) exprNode()            {}
func (e *ArrayRepeatLit) Position() *report.Span { return e.Span }

// StructFieldInit is one `name: value` pair in a struct literal.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructLit is `StructName { field: value, ... }`.
type StructLit struct {
	StructName string
	Fields     []StructFieldInit
	Span       *report.Span
}

func (*StructLit) exprNode()            {}
func (e *StructLit) Position() *report.Span { return e.Span }

// FnLit is a non-capturing function literal `fn(params) -> R { body }`.
type FnLit struct {
	Params []Param
	Return TypeExpr
	Body   []Stmt
	Span   *report.Span
}

func (*FnLit) exprNode()            {}
func (e *FnLit) Position() *report.Span { return e.Span }
