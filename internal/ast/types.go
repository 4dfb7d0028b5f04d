package ast

import "github.com/skepa-lang/skepa/internal/report"

// NamedTypeExpr is a primitive or user-defined type name, optionally
// qualified by a module alias (`pkg.Type`).
type NamedTypeExpr struct {
	Qualifier string // empty if unqualified
	Name      string
	Span      *report.Span
}

func (*NamedTypeExpr) typeExprNode()          {}
func (t *NamedTypeExpr) Position() *report.Span { return t.Span }

// ArrayTypeExpr is `[T; N]` where N is an integer literal per spec.md §3.
type ArrayTypeExpr struct {
	Elem   TypeExpr
	Length int
	Span   *report.Span
}

func (*ArrayTypeExpr) typeExprNode()          {}
func (t *ArrayTypeExpr) Position() *report.Span { return t.Span }

// VecTypeExpr is `Vec[T]`.
type VecTypeExpr struct {
	Elem TypeExpr
	Span *report.Span
}

func (*VecTypeExpr) typeExprNode()          {}
func (t *VecTypeExpr) Position() *report.Span { return t.Span }

// FnTypeExpr is `Fn(T1, T2) -> R`.
type FnTypeExpr struct {
	Params []TypeExpr
	Return TypeExpr
	Span   *report.Span
}

func (*FnTypeExpr) typeExprNode()          {}
func (t *FnTypeExpr) Position() *report.Span { return t.Span }
