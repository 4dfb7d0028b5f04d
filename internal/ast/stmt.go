package ast

import "github.com/skepa-lang/skepa/internal/report"

// LetStmt is a local `let name: T = expr;` or `let name = expr;`.
type LetStmt struct {
	Name string
	Type TypeExpr // nil if unannotated
	Init Expr

	Span *report.Span
}

func (*LetStmt) stmtNode()            {}
func (s *LetStmt) Position() *report.Span { return s.Span }

// AssignStmt is `target = value;` where target is a name, field access, or
// index expression chain, per spec.md §3.
type AssignStmt struct {
	Target Expr
	Value  Expr

	Span *report.Span
}

func (*AssignStmt) stmtNode()            {}
func (s *AssignStmt) Position() *report.Span { return s.Span }

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Expr Expr
	Span *report.Span
}

func (*ExprStmt) stmtNode()            {}
func (s *ExprStmt) Position() *report.Span { return s.Span }

// IfStmt is `if cond { then } else { else }` with an optional else branch,
// which may itself be another IfStmt (for `else if`).
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if no else branch; may contain a single *IfStmt

	Span *report.Span
}

func (*IfStmt) stmtNode()            {}
func (s *IfStmt) Position() *report.Span { return s.Span }

// WhileStmt is `while cond { body }`.
type WhileStmt struct {
	Cond Expr
	Body []Stmt

	Span *report.Span
}

func (*WhileStmt) stmtNode()            {}
func (s *WhileStmt) Position() *report.Span { return s.Span }

// ForStmt is `for (init; cond; step) { body }`. Any of Init/Cond/Step may be
// nil per spec.md §4.2's "permissive about shape" rule; the parser records
// whichever clauses are present and sema decides validity.
type ForStmt struct {
	Init Stmt // *LetStmt, *AssignStmt, or *ExprStmt; nil if omitted
	Cond Expr // nil if omitted
	Step Stmt // nil if omitted
	Body []Stmt

	Span *report.Span
}

func (*ForStmt) stmtNode()            {}
func (s *ForStmt) Position() *report.Span { return s.Span }

// MatchArm is one arm of a match statement: a wildcard, or one or more
// `|`-separated literal patterns, paired with a body.
type MatchArm struct {
	IsWildcard bool
	Patterns   []Expr // literal expressions; empty if IsWildcard
	Body       []Stmt
}

// MatchStmt is `match target { pattern => { body } ... }`.
type MatchStmt struct {
	Target Expr
	Arms   []MatchArm

	Span *report.Span
}

func (*MatchStmt) stmtNode()            {}
func (s *MatchStmt) Position() *report.Span { return s.Span }

// BreakStmt is `break;`.
type BreakStmt struct {
	Span *report.Span
}

func (*BreakStmt) stmtNode()            {}
func (s *BreakStmt) Position() *report.Span { return s.Span }

// ContinueStmt is `continue;`.
type ContinueStmt struct {
	Span *report.Span
}

func (*ContinueStmt) stmtNode()            {}
func (s *ContinueStmt) Position() *report.Span { return s.Span }

// ReturnStmt is `return;` or `return expr;`.
type ReturnStmt struct {
	Value Expr // nil for a bare `return;`
	Span  *report.Span
}

func (*ReturnStmt) stmtNode()            {}
func (s *ReturnStmt) Position() *report.Span { return s.Span }
