package sema

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/types"
)

func (a *Analyzer) walkBlock(stmts []ast.Stmt) []ir.Stmt {
	a.pushScope()
	defer a.popScope()

	out := make([]ir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, a.walkStmt(s))
	}
	return out
}

func (a *Analyzer) walkStmt(s ast.Stmt) ir.Stmt {
	switch st := s.(type) {
	case *ast.LetStmt:
		return a.walkLet(st)
	case *ast.AssignStmt:
		return a.walkAssign(st)
	case *ast.ExprStmt:
		return &ir.ExprStmt{Expr: a.walkExpr(st.Expr)}
	case *ast.IfStmt:
		return a.walkIf(st)
	case *ast.WhileStmt:
		return a.walkWhile(st)
	case *ast.ForStmt:
		return a.walkFor(st)
	case *ast.MatchStmt:
		return a.walkMatch(st)
	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			a.errorf(st.Span, "`break` used outside a loop")
		}
		return &ir.BreakStmt{}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.errorf(st.Span, "`continue` used outside a loop")
		}
		return &ir.ContinueStmt{}
	case *ast.ReturnStmt:
		return a.walkReturn(st)
	default:
		a.errorf(s.Position(), "unsupported statement")
		return &ir.ExprStmt{Expr: &ir.IntLit{}}
	}
}

func (a *Analyzer) walkLet(st *ast.LetStmt) ir.Stmt {
	init := a.walkExpr(st.Init)
	typ := init.Type()
	if st.Type != nil {
		annotated := a.resolveType(a.mod, st.Type)
		if !types.Equal(annotated, init.Type()) {
			a.errorf(st.Span, "cannot assign value of type %s to `%s` of declared type %s", init.Type().Repr(), st.Name, annotated.Repr())
		}
		typ = annotated
	}
	lv := a.defineLocal(st.Name, typ, st.Span)
	return &ir.LetStmt{Slot: lv.slot, Type: typ, Init: init}
}

func (a *Analyzer) walkAssign(st *ast.AssignStmt) ir.Stmt {
	target := a.walkLHS(st.Target)
	value := a.walkExpr(st.Value)
	if !types.Equal(target.Type(), value.Type()) {
		a.errorf(st.Span, "cannot assign value of type %s to target of type %s", value.Type().Repr(), target.Type().Repr())
	}
	return &ir.AssignStmt{Target: target, Value: value}
}

// walkLHS walks an assignment target: a bare name, a field chain, or an
// index expression, per spec.md §3.
func (a *Analyzer) walkLHS(e ast.Expr) ir.Expr {
	switch v := e.(type) {
	case *ast.IdentExpr:
		lv, ok := a.lookupLocal(v.Name)
		if !ok {
			a.errorf(v.Span, "cannot assign to undefined variable `%s`", v.Name)
			return &ir.LocalExpr{Typ: types.Void()}
		}
		return &ir.LocalExpr{Slot: lv.slot, Typ: lv.typ}
	case *ast.FieldExpr, *ast.IndexExpr:
		return a.walkExpr(e)
	default:
		a.errorf(e.Position(), "invalid assignment target")
		return &ir.LocalExpr{Typ: types.Void()}
	}
}

func (a *Analyzer) walkIf(st *ast.IfStmt) ir.Stmt {
	cond := a.walkExpr(st.Cond)
	if cond.Type().Kind != types.KBool {
		a.errorf(st.Cond.Position(), "`if` condition must be Bool, got %s", cond.Type().Repr())
	}
	then := a.walkBlock(st.Then)
	var els []ir.Stmt
	if st.Else != nil {
		els = a.walkBlock(st.Else)
	}
	return &ir.IfStmt{Cond: cond, Then: then, Else: els}
}

func (a *Analyzer) walkWhile(st *ast.WhileStmt) ir.Stmt {
	cond := a.walkExpr(st.Cond)
	if cond.Type().Kind != types.KBool {
		a.errorf(st.Cond.Position(), "`while` condition must be Bool, got %s", cond.Type().Repr())
	}
	a.loopDepth++
	body := a.walkBlock(st.Body)
	a.loopDepth--
	return &ir.WhileStmt{Cond: cond, Body: body}
}

func (a *Analyzer) walkFor(st *ast.ForStmt) ir.Stmt {
	a.pushScope()
	defer a.popScope()

	var init ir.Stmt
	if st.Init != nil {
		init = a.walkStmt(st.Init)
	}

	var cond ir.Expr
	if st.Cond != nil {
		cond = a.walkExpr(st.Cond)
		if cond.Type().Kind != types.KBool {
			a.errorf(st.Cond.Position(), "`for` condition must be Bool, got %s", cond.Type().Repr())
		}
	}

	var step ir.Stmt
	if st.Step != nil {
		step = a.walkStmt(st.Step)
	}

	a.loopDepth++
	body := a.walkBlock(st.Body)
	a.loopDepth--

	return &ir.ForStmt{Init: init, Cond: cond, Step: step, Body: body}
}

func (a *Analyzer) walkMatch(st *ast.MatchStmt) ir.Stmt {
	target := a.walkExpr(st.Target)
	if !target.Type().IsPrimitive() || target.Type().Kind == types.KVoid {
		a.errorf(st.Target.Position(), "`match` target must be a primitive type, got %s", target.Type().Repr())
	}

	arms := make([]ir.MatchArm, len(st.Arms))
	for i, arm := range st.Arms {
		var pats []ir.Expr
		for _, p := range arm.Patterns {
			pe := a.walkExpr(p)
			if !types.Equal(pe.Type(), target.Type()) {
				a.errorf(p.Position(), "match pattern type %s does not match target type %s", pe.Type().Repr(), target.Type().Repr())
			}
			pats = append(pats, pe)
		}
		arms[i] = ir.MatchArm{IsWildcard: arm.IsWildcard, Patterns: pats, Body: a.walkBlock(arm.Body)}
	}

	return &ir.MatchStmt{Target: target.Type(), TargetExpr: target, Arms: arms}
}

func (a *Analyzer) walkReturn(st *ast.ReturnStmt) ir.Stmt {
	if st.Value == nil {
		if a.enclosingReturnType != nil && a.enclosingReturnType.Kind != types.KVoid {
			a.errorf(st.Span, "must return a value of type %s", a.enclosingReturnType.Repr())
		}
		return &ir.ReturnStmt{}
	}

	val := a.walkExpr(st.Value)
	if a.enclosingReturnType != nil && !types.Equal(a.enclosingReturnType, val.Type()) {
		a.errorf(st.Span, "returned type %s does not match declared return type %s", val.Type().Repr(), a.enclosingReturnType.Repr())
	}
	return &ir.ReturnStmt{Value: val}
}
