package sema

import (
	"sort"

	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/types"
)

// walkFunctions walks every free function and method body, in a stable
// (name-sorted) order so diagnostics are reproducible across runs.
func (a *Analyzer) walkFunctions() {
	names := make([]string, 0, len(a.funcs))
	for name := range a.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a.walkFunc(a.funcs[name])
	}

	mnames := make([]string, 0, len(a.methods))
	for name := range a.methods {
		mnames = append(mnames, name)
	}
	sort.Strings(mnames)
	for _, name := range mnames {
		a.walkFunc(a.methods[name])
	}
}

func (a *Analyzer) walkFunc(sig *funcSig) {
	defer report.CatchErrors(report.PhaseSema)

	mod, ok := a.graph.Lookup(sig.moduleID)
	if !ok {
		return
	}

	a.mod = mod
	a.localScopes = nil
	a.enclosingReturnType = sig.ret
	a.loopDepth = 0
	a.nextSlot = 0

	a.pushScope()
	defer a.popScope()

	irParams := make([]ir.Param, len(sig.decl.Params))
	for i, p := range sig.decl.Params {
		if sig.isMethod && i == 0 {
			if p.Name != "self" {
				a.errorf(p.Type.Position(), "first parameter of a method must be literally `self: %s`", sig.structName)
			}
			expected := types.Named(sig.moduleID, sig.structName)
			if !types.Equal(sig.params[0], expected) {
				a.errorf(p.Type.Position(), "first parameter of a method must be literally `self: %s`", sig.structName)
			}
		}
		lv := a.defineLocal(p.Name, sig.params[i], sig.decl.Position())
		irParams[i] = ir.Param{Name: p.Name, Type: sig.params[i], Slot: lv.slot}
	}

	body := a.walkBlock(sig.decl.Body)

	if sig.ret.Kind != types.KVoid && !blockReturnsOnAllPaths(body) {
		a.errorf(sig.decl.Position(), "function `%s` must return a value of type %s on every path", sig.decl.Name, sig.ret.Repr())
	}

	qualifiedName := sig.qualified
	if sig.isMethod {
		qualifiedName = qualify(sig.moduleID, sig.structName) + "." + sig.decl.Name
	}

	a.prog.Functions = append(a.prog.Functions, &ir.Function{
		Name:      qualifiedName,
		Params:    irParams,
		Return:    sig.ret,
		NumLocals: a.nextSlot,
		Body:      body,
	})
}

// blockReturnsOnAllPaths implements spec.md §4.4's structural
// "returns on all paths" check: `return e;` terminates; `if/else`
// terminates only if both branches do; loops never terminate by
// themselves; `match` terminates only if every arm does, and only when
// there is no implicit fallthrough path (i.e. a wildcard or otherwise
// exhaustive arm set is not required — the last statement of the block
// must simply itself be terminating).
func blockReturnsOnAllPaths(body []ir.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	return stmtReturns(body[len(body)-1])
}

func stmtReturns(s ir.Stmt) bool {
	switch st := s.(type) {
	case *ir.ReturnStmt:
		return true
	case *ir.IfStmt:
		return len(st.Else) > 0 && blockReturnsOnAllPaths(st.Then) && blockReturnsOnAllPaths(st.Else)
	case *ir.MatchStmt:
		if len(st.Arms) == 0 {
			return false
		}
		for _, arm := range st.Arms {
			if !blockReturnsOnAllPaths(arm.Body) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
