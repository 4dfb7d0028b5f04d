package sema

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/module"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/types"
)

// collectSignatures resolves every free function and method's parameter
// and return types, ahead of body walking, so that forward/mutually
// recursive calls resolve regardless of declaration order.
func (a *Analyzer) collectSignatures() {
	for _, mod := range a.graph.Modules {
		if mod.Kind == module.KindFolder {
			continue
		}
		for _, decl := range mod.File.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			a.funcs[qualify(mod.ID, fd.Name)] = a.buildSig(mod, fd, "")
		}
		for name, methods := range mod.StructMethods {
			for _, fd := range methods {
				a.methods[qualify(mod.ID, name)+"."+fd.Name] = a.buildSig(mod, fd, name)
			}
		}
	}
}

func (a *Analyzer) buildSig(mod *module.Module, fd *ast.FuncDecl, structName string) *funcSig {
	params := make([]*types.Type, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = a.resolveType(mod, p.Type)
	}
	ret := types.Void()
	if fd.Return != nil {
		ret = a.resolveType(mod, fd.Return)
	}
	return &funcSig{
		decl: fd, moduleID: mod.ID, qualified: qualify(mod.ID, fd.Name),
		params: params, ret: ret, isMethod: structName != "", structName: structName,
	}
}

// checkMethodOwnership enforces spec.md §9: an `impl S` block's module
// must be the module where `S` is declared. Since buildLocalSymbolTable
// only ever populates mod.StructMethods from that module's own `impl`
// blocks (it never looks across modules), a struct name with methods but
// no matching local struct declaration in the same module is the only way
// this invariant can be violated.
func (a *Analyzer) checkMethodOwnership() {
	for _, mod := range a.graph.Modules {
		if mod.Kind == module.KindFolder {
			continue
		}
		for structName := range mod.StructMethods {
			sym, ok := mod.Local[structName]
			if !ok || sym.Kind != module.SymStruct {
				report.Error(report.PhaseSema, "E-SEMA", nil, "impl block for `%s` in module `%s` does not match a struct declared in that module", structName, mod.ID)
			}
		}
	}
}

// walkGlobals resolves every top-level `let` declaration's type, in
// declaration order within a module (global lets may not depend on
// later-declared globals, only on literals and already-resolved
// functions/structs, matching the teacher's top-down definition order).
func (a *Analyzer) walkGlobals() {
	for _, mod := range a.graph.Modules {
		if mod.Kind == module.KindFolder {
			continue
		}
		for _, decl := range mod.File.Decls {
			gd, ok := decl.(*ast.GlobalLetDecl)
			if !ok {
				continue
			}
			a.walkGlobalLet(mod, gd)
		}
	}
}

func (a *Analyzer) walkGlobalLet(mod *module.Module, gd *ast.GlobalLetDecl) {
	defer report.CatchErrors(report.PhaseSema)

	a.mod = mod
	a.localScopes = []map[string]*localVar{{}}
	a.nextSlot = 0

	init := a.walkExpr(gd.Init)
	typ := init.Type()
	if gd.Type != nil {
		annotated := a.resolveType(mod, gd.Type)
		if !types.Equal(annotated, init.Type()) {
			a.errorf(gd.Span, "cannot assign value of type %s to `%s` of declared type %s", init.Type().Repr(), gd.Name, annotated.Repr())
		}
		typ = annotated
	}
	name := qualify(mod.ID, gd.Name)
	a.globals[name] = typ
	a.prog.Globals = append(a.prog.Globals, &ir.Global{Name: name, Type: typ, Init: init})
}
