package sema

import (
	"strings"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/module"
	"github.com/skepa-lang/skepa/internal/types"
)

var primitiveNames = map[string]*types.Type{
	"Int":    types.Int(),
	"Float":  types.Float(),
	"Bool":   types.Bool(),
	"String": types.String(),
	"Void":   types.Void(),
}

// resolveType converts a parsed type expression into a resolved
// internal/types.Type in the context of mod, per spec.md §3.
func (a *Analyzer) resolveType(mod *module.Module, te ast.TypeExpr) *types.Type {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return a.resolveNamedType(mod, t)
	case *ast.ArrayTypeExpr:
		return types.Array(a.resolveType(mod, t.Elem), t.Length)
	case *ast.VecTypeExpr:
		return types.Vec(a.resolveType(mod, t.Elem))
	case *ast.FnTypeExpr:
		params := make([]*types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = a.resolveType(mod, p)
		}
		ret := types.Void()
		if t.Return != nil {
			ret = a.resolveType(mod, t.Return)
		}
		return types.Fn(params, ret)
	default:
		a.errorf(te.Position(), "invalid type expression")
		return types.Void()
	}
}

func (a *Analyzer) resolveNamedType(mod *module.Module, t *ast.NamedTypeExpr) *types.Type {
	if t.Qualifier == "" {
		if prim, ok := primitiveNames[t.Name]; ok {
			return prim
		}
		if _, ok := mod.Local[t.Name]; ok {
			return types.Named(mod.ID, t.Name)
		}
		if sym, ok := mod.DirectBindings[t.Name]; ok && sym.Kind == module.SymStruct {
			return types.Named(sym.ModuleID, sym.Name)
		}
		a.errorf(t.Span, "undefined type `%s`", t.Name)
		return types.Void()
	}

	targetID, ok := mod.Namespaces[t.Qualifier]
	if !ok || strings.HasPrefix(targetID, module.BuiltinNamespacePrefix) {
		a.errorf(t.Span, "undefined module `%s`", t.Qualifier)
		return types.Void()
	}
	target, ok := a.graph.Lookup(targetID)
	if !ok {
		a.errorf(t.Span, "undefined module `%s`", t.Qualifier)
		return types.Void()
	}
	sym, ok := target.Exports[t.Name]
	if !ok || sym.Kind != module.SymStruct {
		a.errorf(t.Span, "module `%s` does not export a struct named `%s`", t.Qualifier, t.Name)
		return types.Void()
	}
	return types.Named(sym.ModuleID, sym.Name)
}

// collectStructs builds the struct field layout for every struct decl in
// every module, ahead of signature/body walking so that field types
// (including cross-references to other structs) are available.
func (a *Analyzer) collectStructs() {
	for _, mod := range a.graph.Modules {
		if mod.Kind == module.KindFolder {
			continue
		}
		for _, decl := range mod.File.Decls {
			sd, ok := decl.(*ast.StructDecl)
			if !ok {
				continue
			}
			a.structs[qualify(mod.ID, sd.Name)] = &structInfo{moduleID: mod.ID, name: sd.Name, index: map[string]int{}}
		}
	}
	// Second inner pass: now that every struct name is registered, resolve
	// field types (which may reference other structs declared later in
	// file order or in another module).
	for _, mod := range a.graph.Modules {
		if mod.Kind == module.KindFolder {
			continue
		}
		for _, decl := range mod.File.Decls {
			sd, ok := decl.(*ast.StructDecl)
			if !ok {
				continue
			}
			info := a.structs[qualify(mod.ID, sd.Name)]
			info.fields = info.fields[:0]
			for i, f := range sd.Fields {
				info.fields = append(info.fields, ir.Field{Name: f.Name, Type: a.resolveType(mod, f.Type)})
				info.index[f.Name] = i
			}
			a.prog.Structs = append(a.prog.Structs, &ir.StructLayout{ModuleID: mod.ID, Name: sd.Name, Fields: info.fields})
		}
	}
}
