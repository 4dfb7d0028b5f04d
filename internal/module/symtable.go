package module

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
)

// buildLocalSymbolTable populates mod.Local and mod.StructMethods from the
// module's top-level declarations (spec.md §4.3's "local symbol table:
// top-level fn/struct/impl methods/global let").
func buildLocalSymbolTable(mod *Module) {
	mod.Local = map[string]*Symbol{}
	mod.StructMethods = map[string]map[string]*ast.FuncDecl{}

	for _, decl := range mod.File.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			defineLocal(mod, d.Name, &Symbol{Kind: SymFunc, Name: d.Name, ModuleID: mod.ID, Func: d}, d.Position())
		case *ast.StructDecl:
			defineLocal(mod, d.Name, &Symbol{Kind: SymStruct, Name: d.Name, ModuleID: mod.ID, Struct: d}, d.Position())
		case *ast.GlobalLetDecl:
			defineLocal(mod, d.Name, &Symbol{Kind: SymLet, Name: d.Name, ModuleID: mod.ID, Let: d}, d.Position())
		case *ast.ImplDecl:
			defineImpl(mod, d)
		}
	}
}

func defineLocal(mod *Module, name string, sym *Symbol, pos *report.Span) {
	if _, exists := mod.Local[name]; exists {
		report.Error(report.PhaseSema, "E-SEMA", pos, "duplicate top-level declaration `%s`", name)
		return
	}
	mod.Local[name] = sym
}

func defineImpl(mod *Module, impl *ast.ImplDecl) {
	methods, ok := mod.StructMethods[impl.StructName]
	if !ok {
		methods = map[string]*ast.FuncDecl{}
		mod.StructMethods[impl.StructName] = methods
	}

	for _, fn := range impl.Methods {
		if _, exists := methods[fn.Name]; exists {
			report.Error(report.PhaseSema, "E-SEMA", fn.Position(), "duplicate method `%s` for struct `%s`", fn.Name, impl.StructName)
			continue
		}
		methods[fn.Name] = fn
	}
}
