package module

import (
	"strings"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
)

// ResolveImports binds every module's import declarations against the now-
// materialized export graph, populating Namespaces and DirectBindings per
// spec.md §4.3. Must run after ResolveExports.
func ResolveImports(g *Graph) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*report.CompileError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	for _, mod := range g.Modules {
		if mod.Kind == KindFolder {
			continue
		}
		bindModuleImports(g, mod)
	}
	return nil
}

func bindModuleImports(g *Graph, mod *Module) {
	mod.Namespaces = map[string]string{}
	mod.DirectBindings = map[string]*Symbol{}

	for _, decl := range mod.File.Decls {
		imp, ok := decl.(*ast.ImportDecl)
		if !ok {
			continue
		}

		root := strings.SplitN(imp.ModulePath, ".", 2)[0]
		if IsBuiltinRoot(root) {
			bindBuiltinImport(mod, imp)
			continue
		}

		target, ok := g.Lookup(imp.ModulePath)
		if !ok {
			report.Raise("E-MOD-NOT-FOUND", imp.Span, "import target `%s` not found", imp.ModulePath)
		}

		if !imp.IsFrom {
			alias := imp.Alias
			if alias == "" {
				alias = lastComponent(imp.ModulePath)
			}
			bindNamespace(mod, alias, target.ID, imp.Span)
			continue
		}

		if imp.IsStar {
			for name, sym := range target.Exports {
				bindDirect(mod, name, sym, imp.Span)
			}
			continue
		}

		for _, item := range imp.Items {
			sym, ok := target.Exports[item.Name]
			if !ok {
				report.Raise("E-IMPORT-NOT-EXPORTED", imp.Span, "module `%s` does not export `%s`", imp.ModulePath, item.Name)
			}
			bindDirect(mod, item.Alias, sym, imp.Span)
		}
	}
}

// bindBuiltinImport binds an import of a reserved package root to the
// synthetic builtin namespace; `from io import println` style imports of
// builtins are not supported (builtins are only ever accessed dotted, e.g.
// `io.println`), matching spec.md §4.3 and §6.4.
func bindBuiltinImport(mod *Module, imp *ast.ImportDecl) {
	root := strings.SplitN(imp.ModulePath, ".", 2)[0]
	if imp.IsFrom {
		report.Raise("E-MOD-NOT-FOUND", imp.Span, "`from %s import ...` is not supported for built-in package `%s`", imp.ModulePath, root)
	}
	alias := imp.Alias
	if alias == "" {
		alias = root
	}
	bindNamespace(mod, alias, BuiltinNamespacePrefix+root, imp.Span)
}

func bindNamespace(mod *Module, alias, target string, span *report.Span) {
	if _, exists := mod.Namespaces[alias]; exists {
		report.Raise("E-IMPORT-CONFLICT", span, "import alias `%s` already bound in this module", alias)
	}
	if _, exists := mod.DirectBindings[alias]; exists {
		report.Raise("E-IMPORT-CONFLICT", span, "import alias `%s` already bound in this module", alias)
	}
	mod.Namespaces[alias] = target
}

func bindDirect(mod *Module, alias string, sym *Symbol, span *report.Span) {
	if _, exists := mod.DirectBindings[alias]; exists {
		report.Raise("E-IMPORT-CONFLICT", span, "import name `%s` already bound in this module", alias)
	}
	if _, exists := mod.Namespaces[alias]; exists {
		report.Raise("E-IMPORT-CONFLICT", span, "import name `%s` already bound in this module", alias)
	}
	mod.DirectBindings[alias] = sym
}

func lastComponent(path string) string {
	parts := strings.Split(path, ".")
	return parts[len(parts)-1]
}
