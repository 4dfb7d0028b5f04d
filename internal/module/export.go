package module

import (
	"sort"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
)

// color states for the three-color DFS cycle check over re-export edges.
const (
	white = iota
	gray
	black
)

// ResolveExports runs the fixed-point export-map construction of spec.md
// §4.3 over every module in g: local exports are unioned first, then
// `export { a } from m` and `export * from m` entries are resolved against
// m's own (already-materialized) export map. Re-export chains are checked
// for cycles with a three-color depth-first walk before any resolution
// happens, so a cycle is reported as E-MOD-CYCLE rather than silently
// looping forever.
func ResolveExports(g *Graph) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*report.CompileError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	colors := map[string]int{}
	for id := range g.Modules {
		if colors[id] == white {
			if err := walkExportCycle(g, id, colors); err != nil {
				return err
			}
		}
	}

	resolved := map[string]bool{}
	for id := range g.Modules {
		resolveModuleExports(g, id, resolved)
	}
	return nil
}

// walkExportCycle performs the DFS coloring over `export ... from` edges
// only (ordinary import edges may cycle freely per spec.md §4.3).
func walkExportCycle(g *Graph, id string, colors map[string]int) (err error) {
	colors[id] = gray
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*report.CompileError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	mod := g.Modules[id]
	for _, from := range reexportTargets(mod) {
		target, ok := resolveNamespaceModule(g, mod, from.module)
		if !ok {
			continue // unresolvable targets are reported during real resolution
		}
		switch colors[target] {
		case gray:
			report.Raise("E-MOD-CYCLE", from.span, "re-export cycle detected through module `%s`", target)
		case white:
			if err := walkExportCycle(g, target, colors); err != nil {
				return err
			}
		}
	}

	colors[id] = black
	return nil
}

type reexportEdge struct {
	module string
	span   *report.Span
}

// reexportTargets lists one edge per `export ... from` declaration in mod,
// so a module re-exported from twice appears twice. Folder modules have no
// RawExports of their own and yield no edges.
func reexportTargets(mod *Module) []reexportEdge {
	var edges []reexportEdge
	for _, ed := range mod.RawExports {
		if ed.FromModule != "" {
			edges = append(edges, reexportEdge{module: ed.FromModule, span: ed.Span})
		}
	}
	return edges
}

// resolveNamespaceModule resolves a dotted module path written in an
// export-from clause to its graph id. Module paths are always rooted at
// the project root (spec.md §4.3), so this is just a lookup by canonical id
// built the same way discovery built it; mod's own location is not used.
func resolveNamespaceModule(g *Graph, mod *Module, path string) (string, bool) {
	_, ok := g.Modules[path]
	if ok {
		return path, true
	}
	return "", false
}

// resolveModuleExports materializes mod.Exports by recursively resolving
// any re-export targets first (memoized via resolved), matching spec.md
// §4.3's "fixed-point" construction. Cycles have already been rejected by
// ResolveExports, so this recursion is guaranteed to terminate.
func resolveModuleExports(g *Graph, id string, resolved map[string]bool) {
	if resolved[id] {
		return
	}
	resolved[id] = true

	mod := g.Modules[id]
	mod.Exports = map[string]*Symbol{}

	if mod.Kind == KindFolder {
		for _, childID := range mod.children {
			resolveModuleExports(g, childID, resolved)
			child := g.Modules[childID]
			for name, sym := range child.Exports {
				if _, exists := mod.Exports[name]; !exists {
					mod.Exports[name] = sym
				}
			}
		}
		return
	}

	// Local exports first, then `export { .. } from`, then `export *`, so a
	// star re-export only adds names that nothing else in mod exports.
	rank := func(ed *ast.ExportDecl) int {
		switch {
		case ed.FromModule == "":
			return 0
		case ed.IsStar:
			return 2
		}
		return 1
	}
	ordered := append([]*ast.ExportDecl(nil), mod.RawExports...)
	sort.SliceStable(ordered, func(i, j int) bool { return rank(ordered[i]) < rank(ordered[j]) })
	for _, ed := range ordered {
		if ed.FromModule == "" {
			// Local `export { a, b as c };`: look up in the module's own
			// local symbol table.
			for _, item := range ed.Items {
				sym, ok := mod.Local[item.Name]
				if !ok {
					report.Raise("E-EXPORT-UNKNOWN", ed.Span, "cannot export unknown name `%s`", item.Name)
				}
				addExport(mod, item.Alias, sym, ed.Span)
			}
			continue
		}

		target, ok := resolveNamespaceModule(g, mod, ed.FromModule)
		if !ok {
			report.Raise("E-MOD-NOT-FOUND", ed.Span, "re-export target `%s` not found", ed.FromModule)
		}
		resolveModuleExports(g, target, resolved)
		targetMod := g.Modules[target]

		if ed.IsStar {
			for name, sym := range targetMod.Exports {
				if _, exists := mod.Exports[name]; !exists {
					mod.Exports[name] = sym
				}
			}
			continue
		}

		for _, item := range ed.Items {
			sym, ok := targetMod.Exports[item.Name]
			if !ok {
				report.Raise("E-EXPORT-UNKNOWN", ed.Span, "module `%s` does not export `%s`", ed.FromModule, item.Name)
			}
			addExport(mod, item.Alias, sym, ed.Span)
		}
	}
}

func addExport(mod *Module, name string, sym *Symbol, span *report.Span) {
	if _, exists := mod.Exports[name]; exists {
		report.Raise("E-EXPORT-UNKNOWN", span, "duplicate export name `%s`", name)
		return
	}
	mod.Exports[name] = sym
	sym.Public = true
}
