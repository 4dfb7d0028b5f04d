// Package module implements Skepa's multi-file module resolver: path
// resolution, the module graph, local symbol tables, fixed-point export
// maps, and import binding, per spec.md §4.3.
package module

import "github.com/skepa-lang/skepa/internal/ast"

// Kind distinguishes a single-file module from a folder module.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

// SymbolKind enumerates what a local symbol refers to.
type SymbolKind int

const (
	SymFunc SymbolKind = iota
	SymStruct
	SymLet
)

// Symbol is a top-level, module-local declaration: a function, struct, or
// global let. Methods are not top-level symbols; they are resolved through
// their struct during sema (spec.md §4.4).
type Symbol struct {
	Kind       SymbolKind
	Name       string
	ModuleID   string
	Func       *ast.FuncDecl
	Struct     *ast.StructDecl
	Let        *ast.GlobalLetDecl
	Public     bool // true once exported, under its own name or an alias
}

// BuiltinNamespacePrefix, followed by the package root, is the sentinel
// namespace target used for an import binding that refers to a reserved
// builtin package root (io, str, arr, ...) rather than a project module.
const BuiltinNamespacePrefix = "builtin:"

// Module is one node of the module graph: a single source file, or a
// folder aggregating its direct file children's exports (spec.md §3
// "Module").
type Module struct {
	ID   string // canonical, dot-separated
	Kind Kind
	Path string // absolute source path (file) or directory path (folder)

	File *ast.File // nil for folder modules

	// Local is the module's own top-level symbol table (function/struct/
	// global let declarations), keyed by name. Folder modules have no
	// local declarations of their own.
	Local map[string]*Symbol

	// StructMethods maps a struct name to its resolved methods (gathered
	// from every `impl StructName { ... }` block in the module).
	StructMethods map[string]map[string]*ast.FuncDecl

	// RawExports is the module's own, as-written export declarations,
	// not yet resolved against re-export targets.
	RawExports []*ast.ExportDecl

	// Exports is the fully materialized export map: name -> resolved
	// symbol, populated by the fixed-point pass in export.go. For folder
	// modules, this is the union of each direct child file module's
	// Exports.
	Exports map[string]*Symbol

	// Namespaces and DirectBindings map a locally-bound name (whether from
	// `import m`, `import m as n`, `from m import a`, or `from m import *`)
	// to its resolution: Namespaces holds namespace bindings (module id or
	// builtin prefix), DirectBindings holds direct symbols.
	Namespaces     map[string]string   // local alias -> target module id (or BuiltinNamespacePrefix+root)
	DirectBindings map[string]*Symbol  // local alias -> resolved symbol (from-import forms)

	// children lists the direct file modules that live immediately inside
	// a folder module's directory (folder modules only).
	children []string
}

// Graph is the fully loaded module graph for one compilation.
type Graph struct {
	Modules map[string]*Module
	Entry   string // canonical id of the entry module
}

// Lookup returns the module with the given canonical id, if any.
func (g *Graph) Lookup(id string) (*Module, bool) {
	m, ok := g.Modules[id]
	return m, ok
}
