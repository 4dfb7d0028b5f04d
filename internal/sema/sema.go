// Package sema is Skepa's semantic analyzer: it walks every function body
// reachable from the module graph, maintaining a local-scope stack and a
// module-qualified name resolver, and produces a typed internal/ir.Program
// ready for the bytecode emitter. Modeled on the teacher's
// bootstrap/walk.Walker: a small stateful struct reset between
// declarations, errors raised by panic and caught at a per-declaration
// boundary so one bad function does not abort the whole file.
package sema

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/module"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/types"
)

// funcSig is a function or method's resolved, not-yet-bodied signature,
// keyed by its module-qualified name.
type funcSig struct {
	decl       *ast.FuncDecl
	moduleID   string
	qualified  string
	params     []*types.Type
	ret        *types.Type
	isMethod   bool
	structName string
}

// Analyzer holds all cross-module state accumulated before and during body
// walking.
type Analyzer struct {
	graph *module.Graph

	structs map[string]*structInfo // "moduleID.Name" -> layout
	funcs   map[string]*funcSig    // "moduleID.Name" -> signature (free functions; globals are in globals)
	methods map[string]*funcSig    // "moduleID.Struct.method" -> signature
	globals map[string]*types.Type // "moduleID.Name" -> global let type

	// per-declaration walking state, reset by walkFunc.
	mod                 *module.Module
	localScopes         []map[string]*localVar
	enclosingReturnType *types.Type
	loopDepth            int
	nextSlot             int

	prog *ir.Program
}

type structInfo struct {
	moduleID string
	name     string
	fields   []ir.Field
	index    map[string]int
}

type localVar struct {
	slot int
	typ  *types.Type
}

// Analyze runs semantic analysis over every module in g and returns the
// typed program, or the first compile error encountered structurally (most
// errors are instead collected via report.Error and surfaced through the
// normal diagnostic channel; Analyze itself only returns non-nil on an
// unrecoverable condition, mirroring report.CatchErrors' per-declaration
// recovery idiom used throughout).
func Analyze(g *module.Graph) (*ir.Program, error) {
	a := &Analyzer{
		graph:   g,
		structs: map[string]*structInfo{},
		funcs:   map[string]*funcSig{},
		methods: map[string]*funcSig{},
		globals: map[string]*types.Type{},
		prog:    &ir.Program{},
	}

	a.collectStructs()
	a.collectSignatures()
	a.checkMethodOwnership()
	a.walkGlobals()
	a.walkFunctions()

	entry, ok := a.graph.Lookup(a.graph.Entry)
	if !ok {
		report.Error(report.PhaseSema, "E-SEMA", nil, "entry module not found")
		return a.prog, nil
	}
	mainSym, ok := entry.Local["main"]
	if !ok || mainSym.Kind != module.SymFunc {
		report.Error(report.PhaseSema, "E-SEMA", nil, "entry module has no `main` function")
		return a.prog, nil
	}
	sig := a.funcs[qualify(entry.ID, "main")]
	if sig == nil {
		return a.prog, nil
	}
	if len(sig.params) != 0 || sig.ret == nil || sig.ret.Kind != types.KInt {
		report.Error(report.PhaseSema, "E-SEMA", mainSym.Func.Position(), "`fn main() -> Int` is the only supported entry signature")
	}
	a.prog.Entry = qualify(entry.ID, "main")

	return a.prog, nil
}

func qualify(moduleID, name string) string { return moduleID + "." + name }

// -----------------------------------------------------------------------------
// Scope management, mirroring bootstrap/walk.Walker's pushScope/popScope/
// lookup/defineLocal.

func (a *Analyzer) pushScope() {
	a.localScopes = append(a.localScopes, map[string]*localVar{})
}

func (a *Analyzer) popScope() {
	a.localScopes = a.localScopes[:len(a.localScopes)-1]
}

func (a *Analyzer) defineLocal(name string, typ *types.Type, span *report.Span) *localVar {
	cur := a.localScopes[len(a.localScopes)-1]
	if _, exists := cur[name]; exists {
		report.Raise("E-SEMA", span, "multiple symbols named `%s` defined in immediate local scope", name)
	}
	lv := &localVar{slot: a.nextSlot, typ: typ}
	a.nextSlot++
	cur[name] = lv
	return lv
}

func (a *Analyzer) lookupLocal(name string) (*localVar, bool) {
	for i := len(a.localScopes) - 1; i >= 0; i-- {
		if lv, ok := a.localScopes[i][name]; ok {
			return lv, true
		}
	}
	return nil, false
}

func (a *Analyzer) errorf(span *report.Span, format string, args ...interface{}) {
	report.Raise("E-SEMA", span, format, args...)
}
