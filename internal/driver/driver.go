// Package driver orchestrates the compiler pipeline described in spec.md
// §2: lexer/parser (inside module.Load) → module resolution → semantic
// analysis → bytecode emission → container encode/decode → VM execution.
// It is the sole thing cmd/skepac and cmd/skeparun call into, matching the
// phase/exit-code contract of spec.md §6.1.
package driver

import (
	"os"

	"github.com/skepa-lang/skepa/internal/bytecode"
	"github.com/skepa-lang/skepa/internal/config"
	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/module"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/sema"
	"github.com/skepa-lang/skepa/internal/vm"
)

// Result carries a phase's outcome back to the CLI layer: whether it
// succeeded and, on failure, the exit code report.ExitCodeForPhase assigns
// the phase that failed.
type Result struct {
	OK       bool
	ExitCode int
}

func fail(phase int) Result { return Result{OK: false, ExitCode: report.ExitCodeForPhase(phase)} }
func ok() Result             { return Result{OK: true, ExitCode: 0} }

// loadGraph runs module.Load and converts any uncaught E-MOD-* panic (the
// discovery pass in internal/module/discover.go raises directly, with no
// local recover) into a normal reported diagnostic, mirroring the
// recover-and-log idiom internal/module's own ResolveExports/ResolveImports
// use internally.
func loadGraph(entryPath string) (g *module.Graph, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			ce, isCE := r.(*report.CompileError)
			if !isCE {
				panic(r)
			}
			report.Error(report.PhaseModule, ce.Label, ce.Span, ce.Message)
			failed = true
		}
	}()

	graph, err := module.Load(entryPath)
	if err != nil {
		report.Error(report.PhaseIO, "E-IO", nil, "%s", err.Error())
		return nil, true
	}
	return graph, false
}

// resolveGraph runs export and import resolution, logging whatever
// *report.CompileError either returns.
func resolveGraph(g *module.Graph) bool {
	if err := module.ResolveExports(g); err != nil {
		logModuleErr(err)
		return true
	}
	if err := module.ResolveImports(g); err != nil {
		logModuleErr(err)
		return true
	}
	return false
}

func logModuleErr(err error) {
	if ce, ok := err.(*report.CompileError); ok {
		report.Error(report.PhaseModule, ce.Label, ce.Span, ce.Message)
		return
	}
	report.Error(report.PhaseModule, "E-MOD", nil, "%s", err.Error())
}

// analyze runs the module and semantic phases shared by Check/Build/Run,
// returning the typed program once report.ShouldProceed() confirms no
// diagnostic aborted it.
func analyze(entryPath string) (*ir.Program, Result) {
	if _, err := os.Stat(entryPath); err != nil {
		report.Error(report.PhaseIO, "E-IO", nil, "%s", err.Error())
		return nil, fail(report.PhaseIO)
	}

	g, failed := loadGraph(entryPath)
	if failed || !report.ShouldProceed() {
		return nil, fail(report.PhaseModule)
	}

	if resolveGraph(g) || !report.ShouldProceed() {
		return nil, fail(report.PhaseModule)
	}

	prog, err := sema.Analyze(g)
	if err != nil {
		report.Error(report.PhaseSema, "E-SEMA", nil, "%s", err.Error())
	}
	if !report.ShouldProceed() {
		return nil, fail(report.PhaseSema)
	}
	return prog, ok()
}

// Check implements `skepac check`: full parse + resolve + sema, no output.
func Check(entryPath string) Result {
	_, res := analyze(entryPath)
	return res
}

// Build implements `skepac build`: check, then emit a deterministic .skbc
// image to outPath.
func Build(entryPath, outPath string) Result {
	prog, res := analyze(entryPath)
	if !res.OK {
		return res
	}

	bc := bytecode.Emit(prog)
	data := bytecode.Encode(bc)
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		report.Error(report.PhaseIO, "E-IO", nil, "%s", err.Error())
		return fail(report.PhaseIO)
	}
	return ok()
}

// Run implements `skeparun run`: compile in memory and execute.
func Run(entryPath string, cfg config.Config) (int, Result) {
	prog, res := analyze(entryPath)
	if !res.OK {
		return 0, res
	}
	bc := bytecode.Emit(prog)
	return executeBytecode(bc, cfg)
}

// RunBC implements `skeparun run-bc`: decode a .skbc image and execute it.
func RunBC(bcPath string, cfg config.Config) (int, Result) {
	data, err := os.ReadFile(bcPath)
	if err != nil {
		report.Error(report.PhaseIO, "E-IO", nil, "%s", err.Error())
		return 0, fail(report.PhaseIO)
	}
	bc, decErr := bytecode.Decode(data)
	if decErr != nil {
		report.Error(report.PhaseBytecodeDecode, "E-BC-DECODE", nil, "%s", decErr.Error())
		return 0, fail(report.PhaseBytecodeDecode)
	}
	return executeBytecode(bc, cfg)
}

func executeBytecode(bc *bytecode.Program, cfg config.Config) (int, Result) {
	var opts []vm.Option
	if cfg.Trace {
		opts = append(opts, vm.WithTrace(os.Stderr))
	}
	machine := vm.New(bc, cfg.MaxCallDepth, opts...)
	exitCode, err := machine.Run()
	if err != nil {
		trap, isTrap := err.(*vm.Trap)
		if !isTrap {
			report.Error(report.PhaseVM, "E-VM", nil, "%s", err.Error())
			return 0, fail(report.PhaseVM)
		}
		report.DisplayTrap(trap.Label, trap.Func, trap.PC, trap.Frames)
		return 0, fail(report.PhaseVM)
	}
	return exitCode, ok()
}

// Disasm implements `skepac disasm`: accepts either a `.sk` entry file
// (compiled in memory first) or an already-built `.skbc` image, and prints
// its function table and decoded instruction stream.
func Disasm(path string) (string, Result) {
	var bc *bytecode.Program
	if isSkbc(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			report.Error(report.PhaseIO, "E-IO", nil, "%s", err.Error())
			return "", fail(report.PhaseIO)
		}
		decoded, decErr := bytecode.Decode(data)
		if decErr != nil {
			report.Error(report.PhaseBytecodeDecode, "E-BC-DECODE", nil, "%s", decErr.Error())
			return "", fail(report.PhaseBytecodeDecode)
		}
		bc = decoded
	} else {
		prog, res := analyze(path)
		if !res.OK {
			return "", res
		}
		bc = bytecode.Emit(prog)
	}
	return bytecode.Disassemble(bc), ok()
}

func isSkbc(path string) bool {
	if len(path) < 5 {
		return false
	}
	return path[len(path)-5:] == ".skbc"
}
