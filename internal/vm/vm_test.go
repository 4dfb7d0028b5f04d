package vm

import (
	"strings"
	"testing"

	"github.com/skepa-lang/skepa/internal/builtins"
	"github.com/skepa-lang/skepa/internal/bytecode"
)

// runProgram builds a one-function program out of raw opcode bytes and
// runs it at a generous call depth, returning the VM's exit code or a
// *Trap for the caller to inspect.
func runProgram(t *testing.T, code []byte, consts []bytecode.Value) (int, error) {
	t.Helper()
	prog := &bytecode.Program{
		Constants: consts,
		Functions: []bytecode.Function{{Name: "main", Arity: 0, NumLocals: 1, Code: code}},
		EntryFunc: 0,
	}
	machine := New(prog, 64)
	return machine.Run()
}

func TestRunReturnsConstant(t *testing.T) {
	var b bytecodeBuilder
	b.pushConst(0)
	b.ret()
	code, err := runProgram(t, b.bytes(), []bytecode.Value{bytecode.IntValue(42)})
	if err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if code != 42 {
		t.Fatalf("exit code = %d, want 42", code)
	}
}

func TestIntDivByZeroTraps(t *testing.T) {
	var b bytecodeBuilder
	b.pushConst(0) // 10
	b.pushConst(1) // 0
	b.op(bytecode.OpDivI)
	b.ret()
	_, err := runProgram(t, b.bytes(), []bytecode.Value{bytecode.IntValue(10), bytecode.IntValue(0)})
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("expected *Trap, got %v", err)
	}
	if trap.Label != LabelDivZero {
		t.Fatalf("trap label = %s, want %s", trap.Label, LabelDivZero)
	}
}

func TestIntModByZeroTraps(t *testing.T) {
	var b bytecodeBuilder
	b.pushConst(0)
	b.pushConst(1)
	b.op(bytecode.OpModI)
	b.ret()
	_, err := runProgram(t, b.bytes(), []bytecode.Value{bytecode.IntValue(10), bytecode.IntValue(0)})
	trap, ok := err.(*Trap)
	if !ok || trap.Label != LabelDivZero {
		t.Fatalf("expected %s trap, got %v", LabelDivZero, err)
	}
}

func TestFloatDivByZeroDoesNotTrap(t *testing.T) {
	var b bytecodeBuilder
	b.pushConst(0)
	b.pushConst(1)
	b.op(bytecode.OpDivF)
	b.ret()
	_, err := runProgram(t, b.bytes(), []bytecode.Value{bytecode.FloatValue(1), bytecode.FloatValue(0)})
	if err != nil {
		t.Fatalf("float division by zero must not trap (IEEE-754 Inf), got %v", err)
	}
}

func TestArrayIndexOutOfBoundsTraps(t *testing.T) {
	var b bytecodeBuilder
	b.pushConst(0) // array [1,2,3]
	b.pushConst(1) // index 10
	b.op(bytecode.OpIndexGet)
	b.ret()
	arr := bytecode.ArrayValue([]bytecode.Value{bytecode.IntValue(1), bytecode.IntValue(2), bytecode.IntValue(3)})
	_, err := runProgram(t, b.bytes(), []bytecode.Value{arr, bytecode.IntValue(10)})
	trap, ok := err.(*Trap)
	if !ok || trap.Label != LabelIndexOOB {
		t.Fatalf("expected %s trap, got %v", LabelIndexOOB, err)
	}
}

func TestArrayIndexNegativeTraps(t *testing.T) {
	var b bytecodeBuilder
	b.pushConst(0)
	b.pushConst(1)
	b.op(bytecode.OpIndexGet)
	b.ret()
	arr := bytecode.ArrayValue([]bytecode.Value{bytecode.IntValue(1)})
	_, err := runProgram(t, b.bytes(), []bytecode.Value{arr, bytecode.IntValue(-1)})
	trap, ok := err.(*Trap)
	if !ok || trap.Label != LabelIndexOOB {
		t.Fatalf("expected %s trap, got %v", LabelIndexOOB, err)
	}
}

func TestStackOverflowTraps(t *testing.T) {
	// A function that calls itself indefinitely (func_id 0, arity 0) must
	// trip the call-depth guard rather than exhausting the Go stack.
	var b bytecodeBuilder
	b.callDirect(0, 0)
	b.ret()
	prog := &bytecode.Program{
		Functions: []bytecode.Function{{Name: "loop", Arity: 0, NumLocals: 0, Code: b.bytes()}},
		EntryFunc: 0,
	}
	machine := New(prog, 16)
	_, err := machine.Run()
	trap, ok := err.(*Trap)
	if !ok || trap.Label != LabelStackOverflow {
		t.Fatalf("expected %s trap, got %v", LabelStackOverflow, err)
	}
	if len(trap.Frames) == 0 {
		t.Fatal("expected non-empty call-stack snapshot on trap")
	}
}

func TestArrayAssignmentIsByValue(t *testing.T) {
	// store local 0 <- const array; mutate local 0's element in place via
	// IndexSet should never be observable on the original constant value
	// held elsewhere — exercised indirectly through copyIfArray at the
	// store boundary (vm.go), so two successive loads of the same local
	// after a second store-from-the-first must not alias.
	var b bytecodeBuilder
	b.pushConst(0)
	b.storeLocal(0)
	b.loadLocal(0)
	b.storeLocal(1) // second local aliases only if copyIfArray is skipped
	b.loadLocal(0)
	b.pushConst(1) // index 0
	b.pushConst(2) // new value 99
	b.op(bytecode.OpIndexSet)
	b.loadLocal(1)
	b.pushConst(1)
	b.op(bytecode.OpIndexGet)
	b.ret()

	prog := &bytecode.Program{
		Constants: []bytecode.Value{
			bytecode.ArrayValue([]bytecode.Value{bytecode.IntValue(1), bytecode.IntValue(2)}),
			bytecode.IntValue(0),
			bytecode.IntValue(99),
		},
		Functions: []bytecode.Function{{Name: "main", Arity: 0, NumLocals: 2, Code: b.bytes()}},
		EntryFunc: 0,
	}
	machine := New(prog, 64)
	code, err := machine.Run()
	if err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if code != 1 {
		t.Fatalf("local 1's array element was mutated through local 0's alias, got %d want 1 (unmutated)", code)
	}
}

func TestFormatBuiltinTrapsOnArityMismatch(t *testing.T) {
	// A non-literal format string bypasses sema's checkFormatArgs (it only
	// validates specifier/arg-count agreement for literals), so a shortfall
	// must surface as a terminal E-VM-ARITY trap rather than a Go panic from
	// indexing rest[argIdx] out of range.
	machine := New(&bytecode.Program{}, 64)
	args := []Value{StringValue("%d %d"), IntValue(1)}
	_, err := machine.callIO(builtins.IOFormat, args)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("expected *Trap, got %v", err)
	}
	if trap.Label != LabelArity {
		t.Fatalf("trap label = %s, want %s", trap.Label, LabelArity)
	}
}

func TestFormatBuiltinSucceedsWithEnoughArgs(t *testing.T) {
	machine := New(&bytecode.Program{}, 64)
	args := []Value{StringValue("%d-%s"), IntValue(7), StringValue("ok")}
	result, err := machine.callIO(builtins.IOFormat, args)
	if err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if result.Str != "7-ok" {
		t.Fatalf("formatted = %q, want %q", result.Str, "7-ok")
	}
}

func TestTraceModeWritesSteps(t *testing.T) {
	var b bytecodeBuilder
	b.pushConst(0)
	b.ret()
	prog := &bytecode.Program{
		Constants: []bytecode.Value{bytecode.IntValue(5)},
		Functions: []bytecode.Function{{Name: "main", Arity: 0, NumLocals: 0, Code: b.bytes()}},
		EntryFunc: 0,
	}
	var out strings.Builder
	machine := New(prog, 64, WithTrace(&out))
	if _, err := machine.Run(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected trace output")
	}
}
