package bytecode

import (
	"strings"
	"testing"
)

// simpleProgram builds a minimal but non-trivial image: main() calls
// add(1, 2) and returns the sum, exercising PushConst, Call, arithmetic,
// and Return together.
func simpleProgram() *Program {
	var addB, mainB builder
	// add(a, b) -> locals[0]+locals[1]
	addB.opImm32(OpLoadLocal, 0)
	addB.opImm32(OpLoadLocal, 1)
	addB.op(OpAddI)
	addB.op(OpReturn)

	mainB.opImm32(OpPushConst, 0) // 1
	mainB.opImm32(OpPushConst, 1) // 2
	mainB.opImm32x2(OpCall, 0, 2) // call add/2 (index 0 once sorted)
	mainB.op(OpReturn)

	return &Program{
		Constants: []Value{IntValue(1), IntValue(2)},
		Functions: []Function{
			{Name: "add", Arity: 2, NumLocals: 2, Code: addB.code},
			{Name: "main", Arity: 0, NumLocals: 0, Code: mainB.code},
		},
		EntryFunc: 1,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	prog := simpleProgram()
	data := Encode(prog)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Constants) != len(prog.Constants) {
		t.Fatalf("constants: got %d, want %d", len(got.Constants), len(prog.Constants))
	}
	if got.Constants[0].Int != 1 || got.Constants[1].Int != 2 {
		t.Fatalf("constant values not preserved: %+v", got.Constants)
	}
	if len(got.Functions) != 2 {
		t.Fatalf("functions: got %d, want 2", len(got.Functions))
	}
	if got.Functions[0].Name != "add" || got.Functions[1].Name != "main" {
		t.Fatalf("function names not preserved: %q, %q", got.Functions[0].Name, got.Functions[1].Name)
	}
	if got.EntryFunc != 1 {
		t.Fatalf("entry func: got %d, want 1", got.EntryFunc)
	}
	if string(got.Functions[1].Code) != string(prog.Functions[1].Code) {
		t.Fatalf("main code not preserved")
	}
}

func TestEncodeDecodeRoundTripAllValueKinds(t *testing.T) {
	prog := &Program{
		Constants: []Value{
			IntValue(-7),
			FloatValue(3.5),
			BoolValue(true),
			BoolValue(false),
			StringValue("héllo"),
			ArrayValue([]Value{IntValue(1), IntValue(2), IntValue(3)}),
			UnitValue(),
		},
		Structs: []StructDef{{Name: "Point", FieldNames: []string{"x", "y"}}},
		Functions: []Function{
			{Name: "main", Arity: 0, NumLocals: 0, Code: []byte{byte(OpReturn)}},
		},
		EntryFunc: 0,
	}

	data := Encode(prog)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Constants[0].Int != -7 {
		t.Errorf("int constant mismatch")
	}
	if got.Constants[1].Float != 3.5 {
		t.Errorf("float constant mismatch")
	}
	if !got.Constants[2].Bool || got.Constants[3].Bool {
		t.Errorf("bool constants mismatch")
	}
	if got.Constants[4].Str != "héllo" {
		t.Errorf("string constant mismatch, got %q", got.Constants[4].Str)
	}
	if len(got.Constants[5].Arr) != 3 || got.Constants[5].Arr[2].Int != 3 {
		t.Errorf("array constant mismatch: %+v", got.Constants[5])
	}
	if got.Constants[6].Tag != TagUnit {
		t.Errorf("unit constant mismatch")
	}
	if len(got.Structs) != 1 || got.Structs[0].Name != "Point" || len(got.Structs[0].FieldNames) != 2 {
		t.Errorf("struct table mismatch: %+v", got.Structs)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := Encode(simpleProgram())
	data[0] = 'X'
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for corrupted magic bytes")
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	data := Encode(simpleProgram())
	// version is the u32 immediately after the 4-byte magic, little-endian.
	data[4] = 99
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestDecodeRejectsTruncation(t *testing.T) {
	data := Encode(simpleProgram())
	for n := 0; n < len(data); n += 3 {
		if _, err := Decode(data[:n]); err == nil {
			t.Fatalf("expected error decoding truncated image of length %d (full length %d)", n, len(data))
		}
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	data := append(Encode(simpleProgram()), 0xFF)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for trailing bytes after entry index")
	}
}

func TestDecodeRejectsInvalidBoolByte(t *testing.T) {
	prog := &Program{
		Constants: []Value{BoolValue(true)},
		Functions: []Function{{Name: "main", Arity: 0, NumLocals: 0, Code: []byte{byte(OpReturn)}}},
		EntryFunc: 0,
	}
	data := Encode(prog)
	// Constant's tag byte sits right after constant count (magic[4] +
	// version[4] + numConsts[4] = offset 12); the value byte follows the tag.
	data[13] = 7
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for non-0/1 bool byte")
	}
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	prog := &Program{
		Functions: []Function{{Name: "main", Arity: 0, NumLocals: 0, Code: []byte{0xFE}}},
		EntryFunc: 0,
	}
	if _, err := Decode(Encode(prog)); err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestDecodeRejectsOutOfRangeConstant(t *testing.T) {
	var b builder
	b.opImm32(OpPushConst, 5) // no constants exist
	b.op(OpReturn)
	prog := &Program{
		Functions: []Function{{Name: "main", Arity: 0, NumLocals: 0, Code: b.code}},
		EntryFunc: 0,
	}
	if _, err := Decode(Encode(prog)); err == nil {
		t.Fatal("expected error for out-of-range constant index")
	}
}

func TestDecodeRejectsOutOfRangeJump(t *testing.T) {
	var b builder
	b.opImm32(OpJump, 1000)
	prog := &Program{
		Functions: []Function{{Name: "main", Arity: 0, NumLocals: 0, Code: b.code}},
		EntryFunc: 0,
	}
	if _, err := Decode(Encode(prog)); err == nil {
		t.Fatal("expected error for jump target out of range")
	}
}

func TestDecodeRejectsNumLocalsBelowArity(t *testing.T) {
	prog := &Program{
		Functions: []Function{{Name: "main", Arity: 2, NumLocals: 1, Code: []byte{byte(OpReturn)}}},
		EntryFunc: 0,
	}
	if _, err := Decode(Encode(prog)); err == nil {
		t.Fatal("expected error for numLocals < arity")
	}
}

func TestDecodeRejectsOutOfRangeEntry(t *testing.T) {
	prog := &Program{
		Functions: []Function{{Name: "main", Arity: 0, NumLocals: 0, Code: []byte{byte(OpReturn)}}},
		EntryFunc: 5,
	}
	if _, err := Decode(Encode(prog)); err == nil {
		t.Fatal("expected error for out-of-range entry function index")
	}
}

func TestDecodeAcceptsIndirectCallSentinel(t *testing.T) {
	var b builder
	b.opImm32(OpLoadLocal, 0)
	b.opImm32x2(OpCall, -1, 0) // indirect call, callee popped from stack
	b.op(OpReturn)
	prog := &Program{
		Functions: []Function{{Name: "main", Arity: 1, NumLocals: 1, Code: b.code}},
		EntryFunc: 0,
	}
	if _, err := Decode(Encode(prog)); err != nil {
		t.Fatalf("indirect call sentinel should decode cleanly: %v", err)
	}
}

func TestDisassembleResolvesOperands(t *testing.T) {
	out := Disassemble(simpleProgram())
	if out == "" {
		t.Fatal("expected non-empty disassembly")
	}
	if !strings.Contains(out, "add, arity=2") {
		t.Fatalf("expected main's Call operand resolved to `add, arity=2`, got:\n%s", out)
	}
}
