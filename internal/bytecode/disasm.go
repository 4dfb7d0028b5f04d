package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Disassemble renders prog's function table and decoded instruction
// streams for `skepac disasm` (spec.md §6.1), one function per section in
// table order (already name-sorted by Emit).
func Disassemble(prog *Program) string {
	var b strings.Builder
	fmt.Fprintf(&b, "constants: %d, structs: %d, functions: %d, entry: %s\n\n",
		len(prog.Constants), len(prog.Structs), len(prog.Functions), prog.Functions[prog.EntryFunc].Name)

	for i, f := range prog.Functions {
		fmt.Fprintf(&b, "fn %s(arity=%d locals=%d) #%d\n", f.Name, f.Arity, f.NumLocals, i)
		disassembleCode(&b, prog, f.Code)
		b.WriteByte('\n')
	}
	return b.String()
}

func disassembleCode(b *strings.Builder, prog *Program, code []byte) {
	pc := 0
	for pc < len(code) {
		op := Op(code[pc])
		start := pc
		pc++
		width := 0
		if int(op) < len(operandWidths) {
			width = operandWidths[op]
		}
		imms := make([]int32, width)
		for i := 0; i < width; i++ {
			if pc+4 > len(code) {
				break
			}
			imms[i] = int32(binary.LittleEndian.Uint32(code[pc : pc+4]))
			pc += 4
		}
		fmt.Fprintf(b, "  %4d  %-14s%s\n", start, op.String(), disasmOperands(prog, op, imms))
	}
}

func disasmOperands(prog *Program, op Op, imms []int32) string {
	switch op {
	case OpPushConst:
		if int(imms[0]) < len(prog.Constants) {
			return fmt.Sprintf("%d  ; %s", imms[0], wireKey(prog.Constants[imms[0]]))
		}
	case OpFieldGet, OpFieldSet:
		if int(imms[0]) < len(prog.Constants) {
			return fmt.Sprintf("%d  ; %q", imms[0], prog.Constants[imms[0]].Str)
		}
	case OpCall:
		if imms[0] == -1 {
			return "indirect, arity=" + itoa64(int64(imms[1]))
		}
		if int(imms[0]) < len(prog.Functions) {
			return fmt.Sprintf("%s, arity=%d", prog.Functions[imms[0]].Name, imms[1])
		}
	case OpNewStruct:
		if int(imms[0]) < len(prog.Structs) {
			return fmt.Sprintf("%s, fields=%d", prog.Structs[imms[0]].Name, imms[1])
		}
	}
	parts := make([]string, len(imms))
	for i, v := range imms {
		parts[i] = itoa64(int64(v))
	}
	return strings.Join(parts, ", ")
}
