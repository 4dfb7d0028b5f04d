package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// DecodeError is returned for any malformed `.skbc` image; the driver maps
// it to E-BC-DECODE / exit code 13 (spec.md §6.1).
type DecodeError struct {
	msg string
}

func (e *DecodeError) Error() string { return e.msg }

func decodeErrf(format string, args ...interface{}) error {
	return &DecodeError{msg: fmt.Sprintf(format, args...)}
}

// reader is a cursor over the raw image bytes, bounds-checked on every
// read so a truncated file is caught at the exact field that runs out of
// bytes rather than panicking on a slice index.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) u8() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, decodeErrf("unexpected end of file at offset %d", r.pos)
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, decodeErrf("unexpected end of file at offset %d", r.pos)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, decodeErrf("unexpected end of file at offset %d", r.pos)
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, decodeErrf("unexpected end of file at offset %d", r.pos)
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	raw, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", decodeErrf("invalid UTF-8 string at offset %d", r.pos-int(n))
	}
	return string(raw), nil
}

// Decode parses a `.skbc` image, fully validating structure and every
// index reference before returning a Program the VM can trust without
// further bounds checks at execution time.
func Decode(data []byte) (*Program, error) {
	r := &reader{buf: data}

	magic, err := r.bytes(4)
	if err != nil {
		return nil, decodeErrf("truncated header: %v", err)
	}
	if string(magic) != string(Magic[:]) {
		return nil, decodeErrf("bad magic bytes %q, expected %q", magic, Magic[:])
	}
	version, err := r.u32()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, decodeErrf("unsupported bytecode version %d, expected %d", version, Version)
	}

	prog := &Program{}

	numConsts, err := r.u32()
	if err != nil {
		return nil, err
	}
	prog.Constants = make([]Value, numConsts)
	for i := range prog.Constants {
		v, err := decodeValue(r)
		if err != nil {
			return nil, decodeErrf("constant %d: %v", i, err)
		}
		prog.Constants[i] = v
	}

	numStructs, err := r.u32()
	if err != nil {
		return nil, err
	}
	prog.Structs = make([]StructDef, numStructs)
	for i := range prog.Structs {
		name, err := r.str()
		if err != nil {
			return nil, decodeErrf("struct %d: %v", i, err)
		}
		numFields, err := r.u32()
		if err != nil {
			return nil, err
		}
		fields := make([]string, numFields)
		for j := range fields {
			f, err := r.str()
			if err != nil {
				return nil, decodeErrf("struct %d field %d: %v", i, j, err)
			}
			fields[j] = f
		}
		prog.Structs[i] = StructDef{Name: name, FieldNames: fields}
	}

	numFuncs, err := r.u32()
	if err != nil {
		return nil, err
	}
	prog.Functions = make([]Function, numFuncs)
	for i := range prog.Functions {
		name, err := r.str()
		if err != nil {
			return nil, decodeErrf("function %d: %v", i, err)
		}
		arityU, err := r.u32()
		if err != nil {
			return nil, err
		}
		numLocalsU, err := r.u32()
		if err != nil {
			return nil, err
		}
		arity, numLocals := int(arityU), int(numLocalsU)
		if numLocals < arity {
			return nil, decodeErrf("function %q declares %d locals but arity %d", name, numLocals, arity)
		}
		codeLen, err := r.u32()
		if err != nil {
			return nil, err
		}
		code, err := r.bytes(int(codeLen))
		if err != nil {
			return nil, decodeErrf("function %q code: %v", name, err)
		}
		numLines, err := r.u32()
		if err != nil {
			return nil, err
		}
		lines := make([]uint32, numLines)
		for j := range lines {
			l, err := r.u32()
			if err != nil {
				return nil, decodeErrf("function %q debug line %d: %v", name, j, err)
			}
			lines[j] = l
		}
		prog.Functions[i] = Function{Name: name, Arity: arity, NumLocals: numLocals, Code: append([]byte(nil), code...), DebugLines: lines}
	}

	entry, err := r.u32()
	if err != nil {
		return nil, err
	}
	if int(entry) >= len(prog.Functions) {
		return nil, decodeErrf("entry function index %d out of range (%d functions)", entry, len(prog.Functions))
	}
	prog.EntryFunc = int(entry)

	if r.pos != len(r.buf) {
		return nil, decodeErrf("%d trailing bytes after end of image", len(r.buf)-r.pos)
	}

	if err := validateCode(prog); err != nil {
		return nil, err
	}

	return prog, nil
}

func decodeValue(r *reader) (Value, error) {
	tag, err := r.u8()
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case TagInt:
		v, err := r.u64()
		if err != nil {
			return Value{}, err
		}
		return IntValue(int64(v)), nil
	case TagFloat:
		v, err := r.u64()
		if err != nil {
			return Value{}, err
		}
		return FloatValue(math.Float64frombits(v)), nil
	case TagBool:
		v, err := r.u8()
		if err != nil {
			return Value{}, err
		}
		if v != 0 && v != 1 {
			return Value{}, decodeErrf("bool value byte must be 0 or 1, got %d", v)
		}
		return BoolValue(v == 1), nil
	case TagString:
		s, err := r.str()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case TagArray:
		n, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, n)
		for i := range elems {
			v, err := decodeValue(r)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return ArrayValue(elems), nil
	case TagUnit:
		return UnitValue(), nil
	default:
		return Value{}, decodeErrf("unknown constant tag %d", tag)
	}
}

// operandWidths gives the number of 4-byte immediates each opcode carries,
// used by validateCode to walk every function's instruction stream without
// misinterpreting operand bytes as opcodes.
var operandWidths = [numOpcodes]int{
	OpPushConst:   1,
	OpLoadLocal:   1,
	OpStoreLocal:  1,
	OpPop:         0,
	OpAddI:        0, OpSubI: 0, OpMulI: 0, OpDivI: 0, OpModI: 0,
	OpAddF: 0, OpSubF: 0, OpMulF: 0, OpDivF: 0,
	OpNegI: 0, OpNegF: 0, OpNot: 0,
	OpConcatStr: 0, OpConcatArr: 0,
	OpEqI: 0, OpEqF: 0, OpEqB: 0, OpEqS: 0,
	OpNeI: 0, OpNeF: 0, OpNeB: 0, OpNeS: 0,
	OpLtI: 0, OpLeI: 0, OpGtI: 0, OpGeI: 0,
	OpLtF: 0, OpLeF: 0, OpGtF: 0, OpGeF: 0,
	OpJump: 1, OpJumpIfFalse: 1, OpJumpIfTrue: 1,
	OpReturn:      0,
	OpCall:        2,
	OpCallBuiltin: 2,
	OpNewArray:    1,
	OpArrayRepeat: 1,
	OpIndexGet:    0,
	OpIndexSet:    0,
	OpNewStruct:   2,
	OpFieldGet:    1,
	OpFieldSet:    1,
	OpNewVec:      0,
}

// validateCode walks every function's instruction stream, rejecting unknown
// opcodes, truncated operands, jump targets outside the function, and
// constant/function/struct indices outside their respective tables — so
// the VM never needs to bounds-check an index read from the image itself.
func validateCode(prog *Program) error {
	for fi := range prog.Functions {
		f := &prog.Functions[fi]
		pc := 0
		for pc < len(f.Code) {
			op := Op(f.Code[pc])
			if int(op) >= int(numOpcodes) {
				return decodeErrf("function %q: unknown opcode %d at offset %d", f.Name, f.Code[pc], pc)
			}
			width := operandWidths[op]
			opStart := pc
			pc++
			imms := make([]int32, width)
			for i := 0; i < width; i++ {
				if pc+4 > len(f.Code) {
					return decodeErrf("function %q: truncated operand for %s at offset %d", f.Name, op, opStart)
				}
				imms[i] = int32(binary.LittleEndian.Uint32(f.Code[pc : pc+4]))
				pc += 4
			}

			switch op {
			case OpPushConst:
				if int(imms[0]) < 0 || int(imms[0]) >= len(prog.Constants) {
					return decodeErrf("function %q: constant index %d out of range at offset %d", f.Name, imms[0], opStart)
				}
			case OpLoadLocal, OpStoreLocal:
				if int(imms[0]) < 0 || int(imms[0]) >= f.NumLocals {
					return decodeErrf("function %q: local slot %d out of range at offset %d", f.Name, imms[0], opStart)
				}
			case OpJump, OpJumpIfFalse, OpJumpIfTrue:
				target := pc + int(imms[0])
				if target < 0 || target > len(f.Code) {
					return decodeErrf("function %q: jump target %d out of range at offset %d", f.Name, target, opStart)
				}
			case OpCall:
				// func_id of -1 marks an indirect call whose target is
				// popped from the operand stack at run time (emitted only
				// when the callee isn't a statically known FuncRefExpr).
				if imms[0] != -1 && (int(imms[0]) < 0 || int(imms[0]) >= len(prog.Functions)) {
					return decodeErrf("function %q: call target %d out of range at offset %d", f.Name, imms[0], opStart)
				}
				if imms[1] < 0 {
					return decodeErrf("function %q: negative call arity at offset %d", f.Name, opStart)
				}
			case OpCallBuiltin:
				if imms[0] < 0 {
					return decodeErrf("function %q: negative builtin id at offset %d", f.Name, opStart)
				}
				if imms[1] < 0 {
					return decodeErrf("function %q: negative call arity at offset %d", f.Name, opStart)
				}
			case OpNewArray, OpArrayRepeat:
				if imms[0] < 0 {
					return decodeErrf("function %q: negative array length at offset %d", f.Name, opStart)
				}
			case OpNewStruct:
				if int(imms[0]) < 0 || int(imms[0]) >= len(prog.Structs) {
					return decodeErrf("function %q: struct index %d out of range at offset %d", f.Name, imms[0], opStart)
				}
				if imms[1] < 0 {
					return decodeErrf("function %q: negative field count at offset %d", f.Name, opStart)
				}
			case OpFieldGet, OpFieldSet:
				if int(imms[0]) < 0 || int(imms[0]) >= len(prog.Constants) {
					return decodeErrf("function %q: field name constant %d out of range at offset %d", f.Name, imms[0], opStart)
				}
				if prog.Constants[imms[0]].Tag != TagString {
					return decodeErrf("function %q: field name constant %d is not a string", f.Name, imms[0])
				}
			}
		}
	}
	return nil
}
