package vm

import "github.com/skepa-lang/skepa/internal/bytecode"

// exec runs f's instruction stream until a Return executes, returning the
// value it returns. Every opcode here mirrors the emitter's encoding in
// internal/bytecode/emit.go one for one.
func (v *VM) exec(f *frame) (Value, error) {
	code := f.fn.Code
	for f.pc < len(code) {
		op := bytecode.Op(code[f.pc])
		if v.trace {
			v.traceStep(f, op)
		}
		opStart := f.pc
		f.pc++

		switch op {
		case bytecode.OpPushConst:
			idx := readImm32(code, f.pc)
			f.pc += 4
			v.push(constToValue(v.prog.Constants[idx]))

		case bytecode.OpLoadLocal:
			slot := readImm32(code, f.pc)
			f.pc += 4
			v.push(f.locals[slot])

		case bytecode.OpStoreLocal:
			slot := readImm32(code, f.pc)
			f.pc += 4
			f.locals[slot] = copyIfArray(v.pop())

		case bytecode.OpPop:
			v.pop()

		case bytecode.OpAddI, bytecode.OpSubI, bytecode.OpMulI, bytecode.OpDivI, bytecode.OpModI:
			if err := v.execIntArith(op); err != nil {
				return Value{}, err
			}

		case bytecode.OpAddF, bytecode.OpSubF, bytecode.OpMulF, bytecode.OpDivF:
			v.execFloatArith(op)

		case bytecode.OpNegI:
			a := v.pop()
			v.push(IntValue(-a.Int))
		case bytecode.OpNegF:
			a := v.pop()
			v.push(FloatValue(-a.Float))
		case bytecode.OpNot:
			a := v.pop()
			v.push(BoolValue(!a.Bool))

		case bytecode.OpConcatStr:
			b, a := v.pop(), v.pop()
			v.push(StringValue(a.Str + b.Str))
		case bytecode.OpConcatArr:
			b, a := v.pop(), v.pop()
			out := make([]Value, 0, len(a.Arr)+len(b.Arr))
			out = append(out, a.Arr...)
			out = append(out, b.Arr...)
			v.push(ArrayValue(out))

		case bytecode.OpEqI, bytecode.OpEqF, bytecode.OpEqB, bytecode.OpEqS,
			bytecode.OpNeI, bytecode.OpNeF, bytecode.OpNeB, bytecode.OpNeS,
			bytecode.OpLtI, bytecode.OpLeI, bytecode.OpGtI, bytecode.OpGeI,
			bytecode.OpLtF, bytecode.OpLeF, bytecode.OpGtF, bytecode.OpGeF:
			v.execCompare(op)

		case bytecode.OpJump:
			off := readImm32(code, f.pc)
			f.pc += 4
			f.pc += int(off)

		case bytecode.OpJumpIfFalse:
			off := readImm32(code, f.pc)
			f.pc += 4
			if !v.pop().Bool {
				f.pc += int(off)
			}

		case bytecode.OpJumpIfTrue:
			off := readImm32(code, f.pc)
			f.pc += 4
			if v.pop().Bool {
				f.pc += int(off)
			}

		case bytecode.OpReturn:
			return v.pop(), nil

		case bytecode.OpCall:
			result, err := v.execCall(f, code)
			if err != nil {
				return Value{}, err
			}
			v.push(result)

		case bytecode.OpCallBuiltin:
			builtinID := readImm32(code, f.pc)
			f.pc += 4
			arity := readImm32(code, f.pc)
			f.pc += 4
			args := v.popN(int(arity))
			result, err := v.callBuiltin(int(builtinID), args)
			if err != nil {
				return Value{}, err
			}
			v.push(result)

		case bytecode.OpNewArray:
			n := readImm32(code, f.pc)
			f.pc += 4
			v.push(ArrayValue(v.popN(int(n))))

		case bytecode.OpArrayRepeat:
			n := readImm32(code, f.pc)
			f.pc += 4
			elem := v.pop()
			out := make([]Value, n)
			for i := range out {
				out[i] = elem
			}
			v.push(ArrayValue(out))

		case bytecode.OpIndexGet:
			idx, target := v.pop(), v.pop()
			val, err := v.indexGet(target, idx)
			if err != nil {
				return Value{}, err
			}
			v.push(val)

		case bytecode.OpIndexSet:
			val, idx, target := v.pop(), v.pop(), v.pop()
			if err := v.indexSet(target, idx, val); err != nil {
				return Value{}, err
			}

		case bytecode.OpNewStruct:
			typeIdx := readImm32(code, f.pc)
			f.pc += 4
			fieldCount := readImm32(code, f.pc)
			f.pc += 4
			vals := v.popN(int(fieldCount))
			def := v.prog.Structs[typeIdx]
			fields := make(map[string]Value, len(def.FieldNames))
			for i, name := range def.FieldNames {
				if i < len(vals) {
					fields[name] = vals[i]
				}
			}
			v.push(Value{Kind: KindStruct, Struct: &StructValue{
				TypeIndex: int(typeIdx), TypeName: def.Name, Fields: fields, order: def.FieldNames,
			}})

		case bytecode.OpFieldGet:
			nameIdx := readImm32(code, f.pc)
			f.pc += 4
			target := v.pop()
			name := v.prog.Constants[nameIdx].Str
			val, ok := target.Struct.Fields[name]
			if !ok {
				return Value{}, v.trap(LabelType, "struct %s has no field %q", target.Struct.TypeName, name)
			}
			v.push(val)

		case bytecode.OpFieldSet:
			nameIdx := readImm32(code, f.pc)
			f.pc += 4
			val, target := v.pop(), v.pop()
			name := v.prog.Constants[nameIdx].Str
			target.Struct.Fields[name] = val

		case bytecode.OpNewVec:
			v.push(VecValue(nil))

		default:
			return Value{}, v.trap(LabelType, "unimplemented opcode %s at pc=%d", op, opStart)
		}
	}
	return UnitValue(), nil
}

func (v *VM) popN(n int) []Value {
	if n == 0 {
		return nil
	}
	start := len(v.operand) - n
	out := append([]Value(nil), v.operand[start:]...)
	v.operand = v.operand[:start]
	return out
}

func (v *VM) execIntArith(op bytecode.Op) error {
	b, a := v.pop(), v.pop()
	switch op {
	case bytecode.OpAddI:
		v.push(IntValue(a.Int + b.Int))
	case bytecode.OpSubI:
		v.push(IntValue(a.Int - b.Int))
	case bytecode.OpMulI:
		v.push(IntValue(a.Int * b.Int))
	case bytecode.OpDivI:
		if b.Int == 0 {
			return v.trap(LabelDivZero, "integer division by zero")
		}
		v.push(IntValue(a.Int / b.Int))
	case bytecode.OpModI:
		if b.Int == 0 {
			return v.trap(LabelDivZero, "integer modulo by zero")
		}
		v.push(IntValue(a.Int % b.Int))
	}
	return nil
}

func (v *VM) execFloatArith(op bytecode.Op) {
	b, a := v.pop(), v.pop()
	switch op {
	case bytecode.OpAddF:
		v.push(FloatValue(a.Float + b.Float))
	case bytecode.OpSubF:
		v.push(FloatValue(a.Float - b.Float))
	case bytecode.OpMulF:
		v.push(FloatValue(a.Float * b.Float))
	case bytecode.OpDivF:
		// IEEE-754 division by zero yields ±Inf/NaN, never a trap (spec.md §4.7).
		v.push(FloatValue(a.Float / b.Float))
	}
}

func (v *VM) execCompare(op bytecode.Op) {
	b, a := v.pop(), v.pop()
	var result bool
	switch op {
	case bytecode.OpEqI:
		result = a.Int == b.Int
	case bytecode.OpEqF:
		result = a.Float == b.Float
	case bytecode.OpEqB:
		result = a.Bool == b.Bool
	case bytecode.OpEqS:
		result = a.Str == b.Str
	case bytecode.OpNeI:
		result = a.Int != b.Int
	case bytecode.OpNeF:
		result = a.Float != b.Float
	case bytecode.OpNeB:
		result = a.Bool != b.Bool
	case bytecode.OpNeS:
		result = a.Str != b.Str
	case bytecode.OpLtI:
		result = a.Int < b.Int
	case bytecode.OpLeI:
		result = a.Int <= b.Int
	case bytecode.OpGtI:
		result = a.Int > b.Int
	case bytecode.OpGeI:
		result = a.Int >= b.Int
	case bytecode.OpLtF:
		result = a.Float < b.Float
	case bytecode.OpLeF:
		result = a.Float <= b.Float
	case bytecode.OpGtF:
		result = a.Float > b.Float
	case bytecode.OpGeF:
		result = a.Float >= b.Float
	}
	v.push(BoolValue(result))
}

// execCall handles both a direct Call (func_id known statically) and the
// indirect form emitted when a call's target is an arbitrary Fn-typed
// expression: func_id == -1 tells the VM the callee's function index was
// instead pushed as the last operand-stack value, on top of its arguments
// (internal/bytecode/emit.go's emitCall). Function-reference values are
// represented at runtime as a plain Int (spec.md has no separate wire tag
// for FnRef; see internal/vm/value.go's Kind doc comment), so that popped
// value's Int field is the callee's index.
func (v *VM) execCall(f *frame, code []byte) (Value, error) {
	funcID := readImm32(code, f.pc)
	f.pc += 4
	arity := readImm32(code, f.pc)
	f.pc += 4

	target := int(funcID)
	if funcID == -1 {
		callee := v.pop()
		target = int(callee.Int)
	}
	args := v.popN(int(arity))
	return v.callFunction(target, args)
}
