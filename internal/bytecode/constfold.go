package bytecode

import "github.com/skepa-lang/skepa/internal/ir"

// foldConst evaluates an ir.Expr to a constant-pool Value at emission time.
// It only needs to handle the expression shapes sema accepts as a global
// `let` initializer in practice: literals, unary +/-/!, binary arithmetic
// over literals, and array literals of foldable elements. Skepa's fixed
// opcode set has no load-global instruction (spec.md §4.5), so every
// GlobalExpr read is resolved by inlining this folded value directly where
// it's referenced.
func foldConst(e ir.Expr) (Value, bool) {
	switch v := e.(type) {
	case *ir.IntLit:
		return IntValue(v.Value), true
	case *ir.FloatLit:
		return FloatValue(v.Value), true
	case *ir.BoolLit:
		return BoolValue(v.Value), true
	case *ir.StringLit:
		return StringValue(v.Value), true
	case *ir.UnaryExpr:
		operand, ok := foldConst(v.Operand)
		if !ok {
			return Value{}, false
		}
		switch v.Op {
		case "-":
			if operand.Tag == TagInt {
				return IntValue(-operand.Int), true
			}
			return FloatValue(-operand.Float), true
		case "!":
			return BoolValue(!operand.Bool), true
		default:
			return operand, true
		}
	case *ir.BinaryExpr:
		l, lok := foldConst(v.Left)
		r, rok := foldConst(v.Right)
		if !lok || !rok {
			return Value{}, false
		}
		return foldBinary(v.Op, l, r)
	case *ir.ArrayLit:
		elems := make([]Value, len(v.Elems))
		for i, el := range v.Elems {
			val, ok := foldConst(el)
			if !ok {
				return Value{}, false
			}
			elems[i] = val
		}
		return ArrayValue(elems), true
	default:
		return Value{}, false
	}
}

func foldBinary(op string, l, r Value) (Value, bool) {
	switch op {
	case "+":
		switch l.Tag {
		case TagInt:
			return IntValue(l.Int + r.Int), true
		case TagFloat:
			return FloatValue(l.Float + r.Float), true
		case TagString:
			return StringValue(l.Str + r.Str), true
		case TagArray:
			return ArrayValue(append(append([]Value{}, l.Arr...), r.Arr...)), true
		}
	case "-":
		if l.Tag == TagInt {
			return IntValue(l.Int - r.Int), true
		}
		return FloatValue(l.Float - r.Float), true
	case "*":
		if l.Tag == TagInt {
			return IntValue(l.Int * r.Int), true
		}
		return FloatValue(l.Float * r.Float), true
	case "/":
		if l.Tag == TagInt {
			if r.Int == 0 {
				return Value{}, false
			}
			return IntValue(l.Int / r.Int), true
		}
		return FloatValue(l.Float / r.Float), true
	case "%":
		if r.Int == 0 {
			return Value{}, false
		}
		return IntValue(l.Int % r.Int), true
	}
	return Value{}, false
}
