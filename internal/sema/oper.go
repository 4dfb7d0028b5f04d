package sema

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/types"
)

// checkBinary implements spec.md §4.4's strict, non-promoting operator
// rules: `+` is overloaded across Int/Float/String/Array; every other
// arithmetic and comparison operator requires same-type Int or Float;
// equality requires same-type primitives; logical operators require Bool.
func (a *Analyzer) checkBinary(op string, left, right ir.Expr, span *ast.BinaryExpr) *types.Type {
	lt, rt := left.Type(), right.Type()

	switch op {
	case "+":
		if lt.Kind == types.KInt && rt.Kind == types.KInt {
			return types.Int()
		}
		if lt.Kind == types.KFloat && rt.Kind == types.KFloat {
			return types.Float()
		}
		if lt.Kind == types.KString && rt.Kind == types.KString {
			return types.String()
		}
		if lt.Kind == types.KArray && rt.Kind == types.KArray && types.Equal(lt.Elem, rt.Elem) {
			return types.Array(lt.Elem, lt.Length+rt.Length)
		}
		a.errorf(span.Span, "operator `+` is not defined for %s and %s", lt.Repr(), rt.Repr())
		return types.Void()

	case "-", "*", "/":
		if lt.Kind == types.KInt && rt.Kind == types.KInt {
			return types.Int()
		}
		if lt.Kind == types.KFloat && rt.Kind == types.KFloat {
			return types.Float()
		}
		a.errorf(span.Span, "operator `%s` requires two Int or two Float operands, got %s and %s", op, lt.Repr(), rt.Repr())
		return types.Void()

	case "%":
		if lt.Kind == types.KInt && rt.Kind == types.KInt {
			return types.Int()
		}
		a.errorf(span.Span, "operator `%%` requires two Int operands, got %s and %s", lt.Repr(), rt.Repr())
		return types.Void()

	case "<", "<=", ">", ">=":
		if lt.Kind == rt.Kind && (lt.Kind == types.KInt || lt.Kind == types.KFloat) {
			return types.Bool()
		}
		a.errorf(span.Span, "operator `%s` requires two Int or two Float operands, got %s and %s", op, lt.Repr(), rt.Repr())
		return types.Void()

	case "==", "!=":
		if types.Equal(lt, rt) && lt.IsEqualityComparable() {
			return types.Bool()
		}
		a.errorf(span.Span, "operator `%s` is not defined for %s and %s", op, lt.Repr(), rt.Repr())
		return types.Void()

	case "&&", "||":
		if lt.Kind == types.KBool && rt.Kind == types.KBool {
			return types.Bool()
		}
		a.errorf(span.Span, "operator `%s` requires two Bool operands, got %s and %s", op, lt.Repr(), rt.Repr())
		return types.Void()

	default:
		a.errorf(span.Span, "unknown operator `%s`", op)
		return types.Void()
	}
}

func (a *Analyzer) checkUnary(op string, operand ir.Expr, span *ast.UnaryExpr) *types.Type {
	t := operand.Type()
	switch op {
	case "+", "-":
		if t.Kind == types.KInt || t.Kind == types.KFloat {
			return t
		}
		a.errorf(span.Span, "unary `%s` requires an Int or Float operand, got %s", op, t.Repr())
		return types.Void()
	case "!":
		if t.Kind == types.KBool {
			return types.Bool()
		}
		a.errorf(span.Span, "unary `!` requires a Bool operand, got %s", t.Repr())
		return types.Void()
	default:
		a.errorf(span.Span, "unknown unary operator `%s`", op)
		return types.Void()
	}
}
