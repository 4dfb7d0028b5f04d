// Package vm is Skepa's call-stack bytecode interpreter: an operand stack
// plus a call stack of frames walking a decoded internal/bytecode.Program,
// per spec.md §4.7. The fetch/decode/execute shape follows the teacher
// pack's register-CPU interpreters (e.g. a Step method driving a giant
// opcode switch against a mutable machine struct), adapted here to a
// stack machine with tagged runtime values instead of fixed registers.
package vm

import "fmt"

// Kind tags a runtime Value's active field, distinct from bytecode.Value's
// wire tags: the VM additionally has Vec (shared-handle aliasing), Struct,
// and FnRef, none of which is serializable (spec.md §9). Function values
// reach the VM as plain Int function indices (see execCall), so no emitted
// instruction produces a KindFnRef value.
type Kind byte

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindArray
	KindUnit
	KindVec
	KindStruct
	KindFnRef
)

// Value is a tagged runtime value. Array is an immutable Go slice (copied
// on assignment, matching by-value array semantics); Vec wraps a pointer
// to a slice so aliases observe each other's mutations (spec.md §5).
type Value struct {
	Kind   Kind
	Int    int64
	Float  float64
	Bool   bool
	Str    string
	Arr    []Value
	Vec    *[]Value
	Struct *StructValue
	FnID   int
}

// StructValue is an instance of a nominal struct type: its defining type
// index (into Program.Structs) and an ordered field-name-to-value map.
type StructValue struct {
	TypeIndex int
	TypeName  string
	Fields    map[string]Value
	order     []string // declared field order, for deterministic Repr
}

func IntValue(v int64) Value     { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func BoolValue(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }
func ArrayValue(v []Value) Value { return Value{Kind: KindArray, Arr: v} }
func UnitValue() Value           { return Value{Kind: KindUnit} }
func FnRefValue(id int) Value    { return Value{Kind: KindFnRef, FnID: id} }

func VecValue(v []Value) Value {
	backing := append([]Value(nil), v...)
	return Value{Kind: KindVec, Vec: &backing}
}

// Repr renders v the way io.print/println stringifies a value, and the way
// the trace logger shows the operand-stack top.
func (v Value) Repr() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindString:
		return v.Str
	case KindUnit:
		return "()"
	case KindFnRef:
		return fmt.Sprintf("<fn #%d>", v.FnID)
	case KindArray:
		s := "["
		for i, el := range v.Arr {
			if i > 0 {
				s += ", "
			}
			s += el.Repr()
		}
		return s + "]"
	case KindVec:
		s := "vec["
		for i, el := range *v.Vec {
			if i > 0 {
				s += ", "
			}
			s += el.Repr()
		}
		return s + "]"
	case KindStruct:
		s := v.Struct.TypeName + "{"
		first := true
		for _, name := range v.Struct.fieldOrder() {
			if !first {
				s += ", "
			}
			first = false
			s += name + ": " + v.Struct.Fields[name].Repr()
		}
		return s + "}"
	default:
		return "?"
	}
}

// fieldOrder returns the declared field order that NewStruct (exec.go)
// records on the StructValue from the struct table's field names.
func (s *StructValue) fieldOrder() []string {
	return s.order
}
