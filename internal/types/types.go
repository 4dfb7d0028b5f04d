// Package types implements Skepa's static type representation and
// equality rules, per spec.md §3 "Type".
package types

import "fmt"

// Kind enumerates the variant tags of Type.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KString
	KVoid
	KArray
	KVec
	KNamed
	KFn
)

// Type is Skepa's tagged type variant. Only the fields relevant to Kind are
// populated; this mirrors the sum-type-via-struct idiom the teacher uses in
// its own DataType representation.
type Type struct {
	Kind Kind

	// KArray
	Elem   *Type
	Length int

	// KVec reuses Elem.

	// KNamed
	ModuleID   string
	StructName string

	// KFn
	Params []*Type
	Return *Type
}

func Int() *Type    { return &Type{Kind: KInt} }
func Float() *Type  { return &Type{Kind: KFloat} }
func Bool() *Type   { return &Type{Kind: KBool} }
func String() *Type { return &Type{Kind: KString} }
func Void() *Type   { return &Type{Kind: KVoid} }

func Array(elem *Type, length int) *Type {
	return &Type{Kind: KArray, Elem: elem, Length: length}
}

func Vec(elem *Type) *Type {
	return &Type{Kind: KVec, Elem: elem}
}

func Named(moduleID, name string) *Type {
	return &Type{Kind: KNamed, ModuleID: moduleID, StructName: name}
}

func Fn(params []*Type, ret *Type) *Type {
	return &Type{Kind: KFn, Params: params, Return: ret}
}

// IsPrimitive reports whether t is one of Int/Float/Bool/String/Void.
func (t *Type) IsPrimitive() bool {
	switch t.Kind {
	case KInt, KFloat, KBool, KString, KVoid:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t is Int or Float.
func (t *Type) IsNumeric() bool {
	return t.Kind == KInt || t.Kind == KFloat
}

// IsEqualityComparable reports whether t may appear as an operand of `==`/`!=`,
// per spec.md §4.4 (arrays and structs are excluded).
func (t *Type) IsEqualityComparable() bool {
	switch t.Kind {
	case KInt, KFloat, KBool, KString:
		return true
	default:
		return false
	}
}

// Equal implements spec.md §3's equality rule: structural for
// primitives/arrays/vecs/fns, nominal (module id + name) for structs.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KInt, KFloat, KBool, KString, KVoid:
		return true
	case KArray:
		return a.Length == b.Length && Equal(a.Elem, b.Elem)
	case KVec:
		return Equal(a.Elem, b.Elem)
	case KNamed:
		return a.ModuleID == b.ModuleID && a.StructName == b.StructName
	case KFn:
		if len(a.Params) != len(b.Params) || !Equal(a.Return, b.Return) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Repr returns a human-readable rendering of t, used in diagnostics and
// disassembly.
func (t *Type) Repr() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case KInt:
		return "Int"
	case KFloat:
		return "Float"
	case KBool:
		return "Bool"
	case KString:
		return "String"
	case KVoid:
		return "Void"
	case KArray:
		return fmt.Sprintf("[%s; %d]", t.Elem.Repr(), t.Length)
	case KVec:
		return fmt.Sprintf("Vec[%s]", t.Elem.Repr())
	case KNamed:
		return t.StructName
	case KFn:
		s := "Fn("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.Repr()
		}
		return s + ") -> " + t.Return.Repr()
	default:
		return "<invalid type>"
	}
}
