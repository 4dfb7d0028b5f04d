package vm

import (
	"sort"
	"strings"

	"github.com/skepa-lang/skepa/internal/builtins"
)

func (v *VM) callArr(id int, args []Value) (Value, error) {
	arr := args[0].Arr
	switch id {
	case builtins.ArrLen:
		return IntValue(int64(len(arr))), nil
	case builtins.ArrIsEmpty:
		return BoolValue(len(arr) == 0), nil
	case builtins.ArrContains:
		for _, el := range arr {
			if valueEqual(el, args[1]) {
				return BoolValue(true), nil
			}
		}
		return BoolValue(false), nil
	case builtins.ArrIndexOf:
		for i, el := range arr {
			if valueEqual(el, args[1]) {
				return IntValue(int64(i)), nil
			}
		}
		return IntValue(-1), nil
	case builtins.ArrCount:
		n := 0
		for _, el := range arr {
			if valueEqual(el, args[1]) {
				n++
			}
		}
		return IntValue(int64(n)), nil
	case builtins.ArrFirst:
		if len(arr) == 0 {
			return Value{}, v.trap(LabelIndexOOB, "arr.first on an empty array")
		}
		return arr[0], nil
	case builtins.ArrLast:
		if len(arr) == 0 {
			return Value{}, v.trap(LabelIndexOOB, "arr.last on an empty array")
		}
		return arr[len(arr)-1], nil
	case builtins.ArrJoin:
		parts := make([]string, len(arr))
		for i, el := range arr {
			parts[i] = el.Repr()
		}
		return StringValue(strings.Join(parts, args[1].Str)), nil
	case builtins.ArrReverse:
		out := make([]Value, len(arr))
		for i, el := range arr {
			out[len(arr)-1-i] = el
		}
		return ArrayValue(out), nil
	case builtins.ArrSlice:
		start, end := args[1].Int, args[2].Int
		if start < 0 || end < start || end > int64(len(arr)) {
			return Value{}, v.trap(LabelIndexOOB, "arr.slice(%d,%d) out of bounds (len %d)", start, end, len(arr))
		}
		return ArrayValue(append([]Value(nil), arr[start:end]...)), nil
	case builtins.ArrSum:
		return arrSum(arr), nil
	case builtins.ArrMin:
		if len(arr) == 0 {
			return Value{}, v.trap(LabelIndexOOB, "arr.min on an empty array")
		}
		return arrExtreme(arr, true), nil
	case builtins.ArrMax:
		if len(arr) == 0 {
			return Value{}, v.trap(LabelIndexOOB, "arr.max on an empty array")
		}
		return arrExtreme(arr, false), nil
	case builtins.ArrSort:
		out := append([]Value(nil), arr...)
		sort.SliceStable(out, func(i, j int) bool { return valueLess(out[i], out[j]) })
		return ArrayValue(out), nil
	case builtins.ArrDistinct:
		var out []Value
		for _, el := range arr {
			dup := false
			for _, seen := range out {
				if valueEqual(seen, el) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, el)
			}
		}
		return ArrayValue(out), nil
	}
	return Value{}, v.trap(LabelType, "unimplemented arr builtin %d", id)
}

func valueEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Int == b.Int
	case KindFloat:
		return a.Float == b.Float
	case KindBool:
		return a.Bool == b.Bool
	case KindString:
		return a.Str == b.Str
	default:
		return false
	}
}

func valueLess(a, b Value) bool {
	switch a.Kind {
	case KindFloat:
		return a.Float < b.Float
	case KindString:
		return a.Str < b.Str
	default:
		return a.Int < b.Int
	}
}

// arrSum's identity on an empty array is Int(0); spec.md §9 flags this as a
// point of disagreement between documented revisions and directs targeting
// the latest documented surface, which this treats as: empty sums to a
// zero of the array's apparent element kind, defaulting to Int when the
// array itself carries no elements to infer a kind from.
func arrSum(arr []Value) Value {
	if len(arr) == 0 {
		return IntValue(0)
	}
	if arr[0].Kind == KindFloat {
		var sum float64
		for _, el := range arr {
			sum += el.Float
		}
		return FloatValue(sum)
	}
	var sum int64
	for _, el := range arr {
		sum += el.Int
	}
	return IntValue(sum)
}

func arrExtreme(arr []Value, wantMin bool) Value {
	best := arr[0]
	for _, el := range arr[1:] {
		if (wantMin && valueLess(el, best)) || (!wantMin && valueLess(best, el)) {
			best = el
		}
	}
	return best
}
