package vm

import "github.com/skepa-lang/skepa/internal/builtins"

// callVec implements Vec's shared-handle mutation semantics (spec.md §4.7,
// §5): push/set/delete all mutate through the same backing slice pointer
// every alias of that Vec shares.
func (v *VM) callVec(id int, args []Value) (Value, error) {
	switch id {
	case builtins.VecNew:
		return VecValue(nil), nil
	case builtins.VecLen:
		return IntValue(int64(len(*args[0].Vec))), nil
	case builtins.VecPush:
		*args[0].Vec = append(*args[0].Vec, args[1])
		return UnitValue(), nil
	case builtins.VecGet:
		s := *args[0].Vec
		i := args[1].Int
		if i < 0 || i >= int64(len(s)) {
			return Value{}, v.trap(LabelIndexOOB, "vec.get(%d) out of bounds (len %d)", i, len(s))
		}
		return s[i], nil
	case builtins.VecSet:
		s := *args[0].Vec
		i := args[1].Int
		if i < 0 || i >= int64(len(s)) {
			return Value{}, v.trap(LabelIndexOOB, "vec.set(%d) out of bounds (len %d)", i, len(s))
		}
		s[i] = args[2]
		return UnitValue(), nil
	case builtins.VecDelete:
		s := *args[0].Vec
		i := args[1].Int
		if i < 0 || i >= int64(len(s)) {
			return Value{}, v.trap(LabelIndexOOB, "vec.delete(%d) out of bounds (len %d)", i, len(s))
		}
		removed := s[i]
		*args[0].Vec = append(s[:i], s[i+1:]...)
		return removed, nil
	}
	return Value{}, v.trap(LabelType, "unimplemented vec builtin %d", id)
}
