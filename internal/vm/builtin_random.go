package vm

import "github.com/skepa-lang/skepa/internal/builtins"

func (v *VM) callRandom(id int, args []Value) (Value, error) {
	switch id {
	case builtins.RandomSeed:
		v.rng.r.Seed(args[0].Int)
		return UnitValue(), nil
	case builtins.RandomInt:
		lo, hi := args[0].Int, args[1].Int
		if lo > hi {
			return Value{}, v.trap(LabelArity, "random.int(%d,%d): min must be <= max", lo, hi)
		}
		return IntValue(lo + v.rng.r.Int63n(hi-lo+1)), nil
	case builtins.RandomFloat:
		return FloatValue(v.rng.r.Float64()), nil
	}
	return Value{}, v.trap(LabelType, "unimplemented random builtin %d", id)
}
