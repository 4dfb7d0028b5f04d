package vm

import "github.com/skepa-lang/skepa/internal/builtins"

// callBuiltin dispatches a CallBuiltin instruction by stable id
// (internal/builtins.Table) to its executor. Each family lives in its own
// file (builtin_io.go, builtin_str.go, ...) mirroring spec.md §6.4's
// package grouping.
func (v *VM) callBuiltin(id int, args []Value) (Value, error) {
	switch {
	case id >= builtins.IOPrint && id <= builtins.IOPrintf:
		return v.callIO(id, args)
	case id >= builtins.StrLen && id <= builtins.StrIsEmpty:
		return v.callStr(id, args)
	case id >= builtins.ArrLen && id <= builtins.ArrDistinct:
		return v.callArr(id, args)
	case id >= builtins.DatetimeNowUnix && id <= builtins.DatetimeSecond:
		return v.callDatetime(id, args)
	case id >= builtins.RandomSeed && id <= builtins.RandomFloat:
		return v.callRandom(id, args)
	case id >= builtins.OSCwd && id <= builtins.OSExecShellOut:
		return v.callOS(id, args)
	case id >= builtins.FSExists && id <= builtins.FSJoin:
		return v.callFS(id, args)
	case id >= builtins.VecNew && id <= builtins.VecDelete:
		return v.callVec(id, args)
	default:
		return Value{}, v.trap(LabelType, "unknown builtin id %d", id)
	}
}
