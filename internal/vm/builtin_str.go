package vm

import (
	"strings"

	"github.com/skepa-lang/skepa/internal/builtins"
)

func (v *VM) callStr(id int, args []Value) (Value, error) {
	switch id {
	case builtins.StrLen:
		return IntValue(int64(len([]rune(args[0].Str)))), nil
	case builtins.StrContains:
		return BoolValue(strings.Contains(args[0].Str, args[1].Str)), nil
	case builtins.StrStartsWith:
		return BoolValue(strings.HasPrefix(args[0].Str, args[1].Str)), nil
	case builtins.StrEndsWith:
		return BoolValue(strings.HasSuffix(args[0].Str, args[1].Str)), nil
	case builtins.StrTrim:
		return StringValue(strings.TrimSpace(args[0].Str)), nil
	case builtins.StrToLower:
		return StringValue(strings.ToLower(args[0].Str)), nil
	case builtins.StrToUpper:
		return StringValue(strings.ToUpper(args[0].Str)), nil
	case builtins.StrIndexOf:
		runes := []rune(args[0].Str)
		needle := []rune(args[1].Str)
		return IntValue(int64(runeIndex(runes, needle, false))), nil
	case builtins.StrLastIndexOf:
		runes := []rune(args[0].Str)
		needle := []rune(args[1].Str)
		return IntValue(int64(runeIndex(runes, needle, true))), nil
	case builtins.StrSlice:
		runes := []rune(args[0].Str)
		start, end := args[1].Int, args[2].Int
		if start < 0 || end < start || end > int64(len(runes)) {
			return Value{}, v.trap(LabelIndexOOB, "str.slice(%d,%d) out of bounds (len %d)", start, end, len(runes))
		}
		return StringValue(string(runes[start:end])), nil
	case builtins.StrReplace:
		return StringValue(strings.ReplaceAll(args[0].Str, args[1].Str, args[2].Str)), nil
	case builtins.StrRepeat:
		n := args[1].Int
		if n < 0 {
			return Value{}, v.trap(LabelIndexOOB, "str.repeat count %d is negative", n)
		}
		if n*int64(len(args[0].Str)) > 1_000_000 {
			return Value{}, v.trap(LabelIndexOOB, "str.repeat output exceeds 1,000,000 bytes")
		}
		return StringValue(strings.Repeat(args[0].Str, int(n))), nil
	case builtins.StrIsEmpty:
		return BoolValue(args[0].Str == ""), nil
	}
	return Value{}, v.trap(LabelType, "unimplemented str builtin %d", id)
}

// runeIndex finds needle in haystack by rune position, or -1 if absent
// (str.indexOf/lastIndexOf, per spec.md §6.4).
func runeIndex(haystack, needle []rune, last bool) int {
	if len(needle) == 0 {
		if last {
			return len(haystack)
		}
		return 0
	}
	best := -1
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, n := range needle {
			if haystack[i+j] != n {
				match = false
				break
			}
		}
		if match {
			best = i
			if !last {
				return best
			}
		}
	}
	return best
}
