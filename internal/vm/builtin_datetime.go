package vm

import (
	"time"

	"github.com/skepa-lang/skepa/internal/builtins"
)

// datetime's component getters all work off a Unix-seconds Int and report
// UTC fields (spec.md §6.4).
func (v *VM) callDatetime(id int, args []Value) (Value, error) {
	switch id {
	case builtins.DatetimeNowUnix:
		return IntValue(time.Now().Unix()), nil
	case builtins.DatetimeNowMillis:
		return IntValue(time.Now().UnixMilli()), nil
	case builtins.DatetimeFromUnix:
		return IntValue(args[0].Int), nil
	case builtins.DatetimeFromMillis:
		return IntValue(args[0].Int / 1000), nil
	case builtins.DatetimeParseUnix:
		t, err := time.Parse("2006-01-02T15:04:05Z", args[0].Str)
		if err != nil {
			return Value{}, v.trap(LabelType, "datetime.parseUnix: %s", err)
		}
		return IntValue(t.Unix()), nil
	case builtins.DatetimeYear:
		return IntValue(int64(unixTime(args[0]).Year())), nil
	case builtins.DatetimeMonth:
		return IntValue(int64(unixTime(args[0]).Month())), nil
	case builtins.DatetimeDay:
		return IntValue(int64(unixTime(args[0]).Day())), nil
	case builtins.DatetimeHour:
		return IntValue(int64(unixTime(args[0]).Hour())), nil
	case builtins.DatetimeMinute:
		return IntValue(int64(unixTime(args[0]).Minute())), nil
	case builtins.DatetimeSecond:
		return IntValue(int64(unixTime(args[0]).Second())), nil
	}
	return Value{}, v.trap(LabelType, "unimplemented datetime builtin %d", id)
}

func unixTime(v Value) time.Time {
	return time.Unix(v.Int, 0).UTC()
}
