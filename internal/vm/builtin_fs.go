package vm

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/skepa-lang/skepa/internal/builtins"
)

// fs builtins open, use, and close their file handle within the scope of
// the single call (spec.md §5's "scoped acquisition"); host failures
// surface as E-VM-TYPE traps per spec.md §7, since Skepa has no in-program
// exception handling to route them through.
func (v *VM) callFS(id int, args []Value) (Value, error) {
	switch id {
	case builtins.FSExists:
		_, err := os.Stat(args[0].Str)
		return BoolValue(err == nil), nil
	case builtins.FSReadText:
		data, err := os.ReadFile(args[0].Str)
		if err != nil {
			return Value{}, v.trap(LabelType, "fs.readText(%q): %s", args[0].Str, err)
		}
		if !utf8.Valid(data) {
			return Value{}, v.trap(LabelType, "fs.readText(%q): file is not valid UTF-8", args[0].Str)
		}
		return StringValue(string(data)), nil
	case builtins.FSWriteText:
		if err := os.WriteFile(args[0].Str, []byte(args[1].Str), 0644); err != nil {
			return Value{}, v.trap(LabelType, "fs.writeText(%q): %s", args[0].Str, err)
		}
		return UnitValue(), nil
	case builtins.FSAppendText:
		f, err := os.OpenFile(args[0].Str, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return Value{}, v.trap(LabelType, "fs.appendText(%q): %s", args[0].Str, err)
		}
		defer f.Close()
		if _, err := f.WriteString(args[1].Str); err != nil {
			return Value{}, v.trap(LabelType, "fs.appendText(%q): %s", args[0].Str, err)
		}
		return UnitValue(), nil
	case builtins.FSMkdirAll:
		if err := os.MkdirAll(args[0].Str, 0755); err != nil {
			return Value{}, v.trap(LabelType, "fs.mkdirAll(%q): %s", args[0].Str, err)
		}
		return UnitValue(), nil
	case builtins.FSRemoveFile:
		if err := os.Remove(args[0].Str); err != nil {
			return Value{}, v.trap(LabelType, "fs.removeFile(%q): %s", args[0].Str, err)
		}
		return UnitValue(), nil
	case builtins.FSRemoveDirAll:
		if _, err := os.Stat(args[0].Str); err != nil {
			return Value{}, v.trap(LabelType, "fs.removeDirAll(%q): %s", args[0].Str, err)
		}
		if err := os.RemoveAll(args[0].Str); err != nil {
			return Value{}, v.trap(LabelType, "fs.removeDirAll(%q): %s", args[0].Str, err)
		}
		return UnitValue(), nil
	case builtins.FSJoin:
		return StringValue(filepath.Join(args[0].Str, args[1].Str)), nil
	}
	return Value{}, v.trap(LabelType, "unimplemented fs builtin %d", id)
}
