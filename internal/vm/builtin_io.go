package vm

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/skepa-lang/skepa/internal/builtins"
)

var stdinReader = bufio.NewReader(os.Stdin)

func (v *VM) callIO(id int, args []Value) (Value, error) {
	switch id {
	case builtins.IOPrint:
		fmt.Print(args[0].Str)
	case builtins.IOPrintln:
		fmt.Println(args[0].Str)
	case builtins.IOPrintInt:
		fmt.Println(args[0].Int)
	case builtins.IOPrintFloat:
		fmt.Println(args[0].Float)
	case builtins.IOPrintBool:
		fmt.Println(args[0].Bool)
	case builtins.IOPrintString:
		fmt.Println(args[0].Str)
	case builtins.IOReadLine:
		line, err := stdinReader.ReadString('\n')
		if err != nil {
			line = ""
		}
		return StringValue(strings.TrimRight(line, "\r\n")), nil
	case builtins.IOFormat:
		s, err := v.formatBuiltin(args)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case builtins.IOPrintf:
		s, err := v.formatBuiltin(args)
		if err != nil {
			return Value{}, err
		}
		fmt.Print(s)
	}
	return UnitValue(), nil
}

// formatBuiltin implements io.format/io.printf's %d %f %s %b %% specifiers
// against the first argument and the remaining variadic args. sema's
// checkFormatArgs (internal/sema/call.go) only validates specifier/arg-count
// agreement when the format string is a literal; a format value computed at
// runtime (e.g. read from a variable) reaches here unchecked, so every
// specifier consumption is bounds-checked against rest and reported as a
// terminal E-VM-ARITY trap rather than a Go slice-index panic.
func (v *VM) formatBuiltin(args []Value) (string, error) {
	format := args[0].Str
	rest := args[1:]
	var out strings.Builder
	argIdx := 0
	next := func(spec byte) (Value, error) {
		if argIdx >= len(rest) {
			return Value{}, v.trap(LabelArity, "format %q needs more arguments for %%%c than the %d given", format, spec, len(rest))
		}
		val := rest[argIdx]
		argIdx++
		return val, nil
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			out.WriteByte(c)
			continue
		}
		i++
		switch format[i] {
		case 'd':
			val, err := next('d')
			if err != nil {
				return "", err
			}
			out.WriteString(fmt.Sprintf("%d", val.Int))
		case 'f':
			val, err := next('f')
			if err != nil {
				return "", err
			}
			out.WriteString(fmt.Sprintf("%g", val.Float))
		case 's':
			val, err := next('s')
			if err != nil {
				return "", err
			}
			out.WriteString(val.Str)
		case 'b':
			val, err := next('b')
			if err != nil {
				return "", err
			}
			out.WriteString(fmt.Sprintf("%t", val.Bool))
		case '%':
			out.WriteByte('%')
		default:
			out.WriteByte('%')
			out.WriteByte(format[i])
		}
	}
	return out.String(), nil
}
