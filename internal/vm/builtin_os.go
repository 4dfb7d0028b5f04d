package vm

import (
	"bytes"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/skepa-lang/skepa/internal/builtins"
)

func (v *VM) callOS(id int, args []Value) (Value, error) {
	switch id {
	case builtins.OSCwd:
		dir, err := os.Getwd()
		if err != nil {
			return Value{}, v.trap(LabelType, "os.cwd: %s", err)
		}
		return StringValue(dir), nil
	case builtins.OSPlatform:
		return StringValue(platformName()), nil
	case builtins.OSSleep:
		ms := args[0].Int
		if ms < 0 {
			return Value{}, v.trap(LabelArity, "os.sleep: duration must be >= 0, got %d", ms)
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return UnitValue(), nil
	case builtins.OSExecShell:
		cmd := shellCommand(args[0].Str)
		if err := cmd.Run(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				return IntValue(int64(exitErr.ExitCode())), nil
			}
			return IntValue(-1), nil
		}
		return IntValue(0), nil
	case builtins.OSExecShellOut:
		cmd := shellCommand(args[0].Str)
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return StringValue(""), nil
		}
		return StringValue(out.String()), nil
	}
	return Value{}, v.trap(LabelType, "unimplemented os builtin %d", id)
}

func platformName() string {
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "macos"
	default:
		return "linux"
	}
}

// shellCommand builds the host shell invocation per spec.md §5: `cmd /C`
// on Windows, `sh -c` elsewhere.
func shellCommand(script string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", script)
	}
	return exec.Command("sh", "-c", script)
}
