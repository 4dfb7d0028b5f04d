package vm

import "fmt"

// Trap is a runtime fault per spec.md §4.7/§7: terminal, uncatchable from
// within the running program, and always reported with the label, the
// function and instruction offset where it occurred, and a call-stack
// snapshot.
type Trap struct {
	Label   string
	Message string
	Func    string
	PC      int
	Frames  []string // innermost first, rendered "funcName (pc=N)"
}

func (t *Trap) Error() string { return fmt.Sprintf("%s: %s", t.Label, t.Message) }

func newTrap(label, funcName string, pc int, frames []string, format string, args ...interface{}) *Trap {
	return &Trap{Label: label, Message: fmt.Sprintf(format, args...), Func: funcName, PC: pc, Frames: frames}
}

const (
	LabelDivZero       = "E-VM-DIV-ZERO"
	LabelType          = "E-VM-TYPE"
	LabelArity         = "E-VM-ARITY"
	LabelStackOverflow = "E-VM-STACK-OVERFLOW"
	LabelIndexOOB      = "E-VM-INDEX-OOB"
)
