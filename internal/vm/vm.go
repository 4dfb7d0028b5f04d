package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/skepa-lang/skepa/internal/bytecode"
)

// VM executes one decoded bytecode.Program to completion or to a trap.
type VM struct {
	prog         *bytecode.Program
	maxCallDepth int
	trace        bool
	traceOut     io.Writer

	operand []Value
	frames  []*frame

	rng *randState
}

type frame struct {
	fn      *bytecode.Function
	fnIndex int
	locals  []Value
	pc      int
}

// Option configures a VM constructed by New.
type Option func(*VM)

// WithTrace enables per-instruction tracing to w (spec.md §4.7's trace mode).
func WithTrace(w io.Writer) Option {
	return func(v *VM) { v.trace = true; v.traceOut = w }
}

// New constructs a VM ready to Run prog, guarding call depth at maxCallDepth
// (SKEPA_MAX_CALL_DEPTH, resolved by internal/config before this is called).
func New(prog *bytecode.Program, maxCallDepth int, opts ...Option) *VM {
	v := &VM{prog: prog, maxCallDepth: maxCallDepth, rng: newRandState(), traceOut: os.Stderr}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Run executes prog.EntryFunc (`main`) to completion and returns the low 8
// bits of its Int return value as the process exit code (spec.md §4.7,
// §8 property 4), or a *Trap on a runtime fault.
func (v *VM) Run() (int, error) {
	result, err := v.callFunction(v.prog.EntryFunc, nil)
	if err != nil {
		return 0, err
	}
	return int(result.Int & 0xFF), nil
}

// callFunction invokes function fi with args already assembled (used both
// for the initial entry call and recursively for Call).
func (v *VM) callFunction(fi int, args []Value) (Value, error) {
	if len(v.frames) >= v.maxCallDepth {
		return Value{}, v.trap(LabelStackOverflow, "call depth exceeded %d", v.maxCallDepth)
	}

	fn := &v.prog.Functions[fi]
	locals := make([]Value, fn.NumLocals)
	for i, a := range args {
		locals[i] = copyIfArray(a)
	}
	f := &frame{fn: fn, fnIndex: fi, locals: locals}
	v.frames = append(v.frames, f)
	defer func() { v.frames = v.frames[:len(v.frames)-1] }()

	result, err := v.exec(f)
	return result, err
}

// trap builds a *Trap annotated with the current call-stack snapshot,
// innermost frame first, per spec.md §7.
func (v *VM) trap(label, format string, args ...interface{}) *Trap {
	var funcName string
	var pc int
	var frames []string
	for i := len(v.frames) - 1; i >= 0; i-- {
		f := v.frames[i]
		frames = append(frames, fmt.Sprintf("%s (pc=%d)", f.fn.Name, f.pc))
	}
	if len(v.frames) > 0 {
		top := v.frames[len(v.frames)-1]
		funcName, pc = top.fn.Name, top.pc
	}
	return newTrap(label, funcName, pc, frames, format, args...)
}

func (v *VM) push(val Value) { v.operand = append(v.operand, val) }

func (v *VM) pop() Value {
	n := len(v.operand) - 1
	val := v.operand[n]
	v.operand = v.operand[:n]
	return val
}

func (v *VM) traceStep(f *frame, op bytecode.Op) {
	top := "<empty>"
	if len(v.operand) > 0 {
		top = v.operand[len(v.operand)-1].Repr()
	}
	fmt.Fprintf(v.traceOut, "depth=%d pc=%-5d %-14s top=%s\n", len(v.frames), f.pc, op.String(), top)
}

func readImm32(code []byte, at int) int32 {
	return int32(binary.LittleEndian.Uint32(code[at : at+4]))
}

// copyIfArray gives Array values by-value semantics at every store point
// (local assignment, argument passing): a shallow copy of the backing
// slice, so that IndexSet's in-place element mutation (index.go) can never
// be observed through a separate binding that shares no call-site
// relationship with the one being mutated (spec.md §5 "Arrays ... are
// immutable values; assignment is logically a copy"). Vec intentionally
// skips this — its shared-handle aliasing is the one deliberate exception.
func copyIfArray(val Value) Value {
	if val.Kind != KindArray {
		return val
	}
	return ArrayValue(append([]Value(nil), val.Arr...))
}

func constToValue(c bytecode.Value) Value {
	switch c.Tag {
	case bytecode.TagInt:
		return IntValue(c.Int)
	case bytecode.TagFloat:
		return FloatValue(c.Float)
	case bytecode.TagBool:
		return BoolValue(c.Bool)
	case bytecode.TagString:
		return StringValue(c.Str)
	case bytecode.TagArray:
		elems := make([]Value, len(c.Arr))
		for i, e := range c.Arr {
			elems[i] = constToValue(e)
		}
		return ArrayValue(elems)
	default:
		return UnitValue()
	}
}
