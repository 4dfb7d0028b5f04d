package bytecode

import (
	"sort"
	"strconv"

	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/types"
)

// Emit lowers a typed internal/ir.Program into a deterministic bytecode
// Program, per spec.md §4.5. The function table is sorted by fully
// qualified name before any code is emitted, which is what makes the
// resulting image byte-identical across runs on the same source tree
// (spec.md §8 property 2).
func Emit(prog *ir.Program) *Program {
	e := &emitter{
		funcIndex:   map[string]int{},
		structIndex: map[string]int{},
		constIndex:  map[string]int{},
		globals:     map[string]Value{},
	}

	for _, g := range prog.Globals {
		if val, ok := foldConst(g.Init); ok {
			e.globals[g.Name] = val
		}
	}

	sortedFuncs := append([]*ir.Function(nil), prog.Functions...)
	sort.Slice(sortedFuncs, func(i, j int) bool { return sortedFuncs[i].Name < sortedFuncs[j].Name })
	for i, f := range sortedFuncs {
		e.funcIndex[f.Name] = i
	}

	sortedStructs := append([]*ir.StructLayout(nil), prog.Structs...)
	sort.Slice(sortedStructs, func(i, j int) bool {
		return sortedStructs[i].ModuleID+"."+sortedStructs[i].Name < sortedStructs[j].ModuleID+"."+sortedStructs[j].Name
	})
	for i, s := range sortedStructs {
		key := s.ModuleID + "." + s.Name
		e.structIndex[key] = i
		fieldNames := make([]string, len(s.Fields))
		for j, f := range s.Fields {
			fieldNames[j] = f.Name
		}
		e.out.Structs = append(e.out.Structs, StructDef{Name: key, FieldNames: fieldNames})
	}

	for _, f := range sortedFuncs {
		e.out.Functions = append(e.out.Functions, e.emitFunc(f))
	}

	e.out.EntryFunc = e.funcIndex[prog.Entry]
	return &e.out
}

type emitter struct {
	out         Program
	funcIndex   map[string]int
	structIndex map[string]int
	constIndex  map[string]int
	globals     map[string]Value

	loops []loopCtx
}

type loopCtx struct {
	breaks    []int
	continues []int
}

func (e *emitter) constant(v Value) int32 {
	key := wireKey(v)
	if idx, ok := e.constIndex[key]; ok {
		return int32(idx)
	}
	idx := len(e.out.Constants)
	e.out.Constants = append(e.out.Constants, v)
	e.constIndex[key] = idx
	return int32(idx)
}

func (e *emitter) stringConst(s string) int32 { return e.constant(StringValue(s)) }

func (e *emitter) emitFunc(f *ir.Function) Function {
	b := &builder{}
	for _, s := range f.Body {
		e.emitStmt(b, s)
	}
	// A Void-returning function whose body sema accepted without a
	// trailing `return` still needs one emitted so Return always executes.
	b.op(OpPushConst)
	b.imm32(e.constant(UnitValue()))
	b.op(OpReturn)

	return Function{Name: f.Name, Arity: len(f.Params), NumLocals: f.NumLocals, Code: b.code}
}

func (e *emitter) emitStmt(b *builder, s ir.Stmt) {
	switch st := s.(type) {
	case *ir.LetStmt:
		e.emitExpr(b, st.Init)
		b.opImm32(OpStoreLocal, int32(st.Slot))
	case *ir.AssignStmt:
		e.emitAssign(b, st)
	case *ir.ExprStmt:
		e.emitExpr(b, st.Expr)
		b.op(OpPop)
	case *ir.IfStmt:
		e.emitIf(b, st)
	case *ir.WhileStmt:
		e.emitWhile(b, st)
	case *ir.ForStmt:
		e.emitFor(b, st)
	case *ir.MatchStmt:
		e.emitMatch(b, st)
	case *ir.BreakStmt:
		pos := b.reserveJump(OpJump)
		last := len(e.loops) - 1
		e.loops[last].breaks = append(e.loops[last].breaks, pos)
	case *ir.ContinueStmt:
		pos := b.reserveJump(OpJump)
		last := len(e.loops) - 1
		e.loops[last].continues = append(e.loops[last].continues, pos)
	case *ir.ReturnStmt:
		if st.Value != nil {
			e.emitExpr(b, st.Value)
		} else {
			b.op(OpPushConst)
			b.imm32(e.constant(UnitValue()))
		}
		b.op(OpReturn)
	}
}

func (e *emitter) emitAssign(b *builder, st *ir.AssignStmt) {
	switch t := st.Target.(type) {
	case *ir.LocalExpr:
		e.emitExpr(b, st.Value)
		b.opImm32(OpStoreLocal, int32(t.Slot))
	case *ir.FieldExpr:
		e.emitExpr(b, t.Target)
		e.emitExpr(b, st.Value)
		b.opImm32(OpFieldSet, e.stringConst(t.Field))
	case *ir.IndexExpr:
		e.emitExpr(b, t.Target)
		e.emitExpr(b, t.Index)
		e.emitExpr(b, st.Value)
		b.op(OpIndexSet)
	}
}

func (e *emitter) emitIf(b *builder, st *ir.IfStmt) {
	e.emitExpr(b, st.Cond)
	elseJump := b.reserveJump(OpJumpIfFalse)
	for _, s := range st.Then {
		e.emitStmt(b, s)
	}
	if len(st.Else) == 0 {
		b.patchJump(elseJump)
		return
	}
	endJump := b.reserveJump(OpJump)
	b.patchJump(elseJump)
	for _, s := range st.Else {
		e.emitStmt(b, s)
	}
	b.patchJump(endJump)
}

func (e *emitter) emitWhile(b *builder, st *ir.WhileStmt) {
	e.loops = append(e.loops, loopCtx{})
	condPos := b.pos()
	e.emitExpr(b, st.Cond)
	exitJump := b.reserveJump(OpJumpIfFalse)
	for _, s := range st.Body {
		e.emitStmt(b, s)
	}
	backJump := b.reserveJump(OpJump)
	b.patchJumpTo(backJump, condPos)
	b.patchJump(exitJump)

	ctx := e.loops[len(e.loops)-1]
	e.loops = e.loops[:len(e.loops)-1]
	for _, p := range ctx.breaks {
		b.patchJump(p)
	}
	for _, p := range ctx.continues {
		b.patchJumpTo(p, condPos)
	}
}

func (e *emitter) emitFor(b *builder, st *ir.ForStmt) {
	if st.Init != nil {
		e.emitStmt(b, st.Init)
	}

	e.loops = append(e.loops, loopCtx{})
	condPos := b.pos()
	var exitJump int
	hasCond := st.Cond != nil
	if hasCond {
		e.emitExpr(b, st.Cond)
		exitJump = b.reserveJump(OpJumpIfFalse)
	}
	for _, s := range st.Body {
		e.emitStmt(b, s)
	}

	stepPos := b.pos()
	if st.Step != nil {
		e.emitStmt(b, st.Step)
	}
	backJump := b.reserveJump(OpJump)
	b.patchJumpTo(backJump, condPos)
	if hasCond {
		b.patchJump(exitJump)
	}

	ctx := e.loops[len(e.loops)-1]
	e.loops = e.loops[:len(e.loops)-1]
	for _, p := range ctx.breaks {
		b.patchJump(p)
	}
	for _, p := range ctx.continues {
		b.patchJumpTo(p, stepPos)
	}
}

// emitMatch has no Dup opcode to rely on, so rather than evaluating the
// target once and duplicating it per pattern, it re-evaluates st.TargetExpr
// for every comparison. TargetExpr is always a LocalExpr/GlobalExpr/FieldExpr
// read (sema requires a primitive match target), never a call, so
// re-evaluation is side-effect-free.
func (e *emitter) emitMatch(b *builder, st *ir.MatchStmt) {
	var endJumps []int
	for _, arm := range st.Arms {
		if arm.IsWildcard {
			for _, s := range arm.Body {
				e.emitStmt(b, s)
			}
			continue
		}

		var armBodyJumps []int
		for _, pat := range arm.Patterns {
			e.emitExpr(b, st.TargetExpr)
			e.emitExpr(b, pat)
			emitEq(b, st.Target)
			armBodyJumps = append(armBodyJumps, b.reserveJump(OpJumpIfTrue))
		}
		skip := b.reserveJump(OpJump)
		for _, j := range armBodyJumps {
			b.patchJump(j)
		}
		for _, s := range arm.Body {
			e.emitStmt(b, s)
		}
		endJumps = append(endJumps, b.reserveJump(OpJump))
		b.patchJump(skip)
	}
	for _, j := range endJumps {
		b.patchJump(j)
	}
}

func emitEq(b *builder, t *types.Type) {
	switch t.Kind {
	case types.KInt:
		b.op(OpEqI)
	case types.KFloat:
		b.op(OpEqF)
	case types.KBool:
		b.op(OpEqB)
	case types.KString:
		b.op(OpEqS)
	}
}

func (e *emitter) emitExpr(b *builder, expr ir.Expr) {
	switch v := expr.(type) {
	case *ir.IntLit:
		b.opImm32(OpPushConst, e.constant(IntValue(v.Value)))
	case *ir.FloatLit:
		b.opImm32(OpPushConst, e.constant(FloatValue(v.Value)))
	case *ir.BoolLit:
		b.opImm32(OpPushConst, e.constant(BoolValue(v.Value)))
	case *ir.StringLit:
		b.opImm32(OpPushConst, e.constant(StringValue(v.Value)))
	case *ir.LocalExpr:
		b.opImm32(OpLoadLocal, int32(v.Slot))
	case *ir.GlobalExpr, *ir.FuncRefExpr:
		e.emitConstRef(b, v)
	case *ir.UnaryExpr:
		e.emitUnary(b, v)
	case *ir.BinaryExpr:
		e.emitBinary(b, v)
	case *ir.CallExpr:
		e.emitCall(b, v)
	case *ir.BuiltinCallExpr:
		for _, a := range v.Args {
			e.emitExpr(b, a)
		}
		b.opImm32x2(OpCallBuiltin, int32(v.BuiltinID), int32(len(v.Args)))
	case *ir.FieldExpr:
		e.emitExpr(b, v.Target)
		b.opImm32(OpFieldGet, e.stringConst(v.Field))
	case *ir.IndexExpr:
		e.emitExpr(b, v.Target)
		e.emitExpr(b, v.Index)
		b.op(OpIndexGet)
	case *ir.ArrayLit:
		for _, el := range v.Elems {
			e.emitExpr(b, el)
		}
		b.opImm32(OpNewArray, int32(len(v.Elems)))
	case *ir.ArrayRepeatExpr:
		e.emitExpr(b, v.Elem)
		b.opImm32(OpArrayRepeat, int32(v.Length))
	case *ir.StructLit:
		key := v.ModuleID + "." + v.StructName
		for _, f := range v.Fields {
			e.emitExpr(b, f.Value)
		}
		b.opImm32x2(OpNewStruct, int32(e.structIndex[key]), int32(len(v.Fields)))
	}
}

// emitConstRef pushes a global let's folded value or a function reference
// onto the stack; see foldConst's doc comment for why globals are inlined
// rather than loaded from storage.
func (e *emitter) emitConstRef(b *builder, expr ir.Expr) {
	switch v := expr.(type) {
	case *ir.FuncRefExpr:
		if idx, ok := e.funcIndex[v.Name]; ok {
			b.opImm32(OpPushConst, e.constant(IntValue(int64(idx))))
			return
		}
		b.opImm32(OpPushConst, e.constant(UnitValue()))
	case *ir.GlobalExpr:
		if val, ok := e.globals[v.Name]; ok {
			b.opImm32(OpPushConst, e.constant(val))
			return
		}
		b.opImm32(OpPushConst, e.constant(UnitValue()))
	}
}

func (e *emitter) emitUnary(b *builder, v *ir.UnaryExpr) {
	e.emitExpr(b, v.Operand)
	t := v.Operand.Type()
	switch v.Op {
	case "-":
		if t.Kind == types.KInt {
			b.op(OpNegI)
		} else {
			b.op(OpNegF)
		}
	case "!":
		b.op(OpNot)
	case "+":
		// unary plus is a no-op at runtime
	}
}

func (e *emitter) emitBinary(b *builder, v *ir.BinaryExpr) {
	e.emitExpr(b, v.Left)

	if v.Op == "&&" {
		falseJump := b.reserveJump(OpJumpIfFalse)
		e.emitExpr(b, v.Right)
		endJump := b.reserveJump(OpJump)
		b.patchJump(falseJump)
		b.opImm32(OpPushConst, e.constant(BoolValue(false)))
		b.patchJump(endJump)
		return
	}
	if v.Op == "||" {
		trueJump := b.reserveJump(OpJumpIfTrue)
		e.emitExpr(b, v.Right)
		endJump := b.reserveJump(OpJump)
		b.patchJump(trueJump)
		b.opImm32(OpPushConst, e.constant(BoolValue(true)))
		b.patchJump(endJump)
		return
	}

	e.emitExpr(b, v.Right)
	lt := v.Left.Type()
	b.op(opForBinary(v.Op, lt))
}

func opForBinary(op string, lt *types.Type) Op {
	isFloat := lt.Kind == types.KFloat
	switch op {
	case "+":
		switch lt.Kind {
		case types.KFloat:
			return OpAddF
		case types.KString:
			return OpConcatStr
		case types.KArray:
			return OpConcatArr
		default:
			return OpAddI
		}
	case "-":
		if isFloat {
			return OpSubF
		}
		return OpSubI
	case "*":
		if isFloat {
			return OpMulF
		}
		return OpMulI
	case "/":
		if isFloat {
			return OpDivF
		}
		return OpDivI
	case "%":
		return OpModI
	case "<":
		if isFloat {
			return OpLtF
		}
		return OpLtI
	case "<=":
		if isFloat {
			return OpLeF
		}
		return OpLeI
	case ">":
		if isFloat {
			return OpGtF
		}
		return OpGtI
	case ">=":
		if isFloat {
			return OpGeF
		}
		return OpGeI
	case "==":
		switch lt.Kind {
		case types.KFloat:
			return OpEqF
		case types.KBool:
			return OpEqB
		case types.KString:
			return OpEqS
		default:
			return OpEqI
		}
	case "!=":
		switch lt.Kind {
		case types.KFloat:
			return OpNeF
		case types.KBool:
			return OpNeB
		case types.KString:
			return OpNeS
		default:
			return OpNeI
		}
	}
	return OpPop
}

func (e *emitter) emitCall(b *builder, v *ir.CallExpr) {
	for _, a := range v.Args {
		e.emitExpr(b, a)
	}
	if v.CalleeName != "" {
		b.opImm32x2(OpCall, int32(e.funcIndex[v.CalleeName]), int32(len(v.Args)))
		return
	}
	// A callee that is a FuncRefExpr is still called directly by its id.
	// Any other callee expression is evaluated after the arguments, leaving
	// its integer function id on top of the stack, and Call with func_id -1
	// tells the VM to pop that id and call it.
	if ref, ok := v.Callee.(*ir.FuncRefExpr); ok {
		b.opImm32x2(OpCall, int32(e.funcIndex[ref.Name]), int32(len(v.Args)))
		return
	}
	e.emitExpr(b, v.Callee)
	b.opImm32x2(OpCall, -1, int32(len(v.Args)))
}

func wireKey(v Value) string {
	switch v.Tag {
	case TagInt:
		return "i:" + itoa64(v.Int)
	case TagFloat:
		return "f:" + ftoa(v.Float)
	case TagBool:
		if v.Bool {
			return "b:1"
		}
		return "b:0"
	case TagString:
		return "s:" + v.Str
	case TagUnit:
		return "u"
	default:
		key := "a:" + itoa64(int64(len(v.Arr)))
		for _, el := range v.Arr {
			k := wireKey(el)
			key += "|" + itoa64(int64(len(k))) + ":" + k
		}
		return key
	}
}

func itoa64(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func ftoa(f float64) string {
	// The shortest round-trip form keeps distinct floats on distinct
	// constant-pool keys; disasm also prints this key for PushConst.
	return strconv.FormatFloat(f, 'g', -1, 64)
}
