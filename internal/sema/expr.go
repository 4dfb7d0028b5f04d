package sema

import (
	"strings"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/module"
	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/types"
)

var fnLitCounter int

func (a *Analyzer) walkExpr(e ast.Expr) ir.Expr {
	switch v := e.(type) {
	case *ast.IntLit:
		return &ir.IntLit{Value: v.Value}
	case *ast.FloatLit:
		return &ir.FloatLit{Value: v.Value}
	case *ast.BoolLit:
		return &ir.BoolLit{Value: v.Value}
	case *ast.StringLit:
		return &ir.StringLit{Value: v.Value}
	case *ast.GroupExpr:
		return a.walkExpr(v.Inner)
	case *ast.IdentExpr:
		return a.walkIdent(v)
	case *ast.UnaryExpr:
		operand := a.walkExpr(v.Operand)
		return &ir.UnaryExpr{Op: v.Op, Operand: operand, Typ: a.checkUnary(v.Op, operand, v)}
	case *ast.BinaryExpr:
		left := a.walkExpr(v.Left)
		right := a.walkExpr(v.Right)
		return &ir.BinaryExpr{Op: v.Op, Left: left, Right: right, Typ: a.checkBinary(v.Op, left, right, v)}
	case *ast.CallExpr:
		return a.walkCall(v)
	case *ast.FieldExpr:
		return a.walkField(v)
	case *ast.IndexExpr:
		return a.walkIndex(v)
	case *ast.ArrayLit:
		return a.walkArrayLit(v)
	case *ast.ArrayRepeatLit:
		elem := a.walkExpr(v.Elem)
		return &ir.ArrayRepeatExpr{Elem: elem, Length: v.Length, Typ: types.Array(elem.Type(), v.Length)}
	case *ast.StructLit:
		return a.walkStructLit(v)
	case *ast.FnLit:
		return a.walkFnLit(v)
	default:
		a.errorf(e.Position(), "unsupported expression")
		return &ir.IntLit{}
	}
}

// namespaceTarget resolves a bare identifier used as the target of a field
// access to the module id (or builtin namespace prefix) it is bound to, if
// it is bound to a namespace at all.
func (a *Analyzer) namespaceTarget(name string) (string, bool) {
	if _, isLocal := a.lookupLocal(name); isLocal {
		return "", false
	}
	if target, ok := a.mod.Namespaces[name]; ok {
		return target, true
	}
	return "", false
}

func (a *Analyzer) walkIdent(v *ast.IdentExpr) ir.Expr {
	if lv, ok := a.lookupLocal(v.Name); ok {
		return &ir.LocalExpr{Slot: lv.slot, Typ: lv.typ}
	}

	if _, isNS := a.mod.Namespaces[v.Name]; isNS {
		a.errorf(v.Span, "`%s` is a module or package, not a value", v.Name)
		return &ir.IntLit{}
	}

	if sym, ok := a.mod.DirectBindings[v.Name]; ok {
		return a.symbolAsExpr(sym, v.Span)
	}

	if sym, ok := a.mod.Local[v.Name]; ok {
		return a.symbolAsExpr(sym, v.Span)
	}

	a.errorf(v.Span, "undefined symbol `%s`", v.Name)
	return &ir.IntLit{}
}

func (a *Analyzer) symbolAsExpr(sym *module.Symbol, span *report.Span) ir.Expr {
	_ = span
	switch sym.Kind {
	case module.SymFunc:
		return &ir.FuncRefExpr{Name: qualify(sym.ModuleID, sym.Name), Typ: a.funcValueType(sym)}
	case module.SymLet:
		return &ir.GlobalExpr{Name: qualify(sym.ModuleID, sym.Name), Typ: a.globals[qualify(sym.ModuleID, sym.Name)]}
	default:
		a.errorf(nil, "`%s` cannot be used as a value", sym.Name)
		return &ir.IntLit{}
	}
}

func (a *Analyzer) funcValueType(sym *module.Symbol) *types.Type {
	sig := a.funcs[qualify(sym.ModuleID, sym.Name)]
	if sig == nil {
		return types.Fn(nil, types.Void())
	}
	return types.Fn(sig.params, sig.ret)
}

// walkField resolves `target.field` as either a namespace member access
// (an exported global or function value, or a builtin reference used as a
// bare value — rejected, builtins are call-only) or a struct field read.
func (a *Analyzer) walkField(v *ast.FieldExpr) ir.Expr {
	if ident, ok := v.Target.(*ast.IdentExpr); ok {
		if target, isNS := a.namespaceTarget(ident.Name); isNS {
			return a.resolveNamespaceMember(target, ident.Name, v.Field, v.Span)
		}
	}

	target := a.walkExpr(v.Target)
	if target.Type().Kind != types.KNamed {
		a.errorf(v.Span, "field access requires a struct value, got %s", target.Type().Repr())
		return &ir.IntLit{}
	}

	info, ok := a.structs[qualify(target.Type().ModuleID, target.Type().StructName)]
	if !ok {
		a.errorf(v.Span, "unknown struct type %s", target.Type().Repr())
		return &ir.IntLit{}
	}
	for _, f := range info.fields {
		if f.Name == v.Field {
			return &ir.FieldExpr{Target: target, Field: v.Field, Typ: f.Type}
		}
	}
	a.errorf(v.Span, "struct %s has no field `%s`", target.Type().Repr(), v.Field)
	return &ir.IntLit{}
}

func (a *Analyzer) resolveNamespaceMember(target, nsName, field string, span *report.Span) ir.Expr {
	if strings.HasPrefix(target, module.BuiltinNamespacePrefix) {
		a.errorf(span, "built-in `%s.%s` can only be used as a call", nsName, field)
		return &ir.IntLit{}
	}

	mod, ok := a.graph.Lookup(target)
	if !ok {
		a.errorf(span, "undefined module `%s`", nsName)
		return &ir.IntLit{}
	}
	sym, ok := mod.Exports[field]
	if !ok {
		a.errorf(span, "module `%s` does not export `%s`", nsName, field)
		return &ir.IntLit{}
	}
	return a.symbolAsExpr(sym, nil)
}

func (a *Analyzer) walkIndex(v *ast.IndexExpr) ir.Expr {
	target := a.walkExpr(v.Target)
	index := a.walkExpr(v.Index)

	if target.Type().Kind != types.KArray && target.Type().Kind != types.KVec {
		a.errorf(v.Span, "cannot index into %s", target.Type().Repr())
		return &ir.IntLit{}
	}
	if index.Type().Kind != types.KInt {
		a.errorf(v.Span, "index must be Int, got %s", index.Type().Repr())
	}
	return &ir.IndexExpr{Target: target, Index: index, Typ: target.Type().Elem}
}

func (a *Analyzer) walkArrayLit(v *ast.ArrayLit) ir.Expr {
	elems := make([]ir.Expr, len(v.Elems))
	var elemType *types.Type
	for i, e := range v.Elems {
		elems[i] = a.walkExpr(e)
		if elemType == nil {
			elemType = elems[i].Type()
		} else if !types.Equal(elemType, elems[i].Type()) {
			a.errorf(e.Position(), "array element type %s does not match preceding element type %s", elems[i].Type().Repr(), elemType.Repr())
		}
	}
	if elemType == nil {
		a.errorf(v.Span, "cannot infer type of empty array literal")
		elemType = types.Void()
	}
	return &ir.ArrayLit{Elems: elems, Typ: types.Array(elemType, len(elems))}
}

func (a *Analyzer) walkStructLit(v *ast.StructLit) ir.Expr {
	sym, ok := a.mod.Local[v.StructName]
	if !ok {
		if db, dok := a.mod.DirectBindings[v.StructName]; dok {
			sym, ok = db, true
		}
	}
	if !ok || sym.Kind != module.SymStruct {
		a.errorf(v.Span, "undefined struct `%s`", v.StructName)
		return &ir.IntLit{}
	}

	info := a.structs[qualify(sym.ModuleID, sym.Name)]
	seen := map[string]bool{}
	fields := make([]ir.StructFieldInit, 0, len(v.Fields))
	for _, init := range v.Fields {
		if seen[init.Name] {
			a.errorf(v.Span, "duplicate field `%s` in struct literal", init.Name)
			continue
		}
		seen[init.Name] = true

		var fieldType *types.Type
		for _, f := range info.fields {
			if f.Name == init.Name {
				fieldType = f.Type
				break
			}
		}
		if fieldType == nil {
			a.errorf(v.Span, "struct `%s` has no field `%s`", v.StructName, init.Name)
			continue
		}

		val := a.walkExpr(init.Value)
		if !types.Equal(val.Type(), fieldType) {
			a.errorf(init.Value.Position(), "field `%s` expects %s, got %s", init.Name, fieldType.Repr(), val.Type().Repr())
		}
		fields = append(fields, ir.StructFieldInit{Name: init.Name, Value: val})
	}

	for _, f := range info.fields {
		if !seen[f.Name] {
			a.errorf(v.Span, "struct literal for `%s` is missing field `%s`", v.StructName, f.Name)
		}
	}

	return &ir.StructLit{StructName: sym.Name, ModuleID: sym.ModuleID, Fields: fields, Typ: types.Named(sym.ModuleID, sym.Name)}
}

// walkFnLit walks a non-capturing function literal: its body is walked
// with a freshly isolated scope stack so that referencing any enclosing
// local is structurally impossible, enforcing spec.md §4.4's
// non-capturing rule by construction rather than by a separate check.
func (a *Analyzer) walkFnLit(v *ast.FnLit) ir.Expr {
	savedScopes, savedRet, savedDepth, savedSlot := a.localScopes, a.enclosingReturnType, a.loopDepth, a.nextSlot

	params := make([]*types.Type, len(v.Params))
	for i, p := range v.Params {
		params[i] = a.resolveType(a.mod, p.Type)
	}
	ret := types.Void()
	if v.Return != nil {
		ret = a.resolveType(a.mod, v.Return)
	}

	a.localScopes = nil
	a.enclosingReturnType = ret
	a.loopDepth = 0
	a.nextSlot = 0
	a.pushScope()

	irParams := make([]ir.Param, len(v.Params))
	for i, p := range v.Params {
		lv := a.defineLocal(p.Name, params[i], v.Span)
		irParams[i] = ir.Param{Name: p.Name, Type: params[i], Slot: lv.slot}
	}

	body := a.walkBlock(v.Body)
	if ret.Kind != types.KVoid && !blockReturnsOnAllPaths(body) {
		a.errorf(v.Span, "function literal must return a value of type %s on every path", ret.Repr())
	}

	fnLitCounter++
	name := qualify(a.mod.ID, "$fnlit") + "$" + itoa(fnLitCounter)
	a.prog.Functions = append(a.prog.Functions, &ir.Function{
		Name: name, Params: irParams, Return: ret, NumLocals: a.nextSlot, Body: body,
	})

	a.localScopes, a.enclosingReturnType, a.loopDepth, a.nextSlot = savedScopes, savedRet, savedDepth, savedSlot

	return &ir.FuncRefExpr{Name: name, Typ: types.Fn(params, ret)}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

