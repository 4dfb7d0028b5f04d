package sema

import (
	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/builtins"
	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/module"
	"github.com/skepa-lang/skepa/internal/types"
)

func (a *Analyzer) walkCall(v *ast.CallExpr) ir.Expr {
	if field, ok := v.Callee.(*ast.FieldExpr); ok {
		if ident, isIdent := field.Target.(*ast.IdentExpr); isIdent {
			if target, isNS := a.namespaceTarget(ident.Name); isNS {
				if ns, isBuiltin := stripBuiltin(target); isBuiltin {
					return a.walkBuiltinCall(ns, field.Field, v)
				}
				return a.walkModuleFuncCall(target, ident.Name, field.Field, v)
			}
		}

		// Method call: target is an ordinary value expression.
		recv := a.walkExpr(field.Target)
		return a.walkMethodCall(recv, field.Field, v)
	}

	if ident, ok := v.Callee.(*ast.IdentExpr); ok {
		if _, isLocal := a.lookupLocal(ident.Name); !isLocal {
			if sym, bound := a.resolveBareFuncSymbol(ident.Name); bound {
				sig := a.funcs[qualify(sym.ModuleID, sym.Name)]
				if sig != nil {
					args := a.checkArgs(v.Args, sig.params, v)
					return &ir.CallExpr{CalleeName: sig.qualified, Args: args, Typ: sig.ret}
				}
			}
		}
	}

	callee := a.walkExpr(v.Callee)
	if callee.Type().Kind != types.KFn {
		a.errorf(v.Span, "cannot call a value of type %s", callee.Type().Repr())
		return &ir.IntLit{}
	}
	args := a.checkArgs(v.Args, callee.Type().Params, v)
	return &ir.CallExpr{Callee: callee, Args: args, Typ: callee.Type().Return}
}

func stripBuiltin(target string) (string, bool) {
	if len(target) > len(module.BuiltinNamespacePrefix) && target[:len(module.BuiltinNamespacePrefix)] == module.BuiltinNamespacePrefix {
		return target[len(module.BuiltinNamespacePrefix):], true
	}
	return "", false
}

func (a *Analyzer) resolveBareFuncSymbol(name string) (*module.Symbol, bool) {
	if sym, ok := a.mod.DirectBindings[name]; ok && sym.Kind == module.SymFunc {
		return sym, true
	}
	if sym, ok := a.mod.Local[name]; ok && sym.Kind == module.SymFunc {
		return sym, true
	}
	return nil, false
}

func (a *Analyzer) walkModuleFuncCall(targetModuleID, nsName, field string, v *ast.CallExpr) ir.Expr {
	target, ok := a.graph.Lookup(targetModuleID)
	if !ok {
		a.errorf(v.Span, "undefined module `%s`", nsName)
		return &ir.IntLit{}
	}
	sym, ok := target.Exports[field]
	if !ok || sym.Kind != module.SymFunc {
		a.errorf(v.Span, "module `%s` does not export a function `%s`", nsName, field)
		return &ir.IntLit{}
	}
	sig := a.funcs[qualify(sym.ModuleID, sym.Name)]
	if sig == nil {
		return &ir.IntLit{}
	}
	args := a.checkArgs(v.Args, sig.params, v)
	return &ir.CallExpr{CalleeName: sig.qualified, Args: args, Typ: sig.ret}
}

func (a *Analyzer) walkMethodCall(recv ir.Expr, method string, v *ast.CallExpr) ir.Expr {
	if recv.Type().Kind != types.KNamed {
		a.errorf(v.Span, "cannot call method `%s` on non-struct type %s", method, recv.Type().Repr())
		return &ir.IntLit{}
	}

	sig := a.methods[qualify(recv.Type().ModuleID, recv.Type().StructName)+"."+method]
	if sig == nil {
		a.errorf(v.Span, "struct %s has no method `%s`", recv.Type().Repr(), method)
		return &ir.IntLit{}
	}

	args := a.checkArgs(v.Args, sig.params[1:], v)
	allArgs := append([]ir.Expr{recv}, args...)
	qualifiedName := qualify(sig.moduleID, sig.structName) + "." + sig.decl.Name
	return &ir.CallExpr{CalleeName: qualifiedName, Args: allArgs, Typ: sig.ret}
}

func (a *Analyzer) checkArgs(argExprs []ast.Expr, params []*types.Type, v *ast.CallExpr) []ir.Expr {
	args := make([]ir.Expr, len(argExprs))
	for i, ae := range argExprs {
		args[i] = a.walkExpr(ae)
	}
	if len(args) != len(params) {
		a.errorf(v.Span, "expected %d argument(s), got %d", len(params), len(args))
		return args
	}
	for i, p := range params {
		if !types.Equal(p, args[i].Type()) {
			a.errorf(argExprs[i].Position(), "argument %d: expected %s, got %s", i+1, p.Repr(), args[i].Type().Repr())
		}
	}
	return args
}

// walkBuiltinCall type-checks a call to a built-in package member
// (`io.println(...)`, `arr.len(...)`, etc.) against its
// internal/builtins.Signature, per spec.md §6.4.
func (a *Analyzer) walkBuiltinCall(pkg, field string, v *ast.CallExpr) ir.Expr {
	sig, ok := builtins.ByName[pkg+"."+field]
	if !ok {
		a.errorf(v.Span, "unknown built-in `%s.%s`", pkg, field)
		return &ir.IntLit{}
	}

	args := make([]ir.Expr, len(v.Args))
	for i, ae := range v.Args {
		args[i] = a.walkExpr(ae)
	}

	switch sig.Shape {
	case builtins.Fixed:
		if len(args) != len(sig.Params) {
			a.errorf(v.Span, "`%s.%s` expects %d argument(s), got %d", pkg, field, len(sig.Params), len(args))
			break
		}
		for i, p := range sig.Params {
			if !types.Equal(p, args[i].Type()) {
				a.errorf(v.Args[i].Position(), "`%s.%s` argument %d: expected %s, got %s", pkg, field, i+1, p.Repr(), args[i].Type().Repr())
			}
		}
	case builtins.Variadic:
		if len(args) < sig.MinArgs {
			a.errorf(v.Span, "`%s.%s` expects at least %d argument(s), got %d", pkg, field, sig.MinArgs, len(args))
			break
		}
		if len(args) > 0 {
			if args[0].Type().Kind != types.KString {
				a.errorf(v.Args[0].Position(), "`%s.%s` format argument must be a String", pkg, field)
			} else if lit, isLit := args[0].(*ir.StringLit); isLit {
				a.checkFormatArgs(lit.Value, args[1:], v, pkg, field)
			}
			// Non-literal format string: variadic argument types are not
			// checked further, per spec.md §6.4.
		}
	case builtins.Polymorphic:
		a.checkPolymorphicBuiltin(sig, args, v, pkg, field)
	}

	return &ir.BuiltinCallExpr{BuiltinID: sig.ID, Name: sig.QualifiedName(), Args: args, Typ: sig.Return}
}

// checkFormatArgs validates a literal format string's `%d %f %s %b %%`
// specifiers against the supplied variadic arguments, per spec.md §6.4.
func (a *Analyzer) checkFormatArgs(format string, args []ir.Expr, v *ast.CallExpr, pkg, field string) {
	argIdx := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			continue
		}
		spec := format[i+1]
		i++
		if spec == '%' {
			continue
		}
		if argIdx >= len(args) {
			a.errorf(v.Span, "`%s.%s` format string expects more arguments than were supplied", pkg, field)
			return
		}
		var want *types.Type
		switch spec {
		case 'd':
			want = types.Int()
		case 'f':
			want = types.Float()
		case 's':
			want = types.String()
		case 'b':
			want = types.Bool()
		default:
			a.errorf(v.Span, "`%s.%s` unknown format specifier `%%%c`", pkg, field, spec)
			argIdx++
			continue
		}
		if !types.Equal(want, args[argIdx].Type()) {
			a.errorf(v.Span, "`%s.%s` format specifier `%%%c` expects %s, got %s", pkg, field, spec, want.Repr(), args[argIdx].Type().Repr())
		}
		argIdx++
	}
	if argIdx != len(args) {
		a.errorf(v.Span, "`%s.%s` format string does not match supplied argument count", pkg, field)
	}
}

// checkPolymorphicBuiltin validates the arr/vec family, whose first
// argument is an Array/Vec receiver and whose
// element type (for arr/vec) substitutes into the declared return shape.
func (a *Analyzer) checkPolymorphicBuiltin(sig *builtins.Signature, args []ir.Expr, v *ast.CallExpr, pkg, field string) {
	if len(args) < sig.MinArgs {
		a.errorf(v.Span, "`%s.%s` expects at least %d argument(s), got %d", pkg, field, sig.MinArgs, len(args))
		return
	}

	if pkg == "vec" {
		a.checkVecBuiltin(sig, args, v)
		return
	}

	// arr.* builtins: args[0] must be an Array.
	if len(args) == 0 || args[0].Type().Kind != types.KArray {
		a.errorf(v.Span, "`%s.%s` expects an array receiver", pkg, field)
		return
	}
	elem := args[0].Type().Elem

	switch sig.ID {
	case builtins.ArrContains, builtins.ArrIndexOf, builtins.ArrCount:
		if len(args) > 1 && !types.Equal(args[1].Type(), elem) {
			a.errorf(v.Span, "`%s.%s` expects an element of type %s", pkg, field, elem.Repr())
		}
	case builtins.ArrJoin:
		if elem.Kind != types.KString {
			a.errorf(v.Span, "`%s.%s` requires an array of String", pkg, field)
		}
		if len(args) > 1 && args[1].Type().Kind != types.KString {
			a.errorf(v.Span, "`%s.%s` separator must be a String", pkg, field)
		}
	case builtins.ArrSum, builtins.ArrMin, builtins.ArrMax, builtins.ArrSort:
		if elem.Kind != types.KInt && elem.Kind != types.KFloat {
			a.errorf(v.Span, "`%s.%s` requires an array of Int or Float", pkg, field)
		}
	case builtins.ArrSlice:
		if len(args) == 3 && (args[1].Type().Kind != types.KInt || args[2].Type().Kind != types.KInt) {
			a.errorf(v.Span, "`%s.%s` bounds must be Int", pkg, field)
		}
	}
}

func (a *Analyzer) checkVecBuiltin(sig *builtins.Signature, args []ir.Expr, v *ast.CallExpr) {
	if sig.ID == builtins.VecNew {
		return
	}
	if len(args) == 0 || args[0].Type().Kind != types.KVec {
		a.errorf(v.Span, "`vec.%s` expects a Vec receiver", sig.Name)
		return
	}
	elem := args[0].Type().Elem

	switch sig.ID {
	case builtins.VecPush, builtins.VecSet:
		last := len(args) - 1
		if last >= 1 && !types.Equal(args[last].Type(), elem) {
			a.errorf(v.Span, "`vec.%s` expects an element of type %s", sig.Name, elem.Repr())
		}
	case builtins.VecGet:
		if len(args) > 1 && args[1].Type().Kind != types.KInt {
			a.errorf(v.Span, "`vec.get` index must be Int")
		}
	}
}
