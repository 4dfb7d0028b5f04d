package parser

import (
	"strings"
	"testing"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/report"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	report.Init(report.LogLevelSilent)
	return ParseFile("test.sk", strings.NewReader(src))
}

func TestParseFuncDecl(t *testing.T) {
	f := parse(t, `fn main() -> Int { return 42; }`)
	if !report.ShouldProceed() {
		t.Fatalf("unexpected parse errors: %+v", report.Diagnostics())
	}
	if len(f.Decls) != 1 {
		t.Fatalf("decls = %d, want 1", len(f.Decls))
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("decl type = %T, want *ast.FuncDecl", f.Decls[0])
	}
	if fn.Name != "main" || len(fn.Params) != 0 || len(fn.Body) != 1 {
		t.Fatalf("unexpected FuncDecl shape: %+v", fn)
	}
}

func TestParseFuncWithParamsAndBinaryExpr(t *testing.T) {
	f := parse(t, `fn add(a: Int, b: Int) -> Int { return a + b * 2; }`)
	if !report.ShouldProceed() {
		t.Fatalf("unexpected parse errors: %+v", report.Diagnostics())
	}
	fn := f.Decls[0].(*ast.FuncDecl)
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.ReturnStmt", fn.Body[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("return value = %T, want *ast.BinaryExpr (precedence: + should be outermost)", ret.Value)
	}
	if bin.Op != "+" {
		t.Fatalf("outer op = %q, want %q (multiplication should bind tighter)", bin.Op, "+")
	}
	if _, ok := bin.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("right operand of + should itself be the b*2 BinaryExpr, got %T", bin.Right)
	}
}

func TestParseStructAndFieldAccess(t *testing.T) {
	f := parse(t, `
struct Point { x: Int, y: Int }
fn main() -> Int { let p = Point { x: 1, y: 2 }; return p.x; }
`)
	if !report.ShouldProceed() {
		t.Fatalf("unexpected parse errors: %+v", report.Diagnostics())
	}
	if len(f.Decls) != 2 {
		t.Fatalf("decls = %d, want 2", len(f.Decls))
	}
	sd, ok := f.Decls[0].(*ast.StructDecl)
	if !ok || sd.Name != "Point" || len(sd.Fields) != 2 {
		t.Fatalf("unexpected StructDecl: %+v", f.Decls[0])
	}
}

func TestParseImportForms(t *testing.T) {
	f := parse(t, `
import utils.math;
import utils.io as io;
from utils.math import add, sub as subtract;
from utils.math import *;
fn main() -> Int { return 0; }
`)
	if !report.ShouldProceed() {
		t.Fatalf("unexpected parse errors: %+v", report.Diagnostics())
	}
	if len(f.Decls) != 5 {
		t.Fatalf("decls = %d, want 5", len(f.Decls))
	}
	star := f.Decls[3].(*ast.ImportDecl)
	if !star.IsFrom || !star.IsStar {
		t.Fatalf("expected from-import-star, got %+v", star)
	}
}

func TestParseRecoversFromErrorToNextDecl(t *testing.T) {
	// A malformed first declaration should not prevent the second,
	// well-formed one from being recovered and parsed (spec.md §4.2's
	// synchronize-to-next-top-level-boundary rule).
	f := parse(t, `
fn broken( { ; }
fn ok() -> Int { return 1; }
`)
	if report.ShouldProceed() {
		t.Fatal("expected a parse error to be reported for the malformed declaration")
	}
	found := false
	for _, d := range f.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected recovery to still parse the well-formed 'ok' function, got decls: %+v", f.Decls)
	}
}
