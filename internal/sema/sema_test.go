package sema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skepa-lang/skepa/internal/ir"
	"github.com/skepa-lang/skepa/internal/module"
	"github.com/skepa-lang/skepa/internal/report"
)

func loadAndAnalyze(t *testing.T, dir, entryRelPath string) (*ir.Program, error) {
	t.Helper()
	report.Init(report.LogLevelSilent)
	entry := filepath.Join(dir, entryRelPath)

	g, err := module.Load(entry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := module.ResolveExports(g); err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if err := module.ResolveImports(g); err != nil {
		t.Fatalf("ResolveImports: %v", err)
	}
	return Analyze(g)
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzeSimpleMain(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.sk", `fn main() -> Int { return 42; }`)

	prog, err := loadAndAnalyze(t, dir, "main.sk")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !report.ShouldProceed() {
		t.Fatalf("unexpected sema errors: %+v", report.Diagnostics())
	}
	if len(prog.Functions) != 1 || prog.Functions[0].Name == "" {
		t.Fatalf("unexpected function table: %+v", prog.Functions)
	}
}

func TestAnalyzeRejectsWrongMainSignature(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.sk", `fn main(x: Int) -> Int { return x; }`)

	loadAndAnalyze(t, dir, "main.sk")
	if report.ShouldProceed() {
		t.Fatal("expected an E-SEMA diagnostic for a main() with parameters")
	}
}

func TestAnalyzeRejectsTypeMismatch(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.sk", `
fn main() -> Int {
	let x: Int = true;
	return x;
}
`)
	loadAndAnalyze(t, dir, "main.sk")
	if report.ShouldProceed() {
		t.Fatal("expected an E-SEMA diagnostic for binding a Bool literal to an Int-typed let")
	}
}

func TestAnalyzeRejectsMissingReturnOnAllPaths(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "main.sk", `
fn f(x: Int) -> Int {
	if x > 0 {
		return x;
	}
}
fn main() -> Int { return f(1); }
`)
	loadAndAnalyze(t, dir, "main.sk")
	if report.ShouldProceed() {
		t.Fatal("expected an E-SEMA diagnostic: f does not return on every path")
	}
}

func TestAnalyzeAcceptsCrossModuleCall(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "math.sk", `
export { add };
fn add(a: Int, b: Int) -> Int { return a + b; }
`)
	write(t, dir, "main.sk", `
from math import add;
fn main() -> Int { return add(1, 2); }
`)
	_, err := loadAndAnalyze(t, dir, "main.sk")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !report.ShouldProceed() {
		t.Fatalf("unexpected sema errors: %+v", report.Diagnostics())
	}
}
