package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skepa-lang/skepa/internal/report"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadResolvesCrossModuleImport(t *testing.T) {
	report.Init(report.LogLevelSilent)
	dir := t.TempDir()
	writeFile(t, dir, "math.sk", `
export { add };
fn add(a: Int, b: Int) -> Int { return a + b; }
`)
	entry := writeFile(t, dir, "main.sk", `
from math import add;
fn main() -> Int { return add(1, 2); }
`)

	g, err := Load(entry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(g.Modules) != 2 {
		t.Fatalf("modules = %d, want 2: %+v", len(g.Modules), g.Modules)
	}

	if err := ResolveExports(g); err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if err := ResolveImports(g); err != nil {
		t.Fatalf("ResolveImports: %v", err)
	}

	entryMod, ok := g.Lookup(g.Entry)
	if !ok {
		t.Fatal("entry module not found in graph")
	}
	if _, bound := entryMod.DirectBindings["add"]; !bound {
		t.Fatalf("expected `add` to be bound in main.sk's DirectBindings after import resolution, got: %+v", entryMod.DirectBindings)
	}
}

// loadRecovering mirrors internal/driver's loadGraph: Load's discovery pass
// raises E-MOD-* diagnostics by panicking (report.Raise), with no local
// recover, so a direct caller outside the driver must catch it itself.
func loadRecovering(t *testing.T, entry string) (g *Graph, loadErr error, raised *report.CompileError) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*report.CompileError)
			if !ok {
				panic(r)
			}
			raised = ce
		}
	}()
	g, loadErr = Load(entry)
	return
}

func TestLoadRejectsUnresolvableImport(t *testing.T) {
	report.Init(report.LogLevelSilent)
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.sk", `
import nowhere.nothing;
fn main() -> Int { return 0; }
`)
	_, err, raised := loadRecovering(t, entry)
	if err == nil && raised == nil {
		t.Fatal("expected an error for an import path with no matching file or folder module")
	}
	if raised != nil && raised.Label != "E-MOD-NOT-FOUND" {
		t.Fatalf("label = %s, want E-MOD-NOT-FOUND", raised.Label)
	}
}

func TestResolveExportsDetectsReexportCycle(t *testing.T) {
	report.Init(report.LogLevelSilent)
	dir := t.TempDir()
	writeFile(t, dir, "a.sk", `export * from b;`)
	writeFile(t, dir, "b.sk", `export * from a;`)
	entry := writeFile(t, dir, "main.sk", `
from a import anything;
fn main() -> Int { return 0; }
`)

	g, err, raised := loadRecovering(t, entry)
	if raised != nil {
		t.Fatalf("Load raised unexpectedly: %s: %s", raised.Label, raised.Message)
	}
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := ResolveExports(g); err == nil {
		t.Fatal("expected a cycle error from mutually re-exporting modules a and b")
	}
}
