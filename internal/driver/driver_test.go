package driver

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/skepa-lang/skepa/internal/config"
	"github.com/skepa-lang/skepa/internal/report"
)

// captureStdout swaps os.Stdout for a pipe for the duration of fn, since
// internal/vm's io builtins (internal/vm/builtin_io.go) write straight to
// the process's real stdout rather than through an injectable host.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestRunPrintsAndExitsZero exercises spec.md's own io.println("hi")
// example end to end through Run, mirroring the golden-fixture pattern
// original_source/skeparun/tests/e2e_golden.rs drives against real .sk
// files rather than only unit-testing individual phases.
func TestRunPrintsAndExitsZero(t *testing.T) {
	report.Init(report.LogLevelSilent)
	dir := t.TempDir()
	entry := writeFixture(t, dir, "hi.sk", `
import io;
fn main() -> Int {
	io.println("hi");
	return 0;
}
`)

	var exitCode int
	var res Result
	stdout := captureStdout(t, func() {
		exitCode, res = Run(entry, config.Default())
	})
	if !res.OK {
		t.Fatalf("Run failed with exit code %d, diagnostics: %+v", res.ExitCode, report.Diagnostics())
	}
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0", exitCode)
	}
	if stdout != "hi\n" {
		t.Fatalf("stdout = %q, want %q", stdout, "hi\n")
	}
}

// TestBuildThenRunBCMatchesRun checks spec.md §8's round-trip property:
// compiling to a .skbc image and executing it with RunBC must observe the
// same exit code as compiling and running the same source in-memory with
// Run.
func TestBuildThenRunBCMatchesRun(t *testing.T) {
	report.Init(report.LogLevelSilent)
	dir := t.TempDir()
	entry := writeFixture(t, dir, "add.sk", `
fn add(a: Int, b: Int) -> Int { return a + b; }
fn main() -> Int {
	return add(19, 23);
}
`)

	report.Init(report.LogLevelSilent)
	runExit, runRes := Run(entry, config.Default())
	if !runRes.OK {
		t.Fatalf("Run failed with exit code %d, diagnostics: %+v", runRes.ExitCode, report.Diagnostics())
	}

	out := filepath.Join(dir, "add.skbc")
	report.Init(report.LogLevelSilent)
	buildRes := Build(entry, out)
	if !buildRes.OK {
		t.Fatalf("Build failed with exit code %d, diagnostics: %+v", buildRes.ExitCode, report.Diagnostics())
	}

	report.Init(report.LogLevelSilent)
	bcExit, bcRes := RunBC(out, config.Default())
	if !bcRes.OK {
		t.Fatalf("RunBC failed with exit code %d, diagnostics: %+v", bcRes.ExitCode, report.Diagnostics())
	}

	if runExit != 42 || bcExit != 42 {
		t.Fatalf("exit codes = %d (run), %d (run-bc), want 42 for both", runExit, bcExit)
	}
}

// TestBuildIsDeterministic exercises spec.md §4.5's determinism
// requirement: compiling the same source twice must byte-for-byte
// reproduce the same .skbc image (name-sorted struct/function tables and a
// constant pool filled in first-use order give the emitter nothing to vary
// run to run).
func TestBuildIsDeterministic(t *testing.T) {
	report.Init(report.LogLevelSilent)
	dir := t.TempDir()
	entry := writeFixture(t, dir, "main.sk", `
struct Point { x: Int, y: Int }
fn dist(p: Point) -> Int { return p.x + p.y; }
fn main() -> Int { return dist(Point { x: 3, y: 4 }); }
`)

	out1 := filepath.Join(dir, "one.skbc")
	out2 := filepath.Join(dir, "two.skbc")

	report.Init(report.LogLevelSilent)
	if res := Build(entry, out1); !res.OK {
		t.Fatalf("first Build failed: %+v", report.Diagnostics())
	}
	report.Init(report.LogLevelSilent)
	if res := Build(entry, out2); !res.OK {
		t.Fatalf("second Build failed: %+v", report.Diagnostics())
	}

	data1, err := os.ReadFile(out1)
	if err != nil {
		t.Fatal(err)
	}
	data2, err := os.ReadFile(out2)
	if err != nil {
		t.Fatal(err)
	}
	if string(data1) != string(data2) {
		t.Fatal("two builds of the same source produced different .skbc images")
	}
}

// TestRunExitCodeContract checks spec.md §6.1's phase/exit-code mapping
// for a parse failure (10), a sema failure (11), and a runtime trap (14).
func TestRunExitCodeContract(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		wantCode int
	}{
		{"parse error", "fn main() -> Int { return 0 }", report.ExitCodeForPhase(report.PhaseParse)},
		{"sema error", "fn main() -> Int { return true; }", report.ExitCodeForPhase(report.PhaseSema)},
		{"vm trap", `
fn main() -> Int {
	let z: Int = 0;
	return 10 / z;
}
`, report.ExitCodeForPhase(report.PhaseVM)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			report.Init(report.LogLevelSilent)
			dir := t.TempDir()
			entry := writeFixture(t, dir, "main.sk", c.src)

			_, res := Run(entry, config.Default())
			if res.OK {
				t.Fatalf("expected failure, got exit code 0")
			}
			if res.ExitCode != c.wantCode {
				t.Fatalf("exit code = %d, want %d", res.ExitCode, c.wantCode)
			}
		})
	}
}

// TestRunShortCircuitSkipsSideEffect checks that `&&` short-circuits
// (spec.md §4.4) by observing that the right-hand side's io.println never
// runs when the left-hand side already determines the result.
func TestRunShortCircuitSkipsSideEffect(t *testing.T) {
	report.Init(report.LogLevelSilent)
	dir := t.TempDir()
	entry := writeFixture(t, dir, "main.sk", `
import io;
fn sideEffect() -> Bool {
	io.println("evaluated");
	return true;
}
fn main() -> Int {
	if false && sideEffect() {
		return 1;
	}
	return 0;
}
`)

	var exitCode int
	var res Result
	stdout := captureStdout(t, func() {
		exitCode, res = Run(entry, config.Default())
	})
	if !res.OK {
		t.Fatalf("Run failed: %+v", report.Diagnostics())
	}
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0", exitCode)
	}
	if stdout != "" {
		t.Fatalf("stdout = %q, want empty: sideEffect() must not run when && short-circuits", stdout)
	}
}
