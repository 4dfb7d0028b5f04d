package report

import "fmt"

// CompileError is a recoverable per-phase diagnostic raised by panic and
// caught by CatchErrors, the idiom the parser uses to unwind to its next
// recovery point without threading an error return through every call.
type CompileError struct {
	Label   string
	Span    *Span
	Message string
}

func (e *CompileError) Error() string {
	return e.Message
}

// Raise constructs and panics with a CompileError.  Callers that want to
// recover at a known boundary should defer CatchErrors.
func Raise(label string, span *Span, format string, args ...interface{}) {
	panic(&CompileError{Label: label, Span: span, Message: fmt.Sprintf(format, args...)})
}

// CatchErrors recovers a panicked CompileError emitted via Raise and records
// it as a diagnostic of the given phase.  Any other recovered value is
// treated as an internal compiler error.  Must always be deferred.
func CatchErrors(phase int) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*CompileError); ok {
			Error(phase, cerr.Label, cerr.Span, cerr.Message)
		} else if err, ok := x.(error); ok {
			ICE("unexpected error: %s", err.Error())
		} else {
			ICE("unexpected panic: %v", x)
		}
	}
}

// Error records an error-level diagnostic for the given phase.
func Error(phase int, label string, span *Span, format string, args ...interface{}) {
	if rep == nil {
		Init(LogLevelVerbose)
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.errPhase == -1 {
		rep.errPhase = phase
	}

	d := Diagnostic{Phase: phase, Label: label, Span: span, Message: fmt.Sprintf(format, args...), IsError: true}
	rep.diags = append(rep.diags, d)

	if rep.logLevel > LogLevelSilent {
		displayDiagnostic(d)
	}
}

// Warn records a warning-level diagnostic for the given phase.
func Warn(phase int, label string, span *Span, format string, args ...interface{}) {
	if rep == nil {
		Init(LogLevelVerbose)
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	d := Diagnostic{Phase: phase, Label: label, Span: span, Message: fmt.Sprintf(format, args...), IsError: false}
	rep.diags = append(rep.diags, d)

	if rep.logLevel > LogLevelWarn {
		displayDiagnostic(d)
	}
}

// ICE reports an internal compiler error: a bug, not user-induced bad input.
// It always displays regardless of log level and terminates the process.
func ICE(format string, args ...interface{}) {
	displayICE(fmt.Sprintf(format, args...))
	panic("internal compiler error")
}
