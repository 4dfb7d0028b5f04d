package report

import "sync"

// Enumeration of log levels, lowest to highest verbosity.
const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelWarn
	LogLevelVerbose
)

// Enumeration of compiler phases.  Each phase maps to the exit code spec.md
// §6.1 assigns it when the phase fails to proceed.
const (
	PhaseIO = iota
	PhaseParse
	PhaseModule
	PhaseSema
	PhaseCodegen
	PhaseBytecodeDecode
	PhaseVM
)

// ExitCodeForPhase returns the process exit code associated with a failed
// phase, per spec.md §6.1.
func ExitCodeForPhase(phase int) int {
	switch phase {
	case PhaseIO:
		return 3
	case PhaseParse:
		return 10
	case PhaseModule:
		return 10
	case PhaseSema:
		return 11
	case PhaseCodegen:
		return 12
	case PhaseBytecodeDecode:
		return 13
	case PhaseVM:
		return 14
	default:
		return 1
	}
}

// Diagnostic is a single reported compile-time message.
type Diagnostic struct {
	Phase   int
	Label   string // e.g. "E-PARSE", "E-SEMA", "E-MOD-CYCLE"
	Span    *Span
	Message string
	IsError bool
}

// Reporter accumulates diagnostics for one compilation run and is safe for
// concurrent use, mirroring the teacher's mutex-guarded global reporter.
type Reporter struct {
	m        sync.Mutex
	logLevel int
	diags    []Diagnostic
	errPhase int // phase of the first error reported, -1 if none
}

var rep *Reporter

// Init initializes the global reporter.  Re-initializing replaces any prior
// accumulated diagnostics, which the driver does once per CLI invocation.
func Init(logLevel int) {
	rep = &Reporter{logLevel: logLevel, errPhase: -1}
}

// ShouldProceed reports whether no error-level diagnostic has been recorded
// yet, used by each phase to decide whether to continue to the next one.
func ShouldProceed() bool {
	return rep == nil || rep.errPhase == -1
}

// AnyErrors reports whether any error-level diagnostic was recorded.
func AnyErrors() bool {
	return rep != nil && rep.errPhase != -1
}

// FailedPhase returns the phase of the first recorded error, or -1.
func FailedPhase() int {
	if rep == nil {
		return -1
	}
	return rep.errPhase
}

// Diagnostics returns every diagnostic recorded so far, in report order.
func Diagnostics() []Diagnostic {
	if rep == nil {
		return nil
	}
	return rep.diags
}
