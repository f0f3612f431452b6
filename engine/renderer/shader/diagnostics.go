package shader

import (
	"go.uber.org/zap"
)

// DiagnosticKind classifies a build diagnostic.
type DiagnosticKind int

const (
	// DiagnosticCompile is a failed stage compile.
	DiagnosticCompile DiagnosticKind = iota

	// DiagnosticLink is a failed program link.
	DiagnosticLink

	// DiagnosticResolve is an attribute or uniform the linked program does not expose.
	DiagnosticResolve
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticCompile:
		return "compile"
	case DiagnosticLink:
		return "link"
	default:
		return "resolve"
	}
}

// Diagnostic describes a single non-fatal build failure.
type Diagnostic struct {
	Kind DiagnosticKind

	// Stage is set for compile diagnostics.
	Stage ShaderType

	// Name is set for resolve diagnostics.
	Name string

	// Log is the compiler or linker output.
	Log string
}

// DiagnosticSink receives build diagnostics. Reports never stop a build.
type DiagnosticSink interface {
	// Report records one diagnostic.
	//
	// Parameters:
	//   - d: the diagnostic
	Report(d Diagnostic)
}

// DiagnosticSinkFunc adapts a function to a DiagnosticSink.
type DiagnosticSinkFunc func(d Diagnostic)

// Report calls f(d).
func (f DiagnosticSinkFunc) Report(d Diagnostic) {
	f(d)
}

type logSink struct {
	logger *zap.Logger
}

// NewLogSink creates a DiagnosticSink that writes every diagnostic to logger.
// Compile and link failures log at error level, unresolved names at warn level.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - DiagnosticSink: the sink
func NewLogSink(logger *zap.Logger) DiagnosticSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logSink{logger: logger.Named("shader")}
}

func (s *logSink) Report(d Diagnostic) {
	switch d.Kind {
	case DiagnosticCompile:
		s.logger.Error("shader compile failed", zap.Stringer("stage", d.Stage), zap.String("info_log", d.Log))
	case DiagnosticLink:
		s.logger.Error("program link failed", zap.String("info_log", d.Log))
	default:
		s.logger.Warn("program input not found", zap.String("name", d.Name))
	}
}

// MultiSink fans a diagnostic out to every non-nil sink.
//
// Parameters:
//   - sinks: the destinations
//
// Returns:
//   - DiagnosticSink: the combined sink
func MultiSink(sinks ...DiagnosticSink) DiagnosticSink {
	return DiagnosticSinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}
