package autobind

import "fmt"

// Severity classifies a diagnostic emitted by the classifier or the
// execution pipeline.
type Severity int

const (
	// SeverityWarning marks recoverable conditions: a lookup miss, a
	// member left unset. The member simply keeps its current value.
	SeverityWarning Severity = iota

	// SeverityAssertion marks broken declarations: type mismatches,
	// malformed markers, argument list errors. The action is skipped.
	SeverityAssertion
)

// String returns the canonical severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	case SeverityAssertion:
		return "Assertion"
	default:
		return "Unknown"
	}
}

// Diagnostic describes one member-local failure. Diagnostics never abort
// the surrounding batch; they are reported to the sink and the offending
// action is skipped.
type Diagnostic struct {
	Severity Severity
	Member   string
	Phase    Phase
	Err      error
	Message  string
}

// String renders the diagnostic for plain-text sinks.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s (%s): %s", d.Severity, d.Member, d.Phase, d.Message)
}

// DiagnosticSink receives diagnostics from classification and execution.
// Implementations must not panic; a sink is called synchronously on the
// host's update thread.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// NewLoggerSink returns a sink that routes warnings to Logger.Warn and
// assertions to Logger.Error, in structured key-value form.
func NewLoggerSink(logger Logger) DiagnosticSink {
	return &loggerSink{logger: logger}
}

type loggerSink struct {
	logger Logger
}

func (s *loggerSink) Report(d Diagnostic) {
	args := []any{"member", d.Member, "phase", d.Phase.String(), "error", d.Err}
	switch d.Severity {
	case SeverityAssertion:
		s.logger.Error(d.Message, args...)
	case SeverityWarning:
		s.logger.Warn(d.Message, args...)
	}
}

type nopSink struct{}

func (nopSink) Report(Diagnostic) {}
