// Package diag implements the single diagnostic sink the whole pipeline
// reports warnings and fatal errors through. It is grounded on the
// teacher's recurring position-carrying error shape (sqlparser.Error,
// SQLCodeParseErrors, PreprocessorError).
package diag

import (
	"fmt"
	"io"

	"github.com/cmm-lang/cmmc/token"
)

// Severity distinguishes a recoverable warning from a fatal error. Fatal
// does not mean "the process stops" except for parse errors; it means
// "the errors-occurred flag is set".
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Warning {
		return "***WARNING***"
	}
	return "***ERROR***"
}

// Diagnostic is one reported message, carrying enough to reproduce the
// exact line the suite checks against.
type Diagnostic struct {
	Pos      token.Position
	Severity Severity
	Message  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s %s", d.Pos, d.Severity, d.Message)
}

// Sink accumulates diagnostics in call order and optionally streams each
// one immediately to Stream as it is reported (unbuffered, per §4.A).
type Sink struct {
	Stream      io.Writer
	diagnostics []Diagnostic
	errored     bool
}

// NewSink returns a Sink that writes each diagnostic to w as it arrives.
// w may be nil to only accumulate.
func NewSink(w io.Writer) *Sink {
	return &Sink{Stream: w}
}

func (s *Sink) emit(d Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
	if d.Severity == Error {
		s.errored = true
	}
	if s.Stream != nil {
		fmt.Fprintln(s.Stream, d.Error())
	}
}

// Warn reports a non-fatal diagnostic. The token is still produced by
// the caller; Warn never affects HasErrors.
func (s *Sink) Warn(pos token.Position, format string, args ...any) {
	s.emit(Diagnostic{Pos: pos, Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

// Fatal reports an error-severity diagnostic and sets the errors-occurred
// flag. It does not itself abort the pipeline; callers that must stop
// (the parser, on syntax error) do so explicitly.
func (s *Sink) Fatal(pos token.Position, format string, args ...any) {
	s.emit(Diagnostic{Pos: pos, Severity: Error, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any Fatal diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	return s.errored
}

// Diagnostics returns all recorded diagnostics in call order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// Reset clears all recorded diagnostics and the errors-occurred flag, so
// a single Sink can be reused across multiple compilations in one
// process (§5).
func (s *Sink) Reset() {
	s.diagnostics = nil
	s.errored = false
}
