package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile  Phase = "compile"  // backend compilation
	PhaseInstall  Phase = "install"  // dispatch-table installation
	PhaseTransfer Phase = "transfer" // ownership handoff
	PhaseSchedule Phase = "schedule" // task submission
	PhaseLoad     Phase = "load"     // module construction
)

// Kind categorizes the error
type Kind string

const (
	KindCompilationFailed Kind = "compilation_failed"
	KindMissingFunction   Kind = "missing_function"
	KindUnknownID         Kind = "unknown_id"
	KindDuplicateTransfer Kind = "duplicate_transfer"
	KindIDExhausted       Kind = "id_exhausted"
	KindClosed            Kind = "closed"
	KindInvalidInput      Kind = "invalid_input"
)

// Error is the structured error type used throughout the coordinator.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Module   string
	Function string
	Detail   string
	ID       int64
	HasID    bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Module != "" {
		b.WriteString(" module ")
		b.WriteString(e.Module)
	}
	if e.Function != "" {
		b.WriteString(" function ")
		b.WriteString(e.Function)
	}
	if e.HasID {
		fmt.Fprintf(&b, " id %d", e.ID)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two errors match when their
// Phase and Kind agree, so taxonomy matching works with errors.Is.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// CompilationFailed wraps a backend compile error for a module. The module
// keeps executing via interpretation; nothing retries on its own.
func CompilationFailed(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindCompilationFailed,
		Module: module,
		Cause:  cause,
	}
}

// MissingFunction reports an artifact inconsistent with module metadata.
// Callers treat this as a fatal contract violation, not a runtime error.
func MissingFunction(module, function string) *Error {
	return &Error{
		Phase:    PhaseInstall,
		Kind:     KindMissingFunction,
		Module:   module,
		Function: function,
		Detail:   "artifact does not export a function declared by module metadata",
	}
}

// UnknownID reports a transfer against an id that was never reserved.
func UnknownID(id int64) *Error {
	return &Error{
		Phase:  PhaseTransfer,
		Kind:   KindUnknownID,
		ID:     id,
		HasID:  true,
		Detail: "id was never reserved; caller retains ownership",
	}
}

// DuplicateTransfer reports a transfer against an id that already owns an object.
func DuplicateTransfer(id int64) *Error {
	return &Error{
		Phase:  PhaseTransfer,
		Kind:   KindDuplicateTransfer,
		ID:     id,
		HasID:  true,
		Detail: "entry already holds an owned object; caller retains ownership",
	}
}

// Closed reports an operation against a torn-down component.
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: what + " is closed",
	}
}

// InvalidInput reports malformed input at a boundary.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}
