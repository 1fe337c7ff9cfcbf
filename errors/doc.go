// Package errors provides structured error types for the compilation
// coordinator.
//
// Every error carries a Phase (where in processing it occurred) and a Kind
// (what went wrong). Matching with the standard errors.Is compares Phase and
// Kind, so callers can branch on taxonomy without string inspection:
//
//	if errors.Is(err, &jiterrors.Error{Phase: jiterrors.PhaseTransfer, Kind: jiterrors.KindUnknownID}) {
//	    // caller still owns the object it tried to transfer
//	}
//
// Recoverable conditions (failed compilation, transfer misuse) are returned
// as values. Fatal contract violations (an artifact missing a declared
// function, id exhaustion) are constructed here but raised by panic at the
// violation site.
package errors
