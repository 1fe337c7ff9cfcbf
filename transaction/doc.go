// Package transaction holds the shared transaction-manager dependency that
// the compilation manager passes through to the rest of the engine.
//
// Background compilation is deliberately independent of any enclosing
// transaction; nothing in the compile path begins, commits, or aborts one.
// The dependency exists so callers that already hold the manager can reach
// it through the compilation facade.
package transaction
