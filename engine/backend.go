package engine

import (
	"context"

	"github.com/tierdb/jitexec/bytecode"
)

// Options controls a single compilation. Every module is compiled once with
// DefaultOptions; recompiling at other settings is out of scope, so no
// per-compile knobs exist yet. Backend-wide settings live on the concrete
// backend's Config.
type Options struct{}

// DefaultOptions returns the options used for background compilation.
func DefaultOptions() Options {
	return Options{}
}

// Backend is the native code-generation service. Implementations must be
// safe for concurrent Compile calls; the coordinator compiles many modules
// at once with no cross-module serialization.
type Backend interface {
	// Compile translates a module's bytecode form into native code. The
	// returned artifact owns the generated code until closed.
	Compile(ctx context.Context, mod *bytecode.Module, opts Options) (Artifact, error)

	// Close releases backend resources. Artifacts produced earlier become
	// invalid.
	Close(ctx context.Context) error
}

// Artifact is one module's compiled machine code.
type Artifact interface {
	// ResolveFunction returns the native entry for an exported function.
	// It reports false when the artifact has no function with that name.
	ResolveFunction(name string) (Function, bool)

	// Close releases the artifact's code and instance state.
	Close(ctx context.Context) error
}

// Function is a callable native entry point. Implementations are safe for
// use from the thread that loaded them out of a dispatch slot; wrapping
// engines may add their own synchronization.
type Function interface {
	Call(ctx context.Context, params ...uint64) ([]uint64, error)
}
