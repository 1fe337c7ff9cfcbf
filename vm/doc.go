// Package vm coordinates asynchronous JIT compilation for the execution
// engine's bytecode modules.
//
// Queries first run as interpreted bytecode. CompilationManager.AddModule
// submits a module for background compilation and returns immediately; a
// CompileTask on a scheduler worker later compiles the module once and
// atomically upgrades its dispatch table, so in-flight and future calls
// into the module never notice the tier change.
//
// # Dispatch protocol
//
// Each function has one dispatch slot, an atomic.Pointer[FuncEntry]
// initialized to an interpreter trampoline. Installing a compiled entry is
// a single atomic store with release semantics, and every dispatch read is
// an acquire load taken immediately before the call. A slot therefore
// always holds a completely valid entry, and a reader that observes a
// compiled entry also observes every write the compiler made to produce it.
// A call already running through the trampoline finishes there; it is never
// migrated mid-call.
//
// # One-shot gate
//
// The module's compile gate is a single atomic state, not a lock: the
// winning task transitions Uncompiled -> Compiling by compare-and-swap and
// every concurrent or later trigger exits without invoking the compiler.
// Compilation can be long; no lock is held for its duration, so dispatch
// reads on the same module and all work on other modules stay unblocked. A
// failed compile parks the gate in Failed, from which a caller-initiated
// re-trigger (and only that) may retry.
//
// # Ownership
//
// AddModule reserves a module id and a region id in the manager's
// registries but takes no ownership; the caller remains responsible for the
// module until TransferModule succeeds, and likewise for regions. The
// compile task holds its own strong reference to the module, so the module
// outlives the task regardless of transfer timing.
package vm
