package vm

import (
	"context"
	"sync/atomic"

	"github.com/tierdb/jitexec/bytecode"
	"github.com/tierdb/jitexec/engine"
	"github.com/tierdb/jitexec/errors"
)

// GateState is the module's one-shot compilation gate.
type GateState int32

const (
	// GateUncompiled means no compilation has been attempted.
	GateUncompiled GateState = iota

	// GateCompiling means exactly one compile task won the gate and is
	// running. Concurrent triggers exit without invoking the compiler.
	GateCompiling

	// GateCompiled means compiled entries are installed in every slot.
	// Terminal.
	GateCompiled

	// GateFailed means the backend rejected the module. The dispatch
	// table is untouched and a caller-initiated re-trigger may retry.
	GateFailed
)

func (s GateState) String() string {
	switch s {
	case GateUncompiled:
		return "uncompiled"
	case GateCompiling:
		return "compiling"
	case GateCompiled:
		return "compiled"
	case GateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InterpreterFunc executes one function of a module's bytecode form. It is
// the interpreter tier's entry point; the dispatch loop behind it is outside
// this subsystem.
type InterpreterFunc func(ctx context.Context, fn bytecode.FunctionInfo, params ...uint64) ([]uint64, error)

// FuncEntry is one dispatch-table slot's target: either the interpreter
// trampoline a slot starts with or a compiled native entry. Entries are
// immutable once constructed; installation swaps the whole entry pointer.
type FuncEntry struct {
	info   bytecode.FunctionInfo
	interp InterpreterFunc
	native engine.Function
}

// Compiled reports whether this entry dispatches to native code.
func (e *FuncEntry) Compiled() bool {
	return e.native != nil
}

// Function returns the function this entry dispatches for.
func (e *FuncEntry) Function() bytecode.FunctionInfo {
	return e.info
}

// Call invokes the entry's current tier.
func (e *FuncEntry) Call(ctx context.Context, params ...uint64) ([]uint64, error) {
	if e.native != nil {
		return e.native.Call(ctx, params...)
	}
	return e.interp(ctx, e.info, params...)
}

// Module is one compilable unit of query logic: its bytecode form, a
// per-function dispatch table of atomically swapped entries, and the
// one-shot compile gate. Dispatch reads and the compile path are safe to
// race; see the package documentation for the memory-ordering contract.
type Module struct {
	bc       *bytecode.Module
	slots    []atomic.Pointer[FuncEntry]
	artifact engine.Artifact // written by the gate winner before GateCompiled
	id       atomic.Int64
	gate     atomic.Int32
}

// NewModule wraps a bytecode module for tiered execution. Every dispatch
// slot starts at an interpreter trampoline built over interp.
func NewModule(bc *bytecode.Module, interp InterpreterFunc) (*Module, error) {
	if err := bc.Validate(); err != nil {
		return nil, err
	}
	if interp == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "nil interpreter entry")
	}

	m := &Module{
		bc:    bc,
		slots: make([]atomic.Pointer[FuncEntry], len(bc.Functions)),
	}
	m.id.Store(-1)
	for i, fi := range bc.Functions {
		m.slots[i].Store(&FuncEntry{info: fi, interp: interp})
	}
	return m, nil
}

// ID returns the module id assigned at registration, or -1 before the
// module has been through AddModule.
func (m *Module) ID() int64 {
	return m.id.Load()
}

// stampID records the id allocated by the manager. Only the first
// registration wins; the id is immutable thereafter.
func (m *Module) stampID(id int64) {
	m.id.CompareAndSwap(-1, id)
}

// Bytecode returns the module's interpreted form.
func (m *Module) Bytecode() *bytecode.Module {
	return m.bc
}

// Name returns the bytecode module's name.
func (m *Module) Name() string {
	return m.bc.Name
}

// FunctionCount returns the number of dispatch slots.
func (m *Module) FunctionCount() int {
	return len(m.slots)
}

// Entry loads the current dispatch entry for a function (acquire). The
// returned entry is always fully valid: the original trampoline or a
// completely installed compiled entry. Returns nil for an out-of-range id.
func (m *Module) Entry(fnID uint32) *FuncEntry {
	if int(fnID) >= len(m.slots) {
		return nil
	}
	return m.slots[fnID].Load()
}

// Call dispatches function fnID through its current tier.
func (m *Module) Call(ctx context.Context, fnID uint32, params ...uint64) ([]uint64, error) {
	e := m.Entry(fnID)
	if e == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "function id out of range")
	}
	return e.Call(ctx, params...)
}

// GateState returns the compile gate's current state.
func (m *Module) GateState() GateState {
	return GateState(m.gate.Load())
}

// Compiled reports whether every slot dispatches to native code.
func (m *Module) Compiled() bool {
	return m.GateState() == GateCompiled
}

// Artifact returns the compiled artifact once the gate is GateCompiled.
func (m *Module) Artifact() (engine.Artifact, bool) {
	if m.GateState() != GateCompiled {
		return nil, false
	}
	return m.artifact, true
}

// beginCompile attempts the one-shot gate transition. It succeeds from
// GateUncompiled, and from GateFailed so a caller-initiated re-trigger can
// retry. Exactly one caller wins per transition; losers must not touch the
// compiler.
func (m *Module) beginCompile() bool {
	if m.gate.CompareAndSwap(int32(GateUncompiled), int32(GateCompiling)) {
		return true
	}
	return m.gate.CompareAndSwap(int32(GateFailed), int32(GateCompiling))
}

// install stores a compiled entry into a dispatch slot (release). After the
// store, any reader that loads the slot sees the fully materialized entry.
func (m *Module) install(fnID uint32, native engine.Function) {
	old := m.slots[fnID].Load()
	m.slots[fnID].Store(&FuncEntry{info: old.info, native: native})
}

// finishCompile publishes the artifact and marks the gate compiled. Called
// only by the gate winner, after every slot has been installed.
func (m *Module) finishCompile(artifact engine.Artifact) {
	m.artifact = artifact
	m.gate.Store(int32(GateCompiled))
}

// failCompile parks the gate in the failed state, leaving the dispatch
// table untouched.
func (m *Module) failCompile() {
	m.gate.Store(int32(GateFailed))
}
