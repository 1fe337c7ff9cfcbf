// Package jitexec provides asynchronous just-in-time compilation for a
// bytecode execution engine.
//
// Modules begin life executing through interpreter trampolines and are
// upgraded in place to native code as a background compiler finishes. Callers
// never wait on compilation: submission is non-blocking and dispatch always
// goes through the module's atomic function table, which points at whichever
// tier is installed at that moment.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	jitexec/             Root package documentation
//	├── vm/              CompilationManager, Module dispatch tables, compile tasks
//	├── engine/          Compiler backend interface and the wazero implementation
//	├── bytecode/        Module metadata and a builder for wasm-form bytecode
//	├── ownership/       Reserve-then-fulfill handoff registry
//	├── region/          Chunked arena allocator for execution-scoped memory
//	├── scheduler/       Bounded worker pool running compile tasks
//	├── transaction/     Transaction bookkeeping exposed to compiled code
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Submit a module and let it upgrade in the background:
//
//	backend, err := engine.NewWazeroBackend(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close(ctx)
//
//	mgr, err := vm.NewManager(vm.ManagerConfig{Backend: backend})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Close(ctx)
//
//	moduleID, regionID, err := mgr.AddModule(mod)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Dispatch immediately; the interpreter tier serves until the
//	// compiled entries are installed.
//	results, err := mod.Call(ctx, 0)
//
//	// Later, hand the module and its region to the manager for keeping.
//	mgr.TransferModule(mod, moduleID)
//	mgr.TransferRegion(reg, regionID)
//	_ = results
//	_ = regionID
//
// # Thread Safety
//
// CompilationManager, Module, and the wazero backend are safe for concurrent
// use. Region is NOT thread-safe and must be confined to one goroutine or
// externally synchronized.
package jitexec
