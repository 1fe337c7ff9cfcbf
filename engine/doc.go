// Package engine defines the boundary to the native code-generation backend
// and its wazero implementation.
//
// The coordinator treats compilation as an opaque service:
//
//	Backend   - Compile(bytecode, options) -> Artifact | error
//	Artifact  - ResolveFunction(name) -> Function | not found
//	Function  - a callable native entry point
//
// WazeroBackend fulfills the contract with wazero's ahead-of-time compiler:
// CompileModule generates machine code for the module's wasm binary, and the
// instantiated module's exports become the resolvable native entries.
//
// Backends must tolerate concurrent Compile calls; the coordinator never
// serializes compilation across modules.
package engine
