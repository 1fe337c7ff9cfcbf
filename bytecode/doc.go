// Package bytecode defines the interpreted form of a compilable module.
//
// A Module pairs the raw bytecode consumed by the compiler backend with a
// function metadata table. The table drives dispatch-slot layout (one slot
// per function, indexed by FunctionInfo.ID) and artifact resolution (each
// compiled entry is looked up by FunctionInfo.Name).
//
// The bytecode front-end that produces modules from query plans is outside
// this subsystem. Builder synthesizes minimal well-formed modules so the
// compile path can be exercised without it.
package bytecode
