package bytecode

import (
	"github.com/tierdb/jitexec/errors"
)

// FunctionInfo describes one function declared by a bytecode module. The ID
// is the function's dispatch-table slot index; the Name is how the compiled
// artifact is queried for the function's native entry.
type FunctionInfo struct {
	Name string
	ID   uint32
}

// Module is the interpreted form of one compilable unit of query logic. It
// is produced by the bytecode front-end (out of scope here) and is read-only
// input to compilation.
type Module struct {
	Name      string
	Code      []byte
	Functions []FunctionInfo
}

// FunctionCount returns the number of declared functions.
func (m *Module) FunctionCount() int {
	return len(m.Functions)
}

// Validate checks the module's function table is self-consistent: code is
// present, ids are dense slot indices, and names are unique and non-empty.
func (m *Module) Validate() error {
	if m == nil {
		return errors.InvalidInput(errors.PhaseLoad, "nil module")
	}
	if len(m.Code) == 0 {
		return errors.InvalidInput(errors.PhaseLoad, "module has no bytecode")
	}
	if len(m.Functions) == 0 {
		return errors.InvalidInput(errors.PhaseLoad, "module declares no functions")
	}

	seen := make(map[string]struct{}, len(m.Functions))
	for i, fi := range m.Functions {
		if fi.Name == "" {
			return errors.InvalidInput(errors.PhaseLoad, "function with empty name")
		}
		if int(fi.ID) != i {
			return errors.InvalidInput(errors.PhaseLoad, "function ids must be dense slot indices")
		}
		if _, dup := seen[fi.Name]; dup {
			return errors.InvalidInput(errors.PhaseLoad, "duplicate function name "+fi.Name)
		}
		seen[fi.Name] = struct{}{}
	}
	return nil
}
