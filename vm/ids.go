package vm

import (
	"sync/atomic"

	"github.com/tierdb/jitexec/errors"
)

// IDAllocator hands out process-unique, monotonically increasing ids.
// Retired ids are never reused. The zero value is ready to use; module and
// region ids come from independent allocator instances.
type IDAllocator struct {
	next atomic.Int64
}

// Next returns a previously-unused non-negative id. Exhausting the 64-bit
// id space is a violated invariant, not a recoverable condition.
func (a *IDAllocator) Next() int64 {
	id := a.next.Add(1) - 1
	if id < 0 {
		panic(&errors.Error{
			Phase:  errors.PhaseSchedule,
			Kind:   errors.KindIDExhausted,
			Detail: "id counter wrapped",
		})
	}
	return id
}
