package ownership

import (
	"sync"

	"github.com/tierdb/jitexec/errors"
)

// shardCount partitions ids so unrelated ids never contend on one lock.
const shardCount = 16

// Registry is a concurrent reserve-then-fulfill map from int64 ids to
// exclusively-owned objects. Keys are plain integer snapshots; reservation
// marks an id as known without accepting ownership, and a later Transfer
// installs the owned object exactly once.
type Registry[T any] struct {
	shards [shardCount]shard[T]
	closed bool
	mu     sync.RWMutex // guards closed only
}

type shard[T any] struct {
	mu      sync.RWMutex
	entries map[int64]entry[T]
}

type entry[T any] struct {
	owned T
	full  bool
}

// NewRegistry creates an empty registry. Each registry instance has its own
// state; independent managers never share entries.
func NewRegistry[T any]() *Registry[T] {
	r := &Registry[T]{}
	for i := range r.shards {
		r.shards[i].entries = make(map[int64]entry[T])
	}
	return r
}

func (r *Registry[T]) shard(id int64) *shard[T] {
	return &r.shards[uint64(id)%shardCount]
}

// Reserve inserts a placeholder entry for id if absent. Idempotent; it does
// not accept ownership and never implies an eventual transfer.
func (r *Registry[T]) Reserve(id int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	s := r.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		s.entries[id] = entry[T]{}
	}
}

// Transfer installs ownership of owned under id. It fails with KindUnknownID
// if the id was never reserved and with KindDuplicateTransfer if the entry
// already holds an owned object. On failure the value is not stored and the
// caller keeps ownership.
func (r *Registry[T]) Transfer(id int64, owned T) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errors.Closed(errors.PhaseTransfer, "registry")
	}

	s := r.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return errors.UnknownID(id)
	}
	if e.full {
		return errors.DuplicateTransfer(id)
	}

	s.entries[id] = entry[T]{owned: owned, full: true}
	return nil
}

// Lookup returns the owned object for id. It reports false until a transfer
// has completed for that id.
func (r *Registry[T]) Lookup(id int64) (T, bool) {
	var zero T

	s := r.shard(id)
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || !e.full {
		return zero, false
	}
	return e.owned, true
}

// Reserved reports whether id is known to the registry, owned or not.
func (r *Registry[T]) Reserved(id int64) bool {
	s := r.shard(id)
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[id]
	return ok
}

// Len returns the number of owned entries.
func (r *Registry[T]) Len() int {
	count := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		for _, e := range s.entries {
			if e.full {
				count++
			}
		}
		s.mu.RUnlock()
	}
	return count
}

// Close drops all entries and stops accepting reservations and transfers.
// Owned objects are released to the garbage collector; there is no
// finer-grained eviction.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		s.entries = make(map[int64]entry[T])
		s.mu.Unlock()
	}
}
