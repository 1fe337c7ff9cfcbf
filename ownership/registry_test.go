package ownership

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	jiterrors "github.com/tierdb/jitexec/errors"
)

func TestRegistry_ReserveTransferLookup(t *testing.T) {
	r := NewRegistry[string]()

	// Nothing visible before transfer
	r.Reserve(5)
	if _, ok := r.Lookup(5); ok {
		t.Fatal("Reservation must not imply ownership")
	}
	if !r.Reserved(5) {
		t.Fatal("Expected id 5 to be reserved")
	}

	// Transfer installs ownership
	if err := r.Transfer(5, "module"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	v, ok := r.Lookup(5)
	if !ok || v != "module" {
		t.Fatalf("Expected owned value, got %q ok=%v", v, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", r.Len())
	}
}

func TestRegistry_ReserveIdempotent(t *testing.T) {
	r := NewRegistry[string]()

	r.Reserve(1)
	if err := r.Transfer(1, "first"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	// Re-reserving an owned id must not evict the owner
	r.Reserve(1)
	v, ok := r.Lookup(1)
	if !ok || v != "first" {
		t.Fatalf("Reserve evicted owner: %q ok=%v", v, ok)
	}
}

func TestRegistry_UnknownID(t *testing.T) {
	r := NewRegistry[string]()

	err := r.Transfer(7, "orphan")
	if err == nil {
		t.Fatal("Expected error for unreserved id")
	}
	if !stderrors.Is(err, jiterrors.UnknownID(7)) {
		t.Fatalf("Expected KindUnknownID, got %v", err)
	}

	// Nothing was silently accepted
	if _, ok := r.Lookup(7); ok {
		t.Fatal("Failed transfer must not install ownership")
	}
	if r.Len() != 0 {
		t.Fatalf("Expected empty registry, got %d", r.Len())
	}
}

func TestRegistry_DuplicateTransfer(t *testing.T) {
	r := NewRegistry[string]()

	r.Reserve(5)
	if err := r.Transfer(5, "m"); err != nil {
		t.Fatalf("First transfer failed: %v", err)
	}

	err := r.Transfer(5, "m2")
	if err == nil {
		t.Fatal("Expected error for duplicate transfer")
	}
	if !stderrors.Is(err, jiterrors.DuplicateTransfer(5)) {
		t.Fatalf("Expected KindDuplicateTransfer, got %v", err)
	}

	// First owner remains installed
	v, ok := r.Lookup(5)
	if !ok || v != "m" {
		t.Fatalf("Expected first owner retained, got %q ok=%v", v, ok)
	}
}

func TestRegistry_Closed(t *testing.T) {
	r := NewRegistry[string]()
	r.Reserve(1)
	r.Close()

	if err := r.Transfer(1, "late"); !stderrors.Is(err, jiterrors.Closed(jiterrors.PhaseTransfer, "registry")) {
		t.Fatalf("Expected KindClosed, got %v", err)
	}
	if _, ok := r.Lookup(1); ok {
		t.Fatal("Closed registry must not serve entries")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry[int]()

	const ids = 200
	for i := int64(0); i < ids; i++ {
		r.Reserve(i)
	}

	// Many goroutines race transfers and lookups across disjoint and
	// overlapping ids; every id must end up with exactly one owner.
	var wg sync.WaitGroup
	errCh := make(chan error, ids*4)
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := int64(0); i < ids; i++ {
				if err := r.Transfer(i, g); err != nil {
					errCh <- err
				}
				r.Lookup(i)
			}
		}(g)
	}
	wg.Wait()
	close(errCh)

	dups := 0
	for err := range errCh {
		if !stderrors.Is(err, jiterrors.DuplicateTransfer(0)) {
			t.Fatalf("Unexpected error kind: %v", err)
		}
		dups++
	}
	// Exactly one transfer per id wins
	if want := ids * 3; dups != want {
		t.Fatalf("Expected %d duplicate failures, got %d", want, dups)
	}
	if r.Len() != ids {
		t.Fatalf("Expected %d owned entries, got %d", ids, r.Len())
	}
}

func TestRegistry_ShardDistribution(t *testing.T) {
	r := NewRegistry[string]()

	// Ids across every shard stay independent
	for i := int64(0); i < shardCount*3; i++ {
		r.Reserve(i)
		if err := r.Transfer(i, fmt.Sprintf("v%d", i)); err != nil {
			t.Fatalf("Transfer %d failed: %v", i, err)
		}
	}
	for i := int64(0); i < shardCount*3; i++ {
		v, ok := r.Lookup(i)
		if !ok || v != fmt.Sprintf("v%d", i) {
			t.Fatalf("Lookup %d: got %q ok=%v", i, v, ok)
		}
	}
}
