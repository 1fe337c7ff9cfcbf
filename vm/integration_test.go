package vm

import (
	"context"
	"testing"

	"github.com/tierdb/jitexec/bytecode"
	"github.com/tierdb/jitexec/engine"
	"github.com/tierdb/jitexec/region"
	"github.com/tierdb/jitexec/transaction"
)

// Full stack: bytecode builder -> manager -> wazero compilation -> native
// dispatch, with ownership handed into the registries along the way.
func TestIntegration_TieredExecution(t *testing.T) {
	ctx := context.Background()

	backend, err := engine.NewWazeroBackend(ctx, nil)
	if err != nil {
		t.Fatalf("NewWazeroBackend failed: %v", err)
	}
	defer backend.Close(ctx)

	mg, err := NewManager(ManagerConfig{
		Backend:      backend,
		Transactions: transaction.NewManager(),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mg.Close(ctx)

	bc := bytecode.NewBuilder("orders_scan").
		ConstFunc("f1", 11).
		ConstFunc("f2", 22).
		Build()

	// Interpreter tier marks its results so the upgrade is observable
	m, err := NewModule(bc, func(ctx context.Context, fn bytecode.FunctionInfo, params ...uint64) ([]uint64, error) {
		return []uint64{^uint64(fn.ID)}, nil
	})
	if err != nil {
		t.Fatalf("NewModule failed: %v", err)
	}

	// Interpreted before submission
	results, err := m.Call(ctx, 0)
	if err != nil {
		t.Fatalf("Interpreted call failed: %v", err)
	}
	if results[0] != ^uint64(0) {
		t.Fatalf("Expected interpreter marker, got %d", results[0])
	}

	moduleID, regionID, err := mg.AddModule(m)
	if err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}
	if err := mg.TransferModule(m, moduleID); err != nil {
		t.Fatalf("TransferModule failed: %v", err)
	}
	if err := mg.TransferRegion(region.New("orders_scan-ir"), regionID); err != nil {
		t.Fatalf("TransferRegion failed: %v", err)
	}

	mg.Drain()

	if !m.Compiled() {
		t.Fatalf("Expected compiled gate, got %s", m.GateState())
	}

	// Native tier returns the declared constants
	for i, want := range []int64{11, 22} {
		results, err := m.Call(ctx, uint32(i))
		if err != nil {
			t.Fatalf("Compiled call failed: %v", err)
		}
		if int64(results[0]) != want {
			t.Fatalf("Function %d: expected %d, got %d", i, want, int64(results[0]))
		}
	}
}
