package transaction

import (
	"sync/atomic"
)

// Manager is the execution engine's transaction manager. The compilation
// coordinator carries it by reference for future transactional bookkeeping
// but never calls it on the compile path: compiled code is a process-wide
// artifact that outlives any single transaction.
type Manager struct {
	nextID atomic.Int64
	active atomic.Int64
}

// NewManager creates a transaction manager.
func NewManager() *Manager {
	return &Manager{}
}

// Begin opens a transaction handle.
func (m *Manager) Begin() *Transaction {
	m.active.Add(1)
	return &Transaction{
		id: m.nextID.Add(1),
		mg: m,
	}
}

// Active returns the number of open transactions.
func (m *Manager) Active() int64 {
	return m.active.Load()
}

// Transaction is a minimal transaction handle.
type Transaction struct {
	mg   *Manager
	id   int64
	done atomic.Bool
}

// ID returns the transaction's identifier.
func (t *Transaction) ID() int64 {
	return t.id
}

// Commit finishes the transaction.
func (t *Transaction) Commit() {
	if t.done.CompareAndSwap(false, true) {
		t.mg.active.Add(-1)
	}
}

// Abort abandons the transaction.
func (t *Transaction) Abort() {
	if t.done.CompareAndSwap(false, true) {
		t.mg.active.Add(-1)
	}
}
