package vm

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tierdb/jitexec/engine"
	"github.com/tierdb/jitexec/errors"
	"github.com/tierdb/jitexec/ownership"
	"github.com/tierdb/jitexec/region"
	"github.com/tierdb/jitexec/scheduler"
	"github.com/tierdb/jitexec/transaction"
)

// ManagerConfig holds construction options for a CompilationManager.
type ManagerConfig struct {
	// Backend compiles bytecode to native code. Required. The manager
	// does not own it; callers close it after the manager.
	Backend engine.Backend

	// Transactions is the engine's transaction manager, carried through
	// for future transactional bookkeeping. May be nil.
	Transactions *transaction.Manager

	// Workers is the compile worker count. 0 means GOMAXPROCS.
	Workers int

	// QueueDepth bounds the compile submission queue. 0 means 256.
	QueueDepth int

	// Logger receives compile-path logs. nil means no-op.
	Logger *zap.Logger
}

// CompilationManager accepts modules for asynchronous background
// compilation and owns the module/region ownership registries. Independent
// manager instances share no state.
type CompilationManager struct {
	backend   engine.Backend
	txns      *transaction.Manager
	pool      *scheduler.Pool
	modules   *ownership.Registry[*Module]
	regions   *ownership.Registry[*region.Region]
	logger    *zap.Logger
	moduleIDs IDAllocator
	regionIDs IDAllocator
	inflight  sync.WaitGroup
	closed    atomic.Bool
}

// NewManager creates a manager and starts its compile workers.
func NewManager(cfg ManagerConfig) (*CompilationManager, error) {
	if cfg.Backend == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "manager requires a compiler backend")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CompilationManager{
		backend: cfg.Backend,
		txns:    cfg.Transactions,
		pool: scheduler.NewPool(scheduler.Config{
			Workers:    cfg.Workers,
			QueueDepth: cfg.QueueDepth,
			Logger:     logger,
		}),
		modules: ownership.NewRegistry[*Module](),
		regions: ownership.NewRegistry[*region.Region](),
		logger:  logger,
	}, nil
}

// AddModule accepts a module for background compilation. It allocates and
// reserves a module id and a region id, submits one compile task, and
// returns without waiting on compilation: its cost is bounded by id
// allocation and queue submission. The caller remains the module's owner
// until a later TransferModule.
func (mg *CompilationManager) AddModule(m *Module) (moduleID, regionID int64, err error) {
	if m == nil {
		return 0, 0, errors.InvalidInput(errors.PhaseSchedule, "nil module")
	}
	if mg.closed.Load() {
		return 0, 0, errors.Closed(errors.PhaseSchedule, "compilation manager")
	}

	moduleID = mg.moduleIDs.Next()
	regionID = mg.regionIDs.Next()
	mg.modules.Reserve(moduleID)
	mg.regions.Reserve(regionID)
	m.stampID(moduleID)

	task := newCompileTask(m, moduleID, regionID, mg.backend, mg.logger)
	mg.inflight.Add(1)
	task.onComplete = mg.inflight.Done

	if err := mg.pool.Enqueue(task); err != nil {
		mg.inflight.Done()
		return 0, 0, err
	}

	mg.logger.Debug("module submitted for compilation",
		zap.String("module", m.Name()),
		zap.Int64("moduleID", moduleID),
		zap.Int64("regionID", regionID),
	)
	return moduleID, regionID, nil
}

// TransferModule hands long-term ownership of a module to the registry
// under a previously reserved id. On failure the caller keeps ownership.
func (mg *CompilationManager) TransferModule(m *Module, moduleID int64) error {
	return mg.modules.Transfer(moduleID, m)
}

// TransferRegion hands long-term ownership of a region to the registry
// under a previously reserved id. On failure the caller keeps ownership.
func (mg *CompilationManager) TransferRegion(r *region.Region, regionID int64) error {
	return mg.regions.Transfer(regionID, r)
}

// LookupModule returns the registry-owned module for an id, present only
// once transferred.
func (mg *CompilationManager) LookupModule(moduleID int64) (*Module, bool) {
	return mg.modules.Lookup(moduleID)
}

// LookupRegion returns the registry-owned region for an id, present only
// once transferred.
func (mg *CompilationManager) LookupRegion(regionID int64) (*region.Region, bool) {
	return mg.regions.Lookup(regionID)
}

// TransactionManager exposes the shared transaction-manager dependency.
// The compile path never calls it; compiled code is independent of any
// enclosing transaction.
func (mg *CompilationManager) TransactionManager() *transaction.Manager {
	return mg.txns
}

// Drain blocks until every submitted compile task has finished.
func (mg *CompilationManager) Drain() {
	mg.inflight.Wait()
}

// Close stops accepting modules, waits for in-flight compilations, and
// tears down the registries. Registry-owned modules and regions are
// released here and not before. The backend stays open for its owner.
func (mg *CompilationManager) Close(ctx context.Context) error {
	if !mg.closed.CompareAndSwap(false, true) {
		return nil
	}

	mg.pool.Close()
	mg.modules.Close()
	mg.regions.Close()

	mg.logger.Debug("compilation manager closed")
	return nil
}
