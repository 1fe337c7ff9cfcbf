package vm

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tierdb/jitexec/engine"
	"github.com/tierdb/jitexec/errors"
)

// TaskState tracks one compile task's progress.
type TaskState int32

const (
	TaskPending TaskState = iota
	TaskCompiling
	TaskInstalled
	TaskSkipped
	TaskFailed
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskCompiling:
		return "compiling"
	case TaskInstalled:
		return "installed"
	case TaskSkipped:
		return "skipped"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CompileTask performs the one-shot compile-and-install protocol for one
// module on a scheduler worker.
//
// The task holds a strong reference to its module, so the module stays
// reachable for the task's entire lifetime no matter when, or whether, its
// ownership is transferred into the registry.
type CompileTask struct {
	module     *Module
	backend    engine.Backend
	logger     *zap.Logger
	onComplete func()
	err        atomic.Pointer[errors.Error]
	done       chan struct{}
	moduleID   int64
	regionID   int64
	state      atomic.Int32
}

func newCompileTask(m *Module, moduleID, regionID int64, backend engine.Backend, logger *zap.Logger) *CompileTask {
	return &CompileTask{
		module:   m,
		backend:  backend,
		logger:   logger,
		moduleID: moduleID,
		regionID: regionID,
		done:     make(chan struct{}),
	}
}

// Run executes the protocol. A resolution miss against the artifact is a
// compiler-contract violation and panics; everything else is an error value.
func (t *CompileTask) Run(ctx context.Context) {
	defer close(t.done)
	if t.onComplete != nil {
		defer t.onComplete()
	}

	// One-shot gate: exactly one task per module reaches the compiler,
	// no matter how many triggers raced. Losers exit without side effects.
	if !t.module.beginCompile() {
		t.state.Store(int32(TaskSkipped))
		t.logger.Debug("compilation skipped",
			zap.String("module", t.module.Name()),
			zap.Int64("moduleID", t.moduleID),
			zap.Stringer("gate", t.module.GateState()),
		)
		return
	}
	t.state.Store(int32(TaskCompiling))

	artifact, err := t.backend.Compile(ctx, t.module.Bytecode(), engine.DefaultOptions())
	if err != nil {
		// The module keeps executing via interpretation; retries are
		// caller-initiated only.
		t.module.failCompile()
		cerr := errors.CompilationFailed(t.module.Name(), err)
		t.err.Store(cerr)
		t.state.Store(int32(TaskFailed))
		t.logger.Warn("module compilation failed",
			zap.String("module", t.module.Name()),
			zap.Int64("moduleID", t.moduleID),
			zap.Error(cerr),
		)
		return
	}

	// Install every compiled entry, then publish the gate. Readers that
	// observe a compiled entry are guaranteed the artifact behind it is
	// fully materialized.
	for _, fi := range t.module.Bytecode().Functions {
		fn, ok := artifact.ResolveFunction(fi.Name)
		if !ok {
			panic(errors.MissingFunction(t.module.Name(), fi.Name))
		}
		t.module.install(fi.ID, fn)
	}
	t.module.finishCompile(artifact)
	t.state.Store(int32(TaskInstalled))

	t.logger.Debug("module compiled and installed",
		zap.String("module", t.module.Name()),
		zap.Int64("moduleID", t.moduleID),
		zap.Int64("regionID", t.regionID),
		zap.Int("functions", t.module.FunctionCount()),
	)
}

// State returns the task's current state.
func (t *CompileTask) State() TaskState {
	return TaskState(t.state.Load())
}

// Err returns the recorded compilation failure, if any.
func (t *CompileTask) Err() error {
	if e := t.err.Load(); e != nil {
		return e
	}
	return nil
}

// Done is closed when Run has finished, whatever the outcome.
func (t *CompileTask) Done() <-chan struct{} {
	return t.done
}

// ModuleID returns the id allocated for the task's module.
func (t *CompileTask) ModuleID() int64 {
	return t.moduleID
}

// RegionID returns the id allocated alongside the module.
func (t *CompileTask) RegionID() int64 {
	return t.regionID
}
