package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/tierdb/jitexec/bytecode"
	"github.com/tierdb/jitexec/errors"
)

// WazeroBackend implements Backend using the wazero ahead-of-time compiler.
// A module's bytecode form is a WebAssembly binary; the compiled artifact is
// an instantiated module whose exports are the native function entries.
type WazeroBackend struct {
	runtime  wazero.Runtime
	nextInst atomic.Int64
	closed   atomic.Bool
}

// Config holds configuration for backend creation.
type Config struct {
	// MemoryLimitPages sets the maximum linear memory per compiled module
	// in pages (64KB each). 0 means the wazero default.
	MemoryLimitPages uint32
}

// NewWazeroBackend creates a compiler-mode wazero backend.
func NewWazeroBackend(ctx context.Context, cfg *Config) (*WazeroBackend, error) {
	runtimeCfg := wazero.NewRuntimeConfigCompiler()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	return &WazeroBackend{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
	}, nil
}

// Compile translates the module to machine code and instantiates it so its
// exports can be resolved. Safe for concurrent use.
func (b *WazeroBackend) Compile(ctx context.Context, mod *bytecode.Module, opts Options) (Artifact, error) {
	if b.closed.Load() {
		return nil, errors.Closed(errors.PhaseCompile, "wazero backend")
	}
	if err := mod.Validate(); err != nil {
		return nil, err
	}

	compiled, err := b.runtime.CompileModule(ctx, mod.Code)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", mod.Name, err)
	}

	// Instance names must be unique within one runtime or concurrent
	// compiles of same-named modules collide.
	name := fmt.Sprintf("%s#%d", mod.Name, b.nextInst.Add(1))
	instance, err := b.runtime.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName(name).WithStartFunctions())
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, fmt.Errorf("instantiate %s: %w", mod.Name, err)
	}

	Logger().Debug("module compiled",
		zap.String("module", mod.Name),
		zap.Int("functions", mod.FunctionCount()),
	)

	return &wazeroArtifact{
		compiled: compiled,
		instance: instance,
	}, nil
}

// Close tears down the runtime and every artifact it produced.
func (b *WazeroBackend) Close(ctx context.Context) error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.runtime.Close(ctx)
}

// wazeroArtifact is one module's compiled code plus its resolved instance.
// A wazero module instance is not goroutine-safe, so the artifact serializes
// calls into it; concurrent dispatch-table readers stay lock-free and only
// contend when actually invoking the same module.
type wazeroArtifact struct {
	compiled wazero.CompiledModule
	instance api.Module
	callMu   sync.Mutex
}

func (a *wazeroArtifact) ResolveFunction(name string) (Function, bool) {
	fn := a.instance.ExportedFunction(name)
	if fn == nil {
		return nil, false
	}
	return wazeroFunction{fn: fn, mu: &a.callMu}, true
}

func (a *wazeroArtifact) Close(ctx context.Context) error {
	if err := a.instance.Close(ctx); err != nil {
		return err
	}
	return a.compiled.Close(ctx)
}

// wazeroFunction adapts api.Function to the Function boundary.
type wazeroFunction struct {
	fn api.Function
	mu *sync.Mutex
}

func (f wazeroFunction) Call(ctx context.Context, params ...uint64) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn.Call(ctx, params...)
}
