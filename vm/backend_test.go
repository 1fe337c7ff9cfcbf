package vm

import (
	"context"
	"sync/atomic"

	"github.com/tierdb/jitexec/bytecode"
	"github.com/tierdb/jitexec/engine"
)

// fakeBackend counts compiler invocations and fabricates artifacts whose
// functions return compiledBase+slot. Used to test the coordination
// protocol without a real code generator.
type fakeBackend struct {
	compiles atomic.Int64
	closes   atomic.Int64

	// block, when non-nil, stalls Compile until the channel is closed.
	block <-chan struct{}

	// err, when non-nil, is returned from every Compile call.
	err error

	// omit names a function to leave out of produced artifacts.
	omit string
}

const compiledBase = uint64(1000)

func (b *fakeBackend) Compile(ctx context.Context, mod *bytecode.Module, opts engine.Options) (engine.Artifact, error) {
	b.compiles.Add(1)
	if b.block != nil {
		<-b.block
	}
	if b.err != nil {
		return nil, b.err
	}

	funcs := make(map[string]engine.Function, len(mod.Functions))
	for _, fi := range mod.Functions {
		if fi.Name == b.omit {
			continue
		}
		funcs[fi.Name] = fakeFunction{result: compiledBase + uint64(fi.ID)}
	}
	return &fakeArtifact{backend: b, funcs: funcs}, nil
}

func (b *fakeBackend) Close(ctx context.Context) error {
	return nil
}

type fakeArtifact struct {
	backend *fakeBackend
	funcs   map[string]engine.Function
}

func (a *fakeArtifact) ResolveFunction(name string) (engine.Function, bool) {
	fn, ok := a.funcs[name]
	return fn, ok
}

func (a *fakeArtifact) Close(ctx context.Context) error {
	a.backend.closes.Add(1)
	return nil
}

type fakeFunction struct {
	result uint64
}

func (f fakeFunction) Call(ctx context.Context, params ...uint64) ([]uint64, error) {
	return []uint64{f.result}, nil
}

// interpBase distinguishes interpreter-tier results from compiled results.
const interpBase = uint64(1)

// testInterp is the interpreter trampoline target used across vm tests.
func testInterp(ctx context.Context, fn bytecode.FunctionInfo, params ...uint64) ([]uint64, error) {
	return []uint64{interpBase + uint64(fn.ID)}, nil
}

// testModule builds a two-function module wrapped for tiered execution.
func testModule(name string) *Module {
	bc := bytecode.NewBuilder(name).
		ConstFunc("f1", 10).
		ConstFunc("f2", 20).
		Build()
	m, err := NewModule(bc, testInterp)
	if err != nil {
		panic(err)
	}
	return m
}
