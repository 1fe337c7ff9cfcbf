package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tierdb/jitexec/bytecode"
	"github.com/tierdb/jitexec/engine"
	"github.com/tierdb/jitexec/region"
	"github.com/tierdb/jitexec/vm"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to TOML config file")
		wasmFile    = flag.String("wasm", "", "Path to a wasm binary to submit instead of the demo set")
		funcNames   = flag.String("funcs", "", "Exported i64 functions in the wasm binary (comma-separated)")
		modules     = flag.Int("modules", 0, "Override demo module count")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *modules > 0 {
		cfg.Demo.Modules = *modules
	}

	if *interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
		os.Exit(1)
	}

	if err := run(cfg, *wasmFile, *funcNames, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, wasmFile, funcNames string, interactive bool) error {
	ctx := context.Background()

	logger, err := cfg.buildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	backend, err := engine.NewWazeroBackend(ctx, &engine.Config{
		MemoryLimitPages: cfg.MemoryLimitPages,
	})
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	defer backend.Close(ctx)

	mgr, err := vm.NewManager(vm.ManagerConfig{
		Backend:    backend,
		Workers:    cfg.Workers,
		QueueDepth: cfg.QueueDepth,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("create manager: %w", err)
	}
	defer mgr.Close(ctx)

	var mods []*vm.Module
	if wasmFile != "" {
		m, err := loadWasmModule(wasmFile, funcNames)
		if err != nil {
			return err
		}
		mods = append(mods, m)
	} else {
		mods = demoModules(cfg.Demo)
	}

	for _, m := range mods {
		moduleID, regionID, err := mgr.AddModule(m)
		if err != nil {
			return fmt.Errorf("submit %s: %w", m.Name(), err)
		}
		if err := mgr.TransferModule(m, moduleID); err != nil {
			return fmt.Errorf("transfer %s: %w", m.Name(), err)
		}
		if err := mgr.TransferRegion(region.New(m.Name()), regionID); err != nil {
			return fmt.Errorf("transfer region for %s: %w", m.Name(), err)
		}
	}

	if interactive {
		return runInteractive(mgr, mods)
	}

	mgr.Drain()
	return report(ctx, mods)
}

// demoModules synthesizes constant-returning modules so the compilation
// pipeline can be exercised without any wasm files on disk.
func demoModules(cfg demoConfig) []*vm.Module {
	mods := make([]*vm.Module, 0, cfg.Modules)
	for i := 0; i < cfg.Modules; i++ {
		b := bytecode.NewBuilder(fmt.Sprintf("demo%d", i))
		values := make(map[uint32]int64, cfg.Functions)
		for j := 0; j < cfg.Functions; j++ {
			v := int64(i*100 + j)
			b.ConstFunc(fmt.Sprintf("f%d", j), v)
			values[uint32(j)] = v
		}
		interp := func(ctx context.Context, fn bytecode.FunctionInfo, params ...uint64) ([]uint64, error) {
			return []uint64{uint64(values[fn.ID])}, nil
		}
		m, err := vm.NewModule(b.Build(), interp)
		if err != nil {
			panic(err) // builder output is always valid
		}
		mods = append(mods, m)
	}
	return mods
}

// loadWasmModule wraps an on-disk wasm binary. The caller names the exports
// to dispatch through; there is no interpreter tier for external binaries,
// so calls fail until compilation installs the native entries.
func loadWasmModule(path, funcNames string) (*vm.Module, error) {
	if funcNames == "" {
		return nil, fmt.Errorf("-wasm requires -funcs")
	}
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	names := strings.Split(funcNames, ",")
	fns := make([]bytecode.FunctionInfo, len(names))
	for i, name := range names {
		fns[i] = bytecode.FunctionInfo{Name: strings.TrimSpace(name), ID: uint32(i)}
	}
	bc := &bytecode.Module{Name: path, Code: code, Functions: fns}

	interp := func(ctx context.Context, fn bytecode.FunctionInfo, params ...uint64) ([]uint64, error) {
		return nil, fmt.Errorf("%s: not yet compiled", fn.Name)
	}
	return vm.NewModule(bc, interp)
}

func report(ctx context.Context, mods []*vm.Module) error {
	for _, m := range mods {
		fmt.Printf("%s  [%s]\n", m.Name(), m.GateState())
		for _, fn := range m.Bytecode().Functions {
			entry := m.Entry(fn.ID)
			tier := "interp"
			if entry.Compiled() {
				tier = "native"
			}
			results, err := entry.Call(ctx)
			if err != nil {
				fmt.Printf("  %-12s %-6s error: %v\n", fn.Name, tier, err)
				continue
			}
			fmt.Printf("  %-12s %-6s -> %v\n", fn.Name, tier, results)
		}
	}
	return nil
}
