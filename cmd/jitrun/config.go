package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// config is the jitrun TOML configuration.
type config struct {
	// Workers is the compile worker count. 0 means GOMAXPROCS.
	Workers int `toml:"workers"`

	// QueueDepth bounds the compile submission queue.
	QueueDepth int `toml:"queue_depth"`

	// MemoryLimitPages caps compiled-module memory (64KB pages).
	MemoryLimitPages uint32 `toml:"memory_limit_pages"`

	// LogLevel is one of "silent", "prod", "dev".
	LogLevel string `toml:"log_level"`

	Demo demoConfig `toml:"demo"`
}

type demoConfig struct {
	// Modules is how many modules the demo synthesizes.
	Modules int `toml:"modules"`

	// Functions is how many functions each demo module declares.
	Functions int `toml:"functions"`
}

func defaultConfig() config {
	return config{
		LogLevel: "silent",
		Demo: demoConfig{
			Modules:   8,
			Functions: 4,
		},
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.Demo.Modules <= 0 || cfg.Demo.Functions <= 0 {
		return cfg, fmt.Errorf("demo counts must be positive")
	}
	return cfg, nil
}

func (c config) buildLogger() (*zap.Logger, error) {
	switch c.LogLevel {
	case "", "silent":
		return zap.NewNop(), nil
	case "prod":
		return zap.NewProduction()
	case "dev":
		return zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}
