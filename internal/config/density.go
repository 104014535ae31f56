package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// DensityConfig holds configuration for the density command.
type DensityConfig struct {
	PoolConfig
	Words    int
	Timeout  time.Duration
	Out      string
	LogLevel string
}

// LoadDensity merges config file, environment variables, and flags into DensityConfig.
func LoadDensity(cfgFile string, flags *pflag.FlagSet) (DensityConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"words":   2,
		"timeout": 30 * time.Second,
	})
	if err != nil {
		return DensityConfig{}, err
	}

	cfg := DensityConfig{
		PoolConfig: loadPool(v),
		Words:      v.GetInt("words"),
		Timeout:    v.GetDuration("timeout"),
		Out:        v.GetString("out"),
		LogLevel:   v.GetString("log-level"),
	}
	if !cfg.FromChain() {
		return DensityConfig{}, fmt.Errorf("rpc and pool are required")
	}
	if err := cfg.Validate(); err != nil {
		return DensityConfig{}, err
	}
	if cfg.Words < 0 {
		return DensityConfig{}, fmt.Errorf("words must not be negative")
	}
	return cfg, nil
}
