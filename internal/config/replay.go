package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ReplayConfig holds configuration for the replay command.
type ReplayConfig struct {
	PoolConfig
	In       string
	Out      string
	PoolOut  string
	PgDSN    string
	Migrate  bool
	Width    float64
	LogLevel string
}

// LoadReplay merges config file, environment variables, and flags into ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":     "./data/range_snapshots.jsonl",
		"migrate": false,
		"width":   800.0,
	})
	if err != nil {
		return ReplayConfig{}, err
	}

	cfg := ReplayConfig{
		PoolConfig: loadPool(v),
		In:         v.GetString("in"),
		Out:        v.GetString("out"),
		PoolOut:    v.GetString("pool-out"),
		PgDSN:      v.GetString("pg-dsn"),
		Migrate:    v.GetBool("migrate"),
		Width:      v.GetFloat64("width"),
		LogLevel:   v.GetString("log-level"),
	}
	if cfg.In == "" {
		return ReplayConfig{}, fmt.Errorf("in is required")
	}
	if err := cfg.Validate(); err != nil {
		return ReplayConfig{}, err
	}
	return cfg, nil
}
