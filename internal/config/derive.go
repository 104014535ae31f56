package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// DeriveConfig holds configuration for the derive command.
type DeriveConfig struct {
	PoolConfig
	Field      string
	Amount     string
	MinPrice   string
	MaxPrice   string
	FullRange  bool
	Invert     bool
	StartPrice string
	Account    string
	Balance0   string
	Balance1   string
	Width      float64
	LogLevel   string
}

// LoadDerive merges config file, environment variables, and flags into DeriveConfig.
func LoadDerive(cfgFile string, flags *pflag.FlagSet) (DeriveConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"field": "0",
		"width": 800.0,
	})
	if err != nil {
		return DeriveConfig{}, err
	}

	cfg := DeriveConfig{
		PoolConfig: loadPool(v),
		Field:      v.GetString("field"),
		Amount:     v.GetString("amount"),
		MinPrice:   v.GetString("min-price"),
		MaxPrice:   v.GetString("max-price"),
		FullRange:  v.GetBool("full-range"),
		Invert:     v.GetBool("invert"),
		StartPrice: v.GetString("start-price"),
		Account:    v.GetString("account"),
		Balance0:   v.GetString("balance0"),
		Balance1:   v.GetString("balance1"),
		Width:      v.GetFloat64("width"),
		LogLevel:   v.GetString("log-level"),
	}
	if err := cfg.Validate(); err != nil {
		return DeriveConfig{}, err
	}
	if _, err := ParseField(cfg.Field); err != nil {
		return DeriveConfig{}, err
	}
	if cfg.Account != "" {
		if _, err := ParseAddress(cfg.Account); err != nil {
			return DeriveConfig{}, fmt.Errorf("account: %w", err)
		}
	}
	return cfg, nil
}
