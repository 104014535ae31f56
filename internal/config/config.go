package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PoolConfig identifies a pool either by address, read over RPC, or by
// its tokens and an explicit state.
type PoolConfig struct {
	RPCURL      string
	ChainID     uint64
	Pool        string
	Block       uint64
	Token0      string
	Token1      string
	Decimals0   uint8
	Decimals1   uint8
	Symbol0     string
	Symbol1     string
	Fee         uint32
	TickSpacing int32
	Extension   string
	SqrtPrice   string
	// Tick is nil when not set; it is then derived from SqrtPrice.
	Tick         *int32
	Liquidity    string
	MaxRetries   int
	RetryBackoff time.Duration
}

// FromChain reports whether the pool state is read over RPC.
func (c PoolConfig) FromChain() bool {
	return c.RPCURL != "" && c.Pool != ""
}

// Validate checks that the pool is identified one way or the other.
func (c PoolConfig) Validate() error {
	if c.FromChain() {
		if _, err := ParseAddress(c.Pool); err != nil {
			return fmt.Errorf("pool: %w", err)
		}
		return nil
	}
	if c.Pool != "" {
		return fmt.Errorf("rpc is required to read pool %s", c.Pool)
	}
	if c.Token0 == "" || c.Token1 == "" {
		return fmt.Errorf("either rpc and pool or token0 and token1 are required")
	}
	for name, value := range map[string]string{"token0": c.Token0, "token1": c.Token1} {
		if _, err := ParseAddress(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Extension != "" {
		if _, err := ParseAddress(c.Extension); err != nil {
			return fmt.Errorf("extension: %w", err)
		}
	}
	if c.Fee == 0 {
		return fmt.Errorf("fee is required")
	}
	return nil
}

// newViper merges defaults, config file, environment variables and flags.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("RANGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", uint64(1))
	v.SetDefault("decimals0", 18)
	v.SetDefault("decimals1", 18)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 250*time.Millisecond)
	v.SetDefault("log-level", "info")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func loadPool(v *viper.Viper) PoolConfig {
	cfg := PoolConfig{
		RPCURL:       v.GetString("rpc"),
		ChainID:      v.GetUint64("chain-id"),
		Pool:         v.GetString("pool"),
		Block:        v.GetUint64("block"),
		Token0:       v.GetString("token0"),
		Token1:       v.GetString("token1"),
		Decimals0:    uint8(v.GetUint("decimals0")),
		Decimals1:    uint8(v.GetUint("decimals1")),
		Symbol0:      v.GetString("symbol0"),
		Symbol1:      v.GetString("symbol1"),
		Fee:          v.GetUint32("fee"),
		TickSpacing:  v.GetInt32("tick-spacing"),
		Extension:    v.GetString("extension"),
		SqrtPrice:    v.GetString("sqrt-price"),
		Liquidity:    v.GetString("liquidity"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
	}
	if v.IsSet("tick") {
		tick := v.GetInt32("tick")
		cfg.Tick = &tick
	}
	return cfg
}
