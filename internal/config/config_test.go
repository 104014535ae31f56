package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"rangeScope/internal/derive"
	"rangeScope/internal/rangesync"
)

const (
	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
)

func deriveFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("derive", pflag.ContinueOnError)
	flags.String("token0", "", "")
	flags.String("token1", "", "")
	flags.Uint32("fee", 0, "")
	flags.Int32("tick-spacing", 0, "")
	flags.String("amount", "", "")
	flags.String("field", "0", "")
	flags.Bool("invert", false, "")
	flags.String("account", "", "")
	flags.Int32("tick", 0, "")
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func TestLoadDeriveFromFlags(t *testing.T) {
	flags := deriveFlags(t, "--token0", addrA, "--token1", addrB, "--fee", "3000", "--amount", "1.5", "--field", "b", "--invert")

	cfg, err := LoadDerive("", flags)
	if err != nil {
		t.Fatalf("load derive: %v", err)
	}
	if cfg.Token0 != addrA || cfg.Token1 != addrB {
		t.Fatalf("unexpected tokens %s %s", cfg.Token0, cfg.Token1)
	}
	if cfg.Fee != 3000 || cfg.Amount != "1.5" || !cfg.Invert {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Decimals0 != 18 || cfg.ChainID != 1 || cfg.Width != 800 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.MaxRetries != 3 || cfg.RetryBackoff != 250*time.Millisecond {
		t.Fatalf("retry defaults not applied: %+v", cfg)
	}
	if cfg.FromChain() {
		t.Fatalf("expected explicit pool config")
	}
}

func TestLoadDeriveEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "range.yaml")
	content := "token0: " + addrA + "\ntoken1: " + addrB + "\nfee: 500\ndecimals1: 6\nmin-price: \"1800\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RANGE_MAX_PRICE", "2200")

	cfg, err := LoadDerive(path, deriveFlags(t))
	if err != nil {
		t.Fatalf("load derive: %v", err)
	}
	if cfg.Fee != 500 || cfg.Decimals1 != 6 || cfg.MinPrice != "1800" || cfg.MaxPrice != "2200" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadDeriveRejectsBadInput(t *testing.T) {
	cases := [][]string{
		{"--token0", addrA, "--fee", "3000"},
		{"--token0", "0x12", "--token1", addrB, "--fee", "3000"},
		{"--token0", addrA, "--token1", addrB},
		{"--token0", addrA, "--token1", addrB, "--fee", "3000", "--field", "c"},
		{"--token0", addrA, "--token1", addrB, "--fee", "3000", "--account", "nope"},
	}
	for _, args := range cases {
		if _, err := LoadDerive("", deriveFlags(t, args...)); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestLoadReplayRequiresInput(t *testing.T) {
	flags := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	flags.String("in", "", "")
	flags.String("token0", addrA, "")
	flags.String("token1", addrB, "")
	flags.Uint32("fee", 3000, "")
	if _, err := LoadReplay("", flags); err == nil {
		t.Fatalf("expected error without input")
	}

	if err := flags.Parse([]string{"--in", "script.jsonl"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := LoadReplay("", flags)
	if err != nil {
		t.Fatalf("load replay: %v", err)
	}
	if cfg.Out != "./data/range_snapshots.jsonl" {
		t.Fatalf("unexpected default out %s", cfg.Out)
	}
}

func TestLoadDensityRequiresChain(t *testing.T) {
	flags := pflag.NewFlagSet("density", pflag.ContinueOnError)
	flags.String("rpc", "", "")
	flags.String("pool", "", "")
	if _, err := LoadDensity("", flags); err == nil {
		t.Fatalf("expected error without rpc")
	}

	if err := flags.Parse([]string{"--rpc", "http://localhost:8545", "--pool", addrA}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := LoadDensity("", flags)
	if err != nil {
		t.Fatalf("load density: %v", err)
	}
	if cfg.Words != 2 || cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseHelpers(t *testing.T) {
	addrs, err := ParseAddresses([]string{addrA, " ", addrB})
	if err != nil || len(addrs) != 2 {
		t.Fatalf("unexpected addresses %v %v", addrs, err)
	}
	if _, err := ParseAddresses([]string{"bad"}); err == nil {
		t.Fatalf("expected invalid address error")
	}

	v, err := ParseBigInt("79228162514264337593543950336")
	if err != nil || v.String() != "79228162514264337593543950336" {
		t.Fatalf("unexpected big int %v %v", v, err)
	}
	if v, err := ParseBigInt(""); err != nil || v != nil {
		t.Fatalf("expected nil for empty input")
	}
	if _, err := ParseBigInt("1.5"); err == nil {
		t.Fatalf("expected error for fractional input")
	}

	if f, err := ParseField("token1"); err != nil || f != derive.FieldOne {
		t.Fatalf("unexpected field %v %v", f, err)
	}
	if s, err := ParseSide("max"); err != nil || s != derive.SideRight {
		t.Fatalf("unexpected side %v %v", s, err)
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Fatalf("expected invalid side error")
	}
	if m, err := ParseMode(""); err != nil || m != rangesync.ModeHandle {
		t.Fatalf("unexpected default mode %v %v", m, err)
	}
	if m, err := ParseMode("Drag"); err != nil || m != rangesync.ModeDrag {
		t.Fatalf("unexpected mode %v %v", m, err)
	}
	if _, err := ParseMode("fling"); err == nil {
		t.Fatalf("expected invalid mode error")
	}
}

func TestLoadDeriveTickOnlyWhenSet(t *testing.T) {
	cfg, err := LoadDerive("", deriveFlags(t, "--token0", addrA, "--token1", addrB, "--fee", "3000"))
	if err != nil {
		t.Fatalf("load derive: %v", err)
	}
	if cfg.Tick != nil {
		t.Fatalf("expected unset tick, got %d", *cfg.Tick)
	}

	cfg, err = LoadDerive("", deriveFlags(t, "--token0", addrA, "--token1", addrB, "--fee", "3000", "--tick", "-5"))
	if err != nil {
		t.Fatalf("load derive: %v", err)
	}
	if cfg.Tick == nil || *cfg.Tick != -5 {
		t.Fatalf("expected tick -5, got %v", cfg.Tick)
	}
}
