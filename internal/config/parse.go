package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"rangeScope/internal/derive"
	"rangeScope/internal/rangesync"
)

// ParseAddress converts a hex string into common.Address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

// ParseAddresses converts string addresses into common.Address, skipping
// blanks.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		addr, err := ParseAddress(input)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// ParseBigInt parses a base 10 integer. Empty input yields nil.
func ParseBigInt(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	value, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer: %s", input)
	}
	return value, nil
}

// ParseField accepts 0/1 or a/b for the two deposit fields.
func ParseField(input string) (derive.Field, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "0", "a", "token0":
		return derive.FieldZero, nil
	case "1", "b", "token1":
		return derive.FieldOne, nil
	default:
		return 0, fmt.Errorf("invalid field: %s", input)
	}
}

// ParseSide accepts left/right or min/max.
func ParseSide(input string) (derive.Side, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "left", "min", "lower":
		return derive.SideLeft, nil
	case "right", "max", "upper":
		return derive.SideRight, nil
	default:
		return 0, fmt.Errorf("invalid side: %s", input)
	}
}

// ParseMode parses a gesture mode, defaulting to handle.
func ParseMode(input string) (rangesync.Mode, error) {
	if strings.TrimSpace(input) == "" {
		return rangesync.ModeHandle, nil
	}
	mode, ok := rangesync.ParseMode(strings.ToLower(strings.TrimSpace(input)))
	if !ok {
		return 0, fmt.Errorf("invalid mode: %s", input)
	}
	return mode, nil
}
