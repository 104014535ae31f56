package model

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// Token captures ERC20 metadata together with the chain it lives on.
type Token struct {
	ChainID  uint64         `json:"chain_id"`
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name,omitempty"`
}

// Equals reports whether both tokens refer to the same contract.
func (t Token) Equals(other Token) bool {
	return t.ChainID == other.ChainID && t.Address == other.Address
}

// SortsBefore reports whether t is token0 of a pair made with other.
func (t Token) SortsBefore(other Token) bool {
	return bytes.Compare(t.Address.Bytes(), other.Address.Bytes()) < 0
}

// DisplaySymbol falls back to the shortened address when no symbol is known.
func (t Token) DisplaySymbol() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	hex := t.Address.Hex()
	return hex[:6] + "…" + hex[len(hex)-4:]
}
