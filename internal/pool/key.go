package pool

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrIdenticalTokens     = errors.New("pool tokens must differ")
	ErrInvalidTickSpacing  = errors.New("tick spacing must be positive")
	ErrChainMismatch       = errors.New("pool tokens are on different chains")
	ErrPriceBounds         = errors.New("sqrt price is outside the current tick")
	ErrTickOutOfBounds     = errors.New("current tick out of bounds")
	ErrMissingPoolQuantity = errors.New("sqrt price and liquidity are required")
)

// feeTickSpacing holds the tick spacing of the standard fee tiers.
var feeTickSpacing = map[uint32]int32{
	100:   1,
	500:   10,
	3000:  60,
	10000: 200,
}

// TickSpacingForFee returns the standard tick spacing of a fee tier.
func TickSpacingForFee(fee uint32) (int32, bool) {
	spacing, ok := feeTickSpacing[fee]
	return spacing, ok
}

// PoolKey identifies a pool by its sorted currencies, fee tier, tick
// spacing and extension contract.
type PoolKey struct {
	Currency0   common.Address `json:"currency0"`
	Currency1   common.Address `json:"currency1"`
	Fee         uint32         `json:"fee"`
	TickSpacing int32          `json:"tick_spacing"`
	Extension   common.Address `json:"extension"`
}

// NewPoolKey sorts the currencies and validates the key.
func NewPoolKey(currencyA, currencyB common.Address, fee uint32, tickSpacing int32, extension common.Address) (PoolKey, error) {
	if currencyA == currencyB {
		return PoolKey{}, ErrIdenticalTokens
	}
	if tickSpacing <= 0 {
		return PoolKey{}, ErrInvalidTickSpacing
	}
	if bytes.Compare(currencyA.Bytes(), currencyB.Bytes()) > 0 {
		currencyA, currencyB = currencyB, currencyA
	}
	return PoolKey{
		Currency0:   currencyA,
		Currency1:   currencyB,
		Fee:         fee,
		TickSpacing: tickSpacing,
		Extension:   extension,
	}, nil
}

// String returns the component key used for cache lookups.
func (k PoolKey) String() string {
	return componentKey(k.Currency0, k.Currency1, k.Fee, k.TickSpacing, k.Extension)
}

var poolKeyArgs = abi.Arguments{
	{Type: mustType("address")},
	{Type: mustType("address")},
	{Type: mustType("uint24")},
	{Type: mustType("int24")},
	{Type: mustType("address")},
}

// ID returns keccak256 of the ABI encoded key.
func (k PoolKey) ID() (common.Hash, error) {
	packed, err := poolKeyArgs.Pack(
		k.Currency0,
		k.Currency1,
		new(big.Int).SetUint64(uint64(k.Fee)),
		big.NewInt(int64(k.TickSpacing)),
		k.Extension,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack pool key: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}

func componentKey(currency0, currency1 common.Address, fee uint32, tickSpacing int32, extension common.Address) string {
	return fmt.Sprintf("%s-%s-%d-%d-%s", currency0.Hex(), currency1.Hex(), fee, tickSpacing, extension.Hex())
}

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}
