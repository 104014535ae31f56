package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Read-only surface of a concentrated liquidity pool.
const poolABIJSON = `[
  {"type": "function", "stateMutability": "view", "name": "token0", "inputs": [], "outputs": [{"name": "", "type": "address"}]},
  {"type": "function", "stateMutability": "view", "name": "token1", "inputs": [], "outputs": [{"name": "", "type": "address"}]},
  {"type": "function", "stateMutability": "view", "name": "fee", "inputs": [], "outputs": [{"name": "", "type": "uint24"}]},
  {"type": "function", "stateMutability": "view", "name": "tickSpacing", "inputs": [], "outputs": [{"name": "", "type": "int24"}]},
  {"type": "function", "stateMutability": "view", "name": "liquidity", "inputs": [], "outputs": [{"name": "", "type": "uint128"}]},
  {"type": "function", "stateMutability": "view", "name": "slot0", "inputs": [], "outputs": [
    {"name": "sqrtPriceX96", "type": "uint160"},
    {"name": "tick", "type": "int24"},
    {"name": "observationIndex", "type": "uint16"},
    {"name": "observationCardinality", "type": "uint16"},
    {"name": "observationCardinalityNext", "type": "uint16"},
    {"name": "feeProtocol", "type": "uint8"},
    {"name": "unlocked", "type": "bool"}
  ]},
  {"type": "function", "stateMutability": "view", "name": "tickBitmap", "inputs": [{"name": "wordPosition", "type": "int16"}], "outputs": [{"name": "", "type": "uint256"}]},
  {"type": "function", "stateMutability": "view", "name": "ticks", "inputs": [{"name": "tick", "type": "int24"}], "outputs": [
    {"name": "liquidityGross", "type": "uint128"},
    {"name": "liquidityNet", "type": "int128"},
    {"name": "feeGrowthOutside0X128", "type": "uint256"},
    {"name": "feeGrowthOutside1X128", "type": "uint256"},
    {"name": "tickCumulativeOutside", "type": "int56"},
    {"name": "secondsPerLiquidityOutsideX128", "type": "uint160"},
    {"name": "secondsOutside", "type": "uint32"},
    {"name": "initialized", "type": "bool"}
  ]}
]`

const erc20ABIJSON = `[
  {"type": "function", "stateMutability": "view", "name": "decimals", "inputs": [], "outputs": [{"name": "", "type": "uint8"}]},
  {"type": "function", "stateMutability": "view", "name": "symbol", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"type": "function", "stateMutability": "view", "name": "name", "inputs": [], "outputs": [{"name": "", "type": "string"}]},
  {"type": "function", "stateMutability": "view", "name": "balanceOf", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]}
]`

// Some older tokens return symbol and name as bytes32.
const erc20Bytes32ABIJSON = `[
  {"type": "function", "stateMutability": "view", "name": "symbol", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}]},
  {"type": "function", "stateMutability": "view", "name": "name", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}]}
]`

func lazyABI(definition string) func() (abi.ABI, error) {
	return sync.OnceValues(func() (abi.ABI, error) {
		return abi.JSON(strings.NewReader(definition))
	})
}

var (
	// PoolABI returns the parsed read-only pool interface.
	PoolABI         = lazyABI(poolABIJSON)
	erc20ABI        = lazyABI(erc20ABIJSON)
	erc20Bytes32ABI = lazyABI(erc20Bytes32ABIJSON)
)
