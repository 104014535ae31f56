package dex

import (
	"fmt"
	"math/big"
)

var (
	minInt24 = big.NewInt(-1 << 23)
	maxInt24 = big.NewInt(1<<23 - 1)
)

// output returns return value i of an unpacked call as T.
func output[T any](method string, values []interface{}, i int) (T, error) {
	var zero T
	if i >= len(values) {
		return zero, fmt.Errorf("%s: %d return values", method, len(values))
	}
	v, ok := values[i].(T)
	if !ok {
		return zero, fmt.Errorf("%s: return value %d is %T", method, i, values[i])
	}
	return v, nil
}

// int24Output reads an int24 return value, which the ABI decodes as *big.Int.
func int24Output(method string, values []interface{}, i int) (int32, error) {
	v, err := output[*big.Int](method, values, i)
	if err != nil {
		return 0, err
	}
	if v.Cmp(minInt24) < 0 || v.Cmp(maxInt24) > 0 {
		return 0, fmt.Errorf("%s: int24 overflow %s", method, v)
	}
	return int32(v.Int64()), nil
}

// blockArg maps block zero to the latest state.
func blockArg(blockNumber uint64) *big.Int {
	if blockNumber == 0 {
		return nil
	}
	return new(big.Int).SetUint64(blockNumber)
}
