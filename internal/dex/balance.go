package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"rangeScope/internal/model"
)

// BalanceOf returns the ERC20 balance of owner. A nil block reads the
// latest state.
func (c *Client) BalanceOf(ctx context.Context, token, owner common.Address, blockNumber *big.Int) (*big.Int, error) {
	balanceABI, err := erc20ABI()
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, token, balanceABI, "balanceOf", blockNumber, owner)
	if err != nil {
		return nil, err
	}
	return output[*big.Int]("balanceOf", values, 0)
}

// Balances returns the raw balances of owner in token0 and token1 at a
// block height. Block zero reads the latest state.
func (c *Client) Balances(ctx context.Context, owner common.Address, token0, token1 model.Token, blockNumber uint64) ([2]*big.Int, error) {
	var out [2]*big.Int
	for i, token := range []model.Token{token0, token1} {
		bal, err := c.BalanceOf(ctx, token.Address, owner, blockArg(blockNumber))
		if err != nil {
			c.logger.Warn("balance fetch failed", zap.String("token", token.Address.Hex()), zap.String("account", owner.Hex()), zap.Error(err))
			return [2]*big.Int{}, fmt.Errorf("balance of %s: %w", token.DisplaySymbol(), err)
		}
		out[i] = bal
	}
	return out, nil
}
