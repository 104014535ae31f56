package dex

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"rangeScope/internal/model"
)

// Token returns cached token metadata, fetching it on first use.
func (c *Client) Token(ctx context.Context, address common.Address) (model.Token, error) {
	if token, ok := c.tokens.get(address); ok {
		return token, nil
	}
	token, err := c.FetchTokenMeta(ctx, address)
	if err != nil {
		c.logger.Warn("token metadata fetch failed", zap.String("token", address.Hex()), zap.Error(err))
		return token, err
	}
	c.tokens.set(address, token)
	return token, nil
}

// FetchTokenMeta loads token metadata via ERC20 calls. Only decimals is
// required; symbol and name fall back to their bytes32 encoding.
func (c *Client) FetchTokenMeta(ctx context.Context, address common.Address) (model.Token, error) {
	token := model.Token{ChainID: c.chainID, Address: address}

	erc20, err := erc20ABI()
	if err != nil {
		return token, fmt.Errorf("parse erc20 abi: %w", err)
	}
	values, err := c.call(ctx, address, erc20, "decimals", nil)
	if err != nil {
		return token, err
	}
	if token.Decimals, err = output[uint8]("decimals", values, 0); err != nil {
		return token, err
	}

	for _, field := range []struct {
		method string
		dst    *string
	}{
		{"symbol", &token.Symbol},
		{"name", &token.Name},
	} {
		text, err := c.optionalText(ctx, address, field.method)
		if err != nil {
			c.logger.Debug("optional token call failed", zap.String("token", address.Hex()), zap.String("method", field.method), zap.Error(err))
			continue
		}
		*field.dst = text
	}
	return token, nil
}

// optionalText reads a string getter that some tokens implement as bytes32.
// The calls are not retried since a revert is an expected answer.
func (c *Client) optionalText(ctx context.Context, address common.Address, method string) (string, error) {
	erc20, err := erc20ABI()
	if err != nil {
		return "", err
	}
	if values, err := c.callOnce(ctx, address, erc20, method); err == nil {
		if text, err := output[string](method, values, 0); err == nil {
			return text, nil
		}
	}

	legacy, err := erc20Bytes32ABI()
	if err != nil {
		return "", err
	}
	values, err := c.callOnce(ctx, address, legacy, method)
	if err != nil {
		return "", err
	}
	raw, err := output[[32]byte](method, values, 0)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(raw[:], "\x00")), nil
}
