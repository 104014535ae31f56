package dex

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"rangeScope/internal/chain"
	"rangeScope/internal/model"
)

const defaultTickWords = 2

// Caller performs eth_call. *chain.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client reads pools, tokens and balances through contract calls.
type Client struct {
	caller  Caller
	chainID uint64
	logger  *zap.Logger
	tokens  *metaCache[model.Token]
	pools   *metaCache[model.PoolMeta]

	maxRetries int
	backoff    time.Duration
	words      int
}

type Option func(*Client)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetry retries failed calls up to maxRetries times.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// WithTickWords sets how many bitmap words on each side of the current
// tick are scanned for initialized ticks.
func WithTickWords(words int) Option {
	return func(c *Client) {
		if words >= 0 {
			c.words = words
		}
	}
}

func NewClient(caller Caller, chainID uint64, opts ...Option) *Client {
	c := &Client{
		caller:  caller,
		chainID: chainID,
		logger:  zap.NewNop(),
		tokens:  newMetaCache[model.Token](),
		pools:   newMetaCache[model.PoolMeta](),
		words:   defaultTickWords,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChainID returns the chain the client reads from.
func (c *Client) ChainID() uint64 { return c.chainID }

// call packs, sends with retry and unpacks one view method.
func (c *Client) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, block *big.Int, args ...interface{}) ([]interface{}, error) {
	return c.invoke(ctx, to, parsed, method, block, c.maxRetries, args...)
}

// callOnce is call without retry, for optional methods that may revert.
func (c *Client) callOnce(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	return c.invoke(ctx, to, parsed, method, nil, 0, args...)
}

func (c *Client) invoke(ctx context.Context, to common.Address, parsed abi.ABI, method string, block *big.Int, retries int, args ...interface{}) ([]interface{}, error) {
	if c.caller == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}

	var resp []byte
	err = chain.WithRetry(ctx, retries, c.backoff, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.caller.CallContract(ctx, msg, block)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}
