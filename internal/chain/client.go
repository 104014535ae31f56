package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is a read-only view of one chain over JSON-RPC.
type Client struct {
	rpc     *rpc.Client
	eth     *ethclient.Client
	chainID uint64
}

// Dial connects to rpcURL and reads the chain id once.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	rc, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	c := &Client{rpc: rc, eth: ethclient.NewClient(rc)}

	id, err := c.eth.ChainID(ctx)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	c.chainID = id.Uint64()
	return c, nil
}

func (c *Client) Close() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

func (c *Client) ChainID() uint64 { return c.chainID }

// PinBlock returns blockNumber, or the current head when it is zero, so
// every read of one command sees the same height.
func (c *Client) PinBlock(ctx context.Context, blockNumber uint64) (uint64, error) {
	if blockNumber > 0 {
		return blockNumber, nil
	}
	head, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("block number: %w", err)
	}
	return head, nil
}

// CallContract performs an eth_call. A nil block reads the latest state.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.eth.CallContract(ctx, msg, blockNumber)
}
