package dex

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// metaCache memoizes contract fields that never change after deployment.
type metaCache[T any] struct {
	mu   sync.RWMutex
	data map[common.Address]T
}

func newMetaCache[T any]() *metaCache[T] {
	return &metaCache[T]{data: make(map[common.Address]T)}
}

func (c *metaCache[T]) get(address common.Address) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[address]
	return v, ok
}

func (c *metaCache[T]) set(address common.Address, v T) {
	c.mu.Lock()
	c.data[address] = v
	c.mu.Unlock()
}
