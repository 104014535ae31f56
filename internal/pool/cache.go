package pool

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"rangeScope/internal/model"
)

// DefaultMaxEntries bounds each cache map.
const DefaultMaxEntries = 128

// Cache deduplicates pools and pool keys by value. New entries go to the
// front; when a map grows past its bound only the newest half is kept.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	metrics    *CacheMetrics

	pools    []*Pool
	keys     map[string]PoolKey
	keyOrder []string
}

type CacheOption func(*Cache)

// WithMaxEntries overrides DefaultMaxEntries.
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n > 1 {
			c.maxEntries = n
		}
	}
}

// WithMetrics records cache traffic on m.
func WithMetrics(m *CacheMetrics) CacheOption {
	return func(c *Cache) {
		c.metrics = m
	}
}

func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		maxEntries: DefaultMaxEntries,
		keys:       make(map[string]PoolKey),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PoolKey returns the cached key for the inputs, constructing it on a miss.
func (c *Cache) PoolKey(currencyA, currencyB common.Address, fee uint32, tickSpacing int32, extension common.Address) (PoolKey, error) {
	key, err := NewPoolKey(currencyA, currencyB, fee, tickSpacing, extension)
	if err != nil {
		return PoolKey{}, err
	}
	id := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.keys[id]; ok {
		c.metrics.hit(kindKey)
		return cached, nil
	}
	c.metrics.miss(kindKey)

	c.keys[id] = key
	c.keyOrder = append([]string{id}, c.keyOrder...)
	if len(c.keyOrder) > c.maxEntries {
		keep := c.maxEntries / 2
		for _, stale := range c.keyOrder[keep:] {
			delete(c.keys, stale)
		}
		c.metrics.evicted(kindKey, len(c.keyOrder)-keep)
		c.keyOrder = append([]string(nil), c.keyOrder[:keep]...)
	}
	c.metrics.size(kindKey, len(c.keyOrder))
	return key, nil
}

// Pool returns a cached pool equal in every field to the inputs, or
// constructs one. Construction errors are not cached.
func (c *Cache) Pool(tokenA, tokenB model.Token, fee uint32, tickSpacing int32, sqrtPriceX96, liquidity *big.Int, tickCurrent int32) (*Pool, error) {
	token0, token1 := tokenA, tokenB
	if !token0.SortsBefore(token1) {
		token0, token1 = token1, token0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if sqrtPriceX96 != nil && liquidity != nil {
		for _, p := range c.pools {
			if p.matches(token0, token1, fee, tickSpacing, sqrtPriceX96, liquidity, tickCurrent) {
				c.metrics.hit(kindPool)
				return p, nil
			}
		}
	}
	c.metrics.miss(kindPool)

	p, err := New(tokenA, tokenB, fee, tickSpacing, sqrtPriceX96, liquidity, tickCurrent)
	if err != nil {
		return nil, err
	}

	c.pools = append([]*Pool{p}, c.pools...)
	if len(c.pools) > c.maxEntries {
		keep := c.maxEntries / 2
		c.metrics.evicted(kindPool, len(c.pools)-keep)
		c.pools = append([]*Pool(nil), c.pools[:keep]...)
	}
	c.metrics.size(kindPool, len(c.pools))
	return p, nil
}

// Len returns the live pool and key entry counts.
func (c *Cache) Len() (pools, keys int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pools), len(c.keyOrder)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools = nil
	c.keys = make(map[string]PoolKey)
	c.keyOrder = nil
	c.metrics.size(kindPool, 0)
	c.metrics.size(kindKey, 0)
}
