package pool

import (
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangeScope/internal/fixedpoint"
)

func cachedPool(t *testing.T, c *Cache, liquidity int64) *Pool {
	t.Helper()
	p, err := c.Pool(tokenA, tokenB, 3000, 60, fixedpoint.Q96, big.NewInt(liquidity), 0)
	require.NoError(t, err)
	return p
}

func TestCacheReturnsEqualPool(t *testing.T) {
	metrics := NewCacheMetrics(prometheus.NewRegistry())
	c := NewCache(WithMetrics(metrics))

	first := cachedPool(t, c, 10)
	second, err := c.Pool(tokenB, tokenA, 3000, 60, new(big.Int).Set(fixedpoint.Q96), big.NewInt(10), 0)
	require.NoError(t, err)
	assert.Same(t, first, second)

	third := cachedPool(t, c, 11)
	assert.NotSame(t, first, third)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Hits.WithLabelValues(kindPool)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Misses.WithLabelValues(kindPool)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Entries.WithLabelValues(kindPool)))
}

func TestCacheEvictsOldestHalf(t *testing.T) {
	metrics := NewCacheMetrics(prometheus.NewRegistry())
	c := NewCache(WithMetrics(metrics))

	pools := make([]*Pool, 0, DefaultMaxEntries+1)
	for i := 0; i <= DefaultMaxEntries; i++ {
		pools = append(pools, cachedPool(t, c, int64(i)))
	}

	live, _ := c.Len()
	assert.Equal(t, DefaultMaxEntries/2, live)
	assert.Equal(t, float64(DefaultMaxEntries+1-DefaultMaxEntries/2), testutil.ToFloat64(metrics.Evictions.WithLabelValues(kindPool)))

	assert.Same(t, pools[DefaultMaxEntries], cachedPool(t, c, int64(DefaultMaxEntries)))
	assert.Same(t, pools[DefaultMaxEntries/2+1], cachedPool(t, c, int64(DefaultMaxEntries/2+1)))
	assert.NotSame(t, pools[0], cachedPool(t, c, 0))
}

func TestCacheDoesNotStoreInvalidPools(t *testing.T) {
	c := NewCache()
	_, err := c.Pool(tokenA, tokenB, 3000, 60, fixedpoint.Q96, big.NewInt(1), 5)
	assert.ErrorIs(t, err, ErrPriceBounds)
	live, _ := c.Len()
	assert.Zero(t, live)
}

func TestCachePoolKeys(t *testing.T) {
	c := NewCache(WithMaxEntries(4))
	for i := int32(1); i <= 5; i++ {
		_, err := c.PoolKey(tokenA.Address, tokenB.Address, 3000, i, common.Address{})
		require.NoError(t, err)
	}
	_, keys := c.Len()
	assert.Equal(t, 2, keys)

	_, err := c.PoolKey(tokenA.Address, tokenA.Address, 3000, 1, common.Address{})
	assert.ErrorIs(t, err, ErrIdenticalTokens)

	c.Purge()
	pools, keys := c.Len()
	assert.Zero(t, pools)
	assert.Zero(t, keys)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, err := c.Pool(tokenA, tokenB, 3000, 60, fixedpoint.Q96, big.NewInt(int64(i%150)), 0)
				assert.NoError(t, err)
				_, err = c.PoolKey(tokenA.Address, tokenB.Address, uint32(i), 60, common.Address{})
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	pools, keys := c.Len()
	assert.LessOrEqual(t, pools, DefaultMaxEntries)
	assert.LessOrEqual(t, keys, DefaultMaxEntries)
}
