package dex

import (
	"context"
	"fmt"
	"math/big"

	"rangeScope/internal/density"
	"rangeScope/internal/fixedpoint"
)

// InitializedTicks scans the tick bitmap words around the current tick
// and reads liquidityNet of every initialized tick in them.
func (c *Client) InitializedTicks(ctx context.Context, req density.Request) ([]density.TickNet, error) {
	if req.TickSpacing <= 0 {
		return nil, fmt.Errorf("tick spacing %d", req.TickSpacing)
	}
	poolABI, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	block := blockArg(req.BlockNumber)
	first, last := wordRange(req.TickCurrent, req.TickSpacing, c.words)
	var out []density.TickNet
	for word := first; word <= last; word++ {
		values, err := c.call(ctx, req.Pool, poolABI, "tickBitmap", block, int16(word))
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", word, err)
		}
		bitmap, err := output[*big.Int]("tickBitmap", values, 0)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", word, err)
		}
		for _, bit := range setBits(bitmap) {
			tick := int32((word<<8)+bit) * req.TickSpacing
			values, err := c.call(ctx, req.Pool, poolABI, "ticks", block, big.NewInt(int64(tick)))
			if err != nil {
				return nil, fmt.Errorf("tick %d: %w", tick, err)
			}
			net, err := output[*big.Int]("ticks", values, 1)
			if err != nil {
				return nil, fmt.Errorf("tick %d liquidity net: %w", tick, err)
			}
			out = append(out, density.TickNet{Tick: tick, LiquidityNet: net})
		}
	}
	return out, nil
}

// wordRange returns the bitmap words within words of the current tick,
// clamped to the words that hold valid ticks.
func wordRange(current, spacing int32, words int) (int, int) {
	compressed := int(density.ActiveTick(current, spacing) / spacing)
	minWord := int(fixedpoint.MinTick/spacing) >> 8
	maxWord := int(fixedpoint.MaxTick/spacing) >> 8

	word := compressed >> 8
	first, last := word-words, word+words
	if first < minWord {
		first = minWord
	}
	if last > maxWord {
		last = maxWord
	}
	return first, last
}

// setBits returns the positions of the set bits of a bitmap word.
func setBits(bitmap *big.Int) []int {
	var out []int
	for i := 0; i < bitmap.BitLen(); i++ {
		if bitmap.Bit(i) == 1 {
			out = append(out, i)
		}
	}
	return out
}
