package main

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangeScope/internal/derive"
	"rangeScope/internal/model"
	"rangeScope/internal/pool"
	"rangeScope/internal/session"
	"rangeScope/internal/storage"
)

var (
	weth = model.Token{ChainID: 1, Address: common.HexToAddress("0x1111111111111111111111111111111111111111"), Decimals: 18, Symbol: "WETH"}
	dai  = model.Token{ChainID: 1, Address: common.HexToAddress("0x2222222222222222222222222222222222222222"), Decimals: 18, Symbol: "DAI"}
)

const q96 = "79228162514264337593543950336"

func int32Ptr(v int32) *int32 { return &v }

func scriptSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(session.Config{Width: 1000})
	require.NoError(t, sess.SelectPool(dai, weth, 3000, 60, common.Address{}))
	return sess
}

func TestApplyStepScript(t *testing.T) {
	sess := scriptSession(t)
	script := []model.ScriptStep{
		{Action: model.ActionPool, SqrtPriceX96: q96, Liquidity: "1000000000000000000000", Tick: int32Ptr(0)},
		{Action: model.ActionConnect},
		{Action: model.ActionBound, Side: "min", Value: "0.99"},
		{Action: model.ActionBound, Side: "max", Value: "1.01"},
		{Action: model.ActionAmount, Field: "0", Value: "10"},
		{Action: model.ActionBalances, Values: []string{"5000000000000000000", "100000000000000000000"}},
	}
	for _, step := range script {
		require.NoError(t, applyStep(sess, step), step.Action)
	}

	snap := sess.Snapshot()
	assert.Equal(t, pool.StateExists, snap.Output.PoolState)
	assert.Equal(t, "Insufficient WETH balance", snap.Output.ErrorMessage)
	rec := snap.Record(time.Unix(1700000000, 0))
	require.NotNil(t, rec.TickLower)
	require.NotNil(t, rec.TickUpper)
	assert.Equal(t, int32(-120), *rec.TickLower)
	assert.Equal(t, int32(120), *rec.TickUpper)
	assert.Equal(t, "10", rec.Amount0)

	require.NoError(t, applyStep(sess, model.ScriptStep{Action: model.ActionConnect, Value: "false"}))
	assert.Equal(t, derive.MsgConnectWallet, sess.Snapshot().Output.ErrorMessage)
}

func TestApplyStepToggles(t *testing.T) {
	sess := scriptSession(t)
	require.NoError(t, applyStep(sess, model.ScriptStep{Action: model.ActionPool, SqrtPriceX96: q96, Liquidity: "1"}))

	require.NoError(t, applyStep(sess, model.ScriptStep{Action: model.ActionInvert}))
	assert.True(t, sess.State().Inverted)

	require.NoError(t, applyStep(sess, model.ScriptStep{Action: model.ActionFullRange}))
	assert.True(t, sess.State().FullRange)

	require.NoError(t, applyStep(sess, model.ScriptStep{Action: model.ActionResetRange}))
	assert.False(t, sess.State().FullRange)

	for _, action := range []string{model.ActionZoomIn, model.ActionZoomOut, model.ActionZoomReset} {
		require.NoError(t, applyStep(sess, model.ScriptStep{Action: action}), action)
	}
	require.NoError(t, applyStep(sess, model.ScriptStep{Action: model.ActionGesture, Extent: []float64{100, 900}, Mode: "handle"}))
}

func TestApplyStepErrors(t *testing.T) {
	sess := scriptSession(t)
	cases := []model.ScriptStep{
		{Action: "teleport"},
		{Action: model.ActionBalances, Values: []string{"1"}},
		{Action: model.ActionBalances, Values: []string{"1", "x"}},
		{Action: model.ActionGesture, Extent: []float64{1}},
		{Action: model.ActionGesture, Extent: []float64{1, 2}, Mode: "spin"},
		{Action: model.ActionBound, Side: "middle", Value: "1"},
		{Action: model.ActionAmount, Field: "2", Value: "1"},
		{Action: model.ActionConnect, Value: "maybe"},
		{Action: model.ActionPool, State: "exists"},
		{Action: model.ActionPool, State: "gone"},
	}
	for _, step := range cases {
		assert.Error(t, applyStep(sess, step), "%+v", step)
	}
}

func TestRecorderFlush(t *testing.T) {
	dir := t.TempDir()
	rangePath := filepath.Join(dir, "ranges.jsonl")
	sink := storage.Multi{storage.NewJsonlStorage(rangePath, "")}

	sess := scriptSession(t)
	rec := &recorder{now: func() time.Time { return time.Unix(1700000000, 0) }}
	rec.resumeAfter(100)
	unsubscribe := sess.Subscribe(rec.listen)
	defer unsubscribe()

	require.NoError(t, applyStep(sess, model.ScriptStep{Action: model.ActionPool, SqrtPriceX96: q96, Liquidity: "1"}))
	require.NoError(t, applyStep(sess, model.ScriptStep{Action: model.ActionAmount, Value: "1"}))

	n, err := rec.flush(context.Background(), sink)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = rec.flush(context.Background(), sink)
	require.NoError(t, err)
	assert.Zero(t, n)

	file, err := os.Open(rangePath)
	require.NoError(t, err)
	defer file.Close()
	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 2, lines)
}

func TestPoolRecord(t *testing.T) {
	sess := scriptSession(t)
	update, err := applyPoolStep(sess, model.ScriptStep{Action: model.ActionPool, SqrtPriceX96: q96, Liquidity: "42"})
	require.NoError(t, err)

	rec := poolRecord(sess.Snapshot().Key, weth, update, time.Unix(1700000000, 0))
	assert.Equal(t, uint64(1), rec.ChainID)
	assert.Equal(t, weth.Address.Hex(), rec.Token0)
	assert.Equal(t, dai.Address.Hex(), rec.Token1)
	assert.Equal(t, uint32(3000), rec.Fee)
	assert.Equal(t, int32(60), rec.TickSpacing)
	assert.Equal(t, q96, rec.SqrtPriceX96)
	assert.Equal(t, "42", rec.Liquidity)
	assert.Equal(t, int32(0), rec.Tick)
	assert.Equal(t, "2023-11-14T22:13:20Z", rec.ObservedAt)
	assert.NotEmpty(t, rec.PoolKey)
}
