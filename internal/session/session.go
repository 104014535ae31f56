// Package session owns the range state of one pool selection and keeps
// the derived snapshot and the range brush consistent with it.
package session

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"rangeScope/internal/derive"
	"rangeScope/internal/model"
	"rangeScope/internal/pool"
	"rangeScope/internal/rangesync"
)

var ErrNoPoolSelected = errors.New("no pool selected")

// DefaultWidth is the viewport width used when none is configured.
const DefaultWidth = 800

// Config wires a session to its collaborators.
type Config struct {
	Width  float64
	Logger *zap.Logger
	Cache  *pool.Cache
}

// PoolUpdate is a pool data source result for the selected key.
type PoolUpdate struct {
	State        pool.State
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Tick         int32
}

// Snapshot is one consistent read of the session.
type Snapshot struct {
	Seq    uint64
	Key    *pool.PoolKey
	Output derive.Output
	View   rangesync.View
}

// Listener receives every new snapshot, outside the session lock.
type Listener func(Snapshot)

// Session is safe for concurrent use. Every action recomputes the whole
// snapshot from one copy of the state.
type Session struct {
	mu     sync.Mutex
	logger *zap.Logger
	cache  *pool.Cache
	ctrl   *rangesync.Controller

	key       *pool.PoolKey
	token0    model.Token
	token1    model.Token
	poolState pool.State
	pool      *pool.Pool
	state     derive.RangeState
	connected bool
	balances  [2]*big.Int

	seq       uint64
	snapshot  Snapshot
	listeners map[int]Listener
	nextID    int
}

func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := cfg.Cache
	if cache == nil {
		cache = pool.NewCache()
	}
	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}
	s := &Session{
		logger:    logger,
		cache:     cache,
		ctrl:      rangesync.NewController(width, logger.Named("rangesync")),
		listeners: make(map[int]Listener),
	}
	s.mu.Lock()
	s.recomputeLocked()
	s.mu.Unlock()
	return s
}

// Subscribe registers l and returns a function that removes it.
func (s *Session) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns the latest snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// State returns a copy of the range state.
func (s *Session) State() derive.RangeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectPool switches to the pool of the given pair. Selecting a new key
// discards the range state and the viewport.
func (s *Session) SelectPool(tokenA, tokenB model.Token, fee uint32, tickSpacing int32, extension common.Address) error {
	key, err := s.cache.PoolKey(tokenA.Address, tokenB.Address, fee, tickSpacing, extension)
	if err != nil {
		return err
	}
	s.update(func() {
		if s.key != nil && *s.key == key {
			return
		}
		s.logger.Info("pool selected", zap.String("pool_key", key.String()))
		s.key = &key
		s.token0, s.token1 = tokenA, tokenB
		if !s.token0.SortsBefore(s.token1) {
			s.token0, s.token1 = s.token1, s.token0
		}
		s.poolState = pool.StateLoading
		s.pool = nil
		s.state = derive.RangeState{}
		s.ctrl.Apply(rangesync.PoolChanged{})
	})
	return nil
}

// UpdatePool applies a pool data source result. A snapshot that cannot
// form a valid pool marks the pool invalid.
func (s *Session) UpdatePool(u PoolUpdate) error {
	var updateErr error
	s.update(func() {
		if s.key == nil {
			updateErr = ErrNoPoolSelected
			return
		}
		s.poolState = u.State
		s.pool = nil
		if u.State != pool.StateExists {
			return
		}
		p, err := s.cache.Pool(s.token0, s.token1, s.key.Fee, s.key.TickSpacing, u.SqrtPriceX96, u.Liquidity, u.Tick)
		if err != nil {
			s.logger.Warn("pool snapshot rejected", zap.String("pool_key", s.key.String()), zap.Error(err))
			s.poolState = pool.StateInvalid
			updateErr = err
			return
		}
		s.pool = p
	})
	return updateErr
}

func (s *Session) SetConnected(connected bool) {
	s.update(func() { s.connected = connected })
}

// SetBalances records raw wallet balances of token0 and token1.
func (s *Session) SetBalances(balance0, balance1 *big.Int) {
	s.update(func() { s.balances = [2]*big.Int{copyInt(balance0), copyInt(balance1)} })
}

func (s *Session) SetTypedAmount(field derive.Field, value string) {
	s.update(func() { s.state.TypeAmount(field, value) })
}

func (s *Session) SetRangeBound(side derive.Side, value string) {
	s.update(func() { s.state.TypeBound(side, value) })
}

func (s *Session) SetStartPrice(value string) {
	s.update(func() { s.state.TypeStartPrice(value) })
}

func (s *Session) SetFullRange() {
	s.update(func() {
		s.state.SetFullRange()
		s.applyEvent(rangesync.FullRange{})
	})
}

func (s *Session) InvertPrice() {
	s.update(func() { s.state.Invert() })
}

// ResetRange clears the typed bounds and recenters the viewport on the
// default range.
func (s *Session) ResetRange() {
	s.update(func() {
		s.state.ResetRange()
		s.applyEvent(rangesync.ResetZoom{})
	})
}

func (s *Session) GestureStart() {
	s.update(func() { s.applyEvent(rangesync.GestureStart{}) })
}

func (s *Session) GestureMove(extent [2]float64) {
	s.update(func() { s.applyEvent(rangesync.GestureMove{Extent: extent}) })
}

func (s *Session) GestureEnd(extent [2]float64, mode rangesync.Mode) {
	s.update(func() { s.applyEvent(rangesync.GestureEnd{Extent: extent, Mode: mode}) })
}

func (s *Session) Zoom(transform rangesync.ZoomTransform) {
	s.update(func() { s.applyEvent(rangesync.Zoom{Transform: transform}) })
}

func (s *Session) ZoomIn() {
	s.update(func() { s.applyEvent(rangesync.ZoomIn{}) })
}

func (s *Session) ZoomOut() {
	s.update(func() { s.applyEvent(rangesync.ZoomOut{}) })
}

func (s *Session) ResetZoom() {
	s.update(func() { s.applyEvent(rangesync.ResetZoom{}) })
}

func (s *Session) applyEvent(ev rangesync.Event) {
	commit := s.ctrl.Apply(ev)
	if commit == nil {
		return
	}
	commit.ApplyTo(&s.state)
	s.logger.Debug("range committed", zap.String("mode", commit.Mode.String()), zap.Any("ticks", tickFields(commit.Ticks)))
}

func (s *Session) update(mutate func()) {
	s.mu.Lock()
	mutate()
	snap, listeners := s.recomputeLocked()
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Session) recomputeLocked() (Snapshot, []Listener) {
	out := derive.Derive(s.input())
	if commit := s.ctrl.Sync(out); commit != nil {
		commit.ApplyTo(&s.state)
		out = derive.Derive(s.input())
		s.ctrl.Sync(out)
	}

	s.seq++
	s.snapshot = Snapshot{Seq: s.seq, Output: out, View: s.ctrl.View()}
	if s.key != nil {
		key := *s.key
		s.snapshot.Key = &key
	}

	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return s.snapshot, listeners
}

func (s *Session) input() derive.Input {
	return derive.Input{
		Key:       s.key,
		Token0:    s.token0,
		Token1:    s.token1,
		PoolState: s.poolState,
		Pool:      s.pool,
		State:     s.state,
		Connected: s.connected,
		Balances:  s.balances,
	}
}

func tickFields(ticks [2]*int32) []any {
	out := make([]any, 0, 2)
	for _, t := range ticks {
		if t == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, *t)
	}
	return out
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
