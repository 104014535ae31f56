package density

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid density request")

// Result is the state of the latest load.
type Result struct {
	Status     Status          `json:"status"`
	Generation uint64          `json:"generation"`
	ActiveTick int32           `json:"active_tick"`
	Entries    []TickLiquidity `json:"entries,omitempty"`
	Err        error           `json:"-"`
}

// Loader runs density loads in the background. Only the result of the
// most recent Load is kept; older loads are cancelled and their results
// dropped.
type Loader struct {
	source Source
	logger *zap.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	result Result
}

func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, logger: logger}
}

// Load starts a load for req and returns its generation together with a
// channel closed once the load has finished or been superseded.
func (l *Loader) Load(ctx context.Context, req Request) (uint64, <-chan struct{}) {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.result = Result{Status: StatusLoading, Generation: gen}
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		entries, err := l.load(ctx, req)
		l.finish(gen, req, entries, err)
	}()
	return gen, done
}

// Result returns the state of the latest load.
func (l *Loader) Result() Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result
}

func (l *Loader) load(ctx context.Context, req Request) ([]TickLiquidity, error) {
	if req.TickSpacing <= 0 || req.Liquidity == nil {
		return nil, ErrInvalidRequest
	}
	ticks, err := l.source.InitializedTicks(ctx, req)
	if err != nil {
		return nil, err
	}
	return ComputeActiveLiquidity(req, ticks), nil
}

func (l *Loader) finish(gen uint64, req Request, entries []TickLiquidity, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		l.logger.Debug("density load superseded", zap.Uint64("generation", gen), zap.Uint64("latest", l.gen))
		return
	}
	l.cancel = nil
	if err != nil {
		l.logger.Warn("density load failed", zap.String("pool", req.Pool.Hex()), zap.Uint64("generation", gen), zap.Error(err))
		l.result = Result{Status: StatusError, Generation: gen, Err: err}
		return
	}
	l.result = Result{
		Status:     StatusData,
		Generation: gen,
		ActiveTick: ActiveTick(req.TickCurrent, req.TickSpacing),
		Entries:    entries,
	}
	l.logger.Debug("density loaded", zap.String("pool", req.Pool.Hex()), zap.Int("ticks", len(entries)))
}
