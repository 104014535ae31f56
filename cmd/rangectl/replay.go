package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rangeScope/internal/config"
	"rangeScope/internal/model"
	"rangeScope/internal/session"
	"rangeScope/internal/storage"
	"rangeScope/internal/storage/postgres"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, closeClient, err := connectDex(ctx, &cfg.PoolConfig, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	in, err := resolvePool(ctx, cfg.PoolConfig, client)
	if err != nil {
		return err
	}

	sink := storage.Multi{storage.NewJsonlStorage(cfg.Out, cfg.PoolOut)}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("close output failed", zap.Error(err))
		}
	}()
	var store *postgres.Store
	if cfg.PgDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if cfg.Migrate {
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		sink = append(sink, store)
	}

	cache, reg := newCache()
	sess := session.New(session.Config{Width: cfg.Width, Logger: logger.Named("session"), Cache: cache})
	rec := &recorder{now: time.Now}
	unsubscribe := sess.Subscribe(rec.listen)
	defer unsubscribe()

	if err := sess.SelectPool(in.token0, in.token1, in.fee, in.tickSpacing, in.extension); err != nil {
		return fmt.Errorf("select pool: %w", err)
	}
	key := sess.Snapshot().Key
	if store != nil && key != nil {
		last, ok, err := store.LatestRangeSnapshot(ctx, key.String())
		if err != nil {
			return fmt.Errorf("read latest snapshot: %w", err)
		}
		if ok {
			rec.resumeAfter(last.Seq)
		}
	}

	if err := sess.UpdatePool(in.update); err != nil {
		logger.Warn("pool update rejected", zap.Error(err))
	}
	if in.data != nil {
		if err := sink.PutPoolSnapshots(ctx, []model.PoolSnapshot{in.data.Record(time.Now())}); err != nil {
			return fmt.Errorf("write pool snapshot: %w", err)
		}
	}
	if _, err := rec.flush(ctx, sink); err != nil {
		return err
	}

	logger.Info("replay start",
		zap.String("input", cfg.In),
		zap.String("output", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PgDSN)),
		zap.Stringer("pool_key", key),
	)

	file, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var steps, failed, written int
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		steps++

		var step model.ScriptStep
		if err := json.Unmarshal(line, &step); err != nil {
			failed++
			logger.Warn("invalid script line", zap.Int("step", steps), zap.Error(err))
			continue
		}

		if step.Action == model.ActionPool {
			update, err := applyPoolStep(sess, step)
			if err != nil {
				failed++
				logger.Warn("pool step failed", zap.Int("step", steps), zap.Error(err))
			} else {
				record := poolRecord(sess.Snapshot().Key, in.token0, update, time.Now())
				if err := sink.PutPoolSnapshots(ctx, []model.PoolSnapshot{record}); err != nil {
					return fmt.Errorf("write pool snapshot: %w", err)
				}
			}
		} else if err := applyStep(sess, step); err != nil {
			failed++
			logger.Warn("script step failed", zap.Int("step", steps), zap.String("action", step.Action), zap.Error(err))
		}

		n, err := rec.flush(ctx, sink)
		if err != nil {
			return err
		}
		written += n
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	logger.Info("replay complete",
		zap.Int("steps", steps),
		zap.Int("failed", failed),
		zap.Int("snapshots", written),
	)
	logCacheMetrics(logger, reg)
	return nil
}

// recorder buffers the records of every published snapshot until flushed.
type recorder struct {
	mu      sync.Mutex
	now     func() time.Time
	offset  uint64
	pending []model.RangeSnapshot
}

func (r *recorder) listen(snap session.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record := snap.Record(r.now())
	record.Seq += r.offset
	r.pending = append(r.pending, record)
}

// resumeAfter numbers later records after a previously stored sequence.
func (r *recorder) resumeAfter(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offset = seq
}

func (r *recorder) flush(ctx context.Context, sink storage.Storage) (int, error) {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(pending) == 0 {
		return 0, nil
	}
	if err := sink.PutRangeSnapshots(ctx, pending); err != nil {
		return 0, fmt.Errorf("write range snapshots: %w", err)
	}
	return len(pending), nil
}

// applyStep performs one scripted action on the session.
func applyStep(sess *session.Session, step model.ScriptStep) error {
	switch step.Action {
	case model.ActionPool:
		_, err := applyPoolStep(sess, step)
		return err
	case model.ActionAmount:
		field, err := config.ParseField(step.Field)
		if err != nil {
			return err
		}
		sess.SetTypedAmount(field, step.Value)
	case model.ActionBound:
		side, err := config.ParseSide(step.Side)
		if err != nil {
			return err
		}
		sess.SetRangeBound(side, step.Value)
	case model.ActionStartPrice:
		sess.SetStartPrice(step.Value)
	case model.ActionFullRange:
		sess.SetFullRange()
	case model.ActionInvert:
		sess.InvertPrice()
	case model.ActionResetRange:
		sess.ResetRange()
	case model.ActionConnect:
		connected := true
		if step.Value != "" {
			v, err := strconv.ParseBool(step.Value)
			if err != nil {
				return fmt.Errorf("invalid connect value: %s", step.Value)
			}
			connected = v
		}
		sess.SetConnected(connected)
	case model.ActionBalances:
		if len(step.Values) != 2 {
			return fmt.Errorf("balances needs 2 values, got %d", len(step.Values))
		}
		var balances [2]*big.Int
		for i, raw := range step.Values {
			v, err := config.ParseBigInt(raw)
			if err != nil {
				return fmt.Errorf("balance%d: %w", i, err)
			}
			balances[i] = v
		}
		sess.SetBalances(balances[0], balances[1])
	case model.ActionGesture:
		if len(step.Extent) != 2 {
			return fmt.Errorf("gesture needs a 2 pixel extent, got %d", len(step.Extent))
		}
		mode, err := config.ParseMode(step.Mode)
		if err != nil {
			return err
		}
		extent := [2]float64{step.Extent[0], step.Extent[1]}
		sess.GestureStart()
		sess.GestureMove(extent)
		sess.GestureEnd(extent, mode)
	case model.ActionZoomIn:
		sess.ZoomIn()
	case model.ActionZoomOut:
		sess.ZoomOut()
	case model.ActionZoomReset:
		sess.ResetZoom()
	default:
		return fmt.Errorf("unknown action: %q", step.Action)
	}
	return nil
}

func applyPoolStep(sess *session.Session, step model.ScriptStep) (session.PoolUpdate, error) {
	update, err := poolUpdate(step.State, step.SqrtPriceX96, step.Liquidity, step.Tick)
	if err != nil {
		return session.PoolUpdate{}, err
	}
	if err := sess.UpdatePool(update); err != nil {
		return session.PoolUpdate{}, err
	}
	return update, nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
