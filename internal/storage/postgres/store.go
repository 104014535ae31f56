package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rangeScope/internal/model"
)

// Store provides Postgres persistence for pool and range snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutPoolSnapshots inserts or updates pool observations.
func (s *Store) PutPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range snapshots {
		batch.Queue(`
			INSERT INTO pool_snapshots (
				chain_id, pool_key, pool_address, token0, token1, fee, tick_spacing,
				sqrt_price_x96, liquidity, tick, block_number, observed_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9::numeric, $10, $11, $12::timestamptz, now(), now())
			ON CONFLICT (chain_id, pool_key, block_number)
			DO UPDATE SET
				sqrt_price_x96 = EXCLUDED.sqrt_price_x96,
				liquidity = EXCLUDED.liquidity,
				tick = EXCLUDED.tick,
				observed_at = EXCLUDED.observed_at,
				updated_at = now()
		`,
			int64(p.ChainID),
			p.PoolKey,
			p.Address,
			p.Token0,
			p.Token1,
			int64(p.Fee),
			p.TickSpacing,
			p.SqrtPriceX96,
			p.Liquidity,
			p.Tick,
			int64(p.BlockNumber),
			p.ObservedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutRangeSnapshots inserts or updates derived range snapshots.
func (s *Store) PutRangeSnapshots(ctx context.Context, snapshots []model.RangeSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range snapshots {
		batch.Queue(`
			INSERT INTO range_snapshots (
				pool_key, seq, inverted, full_range, tick_lower, tick_upper,
				price_lower, price_upper, current_price, amount0, amount1, liquidity,
				out_of_range, invalid_range, invalid_price, deposit0_disabled, deposit1_disabled,
				error, recorded_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12::numeric,$13,$14,$15,$16,$17,$18,$19::timestamptz)
			ON CONFLICT (pool_key, seq)
			DO UPDATE SET
				inverted = EXCLUDED.inverted,
				full_range = EXCLUDED.full_range,
				tick_lower = EXCLUDED.tick_lower,
				tick_upper = EXCLUDED.tick_upper,
				price_lower = EXCLUDED.price_lower,
				price_upper = EXCLUDED.price_upper,
				current_price = EXCLUDED.current_price,
				amount0 = EXCLUDED.amount0,
				amount1 = EXCLUDED.amount1,
				liquidity = EXCLUDED.liquidity,
				out_of_range = EXCLUDED.out_of_range,
				invalid_range = EXCLUDED.invalid_range,
				invalid_price = EXCLUDED.invalid_price,
				deposit0_disabled = EXCLUDED.deposit0_disabled,
				deposit1_disabled = EXCLUDED.deposit1_disabled,
				error = EXCLUDED.error,
				recorded_at = EXCLUDED.recorded_at
		`,
			r.PoolKey,
			int64(r.Seq),
			r.Inverted,
			r.FullRange,
			r.TickLower,
			r.TickUpper,
			nullable(r.PriceLower),
			nullable(r.PriceUpper),
			nullable(r.CurrentPrice),
			nullable(r.Amount0),
			nullable(r.Amount1),
			nullable(r.Liquidity),
			r.OutOfRange,
			r.InvalidRange,
			r.InvalidPrice,
			r.Deposit0Disabled,
			r.Deposit1Disabled,
			nullable(r.Error),
			r.RecordedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LatestRangeSnapshot returns the highest sequence snapshot of a pool key.
func (s *Store) LatestRangeSnapshot(ctx context.Context, poolKey string) (model.RangeSnapshot, bool, error) {
	if poolKey == "" {
		return model.RangeSnapshot{}, false, fmt.Errorf("pool key required")
	}
	var (
		rec                                                                    model.RangeSnapshot
		seq                                                                    int64
		priceLower, priceUpper, currentPrice, amount0, amount1, liquidity, msg *string
	)
	row := s.pool.QueryRow(ctx, `
		SELECT seq, inverted, full_range, tick_lower, tick_upper,
			price_lower, price_upper, current_price, amount0, amount1, liquidity::text,
			out_of_range, invalid_range, invalid_price, deposit0_disabled, deposit1_disabled,
			error, to_char(recorded_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"')
		FROM range_snapshots
		WHERE pool_key = $1
		ORDER BY seq DESC
		LIMIT 1
	`, poolKey)
	err := row.Scan(
		&seq, &rec.Inverted, &rec.FullRange, &rec.TickLower, &rec.TickUpper,
		&priceLower, &priceUpper, &currentPrice, &amount0, &amount1, &liquidity,
		&rec.OutOfRange, &rec.InvalidRange, &rec.InvalidPrice, &rec.Deposit0Disabled, &rec.Deposit1Disabled,
		&msg, &rec.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RangeSnapshot{}, false, nil
		}
		return model.RangeSnapshot{}, false, err
	}
	rec.PoolKey = poolKey
	rec.Seq = uint64(seq)
	rec.PriceLower = deref(priceLower)
	rec.PriceUpper = deref(priceUpper)
	rec.CurrentPrice = deref(currentPrice)
	rec.Amount0 = deref(amount0)
	rec.Amount1 = deref(amount1)
	rec.Liquidity = deref(liquidity)
	rec.Error = deref(msg)
	return rec, true, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
