package storage

import (
	"context"
	"errors"
	"io"

	"rangeScope/internal/model"
)

// Storage defines a sink for pool and range snapshots.
type Storage interface {
	PutPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error
	PutRangeSnapshots(ctx context.Context, snapshots []model.RangeSnapshot) error
}

// Multi writes every batch to each storage in order.
type Multi []Storage

func (m Multi) PutPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.PutPoolSnapshots(ctx, snapshots))
	}
	return errors.Join(errs...)
}

func (m Multi) PutRangeSnapshots(ctx context.Context, snapshots []model.RangeSnapshot) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.PutRangeSnapshots(ctx, snapshots))
	}
	return errors.Join(errs...)
}

// Close closes every storage that holds resources.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
