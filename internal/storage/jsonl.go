package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rangeScope/internal/model"
)

// JsonlStorage appends range snapshots and pool snapshots to JSONL files.
// Files are opened on the first write and stay open until Close. An
// empty path discards that kind of record.
type JsonlStorage struct {
	mu     sync.Mutex
	ranges jsonlFile
	pools  jsonlFile
}

func NewJsonlStorage(rangePath, poolPath string) *JsonlStorage {
	return &JsonlStorage{
		ranges: jsonlFile{path: rangePath},
		pools:  jsonlFile{path: poolPath},
	}
}

func (s *JsonlStorage) PutRangeSnapshots(_ context.Context, snapshots []model.RangeSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendRecords(&s.ranges, snapshots)
}

func (s *JsonlStorage) PutPoolSnapshots(_ context.Context, snapshots []model.PoolSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendRecords(&s.pools, snapshots)
}

// Close flushes and closes both files.
func (s *JsonlStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.ranges.close(), s.pools.close())
}

type jsonlFile struct {
	path string
	file *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
}

func (f *jsonlFile) open() error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	f.file = file
	f.buf = bufio.NewWriter(file)
	f.enc = json.NewEncoder(f.buf)
	return nil
}

func (f *jsonlFile) close() error {
	if f.file == nil {
		return nil
	}
	flushErr := f.buf.Flush()
	closeErr := f.file.Close()
	f.file, f.buf, f.enc = nil, nil, nil
	return errors.Join(flushErr, closeErr)
}

// appendRecords writes one JSON line per record and flushes the batch.
func appendRecords[T any](f *jsonlFile, records []T) error {
	if f.path == "" || len(records) == 0 {
		return nil
	}
	if f.file == nil {
		if err := f.open(); err != nil {
			return err
		}
	}
	for _, record := range records {
		if err := f.enc.Encode(record); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}
	if err := f.buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", f.path, err)
	}
	return nil
}
