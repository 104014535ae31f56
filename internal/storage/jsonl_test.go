package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rangeScope/internal/model"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return lines
}

func TestJsonlStorageAppends(t *testing.T) {
	dir := t.TempDir()
	rangePath := filepath.Join(dir, "out", "ranges.jsonl")
	poolPath := filepath.Join(dir, "out", "pools.jsonl")
	store := NewJsonlStorage(rangePath, poolPath)
	ctx := context.Background()

	lower := int32(-120)
	if err := store.PutRangeSnapshots(ctx, []model.RangeSnapshot{{Seq: 1, TickLower: &lower}, {Seq: 2}}); err != nil {
		t.Fatalf("put ranges: %v", err)
	}
	if err := store.PutRangeSnapshots(ctx, []model.RangeSnapshot{{Seq: 3}}); err != nil {
		t.Fatalf("put ranges: %v", err)
	}
	if err := store.PutPoolSnapshots(ctx, []model.PoolSnapshot{{PoolKey: "k", Tick: 7}}); err != nil {
		t.Fatalf("put pools: %v", err)
	}

	lines := readLines(t, rangePath)
	if len(lines) != 3 {
		t.Fatalf("expected 3 range lines, got %d", len(lines))
	}
	var first model.RangeSnapshot
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.Seq != 1 || first.TickLower == nil || *first.TickLower != -120 {
		t.Fatalf("unexpected first record %+v", first)
	}

	pools := readLines(t, poolPath)
	if len(pools) != 1 {
		t.Fatalf("expected 1 pool line, got %d", len(pools))
	}
}

func TestJsonlStorageEmptyPathDiscards(t *testing.T) {
	dir := t.TempDir()
	rangePath := filepath.Join(dir, "ranges.jsonl")
	store := NewJsonlStorage(rangePath, "")

	if err := store.PutPoolSnapshots(context.Background(), []model.PoolSnapshot{{PoolKey: "k"}}); err != nil {
		t.Fatalf("put pools: %v", err)
	}
	if err := store.PutRangeSnapshots(context.Background(), nil); err != nil {
		t.Fatalf("put ranges: %v", err)
	}
	if _, err := os.Stat(rangePath); !os.IsNotExist(err) {
		t.Fatalf("expected no range file, got %v", err)
	}
}

type failingStorage struct{ err error }

func (f failingStorage) PutPoolSnapshots(context.Context, []model.PoolSnapshot) error { return f.err }
func (f failingStorage) PutRangeSnapshots(context.Context, []model.RangeSnapshot) error {
	return f.err
}

func TestMultiWritesAll(t *testing.T) {
	dir := t.TempDir()
	rangePath := filepath.Join(dir, "ranges.jsonl")
	boom := errors.New("boom")
	multi := Multi{failingStorage{err: boom}, NewJsonlStorage(rangePath, "")}

	err := multi.PutRangeSnapshots(context.Background(), []model.RangeSnapshot{{Seq: 1}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if lines := readLines(t, rangePath); len(lines) != 1 {
		t.Fatalf("expected the second storage to receive the batch, got %d lines", len(lines))
	}
}

func TestJsonlStorageReopensAfterClose(t *testing.T) {
	dir := t.TempDir()
	rangePath := filepath.Join(dir, "ranges.jsonl")
	store := NewJsonlStorage(rangePath, "")
	ctx := context.Background()

	if err := store.PutRangeSnapshots(ctx, []model.RangeSnapshot{{Seq: 1}}); err != nil {
		t.Fatalf("put ranges: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := store.PutRangeSnapshots(ctx, []model.RangeSnapshot{{Seq: 2}}); err != nil {
		t.Fatalf("put after close: %v", err)
	}
	if err := (Multi{store, failingStorage{}}).Close(); err != nil {
		t.Fatalf("multi close: %v", err)
	}
	if lines := readLines(t, rangePath); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}
