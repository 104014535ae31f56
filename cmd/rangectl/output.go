package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeLines encodes each value as one JSON line. An empty path writes to
// fallback; otherwise the file is created or truncated.
func writeLines[T any](path string, fallback io.Writer, values []T) (err error) {
	out := fallback
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return fmt.Errorf("create output dir: %w", mkErr)
			}
		}
		file, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("create %s: %w", path, createErr)
		}
		defer func() { err = errors.Join(err, file.Close()) }()
		out = file
	}

	buf := bufio.NewWriter(out)
	enc := json.NewEncoder(buf)
	for _, v := range values {
		if encErr := enc.Encode(v); encErr != nil {
			return fmt.Errorf("encode line: %w", encErr)
		}
	}
	return buf.Flush()
}
