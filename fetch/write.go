package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	event_fetcher "github.com/alanbriolat/event-fetcher"
)

const partSuffix = ".part"

// writeAtomic streams r to a temporary file next to dest and renames it over dest once everything is flushed. On any
// failure (including ctx being done) the temporary file is removed and dest is left untouched.
func writeAtomic(ctx context.Context, dest string, r io.Reader, extra ...io.Writer) (n int64, head []byte, err error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*"+partSuffix)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := f.Name()
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				_ = f.Close()
			}
			_ = os.Remove(tmpPath)
		}
	}()

	sniff := &headBuffer{}
	writers := append([]io.Writer{f, sniff}, extra...)
	n, err = io.Copy(io.MultiWriter(writers...), event_fetcher.NewReaderContext(ctx, r))
	if err != nil {
		return n, nil, fmt.Errorf("failed to save stream: %w", err)
	}
	if err = f.Sync(); err != nil {
		return n, nil, fmt.Errorf("failed to flush file: %w", err)
	}
	closed = true
	if err = f.Close(); err != nil {
		return n, nil, fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		return n, nil, fmt.Errorf("failed to move file into place: %w", err)
	}
	return n, sniff.Bytes(), nil
}
