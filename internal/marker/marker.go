// Package marker records that a report has already been sent.
package marker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath is where the file marker lives unless configured otherwise.
const DefaultPath = "/tmp/stock_report.lock"

// Marker is the run sentinel. It is never cleared by this program.
type Marker interface {
	Exists(ctx context.Context) (bool, error)
	Mark(ctx context.Context) error
}

// FileMarker is a zero-byte file whose presence means "already sent". The
// check is advisory: two processes may both observe it absent.
type FileMarker struct {
	Path string
}

func NewFileMarker(path string) *FileMarker {
	if path == "" {
		path = DefaultPath
	}
	return &FileMarker{Path: path}
}

func (m *FileMarker) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(m.Path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat marker: %w", err)
}

func (m *FileMarker) Mark(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(m.Path), 0o755); err != nil {
		return fmt.Errorf("create marker dir: %w", err)
	}
	f, err := os.OpenFile(m.Path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create marker: %w", err)
	}
	return f.Close()
}

// Noop never reports a marker and discards writes.
type Noop struct{}

func (Noop) Exists(context.Context) (bool, error) { return false, nil }
func (Noop) Mark(context.Context) error           { return nil }
