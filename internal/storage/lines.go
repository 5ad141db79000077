package storage

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/IshaanNene/ReviewScout/internal/types"
)

// LineFile writes a bucket as a plain text file, one entry per line.
type LineFile struct {
	path   string
	logger *slog.Logger
}

// NewLineFile creates a writer for path. Nothing touches the disk until Write.
func NewLineFile(path string, logger *slog.Logger) *LineFile {
	return &LineFile{
		path:   path,
		logger: logger.With("component", "line_file", "path", path),
	}
}

// Write deduplicates lines, truncates or creates the file, and writes each
// remaining entry followed by a newline. An empty input leaves an empty
// file. It returns the number of lines written.
func (l *LineFile) Write(lines []string) (int, error) {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, &types.StorageError{Backend: "file", Path: l.path, Err: err}
		}
	}

	f, err := os.Create(l.path)
	if err != nil {
		return 0, &types.StorageError{Backend: "file", Path: l.path, Err: err}
	}

	unique := Dedup(lines)
	w := bufio.NewWriter(f)
	for _, line := range unique {
		if _, err := w.WriteString(line + "\n"); err != nil {
			f.Close()
			return 0, &types.StorageError{Backend: "file", Path: l.path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return 0, &types.StorageError{Backend: "file", Path: l.path, Err: fmt.Errorf("flush: %w", err)}
	}
	if err := f.Close(); err != nil {
		return 0, &types.StorageError{Backend: "file", Path: l.path, Err: err}
	}

	l.logger.Info("lines written", "lines", len(unique), "duplicates", len(lines)-len(unique))
	return len(unique), nil
}

// Dedup removes repeated entries, keeping the first occurrence of each.
func Dedup(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
