package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/IshaanNene/ReviewScout/internal/types"
)

// --- JSON Storage ---

// JSONStorage writes scored reviews as a JSON array to a file.
type JSONStorage struct {
	path    string
	reviews []types.ScoredReview
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewJSONStorage creates a new JSON file storage.
func NewJSONStorage(outputPath string, logger *slog.Logger) (*JSONStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}

	return &JSONStorage{
		path:   outputPath,
		logger: logger.With("component", "json_storage"),
	}, nil
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) Store(reviews []types.ScoredReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, reviews...)
	s.logger.Debug("reviews buffered", "count", len(reviews), "total", len(s.reviews))
	return nil
}

func (s *JSONStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.path)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Path: s.path, Err: err}
	}
	defer f.Close()

	output := make([]map[string]any, len(s.reviews))
	for i := range s.reviews {
		output[i] = s.reviews[i].Document()
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return &types.StorageError{Backend: s.Name(), Path: s.path, Err: fmt.Errorf("encode JSON: %w", err)}
	}

	s.logger.Info("JSON written", "path", s.path, "reviews", len(s.reviews))
	return nil
}

// --- JSONL Storage ---

// JSONLStorage writes scored reviews as newline-delimited JSON.
type JSONLStorage struct {
	path   string
	file   *os.File
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewJSONLStorage creates a new JSONL file storage (streaming writes).
func NewJSONLStorage(outputPath string, logger *slog.Logger) (*JSONLStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, &types.StorageError{Backend: "jsonl", Path: outputPath, Err: err}
	}

	return &JSONLStorage{
		path:   outputPath,
		file:   f,
		logger: logger.With("component", "jsonl_storage"),
	}, nil
}

func (s *JSONLStorage) Name() string { return "jsonl" }

func (s *JSONLStorage) Store(reviews []types.ScoredReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range reviews {
		line, err := reviews[i].ToJSON()
		if err != nil {
			return &types.StorageError{Backend: s.Name(), Path: s.path, Err: fmt.Errorf("encode JSONL: %w", err)}
		}
		if _, err := s.file.Write(append(line, '\n')); err != nil {
			return &types.StorageError{Backend: s.Name(), Path: s.path, Err: err}
		}
		s.count++
	}
	return nil
}

func (s *JSONLStorage) Close() error {
	s.logger.Info("JSONL written", "path", s.path, "reviews", s.count)
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// --- CSV Storage ---

var csvHeaders = []string{"index", "score", "bucket", "text", "source_url", "extracted_at"}

// CSVStorage writes scored reviews as CSV rows.
type CSVStorage struct {
	path   string
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewCSVStorage creates a new CSV file storage and writes the header row.
func NewCSVStorage(outputPath string, logger *slog.Logger) (*CSVStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, &types.StorageError{Backend: "csv", Path: outputPath, Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeaders); err != nil {
		f.Close()
		return nil, &types.StorageError{Backend: "csv", Path: outputPath, Err: fmt.Errorf("write CSV header: %w", err)}
	}

	return &CSVStorage{
		path:   outputPath,
		file:   f,
		writer: w,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) Store(reviews []types.ScoredReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range reviews {
		row := []string{
			strconv.Itoa(r.Index),
			strconv.FormatFloat(r.Score, 'f', 4, 64),
			string(r.Bucket),
			r.Text,
			r.SourceURL,
			r.ExtractedAt.Format(time.RFC3339),
		}
		if err := s.writer.Write(row); err != nil {
			return &types.StorageError{Backend: s.Name(), Path: s.path, Err: fmt.Errorf("write CSV row: %w", err)}
		}
		s.count++
	}

	s.writer.Flush()
	return s.writer.Error()
}

func (s *CSVStorage) Close() error {
	s.logger.Info("CSV written", "path", s.path, "reviews", s.count)
	if s.writer != nil {
		s.writer.Flush()
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// NewReportStorage picks the report format from the file extension:
// .json, .csv, anything else is JSONL.
func NewReportStorage(outputPath string, logger *slog.Logger) (Storage, error) {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".json":
		return NewJSONStorage(outputPath, logger)
	case ".csv":
		return NewCSVStorage(outputPath, logger)
	default:
		return NewJSONLStorage(outputPath, logger)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &types.StorageError{Backend: "file", Path: path, Err: fmt.Errorf("create output dir: %w", err)}
	}
	return nil
}
