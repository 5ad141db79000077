// Package sentiment scores review text on a [-1, 1] scale.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/ReviewScout/internal/config"
)

// Scorer maps a single text to a sentiment score. Positive values mean
// positive sentiment. One inference per call.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
	Close() error
}

// Func adapts a plain function to the Scorer interface.
type Func func(ctx context.Context, text string) (float64, error)

// Score calls f.
func (f Func) Score(ctx context.Context, text string) (float64, error) { return f(ctx, text) }

// Close is a no-op.
func (f Func) Close() error { return nil }

// New builds the scorer selected by cfg.Backend.
func New(cfg config.ModelConfig, logger *slog.Logger) (Scorer, error) {
	switch cfg.Backend {
	case "", "onnx":
		if cfg.AutoDownload {
			if _, err := EnsureModel(cfg, logger); err != nil {
				return nil, err
			}
		}
		return NewModelScorer(cfg, logger)
	case "vader":
		return NewLexiconScorer(logger), nil
	default:
		return nil, fmt.Errorf("unknown sentiment backend %q", cfg.Backend)
	}
}
