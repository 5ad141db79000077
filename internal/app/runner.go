// Package app wires extraction, scoring and output into a single run.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/IshaanNene/ReviewScout/internal/classify"
	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/observability"
	"github.com/IshaanNene/ReviewScout/internal/review"
	"github.com/IshaanNene/ReviewScout/internal/storage"
)

// Summary describes a finished run.
type Summary struct {
	Extracted   int
	Good        int
	Bad         int
	SocialMedia int
	Files       []string
	WriteErrors int
	Duration    time.Duration
}

// Runner performs one linear pass: extract, route, write.
type Runner struct {
	Source  review.Source
	Router  *classify.Router
	Output  config.OutputConfig
	Reports storage.Storage // optional
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Run executes the pass. Extraction and scoring failures end the run with
// an error. Write failures are logged and counted in the summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	logger := r.Logger.With("component", "runner")
	start := time.Now()

	reviews, err := r.Source.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract reviews: %w", err)
	}
	logger.Info("extraction complete", "reviews", len(reviews))

	result, err := r.Router.Route(ctx, reviews)
	if err != nil {
		return nil, fmt.Errorf("classify reviews: %w", err)
	}

	summary := &Summary{
		Extracted:   len(reviews),
		Good:        len(result.Good),
		Bad:         len(result.Bad),
		SocialMedia: len(result.SocialMedia),
	}

	// The bad bucket is collected for the summary and reports but never
	// written to Output.BadAdvertisementFile.
	outputs := []struct {
		name  string
		lines []string
	}{
		{r.Output.SocialMediaFile, result.SocialMedia},
		{r.Output.AdvertisementFile, result.Good},
	}
	for _, out := range outputs {
		path := filepath.Join(r.Output.Dir, out.name)
		n, err := storage.NewLineFile(path, r.Logger).Write(out.lines)
		if err != nil {
			r.writeFailed(logger, summary, err)
			continue
		}
		summary.Files = append(summary.Files, path)
		if r.Metrics != nil {
			r.Metrics.LinesWritten.WithLabelValues(out.name).Add(float64(n))
		}
	}

	if r.Reports != nil {
		if err := r.Reports.Store(result.Scored); err != nil {
			r.writeFailed(logger, summary, err)
		}
	}

	summary.Duration = time.Since(start)
	logger.Info("run complete",
		"extracted", summary.Extracted,
		"good", summary.Good,
		"bad", summary.Bad,
		"write_errors", summary.WriteErrors,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (r *Runner) writeFailed(logger *slog.Logger, summary *Summary, err error) {
	logger.Error("write failed", "error", err)
	summary.WriteErrors++
	if r.Metrics != nil {
		r.Metrics.ErrorsTotal.WithLabelValues(observability.StageWrite).Inc()
	}
}
