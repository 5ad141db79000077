package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/ReviewScout/internal/browser"
	"github.com/IshaanNene/ReviewScout/internal/classify"
	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/fetcher"
	"github.com/IshaanNene/ReviewScout/internal/observability"
	"github.com/IshaanNene/ReviewScout/internal/pipeline"
	"github.com/IshaanNene/ReviewScout/internal/review"
	"github.com/IshaanNene/ReviewScout/internal/sentiment"
	"github.com/IshaanNene/ReviewScout/internal/storage"
)

// Build assembles a Runner from cfg. The returned close function releases
// the browser, the model session, and the report sinks; it must be called
// even when Run fails.
func Build(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*Runner, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	scorer, err := sentiment.New(cfg.Model, logger)
	if err != nil {
		return nil, closeAll, fmt.Errorf("load sentiment model: %w", err)
	}
	closers = append(closers, scorer.Close)

	source, closeSource, err := NewSource(cfg, metrics, logger)
	if err != nil {
		return nil, closeAll, err
	}
	closers = append(closers, closeSource)

	reports, err := newReports(cfg, logger)
	if err != nil {
		return nil, closeAll, err
	}
	if reports != nil {
		closers = append(closers, reports.Close)
	}

	runner := &Runner{
		Source:  source,
		Router:  classify.NewRouter(scorer, cfg.Classify.Threshold, metrics, logger),
		Output:  cfg.Output,
		Metrics: metrics,
		Logger:  logger,
	}
	if reports != nil {
		runner.Reports = reports
	}
	return runner, closeAll, nil
}

// NewSource returns the review source for cfg.Browser.Mode.
func NewSource(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (review.Source, func() error, error) {
	pl := pipeline.Default(logger, cfg.Extract.MinLength)

	switch cfg.Browser.Mode {
	case "http":
		f, err := fetcher.NewHTTPFetcher(cfg.Browser, logger)
		if err != nil {
			return nil, nil, err
		}
		url := fetcher.SearchURL(cfg.Target.SearchURL, cfg.Target.Query)
		return review.NewHTTPSource(f, url, cfg.Extract.Review, pl, metrics, logger), f.Close, nil
	default:
		session, err := browser.New(cfg.Browser, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("start browser: %w", err)
		}
		return review.NewBrowserSource(session, cfg, pl, metrics, logger), session.Close, nil
	}
}

// newReports builds the optional structured sinks. It returns nil when
// none are configured.
func newReports(cfg *config.Config, logger *slog.Logger) (*storage.MultiStorage, error) {
	var backends []storage.Storage

	if cfg.Output.Report != "" {
		s, err := storage.NewReportStorage(cfg.Output.Report, logger)
		if err != nil {
			return nil, fmt.Errorf("open report: %w", err)
		}
		backends = append(backends, s)
	}
	if cfg.Storage.Mongo.Enabled {
		s, err := storage.NewMongoStorage(cfg.Storage.Mongo, logger)
		if err != nil {
			for _, b := range backends {
				b.Close()
			}
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		backends = append(backends, s)
	}

	if len(backends) == 0 {
		return nil, nil
	}
	return storage.NewMultiStorage(backends, logger), nil
}
