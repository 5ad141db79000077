// Package review extracts review text from a product page, either through
// a live browser session or from static HTML.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/IshaanNene/ReviewScout/internal/browser"
	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/fetcher"
	"github.com/IshaanNene/ReviewScout/internal/observability"
	"github.com/IshaanNene/ReviewScout/internal/parser"
	"github.com/IshaanNene/ReviewScout/internal/pipeline"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

// Source produces the reviews of one target page, in document order.
type Source interface {
	Reviews(ctx context.Context) ([]types.Review, error)
}

// Page is the slice of a browser session the extractor drives.
type Page interface {
	Open(ctx context.Context, url string) error
	Search(ctx context.Context, selector, query string) error
	ClickFirst(ctx context.Context, selector string) error
	ScrollToBottom(ctx context.Context) error
	Count(ctx context.Context, selector string) (int, error)
	Texts(ctx context.Context, selector string) ([]string, error)
	URL() string
}

var _ Page = (*browser.Session)(nil)

// Fetcher loads a page over HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Page, error)
}

// BrowserSource searches the target site in a browser and reads the
// review nodes once the page has settled.
type BrowserSource struct {
	page     Page
	target   config.TargetConfig
	extract  config.ExtractConfig
	pipeline *pipeline.Pipeline
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewBrowserSource creates a browser-backed source. metrics may be nil.
func NewBrowserSource(page Page, cfg *config.Config, pl *pipeline.Pipeline, metrics *observability.Metrics, logger *slog.Logger) *BrowserSource {
	return &BrowserSource{
		page:     page,
		target:   cfg.Target,
		extract:  cfg.Extract,
		pipeline: pl,
		metrics:  metrics,
		logger:   logger.With("component", "browser_source"),
	}
}

// Reviews opens the target, runs the search, waits for the review count to
// stop changing and returns every review node's text. Any driver error
// aborts extraction.
func (s *BrowserSource) Reviews(ctx context.Context) ([]types.Review, error) {
	if err := s.page.Open(ctx, s.target.URL); err != nil {
		return nil, s.fail(fmt.Errorf("open target: %w", err))
	}
	if err := s.page.Search(ctx, s.target.SearchSelector, s.target.Query); err != nil {
		return nil, s.fail(fmt.Errorf("search %q: %w", s.target.Query, err))
	}
	if s.target.ResultSelector != "" {
		if err := s.page.ClickFirst(ctx, s.target.ResultSelector); err != nil {
			return nil, s.fail(fmt.Errorf("open first result: %w", err))
		}
	}

	selector := s.extract.Review.Selector
	settled, err := browser.Settle(ctx,
		func(ctx context.Context) (int, error) { return s.page.Count(ctx, selector) },
		s.page.ScrollToBottom,
		browser.SettleOptions{
			MaxScrolls:   s.extract.MaxScrolls,
			PollInterval: s.extract.PollInterval,
			StableRounds: s.extract.StableRounds,
			Timeout:      s.extract.Timeout,
		},
	)
	if err != nil {
		return nil, s.fail(fmt.Errorf("wait for reviews: %w", err))
	}
	s.logger.Debug("review list settled",
		"count", settled.Count,
		"scrolls", settled.Scrolls,
		"polls", settled.Polls,
		"timed_out", settled.TimedOut,
	)

	texts, err := s.page.Texts(ctx, selector)
	if err != nil {
		return nil, s.fail(fmt.Errorf("read reviews: %w", err))
	}

	reviews, err := collect(texts, s.page.URL(), s.pipeline)
	if err != nil {
		return nil, s.fail(err)
	}
	s.logger.Info("reviews extracted", "url", s.page.URL(), "nodes", len(texts), "reviews", len(reviews))
	if s.metrics != nil {
		s.metrics.ReviewsExtracted.Add(float64(len(reviews)))
	}
	return reviews, nil
}

func (s *BrowserSource) fail(err error) error {
	if s.metrics != nil {
		s.metrics.ErrorsTotal.WithLabelValues(observability.StageExtract).Inc()
	}
	return err
}

// HTMLSource extracts reviews from a static document. It cannot see
// reviews that a page loads with JavaScript.
type HTMLSource struct {
	load     func(ctx context.Context) ([]byte, string, error)
	rule     config.SelectorRule
	pipeline *pipeline.Pipeline
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewHTTPSource extracts reviews from url fetched with f.
func NewHTTPSource(f Fetcher, url string, rule config.SelectorRule, pl *pipeline.Pipeline, metrics *observability.Metrics, logger *slog.Logger) *HTMLSource {
	return &HTMLSource{
		load: func(ctx context.Context) ([]byte, string, error) {
			page, err := f.Fetch(ctx, url)
			if err != nil {
				return nil, "", err
			}
			return page.Body, page.FinalURL, nil
		},
		rule:     rule,
		pipeline: pl,
		metrics:  metrics,
		logger:   logger.With("component", "html_source", "url", url),
	}
}

// NewFileSource extracts reviews from a saved HTML file.
func NewFileSource(path string, rule config.SelectorRule, pl *pipeline.Pipeline, metrics *observability.Metrics, logger *slog.Logger) *HTMLSource {
	return &HTMLSource{
		load: func(context.Context) ([]byte, string, error) {
			body, err := os.ReadFile(path)
			if err != nil {
				return nil, "", fmt.Errorf("read %s: %w", path, err)
			}
			return body, "file://" + path, nil
		},
		rule:     rule,
		pipeline: pl,
		metrics:  metrics,
		logger:   logger.With("component", "html_source", "path", path),
	}
}

// Reviews loads the document and applies the review selector.
func (s *HTMLSource) Reviews(ctx context.Context) ([]types.Review, error) {
	body, sourceURL, err := s.load(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	texts, err := parser.Extract(body, s.rule)
	if err != nil {
		return nil, s.fail(err)
	}

	reviews, err := collect(texts, sourceURL, s.pipeline)
	if err != nil {
		return nil, s.fail(err)
	}
	s.logger.Info("reviews extracted", "nodes", len(texts), "reviews", len(reviews))
	if s.metrics != nil {
		s.metrics.ReviewsExtracted.Add(float64(len(reviews)))
	}
	return reviews, nil
}

func (s *HTMLSource) fail(err error) error {
	if s.metrics != nil {
		s.metrics.ErrorsTotal.WithLabelValues(observability.StageExtract).Inc()
	}
	return err
}

// collect cleans raw node texts and numbers the survivors in order.
func collect(texts []string, sourceURL string, pl *pipeline.Pipeline) ([]types.Review, error) {
	reviews := make([]types.Review, 0, len(texts))
	for _, text := range texts {
		r := types.NewReview(text, sourceURL, len(reviews))
		if pl != nil {
			cleaned, err := pl.Process(r)
			if err != nil {
				return nil, fmt.Errorf("clean review: %w", err)
			}
			if cleaned == nil {
				continue
			}
			r = cleaned
		}
		if r.Text == "" {
			continue
		}
		reviews = append(reviews, *r)
	}
	return reviews, nil
}
