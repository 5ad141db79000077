package pipeline

import (
	"log/slog"
	"strings"

	"github.com/IshaanNene/ReviewScout/internal/types"
)

// Middleware processes a review and returns the (possibly modified) review.
// Return nil to drop the review from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a review. Return nil to drop the review.
	Process(review *types.Review) (*types.Review, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Default returns the pipeline applied to every extracted review. Input is
// already rendered text, so markup-like characters and entities are kept.
func Default(logger *slog.Logger, minLength int) *Pipeline {
	p := New(logger)
	p.Use(&UnicodeNormalizeMiddleware{})
	p.Use(&WhitespaceMiddleware{})
	p.Use(&TrimMiddleware{})
	p.Use(&MinLengthMiddleware{Min: minLength})
	return p
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the review through all middleware in order.
func (p *Pipeline) Process(review *types.Review) (*types.Review, error) {
	current := review

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, err
		}
		if result == nil {
			p.logger.Debug("review dropped", "stage", mw.Name(), "index", review.Index)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// --- Built-in Middleware ---

// TrimMiddleware trims surrounding whitespace.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(review *types.Review) (*types.Review, error) {
	review.Text = strings.TrimSpace(review.Text)
	return review, nil
}

// WhitespaceMiddleware collapses every whitespace run, including newlines,
// into a single space so that one review always occupies one output line.
type WhitespaceMiddleware struct{}

func (m *WhitespaceMiddleware) Name() string { return "whitespace" }

func (m *WhitespaceMiddleware) Process(review *types.Review) (*types.Review, error) {
	review.Text = strings.Join(strings.Fields(review.Text), " ")
	return review, nil
}

// MinLengthMiddleware drops reviews shorter than Min runes.
type MinLengthMiddleware struct {
	Min int
}

func (m *MinLengthMiddleware) Name() string { return "min_length" }

func (m *MinLengthMiddleware) Process(review *types.Review) (*types.Review, error) {
	if len([]rune(review.Text)) < m.Min {
		return nil, nil
	}
	return review, nil
}
