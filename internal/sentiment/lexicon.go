package sentiment

import (
	"context"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/IshaanNene/ReviewScout/internal/types"
)

var (
	markdownLink = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURL      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
)

// LexiconScorer scores text with the VADER lexicon. It needs no model
// files. The compound score is already in [-1, 1].
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
	logger   *slog.Logger
}

// NewLexiconScorer creates a VADER-backed scorer.
func NewLexiconScorer(logger *slog.Logger) *LexiconScorer {
	return &LexiconScorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		logger:   logger.With("component", "lexicon_scorer"),
	}
}

// Score returns the VADER compound score of the plain text.
func (l *LexiconScorer) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &types.ScoreError{Text: text, Err: err}
	}
	score := l.analyzer.PolarityScores(PlainText(text)).Compound
	l.logger.Debug("scored", "score", score)
	return score, nil
}

// Close is a no-op.
func (l *LexiconScorer) Close() error { return nil }

// PlainText renders markdown, drops markup and removes links so the
// lexicon only sees words.
func PlainText(input string) string {
	input = markdownLink.ReplaceAllString(input, "$1")
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := htmlTag.ReplaceAllString(string(rendered), " ")
	text = html.UnescapeString(bareURL.ReplaceAllString(text, ""))
	return strings.Join(strings.Fields(text), " ")
}
