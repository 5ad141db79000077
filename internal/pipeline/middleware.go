package pipeline

import (
	"golang.org/x/text/unicode/norm"

	"github.com/IshaanNene/ReviewScout/internal/types"
)

// UnicodeNormalizeMiddleware puts text in NFC form so visually identical
// reviews deduplicate to the same line.
type UnicodeNormalizeMiddleware struct{}

func (m *UnicodeNormalizeMiddleware) Name() string { return "unicode_normalize" }

func (m *UnicodeNormalizeMiddleware) Process(review *types.Review) (*types.Review, error) {
	review.Text = norm.NFC.String(review.Text)
	return review, nil
}
