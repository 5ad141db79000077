// Package classify routes scored reviews into output buckets.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/ReviewScout/internal/observability"
	"github.com/IshaanNene/ReviewScout/internal/sentiment"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

// Result holds the routed collections. Order follows the input order and
// duplicates are kept; deduplication happens at write time.
type Result struct {
	// SocialMedia holds quoted copies of the good reviews.
	SocialMedia []string
	Good        []string
	Bad         []string
	Scored      []types.ScoredReview
}

// Router scores each review exactly once and assigns it a bucket.
type Router struct {
	scorer    sentiment.Scorer
	threshold float64
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewRouter creates a router. metrics may be nil.
func NewRouter(scorer sentiment.Scorer, threshold float64, metrics *observability.Metrics, logger *slog.Logger) *Router {
	return &Router{
		scorer:    scorer,
		threshold: threshold,
		metrics:   metrics,
		logger:    logger.With("component", "router"),
	}
}

// Route scores reviews in order. A scoring error aborts routing and no
// partial result is returned.
func (r *Router) Route(ctx context.Context, reviews []types.Review) (*Result, error) {
	result := &Result{
		Scored: make([]types.ScoredReview, 0, len(reviews)),
	}

	for _, review := range reviews {
		score, err := r.scorer.Score(ctx, review.Text)
		if err != nil {
			if r.metrics != nil {
				r.metrics.ErrorsTotal.WithLabelValues(observability.StageScore).Inc()
			}
			return nil, fmt.Errorf("score review %d: %w", review.Index, err)
		}
		if r.metrics != nil {
			r.metrics.ObserveScore(score)
		}

		bucket := types.BucketFor(score, r.threshold)
		switch bucket {
		case types.BucketGoodAdvertisement:
			result.Good = append(result.Good, review.Text)
			result.SocialMedia = append(result.SocialMedia, Quote(review.Text))
			r.count(types.BucketGoodAdvertisement)
			r.count(types.BucketSocialMediaPost)
		default:
			result.Bad = append(result.Bad, review.Text)
			r.count(types.BucketBadAdvertisement)
		}

		result.Scored = append(result.Scored, types.ScoredReview{
			Review: review,
			Score:  score,
			Bucket: bucket,
		})
		r.logger.Debug("review routed", "index", review.Index, "score", score, "bucket", bucket)
	}

	r.logger.Info("routing complete",
		"reviews", len(reviews),
		"good", len(result.Good),
		"bad", len(result.Bad),
	)
	return result, nil
}

func (r *Router) count(b types.Bucket) {
	if r.metrics != nil {
		r.metrics.ReviewsRouted.WithLabelValues(string(b)).Inc()
	}
}

// Quote wraps text in double quotes for the social media file.
func Quote(text string) string {
	return `"` + text + `"`
}
