package types

import (
	"encoding/json"
	"time"
)

// Review is one piece of review text extracted from a page.
type Review struct {
	// Text is the review body. It is the review's only identity.
	Text string

	// SourceURL is the page the review was read from.
	SourceURL string

	// Index is the position of the review in extraction order.
	Index int

	// ExtractedAt is when the review was read.
	ExtractedAt time.Time
}

// NewReview creates a Review from its text and source page.
func NewReview(text, sourceURL string, index int) *Review {
	return &Review{
		Text:        text,
		SourceURL:   sourceURL,
		Index:       index,
		ExtractedAt: time.Now(),
	}
}

// Bucket is the destination of a routed review.
type Bucket string

const (
	BucketSocialMediaPost   Bucket = "social_media_post"
	BucketGoodAdvertisement Bucket = "good_advertisement"
	BucketBadAdvertisement  Bucket = "bad_advertisement"
)

// BucketFor returns the polarity bucket for a score. Scores strictly above
// the threshold are good; everything else, including the threshold itself, is bad.
func BucketFor(score, threshold float64) Bucket {
	if score > threshold {
		return BucketGoodAdvertisement
	}
	return BucketBadAdvertisement
}

// ScoredReview is a review together with its sentiment score and polarity bucket.
type ScoredReview struct {
	Review
	Score  float64
	Bucket Bucket
}

// ToJSON serializes the scored review for line-oriented reports.
func (s *ScoredReview) ToJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

// Document returns the scored review as a flat map, used by the JSONL and
// MongoDB sinks.
func (s *ScoredReview) Document() map[string]any {
	return map[string]any{
		"text":         s.Text,
		"score":        s.Score,
		"bucket":       string(s.Bucket),
		"source_url":   s.SourceURL,
		"index":        s.Index,
		"extracted_at": s.ExtractedAt.Format(time.RFC3339),
	}
}
