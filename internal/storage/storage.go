// Package storage persists routed reviews: the plain-text bucket files and
// the optional structured report sinks.
package storage

import (
	"github.com/IshaanNene/ReviewScout/internal/types"
)

// Storage is the interface for structured report backends.
type Storage interface {
	// Store persists a batch of scored reviews.
	Store(reviews []types.ScoredReview) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}
