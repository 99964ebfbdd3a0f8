package search

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by operations that need a configured index backend.
var ErrNotConfigured = errors.New("search index not configured")

// Index is an external full-text index backend.
type Index interface {
	// Add inserts or replaces the document stored under id.
	Add(ctx context.Context, index string, id uint, doc map[string]any) error
	// Remove deletes the document stored under id. Removing an absent document is not an error.
	Remove(ctx context.Context, index string, id uint) error
	// Query returns the ids of one page of matches, best first, and the total number of matches.
	Query(ctx context.Context, index, query string, page, perPage int) ([]uint, int64, error)
}
