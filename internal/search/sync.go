package search

import (
	"context"

	"chronicles/backend/internal/database"
)

// Synchronizer projects committed changes of Searchable entities into the index.
// Register it on a database.TxManager.
type Synchronizer struct {
	indexer *Indexer
}

// NewSynchronizer returns a commit listener feeding indexer.
func NewSynchronizer(indexer *Indexer) *Synchronizer {
	return &Synchronizer{indexer: indexer}
}

func searchables(in []any) []any {
	out := make([]any, 0, len(in))
	for _, obj := range in {
		if _, ok := obj.(Searchable); ok {
			out = append(out, obj)
		}
	}
	return out
}

// BeforeCommit captures the searchable part of the pending change set.
func (s *Synchronizer) BeforeCommit(_ context.Context, pending database.Changes) database.Changes {
	return database.Changes{
		Added:   searchables(pending.Added),
		Updated: searchables(pending.Updated),
		Deleted: searchables(pending.Deleted),
	}
}

// AfterCommit upserts added and updated entities and removes deleted ones.
func (s *Synchronizer) AfterCommit(ctx context.Context, captured database.Changes) {
	for _, obj := range captured.Added {
		s.indexer.Add(ctx, obj.(Searchable))
	}
	for _, obj := range captured.Updated {
		s.indexer.Add(ctx, obj.(Searchable))
	}
	for _, obj := range captured.Deleted {
		s.indexer.Remove(ctx, obj.(Searchable))
	}
}
