package search

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const reindexConcurrency = 8

// Reindex re-projects every row of T into the index, batchSize rows at a time.
// It stops at the first failure and returns the number of rows indexed so far.
func Reindex[T Searchable](ctx context.Context, db *gorm.DB, indexer *Indexer, batchSize int) (int, error) {
	if !indexer.Enabled() {
		return 0, ErrNotConfigured
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	indexed := 0
	var batch []T
	res := db.WithContext(ctx).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(reindexConcurrency)
		for _, item := range batch {
			g.Go(func() error {
				return indexer.put(gctx, item)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		indexed += len(batch)
		return nil
	})
	return indexed, res.Error
}
