package search

import (
	"context"
	"sort"

	"chronicles/backend/internal/database"

	"gorm.io/gorm"
)

// Search queries the index of T and loads the matching rows from db, keeping the index's
// relevance order. Ids the database no longer knows are dropped. The returned total is the
// index's match count.
func Search[T Searchable](ctx context.Context, db *gorm.DB, indexer *Indexer, expr string, page, perPage int) ([]T, int64, error) {
	var zero T
	ids, total := indexer.Query(ctx, zero.TableName(), expr, page, perPage)
	if total == 0 {
		return []T{}, 0, nil
	}
	if len(ids) == 0 {
		return []T{}, total, nil
	}

	var rows []T
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, 0, database.Classify(err)
	}

	position := make(map[uint]int, len(ids))
	for i, id := range ids {
		position[id] = i
	}
	keys := make([]int, len(rows))
	for i := range rows {
		id, err := Identity(rows[i])
		if err != nil {
			return nil, 0, err
		}
		keys[i] = position[id]
	}
	sort.Sort(byPosition[T]{rows: rows, keys: keys})
	return rows, total, nil
}

type byPosition[T any] struct {
	rows []T
	keys []int
}

func (b byPosition[T]) Len() int           { return len(b.rows) }
func (b byPosition[T]) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byPosition[T]) Swap(i, j int) {
	b.rows[i], b.rows[j] = b.rows[j], b.rows[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
