package store

import (
	"iter"

	"chronicles/backend/internal/database"

	"gorm.io/gorm"
)

// Page is one page of a larger result. Pages past the end are empty rather than an error.
type Page[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int64
}

// HasNext reports whether a later page holds items.
func (p *Page[T]) HasNext() bool { return int64(p.Page)*int64(p.PerPage) < p.Total }

// HasPrev reports whether this is not the first page.
func (p *Page[T]) HasPrev() bool { return p.Page > 1 }

// NextNum is the next page number, or 0 when there is none.
func (p *Page[T]) NextNum() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}

// PrevNum is the previous page number, or 0 when there is none.
func (p *Page[T]) PrevNum() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Page - 1
}

// Pages is the number of non-empty pages.
func (p *Page[T]) Pages() int {
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return page, perPage
}

// Paginate counts the rows of query and loads one page of it. db must be a fresh handle;
// query may use joins and GROUP BY since the count wraps it in a subquery.
func Paginate[T any](db, query *gorm.DB, page, perPage int, preloads ...string) (*Page[T], error) {
	page, perPage = normalize(page, perPage)

	var total int64
	if err := db.Table("(?) AS paged", query).Count(&total).Error; err != nil {
		return nil, database.Classify(err)
	}

	items := make([]T, 0, perPage)
	q := query
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
		return nil, database.Classify(err)
	}

	return &Page[T]{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

// Walk lazily pages through a result with fetch. Every range over the returned sequence
// starts again from page one. A fetch error is yielded once and ends the sequence.
func Walk[T any](fetch func(page int) (*Page[T], error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for page := 1; ; page++ {
			p, err := fetch(page)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range p.Items {
				if !yield(item, nil) {
					return
				}
			}
			if !p.HasNext() {
				return
			}
		}
	}
}
