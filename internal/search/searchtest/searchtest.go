// Package searchtest provides an in-memory search.Index for tests.
package searchtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrDown is returned by every operation while the index is marked down.
var ErrDown = errors.New("searchtest: index down")

// Index is a tiny token-matching index. Documents score one point per query token found
// in any of their fields; ties are broken by ascending id.
type Index struct {
	mu   sync.Mutex
	docs map[string]map[uint]map[string]any
	down bool
}

// New returns an empty index.
func New() *Index {
	return &Index{docs: make(map[string]map[uint]map[string]any)}
}

// SetDown makes subsequent calls fail with ErrDown until called with false.
func (x *Index) SetDown(down bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.down = down
}

// Doc returns the stored document, if any.
func (x *Index) Doc(index string, id uint) (map[string]any, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	doc, ok := x.docs[index][id]
	return doc, ok
}

// Len returns the number of documents stored under index.
func (x *Index) Len(index string) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.docs[index])
}

func (x *Index) Add(_ context.Context, index string, id uint, doc map[string]any) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.down {
		return ErrDown
	}
	if x.docs[index] == nil {
		x.docs[index] = make(map[uint]map[string]any)
	}
	x.docs[index][id] = doc
	return nil
}

func (x *Index) Remove(_ context.Context, index string, id uint) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.down {
		return ErrDown
	}
	delete(x.docs[index], id)
	return nil
}

func (x *Index) Query(_ context.Context, index, query string, page, perPage int) ([]uint, int64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.down {
		return nil, 0, ErrDown
	}

	tokens := strings.Fields(strings.ToLower(query))
	type hit struct {
		id    uint
		score int
	}
	var hits []hit
	for id, doc := range x.docs[index] {
		score := 0
		for _, tok := range tokens {
			for _, v := range doc {
				if strings.Contains(strings.ToLower(fmt.Sprint(v)), tok) {
					score++
					break
				}
			}
		}
		if score > 0 {
			hits = append(hits, hit{id: id, score: score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].id < hits[j].id
	})

	ids := []uint{}
	start := (page - 1) * perPage
	for i := start; i < len(hits) && i < start+perPage; i++ {
		ids = append(ids, hits[i].id)
	}
	return ids, int64(len(hits)), nil
}
