package search

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const defaultTimeout = 2 * time.Second

// Indexer is the only path from the application to the index backend.
//
// A nil Indexer, or one built without a backend, turns every operation into a no-op and
// every query into an empty result. Backend failures are logged and swallowed; a circuit
// breaker stops calling a backend that keeps failing and each call is bounded by a timeout.
type Indexer struct {
	index   Index
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewIndexer wraps index, which may be nil when no backend is configured.
func NewIndexer(index Index, timeout time.Duration, log *logrus.Logger) *Indexer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	st := gobreaker.Settings{
		Name:        "SearchIndex",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("CircuitBreaker %s state changed from %s to %s", name, from, to)
		},
	}

	return &Indexer{
		index:   index,
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker(st),
		log:     log,
	}
}

// Enabled reports whether a backend is configured.
func (i *Indexer) Enabled() bool {
	return i != nil && i.index != nil
}

func (i *Indexer) call(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	return i.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
}

// put projects s into the index and reports failures.
func (i *Indexer) put(ctx context.Context, s Searchable) error {
	if !i.Enabled() {
		return ErrNotConfigured
	}
	id, doc, err := Document(s)
	if err != nil {
		return err
	}
	_, err = i.call(ctx, func(ctx context.Context) (any, error) {
		return nil, i.index.Add(ctx, s.TableName(), id, doc)
	})
	return err
}

// Add upserts the searchable fields of s.
func (i *Indexer) Add(ctx context.Context, s Searchable) {
	if !i.Enabled() {
		return
	}
	if err := i.put(ctx, s); err != nil {
		i.log.WithError(err).WithField("index", s.TableName()).Warn("search index add failed")
	}
}

// Remove deletes the document of s.
func (i *Indexer) Remove(ctx context.Context, s Searchable) {
	if !i.Enabled() {
		return
	}
	id, err := Identity(s)
	if err != nil {
		i.log.WithError(err).WithField("index", s.TableName()).Warn("search index remove skipped")
		return
	}
	_, err = i.call(ctx, func(ctx context.Context) (any, error) {
		return nil, i.index.Remove(ctx, s.TableName(), id)
	})
	if err != nil {
		i.log.WithError(err).WithFields(logrus.Fields{"index": s.TableName(), "id": id}).Warn("search index remove failed")
	}
}

type queryResult struct {
	ids   []uint
	total int64
}

// Query returns one page of matching ids in relevance order and the total match count.
// It returns no ids and a zero total when the index is unavailable.
func (i *Indexer) Query(ctx context.Context, index, expr string, page, perPage int) ([]uint, int64) {
	if !i.Enabled() {
		return []uint{}, 0
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	res, err := i.call(ctx, func(ctx context.Context) (any, error) {
		ids, total, err := i.index.Query(ctx, index, expr, page, perPage)
		if err != nil {
			return nil, err
		}
		return queryResult{ids: ids, total: total}, nil
	})
	if err != nil {
		i.log.WithError(err).WithField("index", index).Warn("search index query failed")
		return []uint{}, 0
	}
	qr := res.(queryResult)
	if qr.ids == nil {
		qr.ids = []uint{}
	}
	return qr.ids, qr.total
}
