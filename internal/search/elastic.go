package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"
)

// ElasticIndex stores documents in Elasticsearch.
type ElasticIndex struct {
	client *elasticsearch.Client
}

// NewElasticIndex connects to the cluster at url.
func NewElasticIndex(url string) (*ElasticIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticIndex{client: client}, nil
}

func docID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (e *ElasticIndex) Add(ctx context.Context, index string, id uint, doc map[string]any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := e.client.Index(
		index,
		bytes.NewReader(body),
		e.client.Index.WithDocumentID(docID(id)),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index %s/%d: %s", index, id, res.Status())
	}
	return nil
}

func (e *ElasticIndex) Remove(ctx context.Context, index string, id uint) error {
	res, err := e.client.Delete(index, docID(id), e.client.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %s/%d: %s", index, id, res.Status())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *ElasticIndex) Query(ctx context.Context, index, query string, page, perPage int) ([]uint, int64, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{"query": query, "fields": []string{"*"}},
		},
		"from": (page - 1) * perPage,
		"size": perPage,
	})
	if err != nil {
		return nil, 0, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		// Nothing has been indexed yet.
		return []uint{}, 0, nil
	}
	if res.IsError() {
		return nil, 0, fmt.Errorf("search %s: %s", index, res.Status())
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]uint, 0, len(out.Hits.Hits))
	for _, hit := range out.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, out.Hits.Total.Value, nil
}

// Open builds an Indexer backed by the cluster at url. An empty url yields an
// Indexer with no backend.
func Open(url string, timeout time.Duration, log *logrus.Logger) (*Indexer, error) {
	if url == "" {
		return NewIndexer(nil, timeout, log), nil
	}
	index, err := NewElasticIndex(url)
	if err != nil {
		return nil, err
	}
	return NewIndexer(index, timeout, log), nil
}
