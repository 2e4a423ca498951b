package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/mkravets/web_store/internal/models"
)

// IndexItem writes one catalog item into the search index, keyed by its id
// so re-indexing overwrites instead of duplicating.
func IndexItem(ctx context.Context, es *elasticsearch.Client, index string, item models.Item) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("index item: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(doc),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index item: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index item: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi-field query over name and description.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string) (int64, []models.Item, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}
