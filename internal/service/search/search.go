package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/riddlebox/riddle-api/internal/models"
)

// Search runs a fuzzy multi_match over the riddle index. The answer field
// is never indexed, so it cannot leak through search results.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Riddle, error) {
	if es == nil {
		return 0, nil, fmt.Errorf("search: no elasticsearch client")
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"question^2", "difficulty"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
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
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source riddleDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	riddles := make([]models.Riddle, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		riddles[i] = hit.Source.toModel()
	}
	return r.Hits.Total.Value, riddles, nil
}

type riddleDoc struct {
	ID         uint   `json:"id"`
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
}

func (d riddleDoc) toModel() models.Riddle {
	return models.Riddle{ID: d.ID, Question: d.Question, Difficulty: d.Difficulty}
}

// IndexRiddle upserts the searchable projection of a riddle. A nil client
// turns indexing off (tests, local runs without ES).
func IndexRiddle(ctx context.Context, es *elasticsearch.Client, index string, riddle *models.Riddle) error {
	if es == nil {
		return nil
	}

	doc := riddleDoc{ID: riddle.ID, Question: riddle.Question, Difficulty: riddle.Difficulty}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index riddle: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(riddle.ID), 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index riddle: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index riddle: %s", res.Status())
	}
	return nil
}

func DeleteRiddle(ctx context.Context, es *elasticsearch.Client, index string, id uint) error {
	if es == nil {
		return nil
	}

	res, err := es.Delete(
		index,
		strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete riddle from index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete riddle from index: %s", res.Status())
	}
	return nil
}
