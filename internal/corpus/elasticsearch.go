package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"carbon-compliance-workers/internal/models"
)

var (
	ErrSearchFailed  = errors.New("CORPUS_SEARCH_FAILED")
	ErrIndexNotFound = errors.New("INDEX_NOT_FOUND")
)

// ElasticsearchCorpus searches regulatory documents stored in an
// Elasticsearch index.
type ElasticsearchCorpus struct {
	client *elasticsearch.Client
	index  string
	size   int
}

func NewElasticsearchCorpus(client *elasticsearch.Client, index string, size int) *ElasticsearchCorpus {
	if size <= 0 {
		size = 20
	}
	return &ElasticsearchCorpus{
		client: client,
		index:  index,
		size:   size,
	}
}

func (c *ElasticsearchCorpus) Search(ctx context.Context, query, category string) ([]models.Document, error) {
	body, err := json.Marshal(buildSearchQuery(query, category))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	size := c.size
	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrSearchFailed, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	docs := make([]models.Document, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func buildSearchQuery(query, category string) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"must": []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  query,
					"fields": []string{"title^3", "content^2", "requirements"},
					"type":   "best_fields",
				},
			},
		},
	}

	if category != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"term": map[string]interface{}{"category": category},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source models.Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
