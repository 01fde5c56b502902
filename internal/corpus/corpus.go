// Package corpus provides access to the regulatory document corpus.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/models"
)

// Corpus searches regulatory documents. Category is optional; an empty
// category searches the whole corpus. A search with no matches returns an
// empty slice, not an error.
type Corpus interface {
	Search(ctx context.Context, query, category string) ([]models.Document, error)
}

// CachedCorpus wraps a Corpus with a redis read-through cache. Cache
// failures fall through to the underlying corpus.
type CachedCorpus struct {
	inner  Corpus
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedCorpus(inner Corpus, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedCorpus {
	return &CachedCorpus{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "corpus-cache"}),
	}
}

func (c *CachedCorpus) Search(ctx context.Context, query, category string) ([]models.Document, error) {
	key := fmt.Sprintf("corpus:search:%s:%s", category, query)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		var docs []models.Document
		if err := json.Unmarshal([]byte(cached), &docs); err == nil {
			return docs, nil
		}
	}

	docs, err := c.inner.Search(ctx, query, category)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(docs); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache search result", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return docs, nil
}
