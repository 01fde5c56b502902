package corpus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/models"
)

type countingCorpus struct {
	documents []models.Document
	calls     int
}

func (c *countingCorpus) Search(context.Context, string, string) ([]models.Document, error) {
	c.calls++
	return c.documents, nil
}

func TestCachedCorpus_SecondSearchServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingCorpus{documents: []models.Document{
		{ID: "secr-2018", Title: "Streamlined Energy and Carbon Reporting", Type: models.DocTypeRegulation},
	}}
	cached := NewCachedCorpus(inner, client, time.Minute, logger.NewTestLogger(t))

	first, err := cached.Search(context.Background(), "secr reporting", "reporting")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, inner.calls)

	second, err := cached.Search(context.Background(), "secr reporting", "reporting")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedCorpus_DistinctCategoriesCacheSeparately(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingCorpus{documents: []models.Document{{ID: "d1"}}}
	cached := NewCachedCorpus(inner, client, time.Minute, logger.NewTestLogger(t))

	_, err := cached.Search(context.Background(), "emissions", "emissions")
	require.NoError(t, err)
	_, err = cached.Search(context.Background(), "emissions", "")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedCorpus_EmptyResultIsCachedNotAnError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingCorpus{}
	cached := NewCachedCorpus(inner, client, time.Minute, logger.NewTestLogger(t))

	docs, err := cached.Search(context.Background(), "nothing matches this", "")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
