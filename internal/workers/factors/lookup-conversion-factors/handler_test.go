package lookupconversionfactors

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/models"
)

// ==========================
// Test Store Implementation
// ==========================

type fakeStore struct {
	byCategory map[string][]models.ConversionFactor
	metadata   *models.FactorDatasetMetadata
	err        error
}

func (f *fakeStore) Search(_ context.Context, _, category, _ string, _, limit int) ([]models.ConversionFactor, error) {
	if f.err != nil {
		return nil, f.err
	}
	factors := f.byCategory[category]
	if len(factors) > limit {
		factors = factors[:limit]
	}
	return factors, nil
}

func (f *fakeStore) Metadata(context.Context, int) (*models.FactorDatasetMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.metadata, nil
}

func factor(id, category string) models.ConversionFactor {
	return models.ConversionFactor{
		ID:       id,
		Scope:    "scope1",
		Category: category,
		Activity: "diesel",
		Unit:     "litres",
		Factor:   2.51,
		GasType:  "co2e",
		Year:     2025,
	}
}

func factors(category string, count int) []models.ConversionFactor {
	out := make([]models.ConversionFactor, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, factor(fmt.Sprintf("%s-%d", category, i), category))
	}
	return out
}

// ==========================
// Search Tests
// ==========================

func TestHandler_Execute_Search(t *testing.T) {
	store := &fakeStore{
		byCategory: map[string][]models.ConversionFactor{
			"fuels": factors("fuels", 2),
		},
	}
	handler := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Operation: OperationSearch,
		Category:  "fuels",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Total)
}

func TestHandler_Execute_SearchWithoutFilters(t *testing.T) {
	handler := NewHandler(LoadConfig(), &fakeStore{}, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Operation: OperationSearch})
	assert.ErrorIs(t, err, ErrFactorLookupFailed)
}

// ==========================
// Quick Lookup Tests
// ==========================

func TestHandler_Execute_QuickLookupCapsPerCategoryAndTotal(t *testing.T) {
	store := &fakeStore{
		byCategory: map[string][]models.ConversionFactor{
			"electricity": factors("electricity", 15),
			"fuels":       factors("fuels", 15),
			"transport":   factors("transport", 15),
		},
	}
	handler := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Operation: OperationQuick,
		Keyword:   "diesel",
	})
	require.NoError(t, err)

	// 10 per category, 20 overall: electricity fills 10, fuels fills the rest.
	require.Equal(t, 20, output.Total)
	assert.Equal(t, "electricity-0", output.Factors[0].ID)
	assert.Equal(t, "fuels-9", output.Factors[19].ID)
}

func TestHandler_Execute_QuickLookupDeduplicates(t *testing.T) {
	shared := factor("shared", "electricity")
	store := &fakeStore{
		byCategory: map[string][]models.ConversionFactor{
			"electricity": {shared},
			"fuels":       {shared, factor("fuels-0", "fuels")},
		},
	}
	handler := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Operation: OperationQuick,
		Keyword:   "diesel",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Total)
}

func TestHandler_Execute_QuickLookupNoMatches(t *testing.T) {
	handler := NewHandler(LoadConfig(), &fakeStore{byCategory: map[string][]models.ConversionFactor{}}, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		Operation: OperationQuick,
		Keyword:   "unobtainium",
	})
	assert.ErrorIs(t, err, ErrFactorNotFound)
}

// ==========================
// Metadata and Operation Tests
// ==========================

func TestHandler_Execute_Metadata(t *testing.T) {
	store := &fakeStore{
		metadata: &models.FactorDatasetMetadata{Year: 2025, Source: "UK Government GHG Conversion Factors", FactorCount: 6500},
	}
	handler := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Operation: OperationMetadata})
	require.NoError(t, err)
	require.NotNil(t, output.Metadata)
	assert.Equal(t, 2025, output.Metadata.Year)
}

func TestHandler_Execute_UnknownOperation(t *testing.T) {
	handler := NewHandler(LoadConfig(), &fakeStore{}, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Operation: "delete"})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

// ==========================
// Postgres Store Tests
// ==========================

func TestPostgresStoreSearch(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewPostgresStore(db, cache, time.Minute)

	rows := sqlmock.NewRows([]string{"id", "scope", "category", "subcategory", "activity", "unit", "factor", "gas_type", "year"}).
		AddRow("f1", "scope1", "fuels", "liquid", "diesel", "litres", 2.51, "co2e", 2025)
	mock.ExpectQuery("SELECT id, scope, category").
		WillReturnRows(rows)

	found, err := store.Search(context.Background(), "scope1", "fuels", "diesel", 2025, 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "diesel", found[0].Activity)
	assert.Equal(t, "liquid", found[0].Subcategory)

	// Second identical search hits the cache.
	cached, err := store.Search(context.Background(), "scope1", "fuels", "diesel", 2025, 20)
	require.NoError(t, err)
	assert.Equal(t, found, cached)
	assert.NoError(t, mock.ExpectationsWereMet())
}
