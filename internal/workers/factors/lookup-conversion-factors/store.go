package lookupconversionfactors

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"carbon-compliance-workers/internal/models"
)

// Store reads conversion factors from the factors database.
type Store interface {
	Search(ctx context.Context, scope, category, keyword string, year, limit int) ([]models.ConversionFactor, error)
	Metadata(ctx context.Context, year int) (*models.FactorDatasetMetadata, error)
}

// PostgresStore is the database-backed Store with a redis cache in front of
// keyword searches.
type PostgresStore struct {
	db    *sql.DB
	cache *redis.Client
	ttl   time.Duration
}

func NewPostgresStore(db *sql.DB, cache *redis.Client, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, cache: cache, ttl: ttl}
}

func (s *PostgresStore) Search(ctx context.Context, scope, category, keyword string, year, limit int) ([]models.ConversionFactor, error) {
	cacheKey := fmt.Sprintf("factors:%s:%s:%s:%d:%d", scope, category, keyword, year, limit)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached []models.ConversionFactor
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	query := strings.Builder{}
	query.WriteString(`SELECT id, scope, category, subcategory, activity, unit, factor, gas_type, year
		FROM conversion_factors WHERE year = $1`)
	args := []interface{}{year}

	if scope != "" {
		args = append(args, scope)
		fmt.Fprintf(&query, " AND scope = $%d", len(args))
	}
	if category != "" {
		args = append(args, category)
		fmt.Fprintf(&query, " AND category = $%d", len(args))
	}
	if keyword != "" {
		args = append(args, "%"+strings.ToLower(keyword)+"%")
		fmt.Fprintf(&query, " AND LOWER(activity) LIKE $%d", len(args))
	}
	args = append(args, limit)
	fmt.Fprintf(&query, " ORDER BY category, activity LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query conversion factors: %w", err)
	}
	defer rows.Close()

	factors := []models.ConversionFactor{}
	for rows.Next() {
		var f models.ConversionFactor
		var subcategory sql.NullString
		if err := rows.Scan(&f.ID, &f.Scope, &f.Category, &subcategory, &f.Activity, &f.Unit, &f.Factor, &f.GasType, &f.Year); err != nil {
			return nil, fmt.Errorf("scan conversion factor: %w", err)
		}
		f.Subcategory = subcategory.String
		factors = append(factors, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversion factors: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(factors); err == nil {
			s.cache.Set(ctx, cacheKey, payload, s.ttl)
		}
	}
	return factors, nil
}

func (s *PostgresStore) Metadata(ctx context.Context, year int) (*models.FactorDatasetMetadata, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT d.year, d.source,
		        (SELECT COUNT(*) FROM conversion_factors f WHERE f.year = d.year),
		        d.published_at
		 FROM conversion_factor_datasets d
		 WHERE d.year = $1`,
		year)

	var meta models.FactorDatasetMetadata
	var publishedAt sql.NullString
	if err := row.Scan(&meta.Year, &meta.Source, &meta.FactorCount, &publishedAt); err != nil {
		return nil, fmt.Errorf("query dataset metadata: %w", err)
	}
	meta.PublishedAt = publishedAt.String
	return &meta, nil
}
