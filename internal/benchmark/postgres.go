package benchmark

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"carbon-compliance-workers/internal/common/logger"
)

// PostgresProvider reads benchmark data from the benchmarks database, with a
// redis read-through cache in front of every query.
type PostgresProvider struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewPostgresProvider(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger) *PostgresProvider {
	return &PostgresProvider{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "benchmark-provider"}),
	}
}

func (p *PostgresProvider) SectorBenchmark(ctx context.Context, sector string, year int) (*SectorBenchmark, error) {
	key := fmt.Sprintf("benchmark:sector:%s:%d", sector, year)
	var out SectorBenchmark
	if p.cacheGet(ctx, key, &out) {
		return &out, nil
	}

	row := p.db.QueryRowContext(ctx,
		`SELECT sector, average_intensity, median_intensity
		 FROM sector_benchmarks
		 WHERE sector = $1 AND reporting_year = $2`,
		sector, year)
	if err := row.Scan(&out.Sector, &out.AverageIntensity, &out.MedianIntensity); err != nil {
		return nil, p.wrapQueryError(err)
	}

	p.cacheSet(ctx, key, &out)
	return &out, nil
}

func (p *PostgresProvider) NationalBenchmark(ctx context.Context, year int) (*NationalBenchmark, error) {
	key := fmt.Sprintf("benchmark:national:%d", year)
	var out NationalBenchmark
	if p.cacheGet(ctx, key, &out) {
		return &out, nil
	}

	row := p.db.QueryRowContext(ctx,
		`SELECT average_company_emissions, median_company_emissions
		 FROM national_benchmarks
		 WHERE reporting_year = $1`,
		year)
	if err := row.Scan(&out.AverageCompanyEmissions, &out.MedianCompanyEmissions); err != nil {
		return nil, p.wrapQueryError(err)
	}

	p.cacheSet(ctx, key, &out)
	return &out, nil
}

func (p *PostgresProvider) PeerBenchmark(ctx context.Context, sector string, employeeCount int, year int) (*PeerBenchmark, error) {
	band := employeeBand(employeeCount)
	key := fmt.Sprintf("benchmark:peer:%s:%s:%d", sector, band, year)
	var out PeerBenchmark
	if p.cacheGet(ctx, key, &out) {
		return &out, nil
	}

	row := p.db.QueryRowContext(ctx,
		`SELECT average_intensity, sample_size
		 FROM peer_benchmarks
		 WHERE sector = $1 AND employee_band = $2 AND reporting_year = $3`,
		sector, band, year)
	if err := row.Scan(&out.AverageIntensity, &out.SampleSize); err != nil {
		return nil, p.wrapQueryError(err)
	}

	p.cacheSet(ctx, key, &out)
	return &out, nil
}

func (p *PostgresProvider) NetZeroPathway(ctx context.Context, sector string, year int) (*NetZeroPathway, error) {
	key := fmt.Sprintf("benchmark:pathway:%s:%d", sector, year)
	var out NetZeroPathway
	if p.cacheGet(ctx, key, &out) {
		return &out, nil
	}

	row := p.db.QueryRowContext(ctx,
		`SELECT sector, required_annual_reduction
		 FROM net_zero_pathways
		 WHERE sector = $1 AND reporting_year = $2`,
		sector, year)
	if err := row.Scan(&out.Sector, &out.RequiredAnnualReduction); err != nil {
		return nil, p.wrapQueryError(err)
	}

	p.cacheSet(ctx, key, &out)
	return &out, nil
}

// Peer groups follow the SECR size thresholds.
func employeeBand(count int) string {
	switch {
	case count <= 50:
		return "micro"
	case count <= 250:
		return "small"
	case count <= 500:
		return "medium"
	default:
		return "large"
	}
}

func (p *PostgresProvider) wrapQueryError(err error) error {
	if err == context.DeadlineExceeded {
		return ErrBenchmarkTimeout
	}
	return fmt.Errorf("%w: %v", ErrBenchmarkFetchFailed, err)
}

func (p *PostgresProvider) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if p.cache == nil {
		return false
	}
	raw, err := p.cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (p *PostgresProvider) cacheSet(ctx context.Context, key string, v interface{}) {
	if p.cache == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		p.logger.Warn("failed to cache benchmark", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
