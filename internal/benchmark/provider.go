// Package benchmark provides emissions benchmark data for gap analysis.
package benchmark

import (
	"context"
	"errors"
)

var (
	ErrBenchmarkFetchFailed = errors.New("BENCHMARK_FETCH_FAILED")
	ErrBenchmarkTimeout     = errors.New("BENCHMARK_TIMEOUT")
)

// SectorBenchmark holds emissions intensity statistics for a sector.
type SectorBenchmark struct {
	Sector           string  `json:"sector"`
	AverageIntensity float64 `json:"averageIntensity"`
	MedianIntensity  float64 `json:"medianIntensity"`
}

// NationalBenchmark holds national per-company emissions statistics.
type NationalBenchmark struct {
	AverageCompanyEmissions float64 `json:"averageCompanyEmissions"`
	MedianCompanyEmissions  float64 `json:"medianCompanyEmissions"`
}

// PeerBenchmark holds intensity statistics for organizations of comparable
// size within a sector.
type PeerBenchmark struct {
	AverageIntensity float64 `json:"averageIntensity"`
	SampleSize       int     `json:"sampleSize"`
}

// NetZeroPathway holds the sector's net-zero trajectory requirement.
type NetZeroPathway struct {
	Sector                  string  `json:"sector"`
	RequiredAnnualReduction float64 `json:"requiredAnnualReduction"`
}

// Provider fetches benchmark data for a reporting year. Implementations may
// be backed by the benchmarks database or the government statistics API.
type Provider interface {
	SectorBenchmark(ctx context.Context, sector string, year int) (*SectorBenchmark, error)
	NationalBenchmark(ctx context.Context, year int) (*NationalBenchmark, error)
	PeerBenchmark(ctx context.Context, sector string, employeeCount int, year int) (*PeerBenchmark, error)
	NetZeroPathway(ctx context.Context, sector string, year int) (*NetZeroPathway, error)
}
