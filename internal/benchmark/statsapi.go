package benchmark

import (
	"context"
	"errors"
	"fmt"

	"carbon-compliance-workers/internal/common/statsapi"
)

// StatsAPIProvider serves benchmark data from the government statistics API.
// Peer groups are approximated with the sector average because the API does
// not publish size-banded figures.
type StatsAPIProvider struct {
	client *statsapi.Client
}

func NewStatsAPIProvider(client *statsapi.Client) *StatsAPIProvider {
	return &StatsAPIProvider{client: client}
}

func (p *StatsAPIProvider) SectorBenchmark(ctx context.Context, sector string, year int) (*SectorBenchmark, error) {
	si, err := p.client.GetSectorIntensity(ctx, sector, year)
	if err != nil {
		return nil, p.wrapError(err)
	}
	return &SectorBenchmark{
		Sector:           si.Sector,
		AverageIntensity: si.AverageIntensity,
		MedianIntensity:  si.MedianIntensity,
	}, nil
}

func (p *StatsAPIProvider) NationalBenchmark(ctx context.Context, year int) (*NationalBenchmark, error) {
	ne, err := p.client.GetNationalEmissions(ctx, year)
	if err != nil {
		return nil, p.wrapError(err)
	}
	return &NationalBenchmark{
		AverageCompanyEmissions: ne.AverageCompanyEmissions,
		MedianCompanyEmissions:  ne.MedianCompanyEmissions,
	}, nil
}

func (p *StatsAPIProvider) PeerBenchmark(ctx context.Context, sector string, _ int, year int) (*PeerBenchmark, error) {
	si, err := p.client.GetSectorIntensity(ctx, sector, year)
	if err != nil {
		return nil, p.wrapError(err)
	}
	return &PeerBenchmark{
		AverageIntensity: si.AverageIntensity,
		SampleSize:       si.DataPoints,
	}, nil
}

func (p *StatsAPIProvider) NetZeroPathway(ctx context.Context, sector string, year int) (*NetZeroPathway, error) {
	pr, err := p.client.GetPathwayRequirement(ctx, sector, year)
	if err != nil {
		return nil, p.wrapError(err)
	}
	return &NetZeroPathway{
		Sector:                  pr.Sector,
		RequiredAnnualReduction: pr.RequiredAnnualReduction,
	}, nil
}

func (p *StatsAPIProvider) wrapError(err error) error {
	if errors.Is(err, statsapi.ErrStatsAPITimeout) {
		return ErrBenchmarkTimeout
	}
	return fmt.Errorf("%w: %v", ErrBenchmarkFetchFailed, err)
}
