package benchmark

import "context"

// Built-in benchmark values used when live data cannot be fetched. These
// track the published national statistics closely enough for a degraded
// analysis to stay meaningful.
var (
	defaultSectorIntensity = map[string]float64{
		"manufacturing":      24.5,
		"energy":             85.0,
		"transport":          52.3,
		"construction":       18.7,
		"retail":             8.4,
		"technology":         4.2,
		"financial-services": 2.1,
		"agriculture":        67.8,
	}

	defaultNetZeroReduction = map[string]float64{
		"manufacturing":      7.8,
		"energy":             9.5,
		"transport":          8.2,
		"construction":       7.2,
		"retail":             6.5,
		"technology":         5.8,
		"financial-services": 5.5,
		"agriculture":        7.0,
	}
)

const (
	fallbackSectorIntensity        = 15.0
	fallbackNetZeroReduction       = 7.6
	defaultNationalAverageEmission = 12500.0
	defaultNationalMedianEmission  = 3400.0
	defaultPeerIntensityScale      = 0.9
)

// Defaults is a Provider backed entirely by built-in values. It never
// returns an error.
type Defaults struct{}

func NewDefaults() *Defaults {
	return &Defaults{}
}

func (d *Defaults) SectorBenchmark(_ context.Context, sector string, _ int) (*SectorBenchmark, error) {
	avg, ok := defaultSectorIntensity[sector]
	if !ok {
		avg = fallbackSectorIntensity
	}
	return &SectorBenchmark{
		Sector:           sector,
		AverageIntensity: avg,
		MedianIntensity:  avg * 0.8,
	}, nil
}

func (d *Defaults) NationalBenchmark(_ context.Context, _ int) (*NationalBenchmark, error) {
	return &NationalBenchmark{
		AverageCompanyEmissions: defaultNationalAverageEmission,
		MedianCompanyEmissions:  defaultNationalMedianEmission,
	}, nil
}

func (d *Defaults) PeerBenchmark(ctx context.Context, sector string, _ int, year int) (*PeerBenchmark, error) {
	sb, _ := d.SectorBenchmark(ctx, sector, year)
	return &PeerBenchmark{
		AverageIntensity: sb.AverageIntensity * defaultPeerIntensityScale,
		SampleSize:       0,
	}, nil
}

func (d *Defaults) NetZeroPathway(_ context.Context, sector string, _ int) (*NetZeroPathway, error) {
	reduction, ok := defaultNetZeroReduction[sector]
	if !ok {
		reduction = fallbackNetZeroReduction
	}
	return &NetZeroPathway{
		Sector:                  sector,
		RequiredAnnualReduction: reduction,
	}, nil
}
