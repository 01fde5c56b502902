package comparebenchmarks

import "carbon-compliance-workers/internal/models"

// Input is the organization profile to benchmark.
type Input struct {
	models.GapAnalysisInput
}

// Output holds the four benchmark comparisons.
type Output struct {
	Benchmarks []models.BenchmarkComparison `json:"benchmarks"`
}
