package scorecompliance

import "carbon-compliance-workers/internal/models"

// Input combines the organization profile with the benchmark comparisons and
// compliance gaps produced by the earlier analysis tasks.
type Input struct {
	OrganizationID string                       `json:"organizationId"`
	Emissions      models.Emissions             `json:"emissions"`
	Benchmarks     []models.BenchmarkComparison `json:"benchmarks"`
	ComplianceGaps []models.ComplianceGap       `json:"complianceGaps"`
}

// Output is the assembled gap analysis result.
type Output struct {
	Result models.GapAnalysisResult `json:"result"`
}
