package models

// Benchmark comparison performance labels.
const (
	PerformanceAboveAverage = "above_average"
	PerformanceAverage      = "average"
	PerformanceBelowAverage = "below_average"
)

// Benchmark types produced by a gap analysis.
const (
	BenchmarkSectorAverage   = "sector_average"
	BenchmarkNationalAverage = "national_average"
	BenchmarkPeerComparison  = "peer_comparison"
	BenchmarkNetZeroPathway  = "net_zero_pathway"
)

// Regulations evaluated against organization profiles.
const (
	RegulationSECR          = "SECR"
	RegulationUKETS         = "UK_ETS"
	RegulationTCFD          = "TCFD"
	RegulationUKTaxonomy    = "UK_Taxonomy"
	RegulationCarbonBudgets = "Carbon_Budgets"
)

// Compliance statuses for regulation gaps.
const (
	StatusCompliant    = "compliant"
	StatusPartial      = "partial"
	StatusNonCompliant = "non_compliant"
	StatusUnknown      = "unknown"
)

// Priority levels shared by gaps and recommendations.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation categories.
const (
	RecCategoryMeasurement = "measurement"
	RecCategoryReduction   = "reduction"
	RecCategoryReporting   = "reporting"
	RecCategoryCompliance  = "compliance"
)

// Recommendation difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Overall score categories.
const (
	ScoreExcellent        = "excellent"
	ScoreGood             = "good"
	ScoreAverage          = "average"
	ScoreNeedsImprovement = "needs_improvement"
	ScoreUrgentAction     = "urgent_action"
)

// Emissions is the organization's reported footprint in tCO2e.
type Emissions struct {
	Scope1 float64 `json:"scope1"`
	Scope2 float64 `json:"scope2"`
	Scope3 float64 `json:"scope3"`
	Total  float64 `json:"total"`
}

// GapAnalysisInput is the organization profile submitted for analysis.
type GapAnalysisInput struct {
	OrganizationID     string    `json:"organizationId"`
	Sector             string    `json:"sector"`
	SICCode            string    `json:"sicCode,omitempty"`
	Location           string    `json:"location,omitempty"`
	EmployeeCount      int       `json:"employeeCount"`
	AnnualRevenue      float64   `json:"annualRevenue"`
	ReportingYear      int       `json:"reportingYear"`
	Emissions          Emissions `json:"emissions"`
	BusinessActivities []string  `json:"businessActivities,omitempty"`
}

// BenchmarkComparison compares one organization metric against a benchmark.
type BenchmarkComparison struct {
	BenchmarkType        string  `json:"benchmarkType"`
	YourValue            float64 `json:"yourValue"`
	BenchmarkValue       float64 `json:"benchmarkValue"`
	PercentageDifference float64 `json:"percentageDifference"`
	Performance          string  `json:"performance"`
	Description          string  `json:"description"`
}

// ComplianceGap is a regulation the organization falls under together with
// its current compliance status.
type ComplianceGap struct {
	Regulation  string `json:"regulation"`
	Requirement string `json:"requirement"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline,omitempty"`
	Description string `json:"description"`
}

// EstimatedImpact quantifies what a recommendation would achieve.
type EstimatedImpact struct {
	EmissionsReduction float64 `json:"emissionsReduction,omitempty"`
	Description        string  `json:"description"`
}

// Recommendation is a prioritized improvement action.
type Recommendation struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Priority           string          `json:"priority"`
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	EstimatedImpact    EstimatedImpact `json:"estimatedImpact"`
	ImplementationTime string          `json:"implementationTime,omitempty"`
	Difficulty         string          `json:"difficulty,omitempty"`
	DataSource         string          `json:"dataSource,omitempty"`
}

// GapAnalysisResult is the full output of a compliance gap analysis.
type GapAnalysisResult struct {
	OrganizationID   string                `json:"organizationId"`
	AnalysisDate     string                `json:"analysisDate"`
	Benchmarks       []BenchmarkComparison `json:"benchmarks"`
	ComplianceGaps   []ComplianceGap       `json:"complianceGaps"`
	Recommendations  []Recommendation      `json:"recommendations"`
	OverallScore     string                `json:"overallScore"`
	ScorePercentage  float64               `json:"scorePercentage"`
	DataSources      []string              `json:"dataSources"`
	NextAnalysisDate string                `json:"nextAnalysisDate"`
}
