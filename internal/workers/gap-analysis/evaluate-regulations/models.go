package evaluateregulations

import "carbon-compliance-workers/internal/models"

// Input is the organization profile to evaluate.
type Input struct {
	models.GapAnalysisInput
}

// Output lists the regulations the organization falls under and their
// compliance status.
type Output struct {
	ComplianceGaps []models.ComplianceGap `json:"complianceGaps"`
}
