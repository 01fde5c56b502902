package compliance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/models"
)

// ==========================
// Test Corpus Implementation
// ==========================

type stubCorpus struct {
	documents []models.Document
}

func (s *stubCorpus) Search(context.Context, string, string) ([]models.Document, error) {
	return s.documents, nil
}

// ==========================
// Question Answering Tests
// ==========================

func TestEngine_AnswerQuestion_SingleRegulationDocument(t *testing.T) {
	secrDoc := models.Document{
		ID:      "secr-2018",
		Title:   "Streamlined Energy and Carbon Reporting",
		Type:    models.DocTypeRegulation,
		Content: "Large companies must report energy use and carbon emissions annually. The report covers UK energy use. An intensity ratio is required.",
		Requirements: []string{
			"Report annual UK energy use",
			"Report associated greenhouse gas emissions",
		},
	}
	engine := NewEngine(&stubCorpus{documents: []models.Document{secrDoc}}, nil, logger.NewTestLogger(t))

	response, err := engine.AnswerQuestion(context.Background(), models.Question{
		Text: "What must we report under SECR?",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.6, response.Confidence)
	require.Len(t, response.Sources, 1)
	assert.Equal(t, "secr-2018", response.Sources[0].DocumentID)
	assert.Contains(t, response.Answer, "Streamlined Energy and Carbon Reporting")
	assert.Contains(t, response.Recommendations, "Report annual UK energy use")
}

func TestEngine_AnswerQuestion_EmptyCorpusFallsBack(t *testing.T) {
	engine := NewEngine(&stubCorpus{}, nil, logger.NewTestLogger(t))

	response, err := engine.AnswerQuestion(context.Background(), models.Question{
		Text: "What must we report under SECR?",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.1, response.Confidence)
	assert.Empty(t, response.Sources)
}

// ==========================
// Gap Analysis Tests
// ==========================

func TestEngine_AnalyzeGaps_ManufacturingScenario(t *testing.T) {
	engine := NewEngine(&stubCorpus{}, nil, logger.NewTestLogger(t))

	result, err := engine.AnalyzeGaps(context.Background(), models.GapAnalysisInput{
		OrganizationID: "org-1",
		Sector:         "manufacturing",
		EmployeeCount:  300,
		AnnualRevenue:  40_000_000,
		ReportingYear:  2024,
		Emissions: models.Emissions{
			Scope1: 500,
			Scope2: 300,
			Scope3: 0,
			Total:  800,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "org-1", result.OrganizationID)
	require.Len(t, result.Benchmarks, 4)

	// Intensity 20 against the built-in 24.5 manufacturing average.
	sector := result.Benchmarks[0]
	assert.Equal(t, models.BenchmarkSectorAverage, sector.BenchmarkType)
	assert.Equal(t, 20.0, sector.YourValue)
	assert.Equal(t, models.PerformanceAboveAverage, sector.Performance)

	// SECR applies on both thresholds, plus the Carbon Budget 4 gap.
	require.Len(t, result.ComplianceGaps, 2)
	assert.Equal(t, models.RegulationSECR, result.ComplianceGaps[0].Regulation)

	// 10+10+6+2 benchmark points plus 10 for a single high gap, out of 55.
	assert.InDelta(t, 69.09, result.ScorePercentage, 0.01)
	assert.Equal(t, models.ScoreAverage, result.OverallScore)

	require.Len(t, result.Recommendations, 3)
	assert.Equal(t, "Remediate SECR compliance gap", result.Recommendations[0].Title)
	assert.Equal(t, "Measure scope 3 emissions", result.Recommendations[1].Title)
	assert.Equal(t, "Set an annual reduction target on the net-zero pathway", result.Recommendations[2].Title)

	assert.NotEmpty(t, result.AnalysisDate)
	assert.NotEmpty(t, result.NextAnalysisDate)
}

func TestEngine_AnalyzeGaps_PropagatesValidationErrors(t *testing.T) {
	engine := NewEngine(&stubCorpus{}, nil, logger.NewTestLogger(t))

	_, err := engine.AnalyzeGaps(context.Background(), models.GapAnalysisInput{
		OrganizationID: "org-1",
	})
	assert.Error(t, err)
}
