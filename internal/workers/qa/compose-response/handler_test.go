package composeresponse

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func rankedDoc(id, docType string, score float64, requirements ...string) models.RankedDocument {
	return models.RankedDocument{
		Document: models.Document{
			ID:           id,
			Title:        "Title " + id,
			Type:         docType,
			Content:      "Organizations must report emissions annually. Reporting covers scope 1 and scope 2. Unrelated sentence here.",
			Requirements: requirements,
		},
		Score: score,
	}
}

// ==========================
// Fallback Tests
// ==========================

func TestHandler_Execute_NoDocumentsFallsBack(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Question:        "What are my obligations?",
		PrimaryIntent:   models.CategoryCompliance,
		RankedDocuments: []models.RankedDocument{},
	})
	require.NoError(t, err)

	resp := output.Response
	assert.Equal(t, fallbackAnswer, resp.Answer)
	assert.Equal(t, 0.1, resp.Confidence)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, []string{fallbackRecommendation}, resp.Recommendations)
	assert.Empty(t, resp.RelatedQuestions)
}

// ==========================
// Confidence Tests
// ==========================

func TestConfidence(t *testing.T) {
	tests := []struct {
		name     string
		docs     int
		primary  string
		expected float64
	}{
		{"no documents", 0, models.CategoryEmissions, 0.1},
		{"single document", 1, models.CategoryEmissions, 0.6},
		{"multiple documents with clear intent", 2, models.CategoryReporting, 0.9},
		{"multiple documents but general intent", 3, models.CategoryGeneral, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, confidence(tt.docs, tt.primary))
		})
	}
}

// ==========================
// Relevant Section Tests
// ==========================

func TestRelevantSection_KeepsMatchingSentences(t *testing.T) {
	content := "SECR applies to large companies. Directors must approve the report. The weather is unrelated. Emissions must be verified. Another emissions clause. Final emissions note."
	tokens := []string{"emissions", "secr"}

	section := relevantSection(content, tokens)
	assert.Equal(t, "SECR applies to large companies. Emissions must be verified. Another emissions clause", section)
}

func TestRelevantSection_FallsBackToLeadingSentences(t *testing.T) {
	content := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."
	section := relevantSection(content, []string{"nomatch"})
	assert.Equal(t, "First sentence here. Second sentence here. Third sentence here", section)
}

// ==========================
// Composition Tests
// ==========================

func TestHandler_Execute_DetailedStyleCitesEachDocument(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Question:      "What emissions reporting applies?",
		PrimaryIntent: models.CategoryReporting,
		RankedDocuments: []models.RankedDocument{
			rankedDoc("d1", models.DocTypeRegulation, 8),
			rankedDoc("d2", models.DocTypeGuidance, 3),
		},
	})
	require.NoError(t, err)

	resp := output.Response
	assert.Contains(t, resp.Answer, "According to Title d1:")
	assert.Contains(t, resp.Answer, "According to Title d2:")
	assert.Equal(t, 0.9, resp.Confidence)
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "d1", resp.Sources[0].DocumentID)
	assert.Equal(t, 8.0, resp.Sources[0].Relevance)
	assert.Len(t, resp.RelatedQuestions, 3)
}

func TestHandler_Execute_ConciseStyleUsesTopDocumentOnly(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Question:      "What emissions reporting applies?",
		PrimaryIntent: models.CategoryReporting,
		ResponseStyle: models.StyleConcise,
		RankedDocuments: []models.RankedDocument{
			rankedDoc("d1", models.DocTypeRegulation, 8),
			rankedDoc("d2", models.DocTypeGuidance, 3),
		},
	})
	require.NoError(t, err)
	assert.NotContains(t, output.Response.Answer, "Title d2")
}

func TestHandler_Execute_TechnicalStyleBulletsCalculationMethods(t *testing.T) {
	handler := newTestHandler(t)

	d1 := rankedDoc("d1", models.DocTypeGuidance, 9)
	d1.CalculationMethods = []string{"Multiply kWh by the location-based grid factor", "Apply well-to-tank uplift"}
	d2 := rankedDoc("d2", models.DocTypeGuidance, 7)
	d2.CalculationMethods = []string{"Convert litres of fuel with the published density factor"}
	d3 := rankedDoc("d3", models.DocTypeGuidance, 5)
	d3.CalculationMethods = []string{"Never reached: only two methods are quoted"}

	output, err := handler.Execute(context.Background(), &Input{
		Question:        "How do I calculate scope 2 emissions?",
		PrimaryIntent:   models.CategoryCalculation,
		ResponseStyle:   models.StyleTechnical,
		RankedDocuments: []models.RankedDocument{d1, d2, d3},
	})
	require.NoError(t, err)

	answer := output.Response.Answer
	assert.True(t, strings.HasPrefix(answer, "Based on Title d1 technical guidance:"))
	assert.Contains(t, answer, "- Multiply kWh by the location-based grid factor")
	assert.Contains(t, answer, "- Convert litres of fuel with the published density factor")
	assert.NotContains(t, answer, "Never reached")
}

func TestHandler_Execute_ExecutiveStyleSummaryAndClosing(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Question:      "What emissions reporting applies?",
		PrimaryIntent: models.CategoryReporting,
		ResponseStyle: models.StyleExecutive,
		RankedDocuments: []models.RankedDocument{
			rankedDoc("d1", models.DocTypeRegulation, 8),
		},
	})
	require.NoError(t, err)

	answer := output.Response.Answer
	assert.Contains(t, answer, "Organizations must report emissions annually")
	assert.Contains(t, answer, executiveClosing)
}

func TestHandler_Execute_DetailedStyleBulletsKeyPoints(t *testing.T) {
	handler := newTestHandler(t)

	d1 := rankedDoc("d1", models.DocTypeRegulation, 8)
	d1.KeyPoints = []string{"Applies to large companies", "Covers UK energy use", "Requires an intensity ratio", "Fourth point dropped"}

	output, err := handler.Execute(context.Background(), &Input{
		Question:        "What emissions reporting applies?",
		PrimaryIntent:   models.CategoryReporting,
		RankedDocuments: []models.RankedDocument{d1},
	})
	require.NoError(t, err)

	answer := output.Response.Answer
	assert.Contains(t, answer, "- Applies to large companies")
	assert.Contains(t, answer, "- Requires an intensity ratio")
	assert.NotContains(t, answer, "Fourth point dropped")
	assert.Equal(t, 1, output.Response.Metadata.DocumentsSearched)
}

func TestHandler_Execute_AppendsOrganizationAdvisory(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Question:      "What emissions reporting applies?",
		PrimaryIntent: models.CategoryReporting,
		Context:       &models.OrganizationContext{OrganizationType: models.OrgLargeUnquoted},
		RankedDocuments: []models.RankedDocument{
			rankedDoc("d1", models.DocTypeRegulation, 8),
		},
	})
	require.NoError(t, err)
	assert.Contains(t, output.Response.Answer, "large unquoted company")
	assert.Equal(t, 0.6, output.Response.Confidence)
}

func TestHandler_Execute_LimitsDocumentsToConfiguredMax(t *testing.T) {
	handler := newTestHandler(t)

	docs := []models.RankedDocument{
		rankedDoc("d1", models.DocTypeRegulation, 9),
		rankedDoc("d2", models.DocTypeRegulation, 8),
		rankedDoc("d3", models.DocTypeGuidance, 7),
		rankedDoc("d4", models.DocTypeGuidance, 6),
	}

	output, err := handler.Execute(context.Background(), &Input{
		Question:        "What emissions reporting applies?",
		PrimaryIntent:   models.CategoryReporting,
		RankedDocuments: docs,
	})
	require.NoError(t, err)
	assert.Len(t, output.Response.Sources, 3)
}

// ==========================
// Recommendations and Next Steps Tests
// ==========================

func TestBuildRecommendations_DedupAndCap(t *testing.T) {
	processed := []models.ProcessedContent{
		{Requirements: []string{"Report scope 1 and 2", "Publish intensity ratio", "Third requirement ignored"}},
		{Requirements: []string{"Report scope 1 and 2", "Verify data externally"}},
	}

	recs := buildRecommendations(processed, models.CategoryReporting)

	assert.Len(t, recs, 5)
	assert.Equal(t, "Report scope 1 and 2", recs[0])
	assert.Equal(t, "Publish intensity ratio", recs[1])
	assert.Equal(t, "Verify data externally", recs[2])
	// Remaining slots come from the category's fixed recommendations.
	assert.Equal(t, categoryRecommendations[models.CategoryReporting][0], recs[3])
}

func TestBuildNextSteps_HighUrgencyPrepended(t *testing.T) {
	steps := buildNextSteps(models.CategoryReporting, models.UrgencyHigh)

	require.Len(t, steps, 4)
	assert.Equal(t, urgentNextSteps[0], steps[0])
	assert.Equal(t, urgentNextSteps[1], steps[1])
	assert.Equal(t, categoryNextSteps[models.CategoryReporting][0], steps[2])
}

func TestBuildNextSteps_LowUrgency(t *testing.T) {
	steps := buildNextSteps(models.CategoryEmissions, models.UrgencyLow)
	assert.Equal(t, categoryNextSteps[models.CategoryEmissions], steps)
}

func TestRelatedQuestions_OnlyForSelectedCategories(t *testing.T) {
	assert.Len(t, relatedQuestions(models.CategoryEmissions), 3)
	assert.Len(t, relatedQuestions(models.CategoryTrading), 3)
	assert.Empty(t, relatedQuestions(models.CategoryCompliance))
	assert.Empty(t, relatedQuestions(models.CategoryGeneral))
}

func TestFallbackAnswerMentionsGuidance(t *testing.T) {
	assert.True(t, strings.Contains(fallbackAnswer, "government guidance"))
}
