package evaluateregulations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/models"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func baseInput() *Input {
	return &Input{
		GapAnalysisInput: models.GapAnalysisInput{
			OrganizationID: "org-1",
			Sector:         "manufacturing",
			ReportingYear:  2024,
		},
	}
}

func gapFor(gaps []models.ComplianceGap, regulation string) *models.ComplianceGap {
	for i := range gaps {
		if gaps[i].Regulation == regulation {
			return &gaps[i]
		}
	}
	return nil
}

// ==========================
// SECR Tests
// ==========================

func TestHandler_Execute_SECRThresholds(t *testing.T) {
	tests := []struct {
		name      string
		employees int
		revenue   float64
		applies   bool
	}{
		{"below both thresholds", 250, 36_000_000, false},
		{"employee threshold exceeded", 251, 0, true},
		{"revenue threshold exceeded", 10, 36_000_001, true},
	}

	handler := newTestHandler(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			input.EmployeeCount = tt.employees
			input.AnnualRevenue = tt.revenue

			output, err := handler.Execute(context.Background(), input)
			require.NoError(t, err)

			gap := gapFor(output.ComplianceGaps, models.RegulationSECR)
			if !tt.applies {
				assert.Nil(t, gap)
				return
			}
			require.NotNil(t, gap)
			assert.Equal(t, models.StatusUnknown, gap.Status)
			assert.Equal(t, models.PriorityHigh, gap.Priority)
		})
	}
}

// ==========================
// UK ETS Tests
// ==========================

func TestHandler_Execute_UKETS(t *testing.T) {
	handler := newTestHandler(t)

	input := baseInput()
	input.Emissions.Total = 25_001

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	gap := gapFor(output.ComplianceGaps, models.RegulationUKETS)
	require.NotNil(t, gap)
	assert.Equal(t, models.StatusPartial, gap.Status)
	assert.Equal(t, models.PriorityHigh, gap.Priority)
}

func TestHandler_Execute_UKETSBelowThreshold(t *testing.T) {
	handler := newTestHandler(t)

	input := baseInput()
	input.Emissions.Total = 25_000

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Nil(t, gapFor(output.ComplianceGaps, models.RegulationUKETS))
}

// ==========================
// TCFD Tests
// ==========================

func TestHandler_Execute_TCFD(t *testing.T) {
	handler := newTestHandler(t)

	input := baseInput()
	input.EmployeeCount = 501

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	gap := gapFor(output.ComplianceGaps, models.RegulationTCFD)
	require.NotNil(t, gap)
	assert.Equal(t, models.StatusPartial, gap.Status)
	assert.Equal(t, models.PriorityMedium, gap.Priority)
}

// ==========================
// Carbon Budget Tests
// ==========================

func TestCarbonBudgetFor(t *testing.T) {
	tests := []struct {
		year              int
		expectedBudget    int
		expectedReduction float64
	}{
		{2023, 4, 7.8},
		{2027, 4, 7.8},
		{2028, 5, 8.5},
		{2032, 5, 8.5},
		{2033, 6, 9.2},
		{2037, 6, 9.2},
		{2022, 0, 0},
		{2038, 0, 0},
	}

	for _, tt := range tests {
		budget, reduction := carbonBudgetFor(tt.year)
		assert.Equal(t, tt.expectedBudget, budget, "year %d", tt.year)
		assert.Equal(t, tt.expectedReduction, reduction, "year %d", tt.year)
	}
}

func TestHandler_Execute_CarbonBudgetGap(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), baseInput())
	require.NoError(t, err)

	gap := gapFor(output.ComplianceGaps, models.RegulationCarbonBudgets)
	require.NotNil(t, gap)
	assert.Contains(t, gap.Requirement, "Carbon Budget 4")
	assert.Contains(t, gap.Description, "7.8%")
}

// ==========================
// Scenario Tests
// ==========================

func TestHandler_Execute_ManufacturingScenario(t *testing.T) {
	handler := newTestHandler(t)

	input := &Input{
		GapAnalysisInput: models.GapAnalysisInput{
			OrganizationID: "org-1",
			Sector:         "manufacturing",
			EmployeeCount:  300,
			AnnualRevenue:  40_000_000,
			ReportingYear:  2024,
			Emissions:      models.Emissions{Scope1: 500, Scope2: 300, Total: 800},
		},
	}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	// SECR applies on both thresholds; ETS and TCFD do not; the reporting
	// year falls inside Carbon Budget 4.
	require.Len(t, output.ComplianceGaps, 2)
	assert.Equal(t, models.RegulationSECR, output.ComplianceGaps[0].Regulation)
	assert.Equal(t, models.RegulationCarbonBudgets, output.ComplianceGaps[1].Regulation)
}

func TestHandler_Execute_MissingOrganizationID(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrEvaluationFailed)
}
