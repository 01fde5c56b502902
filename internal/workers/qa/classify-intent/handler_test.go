package classifyintent

import (
	"context"
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

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CategoryClassification(t *testing.T) {
	tests := []struct {
		name              string
		question          string
		expectedPrimary   string
		expectedSecondary []string
	}{
		{
			name:              "emissions question",
			question:          "How do I reduce my scope 1 emissions?",
			expectedPrimary:   models.CategoryEmissions,
			expectedSecondary: []string{},
		},
		{
			name:              "reporting with deadline secondary",
			question:          "What is the deadline for SECR reporting?",
			expectedPrimary:   models.CategoryReporting,
			expectedSecondary: []string{models.CategoryDeadline},
		},
		{
			name:              "trading question",
			question:          "Do we need to buy allowances under the UK emissions trading scheme?",
			expectedPrimary:   models.CategoryEmissions,
			expectedSecondary: []string{models.CategoryTrading},
		},
		{
			name:              "calculation question",
			question:          "Which conversion factor applies to diesel vehicles?",
			expectedPrimary:   models.CategoryCalculation,
			expectedSecondary: []string{},
		},
		{
			name:              "no category match falls back to general",
			question:          "Hello, can you help us?",
			expectedPrimary:   models.CategoryGeneral,
			expectedSecondary: []string{},
		},
	}

	handler := newTestHandler(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Question: tt.question})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPrimary, output.PrimaryIntent)
			assert.Equal(t, tt.expectedSecondary, output.SecondaryIntents)
		})
	}
}

func TestHandler_Execute_Urgency(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected string
	}{
		{"urgent keyword", "We urgently need guidance on our compliance obligations", models.UrgencyHigh},
		{"explicit urgent", "This is urgent, our report is overdue", models.UrgencyHigh},
		{"deadline implies high", "What happens after the submission deadline passes?", models.UrgencyHigh},
		{"planning implies medium", "We are planning our reporting for next year", models.UrgencyMedium},
		{"default low", "Which documents describe carbon footprint methodology?", models.UrgencyLow},
	}

	handler := newTestHandler(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Question: tt.question})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output.Urgency)
		})
	}
}

func TestHandler_Execute_Complexity(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected string
	}{
		{"what is reads simple", "What is SECR?", models.ComplexitySimple},
		{"simple beats complex", "What is the best way to calculate scope 2?", models.ComplexitySimple},
		{"compare reads complex", "Compare our obligations under SECR and TCFD", models.ComplexityComplex},
		{"default moderate", "Our board needs guidance on emissions disclosure", models.ComplexityModerate},
	}

	handler := newTestHandler(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Question: tt.question})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output.Complexity)
		})
	}
}

// ==========================
// Edge Case Tests
// ==========================

func TestHandler_Execute_EmptyQuestion(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{Question: "   "})
	assert.ErrorIs(t, err, ErrClassificationFailed)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Execute(context.Background(), nil)
	assert.Error(t, err)
}
