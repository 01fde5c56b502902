package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Retry Policy Tests
// ==========================

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		retries int
	}{
		{ErrCodeCorpusSearchFailed, 3},
		{ErrCodeFactorLookupFailed, 3},
		{ErrCodeAlertSendFailed, 3},
		{ErrCodeCorpusTimeout, 2},
		{ErrCodeBenchmarkTimeout, 2},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeFactorNotFound, 0},
		{ErrCodeInvalidAnalysisInput, 0},
		{ErrorCode("UNKNOWN_ERROR"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
			assert.Equal(t, tt.retries > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

// ==========================
// BPMN Conversion Tests
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewCorpusSearchFailedError("emissions", fmt.Errorf("index unavailable"))

	bpmnErr := ConvertToBPMNError(stdErr)
	require.NotNil(t, bpmnErr)

	assert.Equal(t, "CORPUS_SEARCH_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Equal(t, "CORPUS_SEARCH_FAILED", bpmnErr.ErrorVariables["originalErrorCode"])
}

func TestConvertToBPMNError_NonRetryableDropsRetries(t *testing.T) {
	stdErr := NewFactorNotFoundError("electricity-uk-2025")

	bpmnErr := ConvertToBPMNError(stdErr)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestConvertToBPMNError_UnmappedCodeFallsBack(t *testing.T) {
	stdErr := &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   "rule violated",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}

	bpmnErr := ConvertToBPMNError(stdErr)
	assert.Equal(t, "BUSINESS_RULE_VIOLATION", bpmnErr.Code)
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmnErr := &BPMNError{
		Code:      "ALERT_SEND_FAILED",
		Message:   "SES rejected the message",
		Retryable: true,
		ErrorVariables: map[string]interface{}{
			"channel": "email",
		},
	}

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "ALERT_SEND_FAILED", vars["errorCode"])
	assert.Equal(t, "SES rejected the message", vars["errorMessage"])
	assert.Equal(t, true, vars["retryable"])
	assert.Equal(t, "email", vars["channel"])
}

// ==========================
// Categorization Tests
// ==========================

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CORPUS", GetErrorCategory(ErrCodeCorpusTimeout))
	assert.Equal(t, "CORPUS", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "ANALYSIS", GetErrorCategory(ErrCodeGapAnalysisFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "FACTORS", GetErrorCategory(ErrCodeFactorNotFound))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeAlertSendFailed))
	assert.Equal(t, "QA", GetErrorCategory(ErrCodeRankingFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrorCode("SOMETHING_ELSE")))
}
