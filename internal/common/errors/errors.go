// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeIntentClassificationFailed ErrorCode = "INTENT_CLASSIFICATION_FAILED"

	ErrCodeCorpusSearchFailed ErrorCode = "CORPUS_SEARCH_FAILED"
	ErrCodeCorpusTimeout      ErrorCode = "CORPUS_TIMEOUT"
	ErrCodeIndexNotFound      ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeRankingFailed     ErrorCode = "RANKING_FAILED"
	ErrCodeCompositionFailed ErrorCode = "COMPOSITION_FAILED"

	ErrCodeBenchmarkFetchFailed ErrorCode = "BENCHMARK_FETCH_FAILED"
	ErrCodeBenchmarkTimeout     ErrorCode = "BENCHMARK_TIMEOUT"
	ErrCodeGapAnalysisFailed    ErrorCode = "GAP_ANALYSIS_FAILED"
	ErrCodeInvalidAnalysisInput ErrorCode = "INVALID_ANALYSIS_INPUT"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeFactorNotFound     ErrorCode = "FACTOR_NOT_FOUND"
	ErrCodeFactorLookupFailed ErrorCode = "FACTOR_LOOKUP_FAILED"

	ErrCodeAlertSendFailed ErrorCode = "ALERT_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewCorpusSearchFailedError creates a retryable corpus search error.
func NewCorpusSearchFailedError(category string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCorpusSearchFailed,
		Message:   "Document corpus search error",
		Details:   fmt.Sprintf("category: %s, error: %s", category, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCorpusTimeoutError creates a retryable corpus timeout error.
func NewCorpusTimeoutError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCorpusTimeout,
		Message:   "Document corpus search timeout",
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Corpus index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBenchmarkFetchFailedError creates a retryable benchmark provider error.
func NewBenchmarkFetchFailedError(benchmarkType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBenchmarkFetchFailed,
		Message:   "Benchmark data fetch error",
		Details:   fmt.Sprintf("benchmarkType: %s, error: %s", benchmarkType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidAnalysisInputError creates a non-retryable input validation error.
func NewInvalidAnalysisInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAnalysisInput,
		Message:   "Gap analysis input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGapAnalysisFailedError creates a retryable analysis error.
func NewGapAnalysisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGapAnalysisFailed,
		Message:   "Gap analysis execution error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFactorNotFoundError creates a non-retryable conversion factor error.
func NewFactorNotFoundError(factorID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFactorNotFound,
		Message:   "Conversion factor not found",
		Details:   fmt.Sprintf("factorId: %s", factorID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFactorLookupFailedError creates a retryable factor lookup error.
func NewFactorLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFactorLookupFailed,
		Message:   "Conversion factor lookup error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlertSendFailedError creates a retryable alert delivery error.
func NewAlertSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlertSendFailed,
		Message:   "Compliance alert delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (identical by
// convention, the workflow models reference the same names).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeIntentClassificationFailed: "INTENT_CLASSIFICATION_FAILED",
	ErrCodeCorpusSearchFailed:         "CORPUS_SEARCH_FAILED",
	ErrCodeCorpusTimeout:              "CORPUS_TIMEOUT",
	ErrCodeIndexNotFound:              "INDEX_NOT_FOUND",
	ErrCodeRankingFailed:              "RANKING_FAILED",
	ErrCodeCompositionFailed:          "COMPOSITION_FAILED",
	ErrCodeBenchmarkFetchFailed:       "BENCHMARK_FETCH_FAILED",
	ErrCodeBenchmarkTimeout:           "BENCHMARK_TIMEOUT",
	ErrCodeGapAnalysisFailed:          "GAP_ANALYSIS_FAILED",
	ErrCodeInvalidAnalysisInput:       "INVALID_ANALYSIS_INPUT",
	ErrCodeDatabaseConnectionFailed:   "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:       "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:               "QUERY_TIMEOUT",
	ErrCodeFactorNotFound:             "FACTOR_NOT_FOUND",
	ErrCodeFactorLookupFailed:         "FACTOR_LOOKUP_FAILED",
	ErrCodeAlertSendFailed:            "ALERT_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCorpusSearchFailed,
		ErrCodeBenchmarkFetchFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeFactorLookupFailed,
		ErrCodeAlertSendFailed,
		ErrCodeGapAnalysisFailed:
		return 3 // Retryable technical errors

	case ErrCodeCorpusTimeout,
		ErrCodeBenchmarkTimeout,
		ErrCodeQueryTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CORPUS") || strings.Contains(codeStr, "INDEX"):
		return "CORPUS"
	case strings.Contains(codeStr, "BENCHMARK") || strings.Contains(codeStr, "GAP"):
		return "ANALYSIS"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "FACTOR"):
		return "FACTORS"
	case strings.Contains(codeStr, "ALERT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INTENT") || strings.Contains(codeStr, "RANKING") || strings.Contains(codeStr, "COMPOSITION"):
		return "QA"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
