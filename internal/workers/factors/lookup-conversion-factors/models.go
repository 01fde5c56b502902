package lookupconversionfactors

import "carbon-compliance-workers/internal/models"

// Supported lookup operations.
const (
	OperationSearch   = "search"
	OperationQuick    = "quick"
	OperationMetadata = "metadata"
)

// Input selects a lookup operation. Search filters by any combination of
// scope, category and keyword; quick scans the common activity categories
// for a keyword; metadata describes the loaded dataset.
type Input struct {
	Operation string `json:"operation"`
	Scope     string `json:"scope,omitempty"`
	Category  string `json:"category,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
	Year      int    `json:"year,omitempty"`
}

// Output carries the matching factors or the dataset metadata.
type Output struct {
	Factors  []models.ConversionFactor     `json:"factors,omitempty"`
	Total    int                           `json:"total"`
	Metadata *models.FactorDatasetMetadata `json:"metadata,omitempty"`
}
