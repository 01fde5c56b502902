package models

// Document types found in the regulatory corpus.
const (
	DocTypeRegulation          = "regulation"
	DocTypeReportingGuidelines = "reporting-guidelines"
	DocTypeGuidance            = "guidance"
	DocTypeOther               = "other"
)

// Document is a regulatory corpus document.
type Document struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Type               string   `json:"type"`
	Category           string   `json:"category"`
	URL                string   `json:"url,omitempty"`
	Framework          string   `json:"framework,omitempty"`
	Content            string   `json:"content"`
	Requirements       []string `json:"requirements"`
	KeyPoints          []string `json:"keyPoints,omitempty"`
	CalculationMethods []string `json:"calculationMethods,omitempty"`
	Source             string   `json:"source,omitempty"`
	LastUpdated        string   `json:"lastUpdated,omitempty"`
}

// RankedDocument is a corpus document with its relevance score for a
// particular question.
type RankedDocument struct {
	Document
	Score float64 `json:"score"`
}

// ProcessedContent is the extract of a ranked document used when composing
// an answer.
type ProcessedContent struct {
	DocumentID         string   `json:"documentId"`
	Title              string   `json:"title"`
	Type               string   `json:"type"`
	URL                string   `json:"url,omitempty"`
	Framework          string   `json:"framework,omitempty"`
	RelevantSection    string   `json:"relevantSection"`
	Requirements       []string `json:"requirements"`
	KeyPoints          []string `json:"keyPoints,omitempty"`
	CalculationMethods []string `json:"calculationMethods,omitempty"`
	Score              float64  `json:"score"`
}
