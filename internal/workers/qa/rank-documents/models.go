package rankdocuments

import "carbon-compliance-workers/internal/models"

// Input carries the question and the candidate documents to rank.
type Input struct {
	Question  string            `json:"question"`
	Documents []models.Document `json:"documents"`
}

// Output is the candidates ordered by descending relevance score.
type Output struct {
	RankedDocuments []models.RankedDocument `json:"rankedDocuments"`
}
