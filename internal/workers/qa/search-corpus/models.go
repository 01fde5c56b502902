package searchcorpus

import "carbon-compliance-workers/internal/models"

// Input carries the question and its classified intents.
type Input struct {
	Question         string   `json:"question"`
	PrimaryIntent    string   `json:"primaryIntent"`
	SecondaryIntents []string `json:"secondaryIntents"`
}

// Output is the merged, deduplicated set of matching corpus documents.
type Output struct {
	Documents []models.Document `json:"documents"`
	Total     int               `json:"total"`
}
