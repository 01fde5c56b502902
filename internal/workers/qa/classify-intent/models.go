package classifyintent

import "carbon-compliance-workers/internal/models"

// Input carries the question to classify. Context is passed through for
// downstream tasks and does not influence classification.
type Input struct {
	Question string                      `json:"question"`
	Context  *models.OrganizationContext `json:"context,omitempty"`
}

// Output is the intent classification for the question.
type Output struct {
	PrimaryIntent    string   `json:"primaryIntent"`
	SecondaryIntents []string `json:"secondaryIntents"`
	Urgency          string   `json:"urgency"`
	Complexity       string   `json:"complexity"`
}
