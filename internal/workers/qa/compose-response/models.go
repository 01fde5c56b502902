package composeresponse

import "carbon-compliance-workers/internal/models"

// Input carries everything the composer needs: the question, its
// classification, the ranked corpus documents and the organization context.
type Input struct {
	Question        string                      `json:"question"`
	PrimaryIntent   string                      `json:"primaryIntent"`
	Urgency         string                      `json:"urgency"`
	ResponseStyle   string                      `json:"responseStyle,omitempty"`
	Context         *models.OrganizationContext `json:"context,omitempty"`
	RankedDocuments []models.RankedDocument     `json:"rankedDocuments"`
}

// Output is the composed response.
type Output struct {
	Response models.AgentResponse `json:"response"`
}
