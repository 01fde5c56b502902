package sendcompliancealert

// Input describes the alert to deliver after a gap analysis completes.
type Input struct {
	OrganizationID   string   `json:"organizationId"`
	Email            string   `json:"email,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Priority         string   `json:"priority"`
	OverallScore     string   `json:"overallScore"`
	ScorePercentage  float64  `json:"scorePercentage"`
	HighPriorityGaps []string `json:"highPriorityGaps,omitempty"`
}

// Output reports which channels the alert went out on.
type Output struct {
	AlertID   string `json:"alertId"`
	EmailSent bool   `json:"emailSent"`
	SMSSent   bool   `json:"smsSent"`
}
