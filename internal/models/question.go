package models

// Intent categories recognised by the question classifier.
const (
	CategoryEmissions   = "emissions"
	CategoryReporting   = "reporting"
	CategoryCalculation = "calculation"
	CategoryTrading     = "trading"
	CategoryCompliance  = "compliance"
	CategoryDeadline    = "deadline"
	CategoryGeneral     = "general"
)

// Urgency levels.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Complexity levels.
const (
	ComplexitySimple   = "simple"
	ComplexityModerate = "moderate"
	ComplexityComplex  = "complex"
)

// Response styles.
const (
	StyleConcise   = "concise"
	StyleTechnical = "technical"
	StyleExecutive = "executive"
	StyleDetailed  = "detailed"
)

// Organization types with specific reporting obligations.
const (
	OrgListedCompany = "listed-company"
	OrgLargeUnquoted = "large-unquoted"
	OrgLLP           = "llp"
	OrgSME           = "sme"
)

// OrganizationContext describes the organization asking a question. All
// fields are optional.
type OrganizationContext struct {
	OrganizationType string `json:"organizationType,omitempty"`
	Sector           string `json:"sector,omitempty"`
	EmployeeCount    int    `json:"employeeCount,omitempty"`
	AnnualRevenue    float64 `json:"annualRevenue,omitempty"`
}

// Question is a natural-language compliance question with optional
// organization context and preferred response style.
type Question struct {
	Text          string               `json:"text"`
	Context       *OrganizationContext `json:"context,omitempty"`
	ResponseStyle string               `json:"responseStyle,omitempty"`
}

// IntentClassification is the classifier output for a question.
type IntentClassification struct {
	PrimaryIntent    string   `json:"primaryIntent"`
	SecondaryIntents []string `json:"secondaryIntents"`
	Urgency          string   `json:"urgency"`
	Complexity       string   `json:"complexity"`
}

// Source identifies a corpus document cited in a response.
type Source struct {
	DocumentID string  `json:"documentId"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	URL        string  `json:"url,omitempty"`
	Excerpt    string  `json:"excerpt,omitempty"`
	Framework  string  `json:"framework,omitempty"`
	Relevance  float64 `json:"relevance"`
}

// ResponseMetadata describes how an answer was produced.
type ResponseMetadata struct {
	ProcessingTimeMs  int64 `json:"processingTimeMs"`
	DocumentsSearched int   `json:"documentsSearched"`
}

// AgentResponse is the composed answer to a compliance question.
type AgentResponse struct {
	Answer           string           `json:"answer"`
	Confidence       float64          `json:"confidence"`
	Sources          []Source         `json:"sources"`
	Recommendations  []string         `json:"recommendations"`
	NextSteps        []string         `json:"nextSteps"`
	RelatedQuestions []string         `json:"relatedQuestions"`
	Metadata         ResponseMetadata `json:"metadata"`
}
