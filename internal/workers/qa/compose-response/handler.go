package composeresponse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/models"
)

const (
	TaskType = "compose-response"
)

var (
	ErrCompositionFailed = errors.New("COMPOSITION_FAILED")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "COMPOSITION_FAILED").Inc()
		h.failJob(client, job, "COMPOSITION_FAILED", err.Error(), 0)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	start := time.Now()

	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.Question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrCompositionFailed)
	}

	if len(input.RankedDocuments) == 0 {
		response := fallbackResponse(input.PrimaryIntent)
		response.Metadata = models.ResponseMetadata{
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
		return &Output{Response: response}, nil
	}

	top := input.RankedDocuments
	if h.config.MaxDocuments > 0 && len(top) > h.config.MaxDocuments {
		top = top[:h.config.MaxDocuments]
	}

	tokens := questionTokens(input.Question)
	processed := make([]models.ProcessedContent, 0, len(top))
	for _, rd := range top {
		processed = append(processed, models.ProcessedContent{
			DocumentID:         rd.ID,
			Title:              rd.Title,
			Type:               rd.Type,
			URL:                rd.URL,
			Framework:          rd.Framework,
			RelevantSection:    relevantSection(rd.Content, tokens),
			Requirements:       rd.Requirements,
			KeyPoints:          rd.KeyPoints,
			CalculationMethods: rd.CalculationMethods,
			Score:              rd.Score,
		})
	}

	response := models.AgentResponse{
		Answer:           buildAnswer(input.ResponseStyle, top, processed, advisoryFor(input.Context)),
		Confidence:       confidence(len(input.RankedDocuments), input.PrimaryIntent),
		Sources:          buildSources(processed),
		Recommendations:  buildRecommendations(processed, input.PrimaryIntent),
		NextSteps:        buildNextSteps(input.PrimaryIntent, input.Urgency),
		RelatedQuestions: relatedQuestions(input.PrimaryIntent),
		Metadata: models.ResponseMetadata{
			ProcessingTimeMs:  time.Since(start).Milliseconds(),
			DocumentsSearched: len(input.RankedDocuments),
		},
	}

	return &Output{Response: response}, nil
}

func fallbackResponse(primaryIntent string) models.AgentResponse {
	return models.AgentResponse{
		Answer:           fallbackAnswer,
		Confidence:       0.1,
		Sources:          []models.Source{},
		Recommendations:  []string{fallbackRecommendation},
		NextSteps:        []string{},
		RelatedQuestions: relatedQuestions(primaryIntent),
	}
}

func questionTokens(question string) []string {
	fields := strings.Fields(strings.ToLower(question))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// relevantSection keeps the first three sentences of the content that share
// at least one token with the question. Falls back to the leading sentences
// when nothing matches.
func relevantSection(content string, tokens []string) string {
	sentences := strings.Split(content, ".")

	matched := make([]string, 0, 3)
	for _, sentence := range sentences {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				matched = append(matched, trimmed)
				break
			}
		}
		if len(matched) == 3 {
			break
		}
	}

	if len(matched) == 0 {
		for _, sentence := range sentences {
			trimmed := strings.TrimSpace(sentence)
			if trimmed == "" {
				continue
			}
			matched = append(matched, trimmed)
			if len(matched) == 3 {
				break
			}
		}
	}

	return strings.Join(matched, ". ")
}

func advisoryFor(orgCtx *models.OrganizationContext) string {
	if orgCtx == nil {
		return ""
	}
	return orgTypeAdvisories[orgCtx.OrganizationType]
}

func buildAnswer(style string, top []models.RankedDocument, processed []models.ProcessedContent, advisory string) string {
	var b strings.Builder

	switch style {
	case models.StyleConcise:
		section := leadingSentences(processed[0].RelevantSection, 20, 2)
		if section == "" {
			section = processed[0].RelevantSection
		}
		b.WriteString(section)
		b.WriteString(".")
	case models.StyleTechnical:
		fmt.Fprintf(&b, "Based on %s technical guidance:", processed[0].Title)
		methods := 0
		for _, pc := range processed {
			if len(pc.CalculationMethods) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n- %s", pc.CalculationMethods[0])
			if methods++; methods == 2 {
				break
			}
		}
		if methods == 0 {
			fmt.Fprintf(&b, "\n%s.", processed[0].RelevantSection)
		}
	case models.StyleExecutive:
		summary := leadingSentences(top[0].Content, 30, 2)
		if summary == "" {
			summary = processed[0].RelevantSection
		}
		fmt.Fprintf(&b, "%s. %s", summary, executiveClosing)
	default: // detailed
		for i, pc := range processed {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "According to %s: %s.", pc.Title, pc.RelevantSection)
		}
		for i, point := range processed[0].KeyPoints {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "\n- %s", point)
		}
	}

	if advisory != "" {
		b.WriteString("\n\n")
		b.WriteString(advisory)
	}
	return b.String()
}

// leadingSentences keeps the first n sentences of text that are at least
// minLen characters long.
func leadingSentences(text string, minLen, n int) string {
	kept := make([]string, 0, n)
	for _, sentence := range strings.Split(text, ".") {
		trimmed := strings.TrimSpace(sentence)
		if len(trimmed) < minLen {
			continue
		}
		kept = append(kept, trimmed)
		if len(kept) == n {
			break
		}
	}
	return strings.Join(kept, ". ")
}

// confidence reflects how much corroborating material the corpus returned.
func confidence(documentCount int, primaryIntent string) float64 {
	switch {
	case documentCount == 0:
		return 0.1
	case documentCount == 1:
		return 0.6
	case primaryIntent != models.CategoryGeneral:
		return 0.9
	default:
		return 0.7
	}
}

func buildSources(processed []models.ProcessedContent) []models.Source {
	sources := make([]models.Source, 0, len(processed))
	for _, pc := range processed {
		sources = append(sources, models.Source{
			DocumentID: pc.DocumentID,
			Title:      pc.Title,
			Type:       pc.Type,
			URL:        pc.URL,
			Excerpt:    pc.RelevantSection,
			Framework:  pc.Framework,
			Relevance:  pc.Score,
		})
	}
	return sources
}

func buildRecommendations(processed []models.ProcessedContent, primaryIntent string) []string {
	recs := []string{}
	seen := map[string]bool{}

	add := func(rec string) {
		if rec == "" || seen[rec] || len(recs) >= 5 {
			return
		}
		seen[rec] = true
		recs = append(recs, rec)
	}

	for _, pc := range processed {
		for i, req := range pc.Requirements {
			if i == 2 {
				break
			}
			add(req)
		}
	}

	fixed := categoryRecommendations[primaryIntent]
	for i, rec := range fixed {
		if i == 3 {
			break
		}
		add(rec)
	}

	return recs
}

func buildNextSteps(primaryIntent, urgency string) []string {
	steps := []string{}
	if urgency == models.UrgencyHigh {
		steps = append(steps, urgentNextSteps...)
	}

	fixed := categoryNextSteps[primaryIntent]
	for i, step := range fixed {
		if i == 3 {
			break
		}
		steps = append(steps, step)
	}

	if len(steps) > 4 {
		steps = steps[:4]
	}
	return steps
}

func relatedQuestions(primaryIntent string) []string {
	if questions, ok := relatedQuestionsByCategory[primaryIntent]; ok {
		return questions
	}
	return []string{}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
