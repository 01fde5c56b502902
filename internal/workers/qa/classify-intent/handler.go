package classifyintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/models"
)

const (
	TaskType = "classify-intent"
)

var (
	ErrClassificationFailed = errors.New("INTENT_CLASSIFICATION_FAILED")
)

// intentPatterns is evaluated in order: the first category whose pattern
// matches becomes the primary intent, later matches become secondary.
var intentPatterns = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{models.CategoryEmissions, regexp.MustCompile(`(?i)\b(emission|carbon footprint|co2|ghg|greenhouse|scope\s*[123])`)},
	{models.CategoryReporting, regexp.MustCompile(`(?i)\b(report|disclos|secr|streamlined energy|annual statement)`)},
	{models.CategoryCalculation, regexp.MustCompile(`(?i)\b(calculat|conversion factor|methodolog|formula|quantif|measure)`)},
	{models.CategoryTrading, regexp.MustCompile(`(?i)\b(trading|allowance|ets|emissions trading|carbon (price|credit|market)|auction)`)},
	{models.CategoryCompliance, regexp.MustCompile(`(?i)\b(comply|compliance|regulat|legal requirement|obligation|mandatory|penalt)`)},
	{models.CategoryDeadline, regexp.MustCompile(`(?i)\b(deadline|due date|by when|submission date|cutoff|cut-off)`)},
}

var (
	highUrgencyKeywords   = []string{"urgent", "asap", "immediately", "deadline", "due", "legal"}
	mediumUrgencyKeywords = []string{"soon", "next week", "planning"}
	simpleKeywords        = []string{"how to", "what is", "when"}
	complexKeywords       = []string{"compare", "analyze", "calculate", "implement"}
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INTENT_CLASSIFICATION_FAILED").Inc()
		h.failJob(client, job, "INTENT_CLASSIFICATION_FAILED", err.Error(), 0)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if strings.TrimSpace(input.Question) == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrClassificationFailed)
	}

	primary, secondary := classifyCategories(input.Question)

	return &Output{
		PrimaryIntent:    primary,
		SecondaryIntents: secondary,
		Urgency:          detectUrgency(input.Question),
		Complexity:       detectComplexity(input.Question),
	}, nil
}

func classifyCategories(question string) (string, []string) {
	primary := ""
	secondary := []string{}
	seen := map[string]bool{}

	for _, entry := range intentPatterns {
		if !entry.pattern.MatchString(question) || seen[entry.category] {
			continue
		}
		seen[entry.category] = true
		if primary == "" {
			primary = entry.category
		} else {
			secondary = append(secondary, entry.category)
		}
	}

	if primary == "" {
		primary = models.CategoryGeneral
	}
	return primary, secondary
}

func detectUrgency(question string) string {
	lower := strings.ToLower(question)
	for _, kw := range highUrgencyKeywords {
		if strings.Contains(lower, kw) {
			return models.UrgencyHigh
		}
	}
	for _, kw := range mediumUrgencyKeywords {
		if strings.Contains(lower, kw) {
			return models.UrgencyMedium
		}
	}
	return models.UrgencyLow
}

// Simple indicators win over complex ones: "how to calculate" reads as a
// lookup question, not an analysis request.
func detectComplexity(question string) string {
	lower := strings.ToLower(question)
	for _, kw := range simpleKeywords {
		if strings.Contains(lower, kw) {
			return models.ComplexitySimple
		}
	}
	for _, kw := range complexKeywords {
		if strings.Contains(lower, kw) {
			return models.ComplexityComplex
		}
	}
	return models.ComplexityModerate
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
