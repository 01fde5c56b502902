package evaluateregulations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/models"
)

const (
	TaskType = "evaluate-regulations"
)

// Applicability thresholds for the supported regulations.
const (
	secrEmployeeThreshold = 250
	secrRevenueThreshold  = 36_000_000
	etsEmissionsThreshold = 25_000
	tcfdEmployeeThreshold = 500
	tcfdRevenueThreshold  = 500_000_000
)

var (
	ErrEvaluationFailed = errors.New("GAP_ANALYSIS_FAILED")
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "GAP_ANALYSIS_FAILED").Inc()
		h.failJob(client, job, "GAP_ANALYSIS_FAILED", err.Error(), 0)
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
	if input.OrganizationID == "" {
		return nil, fmt.Errorf("%w: organizationId is required", ErrEvaluationFailed)
	}

	gaps := []models.ComplianceGap{}

	if gap := evaluateSECR(&input.GapAnalysisInput); gap != nil {
		gaps = append(gaps, *gap)
	}
	if gap := evaluateUKETS(&input.GapAnalysisInput); gap != nil {
		gaps = append(gaps, *gap)
	}
	if gap := evaluateTCFD(&input.GapAnalysisInput); gap != nil {
		gaps = append(gaps, *gap)
	}
	if gap := evaluateCarbonBudget(&input.GapAnalysisInput); gap != nil {
		gaps = append(gaps, *gap)
	}

	return &Output{ComplianceGaps: gaps}, nil
}

func evaluateSECR(input *models.GapAnalysisInput) *models.ComplianceGap {
	if input.EmployeeCount <= secrEmployeeThreshold && input.AnnualRevenue <= secrRevenueThreshold {
		return nil
	}
	return &models.ComplianceGap{
		Regulation:  models.RegulationSECR,
		Requirement: "Annual energy and carbon report in the directors' report",
		Status:      models.StatusUnknown,
		Priority:    models.PriorityHigh,
		Deadline:    "With annual accounts filing",
		Description: "Your organization exceeds the SECR size thresholds and must disclose UK energy use, emissions and an intensity ratio",
	}
}

func evaluateUKETS(input *models.GapAnalysisInput) *models.ComplianceGap {
	if input.Emissions.Total <= etsEmissionsThreshold {
		return nil
	}

	status := models.StatusCompliant
	if input.Emissions.Total > etsEmissionsThreshold {
		status = models.StatusPartial
	}

	return &models.ComplianceGap{
		Regulation:  models.RegulationUKETS,
		Requirement: "Hold a greenhouse gas emissions permit and surrender allowances",
		Status:      status,
		Priority:    models.PriorityHigh,
		Deadline:    "30 April following the scheme year",
		Description: "Emissions at this level indicate installations likely within UK ETS scope; verify permits and allowance holdings",
	}
}

func evaluateTCFD(input *models.GapAnalysisInput) *models.ComplianceGap {
	if input.EmployeeCount <= tcfdEmployeeThreshold && input.AnnualRevenue <= tcfdRevenueThreshold {
		return nil
	}
	return &models.ComplianceGap{
		Regulation:  models.RegulationTCFD,
		Requirement: "Climate-related financial disclosures aligned with TCFD",
		Status:      models.StatusPartial,
		Priority:    models.PriorityMedium,
		Deadline:    "With annual report publication",
		Description: "Organizations of your size must publish climate-related financial disclosures covering governance, strategy, risk management and metrics",
	}
}

func evaluateCarbonBudget(input *models.GapAnalysisInput) *models.ComplianceGap {
	budget, reduction := carbonBudgetFor(input.ReportingYear)
	if budget == 0 {
		return nil
	}
	return &models.ComplianceGap{
		Regulation:  models.RegulationCarbonBudgets,
		Requirement: fmt.Sprintf("Align emissions trajectory with UK Carbon Budget %d", budget),
		Status:      models.StatusUnknown,
		Priority:    models.PriorityMedium,
		Description: fmt.Sprintf("Carbon Budget %d implies an annual emissions reduction of %.1f%% for your reporting year", budget, reduction),
	}
}

func carbonBudgetFor(year int) (int, float64) {
	switch {
	case year >= 2023 && year <= 2027:
		return 4, 7.8
	case year >= 2028 && year <= 2032:
		return 5, 8.5
	case year >= 2033 && year <= 2037:
		return 6, 9.2
	default:
		return 0, 0
	}
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
