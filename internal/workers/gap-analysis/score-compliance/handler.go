package scorecompliance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/models"
)

const (
	TaskType = "score-compliance"
)

var (
	ErrScoringFailed = errors.New("GAP_ANALYSIS_FAILED")
)

var priorityRank = map[string]int{
	models.PriorityHigh:   3,
	models.PriorityMedium: 2,
	models.PriorityLow:    1,
}

// Datasets a gap analysis draws on.
var analysisDataSources = []string{
	"sector_benchmarks",
	"national_statistics",
	"regulatory_thresholds",
}

type Handler struct {
	config *Config
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    time.Now,
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

	metrics.GapAnalysesCompleted.WithLabelValues(output.Result.OverallScore).Inc()
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.OrganizationID == "" {
		return nil, fmt.Errorf("%w: organizationId is required", ErrScoringFailed)
	}

	pct := scorePercentage(input.Benchmarks, input.ComplianceGaps)
	analysisDate := h.now().UTC()

	result := models.GapAnalysisResult{
		OrganizationID:   input.OrganizationID,
		AnalysisDate:     analysisDate.Format(time.RFC3339),
		Benchmarks:       input.Benchmarks,
		ComplianceGaps:   input.ComplianceGaps,
		Recommendations:  buildRecommendations(input),
		OverallScore:     scoreCategory(pct),
		ScorePercentage:  pct,
		DataSources:      analysisDataSources,
		NextAnalysisDate: analysisDate.AddDate(0, 6, 0).Format(time.RFC3339),
	}

	return &Output{Result: result}, nil
}

func scorePercentage(benchmarks []models.BenchmarkComparison, gaps []models.ComplianceGap) float64 {
	score := 0.0
	maxScore := 0.0

	for _, b := range benchmarks {
		switch b.Performance {
		case models.PerformanceAboveAverage:
			score += 10
		case models.PerformanceAverage:
			score += 6
		case models.PerformanceBelowAverage:
			score += 2
		}
		maxScore += 10
	}

	highGaps := countHighPriorityGaps(gaps)
	switch {
	case highGaps == 0:
		score += 15
	case highGaps <= 2:
		score += 10
	case highGaps <= 4:
		score += 6
	default:
		score += 2
	}
	maxScore += 15

	if maxScore == 0 {
		return 0
	}
	return score / maxScore * 100
}

func countHighPriorityGaps(gaps []models.ComplianceGap) int {
	count := 0
	for _, gap := range gaps {
		if gap.Priority == models.PriorityHigh {
			count++
		}
	}
	return count
}

func scoreCategory(pct float64) string {
	switch {
	case pct >= 85:
		return models.ScoreExcellent
	case pct >= 70:
		return models.ScoreGood
	case pct >= 55:
		return models.ScoreAverage
	case pct >= 40:
		return models.ScoreNeedsImprovement
	default:
		return models.ScoreUrgentAction
	}
}

func buildRecommendations(input *Input) []models.Recommendation {
	recs := []models.Recommendation{}

	for _, b := range input.Benchmarks {
		if b.BenchmarkType == models.BenchmarkSectorAverage && b.Performance == models.PerformanceBelowAverage {
			reduction := input.Emissions.Total * math.Abs(b.PercentageDifference) / 100
			recs = append(recs, models.Recommendation{
				ID:          "rec-" + uuid.New().String(),
				Title:       "Reduce emissions intensity to the sector average",
				Priority:    models.PriorityHigh,
				Category:    models.RecCategoryReduction,
				Description: fmt.Sprintf("Your emissions intensity is %.1f%% above the sector average", b.PercentageDifference),
				EstimatedImpact: models.EstimatedImpact{
					EmissionsReduction: reduction,
					Description:        fmt.Sprintf("Closing the gap saves approximately %.0f tCO2e per year", reduction),
				},
				ImplementationTime: "6-12 months",
				Difficulty:         models.DifficultyMedium,
				DataSource:         "sector_benchmarks",
			})
		}
	}

	if input.Emissions.Scope3 == 0 {
		recs = append(recs, models.Recommendation{
			ID:          "rec-" + uuid.New().String(),
			Title:       "Measure scope 3 emissions",
			Priority:    models.PriorityMedium,
			Category:    models.RecCategoryMeasurement,
			Description: "No scope 3 emissions are recorded; value-chain emissions are usually the largest share of a footprint",
			EstimatedImpact: models.EstimatedImpact{
				Description: "A complete inventory enables credible reduction targets and supplier engagement",
			},
			ImplementationTime: "3-6 months",
			Difficulty:         models.DifficultyMedium,
			DataSource:         "emissions_profile",
		})
	}

	for _, gap := range input.ComplianceGaps {
		if gap.Priority != models.PriorityHigh {
			continue
		}
		recs = append(recs, models.Recommendation{
			ID:          "rec-" + uuid.New().String(),
			Title:       fmt.Sprintf("Remediate %s compliance gap", gap.Regulation),
			Priority:    models.PriorityHigh,
			Category:    models.RecCategoryCompliance,
			Description: gap.Description,
			EstimatedImpact: models.EstimatedImpact{
				Description: fmt.Sprintf("Avoids enforcement risk under %s", gap.Regulation),
			},
			ImplementationTime: "1-3 months",
			Difficulty:         models.DifficultyHard,
			DataSource:         "regulatory_thresholds",
		})
	}

	for _, b := range input.Benchmarks {
		if b.BenchmarkType == models.BenchmarkNetZeroPathway && b.Performance == models.PerformanceBelowAverage {
			reduction := input.Emissions.Total * b.BenchmarkValue / 100
			recs = append(recs, models.Recommendation{
				ID:          "rec-" + uuid.New().String(),
				Title:       "Set an annual reduction target on the net-zero pathway",
				Priority:    models.PriorityMedium,
				Category:    models.RecCategoryReduction,
				Description: fmt.Sprintf("The sector pathway requires a %.1f%% reduction each year", b.BenchmarkValue),
				EstimatedImpact: models.EstimatedImpact{
					EmissionsReduction: reduction,
					Description:        fmt.Sprintf("First-year reduction of approximately %.0f tCO2e", reduction),
				},
				ImplementationTime: "6-12 months",
				Difficulty:         models.DifficultyMedium,
				DataSource:         "net_zero_pathways",
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] > priorityRank[recs[j].Priority]
	})
	return recs
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
