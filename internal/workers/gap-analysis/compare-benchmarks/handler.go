package comparebenchmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"carbon-compliance-workers/internal/benchmark"
	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/models"
)

const (
	TaskType = "compare-benchmarks"
)

var (
	ErrInvalidInput = errors.New("INVALID_ANALYSIS_INPUT")
)

type Handler struct {
	config   *Config
	provider benchmark.Provider
	defaults benchmark.Provider
	logger   logger.Logger
}

func NewHandler(config *Config, provider benchmark.Provider, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		provider: provider,
		defaults: benchmark.NewDefaults(),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INVALID_ANALYSIS_INPUT").Inc()
		h.failJob(client, job, "INVALID_ANALYSIS_INPUT", err.Error(), 0)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

// execute produces the four benchmark comparisons. Provider failures degrade
// to the built-in default values so an analysis always completes.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.Sector == "" {
		return nil, fmt.Errorf("%w: sector is required", ErrInvalidInput)
	}

	intensity := emissionsIntensity(&input.GapAnalysisInput)

	var (
		wg       sync.WaitGroup
		sector   *benchmark.SectorBenchmark
		national *benchmark.NationalBenchmark
		peer     *benchmark.PeerBenchmark
		pathway  *benchmark.NetZeroPathway
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		sector = h.fetchSector(ctx, input)
	}()
	go func() {
		defer wg.Done()
		national = h.fetchNational(ctx, input)
	}()
	go func() {
		defer wg.Done()
		peer = h.fetchPeer(ctx, input)
	}()
	go func() {
		defer wg.Done()
		pathway = h.fetchPathway(ctx, input)
	}()
	wg.Wait()

	benchmarks := []models.BenchmarkComparison{
		compare(models.BenchmarkSectorAverage, intensity, sector.AverageIntensity,
			fmt.Sprintf("Emissions intensity compared to the %s sector average", input.Sector)),
		compare(models.BenchmarkNationalAverage, input.Emissions.Total, national.AverageCompanyEmissions,
			"Total emissions compared to the national company average"),
		compare(models.BenchmarkPeerComparison, intensity, peer.AverageIntensity,
			"Emissions intensity compared to organizations of similar size"),
		netZeroComparison(pathway),
	}

	return &Output{Benchmarks: benchmarks}, nil
}

// emissionsIntensity normalizes total emissions by revenue in millions when
// revenue is known, otherwise by headcount.
func emissionsIntensity(input *models.GapAnalysisInput) float64 {
	switch {
	case input.AnnualRevenue > 0:
		return input.Emissions.Total / (input.AnnualRevenue / 1_000_000)
	case input.EmployeeCount > 0:
		return input.Emissions.Total / float64(input.EmployeeCount)
	default:
		return 0
	}
}

func compare(benchmarkType string, yourValue, benchmarkValue float64, description string) models.BenchmarkComparison {
	pctDiff := 0.0
	if benchmarkValue != 0 {
		pctDiff = (yourValue - benchmarkValue) / benchmarkValue * 100
	}

	return models.BenchmarkComparison{
		BenchmarkType:        benchmarkType,
		YourValue:            yourValue,
		BenchmarkValue:       benchmarkValue,
		PercentageDifference: pctDiff,
		Performance:          performance(pctDiff),
		Description:          description,
	}
}

// Lower emissions than the benchmark is better, so a negative difference
// reads as above-average performance.
func performance(pctDiff float64) string {
	switch {
	case pctDiff < -10:
		return models.PerformanceAboveAverage
	case pctDiff > 10:
		return models.PerformanceBelowAverage
	default:
		return models.PerformanceAverage
	}
}

// netZeroComparison always reports a gap: nobody is on the pathway until
// they demonstrate the required annual reduction.
func netZeroComparison(pathway *benchmark.NetZeroPathway) models.BenchmarkComparison {
	return models.BenchmarkComparison{
		BenchmarkType:        models.BenchmarkNetZeroPathway,
		YourValue:            0,
		BenchmarkValue:       pathway.RequiredAnnualReduction,
		PercentageDifference: -100,
		Performance:          models.PerformanceBelowAverage,
		Description:          "Annual emissions reduction required to stay on the sector net-zero pathway",
	}
}

func (h *Handler) fetchSector(ctx context.Context, input *Input) *benchmark.SectorBenchmark {
	if h.provider != nil {
		if sb, err := h.provider.SectorBenchmark(ctx, input.Sector, input.ReportingYear); err == nil {
			return sb
		}
		h.recordFallback(models.BenchmarkSectorAverage)
	}
	sb, _ := h.defaults.SectorBenchmark(ctx, input.Sector, input.ReportingYear)
	return sb
}

func (h *Handler) fetchNational(ctx context.Context, input *Input) *benchmark.NationalBenchmark {
	if h.provider != nil {
		if nb, err := h.provider.NationalBenchmark(ctx, input.ReportingYear); err == nil {
			return nb
		}
		h.recordFallback(models.BenchmarkNationalAverage)
	}
	nb, _ := h.defaults.NationalBenchmark(ctx, input.ReportingYear)
	return nb
}

func (h *Handler) fetchPeer(ctx context.Context, input *Input) *benchmark.PeerBenchmark {
	if h.provider != nil {
		if pb, err := h.provider.PeerBenchmark(ctx, input.Sector, input.EmployeeCount, input.ReportingYear); err == nil {
			return pb
		}
		h.recordFallback(models.BenchmarkPeerComparison)
	}
	pb, _ := h.defaults.PeerBenchmark(ctx, input.Sector, input.EmployeeCount, input.ReportingYear)
	return pb
}

func (h *Handler) fetchPathway(ctx context.Context, input *Input) *benchmark.NetZeroPathway {
	if h.provider != nil {
		if nz, err := h.provider.NetZeroPathway(ctx, input.Sector, input.ReportingYear); err == nil {
			return nz
		}
		h.recordFallback(models.BenchmarkNetZeroPathway)
	}
	nz, _ := h.defaults.NetZeroPathway(ctx, input.Sector, input.ReportingYear)
	return nz
}

func (h *Handler) recordFallback(benchmarkType string) {
	metrics.BenchmarkFallbacks.WithLabelValues(benchmarkType).Inc()
	h.logger.Warn("benchmark fetch failed, using defaults", map[string]interface{}{
		"benchmarkType": benchmarkType,
	})
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
