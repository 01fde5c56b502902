package lookupconversionfactors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "carbon-compliance-workers/internal/common/errors"
	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/models"
)

const (
	TaskType = "lookup-conversion-factors"
)

// Categories scanned by the quick lookup, in merge order.
var quickLookupCategories = []string{"electricity", "fuels", "transport"}

const (
	quickPerCategoryLimit = 10
	quickTotalLimit       = 20
)

var (
	ErrFactorLookupFailed = errors.New("FACTOR_LOOKUP_FAILED")
	ErrFactorNotFound     = errors.New("FACTOR_NOT_FOUND")
	ErrUnknownOperation   = errors.New("unknown operation")
)

type Handler struct {
	config *Config
	store  Store
	logger logger.Logger
}

func NewHandler(config *Config, store Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
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
		errorCode := h.mapErrorToCode(err)
		retries := h.getRetryCount(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	year := input.Year
	if year == 0 {
		year = h.config.DatasetYear
	}

	switch input.Operation {
	case OperationSearch:
		return h.search(ctx, input, year)
	case OperationQuick:
		return h.quickLookup(ctx, input, year)
	case OperationMetadata:
		meta, err := h.store.Metadata(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFactorLookupFailed, err)
		}
		return &Output{Metadata: meta}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, input.Operation)
	}
}

func (h *Handler) search(ctx context.Context, input *Input, year int) (*Output, error) {
	if input.Scope == "" && input.Category == "" && input.Keyword == "" {
		return nil, fmt.Errorf("%w: search needs a scope, category or keyword", ErrFactorLookupFailed)
	}

	factors, err := h.store.Search(ctx, input.Scope, input.Category, input.Keyword, year, h.config.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFactorLookupFailed, err)
	}
	return &Output{Factors: factors, Total: len(factors)}, nil
}

// quickLookup scans the common activity categories for a keyword, capping
// each category before merging so one category cannot crowd out the rest.
func (h *Handler) quickLookup(ctx context.Context, input *Input, year int) (*Output, error) {
	if input.Keyword == "" {
		return nil, fmt.Errorf("%w: quick lookup needs a keyword", ErrFactorLookupFailed)
	}

	merged := []models.ConversionFactor{}
	seen := map[string]bool{}

	for _, category := range quickLookupCategories {
		factors, err := h.store.Search(ctx, "", category, input.Keyword, year, quickPerCategoryLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFactorLookupFailed, err)
		}
		for _, f := range factors {
			if seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			merged = append(merged, f)
			if len(merged) == quickTotalLimit {
				return &Output{Factors: merged, Total: len(merged)}, nil
			}
		}
	}

	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: no factors match %q", ErrFactorNotFound, input.Keyword)
	}
	return &Output{Factors: merged, Total: len(merged)}, nil
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

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrFactorNotFound) {
		return "FACTOR_NOT_FOUND"
	} else if errors.Is(err, ErrFactorLookupFailed) {
		return "FACTOR_LOOKUP_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	return int32(commonerrors.GetRetryCount(commonerrors.ErrorCode(h.mapErrorToCode(err))))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
