package searchcorpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "carbon-compliance-workers/internal/common/errors"
	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/corpus"
	"carbon-compliance-workers/internal/models"
)

const (
	TaskType = "search-corpus"
)

var (
	ErrSearchFailed  = errors.New("CORPUS_SEARCH_FAILED")
	ErrSearchTimeout = errors.New("CORPUS_TIMEOUT")
)

type Handler struct {
	config *Config
	corpus corpus.Corpus
	logger logger.Logger
}

func NewHandler(config *Config, c corpus.Corpus, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		corpus: c,
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

// execute searches each intent category concurrently plus an uncategorized
// pass over the whole corpus, then merges the buckets in intent order and
// deduplicates by document id, keeping the first occurrence.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.Question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrSearchFailed)
	}

	categories := searchCategories(input.PrimaryIntent, input.SecondaryIntents)

	// One slot per category bucket plus a final slot for the general search.
	buckets := make([][]models.Document, len(categories)+1)
	errs := make([]error, len(categories)+1)

	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func(slot int, cat string) {
			defer wg.Done()
			buckets[slot], errs[slot] = h.corpus.Search(ctx, input.Question, cat)
		}(i, category)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		slot := len(categories)
		buckets[slot], errs[slot] = h.corpus.Search(ctx, input.Question, "")
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return nil, ErrSearchTimeout
			}
			return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
		}
	}

	merged := mergeBuckets(buckets, h.config.MaxResults)
	return &Output{
		Documents: merged,
		Total:     len(merged),
	}, nil
}

// searchCategories lists the category buckets to query. The general category
// never gets its own bucket; the uncategorized pass covers it.
func searchCategories(primary string, secondary []string) []string {
	categories := []string{}
	seen := map[string]bool{}

	add := func(cat string) {
		if cat == "" || cat == models.CategoryGeneral || seen[cat] {
			return
		}
		seen[cat] = true
		categories = append(categories, cat)
	}

	add(primary)
	for _, cat := range secondary {
		add(cat)
	}
	return categories
}

func mergeBuckets(buckets [][]models.Document, limit int) []models.Document {
	merged := []models.Document{}
	seen := map[string]bool{}

	for _, bucket := range buckets {
		for _, doc := range bucket {
			if seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true
			merged = append(merged, doc)
			if limit > 0 && len(merged) >= limit {
				return merged
			}
		}
	}
	return merged
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
	if errors.Is(err, ErrSearchTimeout) {
		return "CORPUS_TIMEOUT"
	} else if errors.Is(err, corpus.ErrIndexNotFound) {
		return "INDEX_NOT_FOUND"
	} else if errors.Is(err, ErrSearchFailed) {
		return "CORPUS_SEARCH_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	return int32(commonerrors.GetRetryCount(commonerrors.ErrorCode(h.mapErrorToCode(err))))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
