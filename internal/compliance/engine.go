// Package compliance composes the question-answering and gap-analysis task
// handlers into in-process pipelines.
package compliance

import (
	"context"
	"fmt"
	"sync"

	"carbon-compliance-workers/internal/benchmark"
	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/metrics"
	"carbon-compliance-workers/internal/corpus"
	"carbon-compliance-workers/internal/models"

	comparebenchmarks "carbon-compliance-workers/internal/workers/gap-analysis/compare-benchmarks"
	evaluateregulations "carbon-compliance-workers/internal/workers/gap-analysis/evaluate-regulations"
	scorecompliance "carbon-compliance-workers/internal/workers/gap-analysis/score-compliance"
	classifyintent "carbon-compliance-workers/internal/workers/qa/classify-intent"
	composeresponse "carbon-compliance-workers/internal/workers/qa/compose-response"
	rankdocuments "carbon-compliance-workers/internal/workers/qa/rank-documents"
	searchcorpus "carbon-compliance-workers/internal/workers/qa/search-corpus"
)

// Engine answers compliance questions and runs gap analyses by chaining the
// same task handlers the worker fleet registers with the broker.
type Engine struct {
	classify *classifyintent.Handler
	search   *searchcorpus.Handler
	rank     *rankdocuments.Handler
	compose  *composeresponse.Handler

	benchmarks  *comparebenchmarks.Handler
	regulations *evaluateregulations.Handler
	score       *scorecompliance.Handler

	logger logger.Logger
}

func NewEngine(c corpus.Corpus, provider benchmark.Provider, log logger.Logger) *Engine {
	return &Engine{
		classify:    classifyintent.NewHandler(classifyintent.LoadConfig(), log),
		search:      searchcorpus.NewHandler(searchcorpus.LoadConfig(), c, log),
		rank:        rankdocuments.NewHandler(rankdocuments.LoadConfig(), log),
		compose:     composeresponse.NewHandler(composeresponse.LoadConfig(), log),
		benchmarks:  comparebenchmarks.NewHandler(comparebenchmarks.LoadConfig(), provider, log),
		regulations: evaluateregulations.NewHandler(evaluateregulations.LoadConfig(), log),
		score:       scorecompliance.NewHandler(scorecompliance.LoadConfig(), log),
		logger:      log.WithFields(map[string]interface{}{"component": "compliance-engine"}),
	}
}

// AnswerQuestion runs the classify, search, rank and compose stages.
func (e *Engine) AnswerQuestion(ctx context.Context, question models.Question) (*models.AgentResponse, error) {
	classified, err := e.classify.Execute(ctx, &classifyintent.Input{
		Question: question.Text,
		Context:  question.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("classify intent: %w", err)
	}

	found, err := e.search.Execute(ctx, &searchcorpus.Input{
		Question:         question.Text,
		PrimaryIntent:    classified.PrimaryIntent,
		SecondaryIntents: classified.SecondaryIntents,
	})
	if err != nil {
		return nil, fmt.Errorf("search corpus: %w", err)
	}

	ranked, err := e.rank.Execute(ctx, &rankdocuments.Input{
		Question:  question.Text,
		Documents: found.Documents,
	})
	if err != nil {
		return nil, fmt.Errorf("rank documents: %w", err)
	}

	composed, err := e.compose.Execute(ctx, &composeresponse.Input{
		Question:        question.Text,
		PrimaryIntent:   classified.PrimaryIntent,
		Urgency:         classified.Urgency,
		ResponseStyle:   question.ResponseStyle,
		Context:         question.Context,
		RankedDocuments: ranked.RankedDocuments,
	})
	if err != nil {
		return nil, fmt.Errorf("compose response: %w", err)
	}

	metrics.QuestionsAnswered.WithLabelValues(classified.PrimaryIntent).Inc()
	e.logger.Info("question answered", map[string]interface{}{
		"primaryIntent": classified.PrimaryIntent,
		"documents":     len(found.Documents),
		"confidence":    composed.Response.Confidence,
	})
	return &composed.Response, nil
}

// AnalyzeGaps benchmarks the organization and evaluates its regulations
// concurrently, then scores the combined picture.
func (e *Engine) AnalyzeGaps(ctx context.Context, input models.GapAnalysisInput) (*models.GapAnalysisResult, error) {
	var (
		wg             sync.WaitGroup
		benchmarksOut  *comparebenchmarks.Output
		regulationsOut *evaluateregulations.Output
		benchmarksErr  error
		regulationsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		benchmarksOut, benchmarksErr = e.benchmarks.Execute(ctx, &comparebenchmarks.Input{GapAnalysisInput: input})
	}()
	go func() {
		defer wg.Done()
		regulationsOut, regulationsErr = e.regulations.Execute(ctx, &evaluateregulations.Input{GapAnalysisInput: input})
	}()
	wg.Wait()

	if benchmarksErr != nil {
		return nil, fmt.Errorf("compare benchmarks: %w", benchmarksErr)
	}
	if regulationsErr != nil {
		return nil, fmt.Errorf("evaluate regulations: %w", regulationsErr)
	}

	scored, err := e.score.Execute(ctx, &scorecompliance.Input{
		OrganizationID: input.OrganizationID,
		Emissions:      input.Emissions,
		Benchmarks:     benchmarksOut.Benchmarks,
		ComplianceGaps: regulationsOut.ComplianceGaps,
	})
	if err != nil {
		return nil, fmt.Errorf("score compliance: %w", err)
	}

	metrics.GapAnalysesCompleted.WithLabelValues(scored.Result.OverallScore).Inc()
	e.logger.Info("gap analysis completed", map[string]interface{}{
		"organizationId":  input.OrganizationID,
		"overallScore":    scored.Result.OverallScore,
		"scorePercentage": scored.Result.ScorePercentage,
	})
	return &scored.Result, nil
}
