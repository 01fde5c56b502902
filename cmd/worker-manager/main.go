// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carbon-compliance-workers/internal/benchmark"
	"carbon-compliance-workers/internal/common/aws"
	"carbon-compliance-workers/internal/common/config"
	"carbon-compliance-workers/internal/common/database"
	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/common/observability"
	"carbon-compliance-workers/internal/common/statsapi"
	"carbon-compliance-workers/internal/corpus"

	// Q&A Workers (4)
	ci "carbon-compliance-workers/internal/workers/qa/classify-intent"
	cr "carbon-compliance-workers/internal/workers/qa/compose-response"
	rd "carbon-compliance-workers/internal/workers/qa/rank-documents"
	sc "carbon-compliance-workers/internal/workers/qa/search-corpus"

	// Gap Analysis Workers (3)
	cb "carbon-compliance-workers/internal/workers/gap-analysis/compare-benchmarks"
	er "carbon-compliance-workers/internal/workers/gap-analysis/evaluate-regulations"
	sco "carbon-compliance-workers/internal/workers/gap-analysis/score-compliance"

	// Conversion Factor Workers (1)
	lcf "carbon-compliance-workers/internal/workers/factors/lookup-conversion-factors"

	// Notification Workers (1)
	sca "carbon-compliance-workers/internal/workers/notifications/send-compliance-alert"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build Domain Dependencies ---

	// Regulatory corpus: Elasticsearch search behind a Redis read-through cache.
	regulatoryCorpus := corpus.NewCachedCorpus(
		corpus.NewElasticsearchCorpus(esClient.Client, cfg.Corpus.Index, cfg.Corpus.MaxResults),
		redis.Client,
		time.Duration(cfg.Corpus.CacheTTL)*time.Second,
		log,
	)

	// Benchmark provider: curated tables in Postgres by default, the national
	// statistics API when configured. Both fall back to built-in defaults
	// inside the worker.
	var benchmarkProvider benchmark.Provider
	if cfg.Benchmarks.Source == "statsapi" {
		benchmarkProvider = benchmark.NewStatsAPIProvider(
			statsapi.NewClient(cfg.Benchmarks.StatsAPIBase, 10*time.Second, 3),
		)
		zapLog.Info("Benchmark provider: statistics API", zap.String("baseURL", cfg.Benchmarks.StatsAPIBase))
	} else {
		benchmarkProvider = benchmark.NewPostgresProvider(
			pg.DB,
			redis.Client,
			time.Duration(cfg.Benchmarks.CacheTTL)*time.Second,
			log,
		)
		zapLog.Info("Benchmark provider: postgres")
	}

	factorStore := lcf.NewPostgresStore(
		pg.DB,
		redis.Client,
		time.Duration(cfg.Factors.CacheTTL)*time.Second,
	)

	// AWS clients are only created for enabled alert channels.
	var emailSender sca.EmailSender
	if cfg.Alerts.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Alerts.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client initialization failed", zap.Error(err))
		}
		emailSender = sesClient
		zapLog.Info("SES client initialized", zap.String("region", cfg.Alerts.AWS.Region))
	}

	var smsSender sca.SMSSender
	if cfg.Alerts.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Alerts.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client initialization failed", zap.Error(err))
		}
		smsSender = snsClient
		zapLog.Info("SNS client initialized", zap.String("region", cfg.Alerts.AWS.Region))
	}

	// --- START: Register ALL 9 Workers ---

	// --- 1. Q&A Workers (4) ---
	if cfg.Workers[ci.TaskType].Enabled {
		handler := ci.NewHandler(
			&ci.Config{
				Timeout: time.Duration(cfg.Workers[ci.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, ci.TaskType, cfg.Workers[ci.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sc.TaskType].Enabled {
		handler := sc.NewHandler(
			&sc.Config{
				Index:      cfg.Corpus.Index,
				MaxResults: cfg.Corpus.MaxResults,
				Timeout:    time.Duration(cfg.Workers[sc.TaskType].Timeout) * time.Millisecond,
			},
			regulatoryCorpus, log,
		)
		startWorker(zeebeClient, sc.TaskType, cfg.Workers[sc.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[rd.TaskType].Enabled {
		handler := rd.NewHandler(
			&rd.Config{
				Timeout: time.Duration(cfg.Workers[rd.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, rd.TaskType, cfg.Workers[rd.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[cr.TaskType].Enabled {
		handler := cr.NewHandler(
			&cr.Config{
				Timeout:      time.Duration(cfg.Workers[cr.TaskType].Timeout) * time.Millisecond,
				MaxDocuments: 3,
			},
			log,
		)
		startWorker(zeebeClient, cr.TaskType, cfg.Workers[cr.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Gap Analysis Workers (3) ---
	if cfg.Workers[cb.TaskType].Enabled {
		handler := cb.NewHandler(
			&cb.Config{
				Timeout: time.Duration(cfg.Workers[cb.TaskType].Timeout) * time.Millisecond,
			},
			benchmarkProvider, log,
		)
		startWorker(zeebeClient, cb.TaskType, cfg.Workers[cb.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[er.TaskType].Enabled {
		handler := er.NewHandler(
			&er.Config{
				Timeout: time.Duration(cfg.Workers[er.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, er.TaskType, cfg.Workers[er.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sco.TaskType].Enabled {
		handler := sco.NewHandler(
			&sco.Config{
				Timeout: time.Duration(cfg.Workers[sco.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, sco.TaskType, cfg.Workers[sco.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Conversion Factor Workers (1) ---
	if cfg.Workers[lcf.TaskType].Enabled {
		handler := lcf.NewHandler(
			&lcf.Config{
				DatasetYear: cfg.Factors.DatasetYear,
				MaxResults:  cfg.Factors.MaxResults,
				Timeout:     time.Duration(cfg.Workers[lcf.TaskType].Timeout) * time.Millisecond,
			},
			factorStore, log,
		)
		startWorker(zeebeClient, lcf.TaskType, cfg.Workers[lcf.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Notification Workers (1) ---
	if cfg.Workers[sca.TaskType].Enabled {
		handler := sca.NewHandler(
			&sca.Config{
				Timeout:        time.Duration(cfg.Workers[sca.TaskType].Timeout) * time.Millisecond,
				FromEmail:      cfg.Alerts.Email.FromEmail,
				EmailEnabled:   cfg.Alerts.Email.Enabled,
				SMSEnabled:     cfg.Alerts.SMS.Enabled,
				SMSPriorityMin: cfg.Alerts.SMS.PriorityThreshold,
			},
			emailSender, smsSender, log,
		)
		startWorker(zeebeClient, sca.TaskType, cfg.Workers[sca.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 9 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
