// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"career-brief-workers/internal/brief"
	"career-brief-workers/internal/careers"
	"career-brief-workers/internal/common/aws"
	"career-brief-workers/internal/common/camunda"
	"career-brief-workers/internal/common/config"
	"career-brief-workers/internal/common/database"
	"career-brief-workers/internal/common/logger"
	"career-brief-workers/internal/common/observability"

	// Assessment Workers (2)
	ccb "career-brief-workers/internal/workers/assessment/compile-career-brief"
	las "career-brief-workers/internal/workers/assessment/load-assessment-submission"

	// Guidance Workers (4)
	icr "career-brief-workers/internal/workers/guidance/index-career-report"
	nrr "career-brief-workers/internal/workers/guidance/notify-report-ready"
	scr "career-brief-workers/internal/workers/guidance/store-career-report"
	syn "career-brief-workers/internal/workers/guidance/synthesize-career-report"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// jobTimeout is the in-handler deadline for a task type, falling back to def
// when the worker section leaves it unset.
func jobTimeout(cfg *config.Config, taskType string, def time.Duration) time.Duration {
	if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
		return config.GetDuration(ms)
	}
	return def
}

func loadCatalog(path string) (*careers.Catalog, error) {
	if path == "" {
		return careers.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table %s: %w", path, err)
	}
	return careers.Load(data)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	}, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := zeebe.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if err := esClient.EnsureIndex(ctx, cfg.Assessment.ReportIndex, database.CareerReportMapping); err != nil {
		zapLog.Fatal("report index setup failed", zap.Error(err))
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
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init AWS clients ---
	awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("aws config failed", zap.Error(err))
	}
	sesClient := aws.NewSESClient(awsCfg)
	snsClient := aws.NewSNSClient(awsCfg)

	// --- Brief compiler ---
	catalog, err := loadCatalog(cfg.Assessment.RuleTablePath)
	if err != nil {
		zapLog.Fatal("career rule table invalid", zap.Error(err))
	}
	for _, c := range catalog.Conflicts() {
		zapLog.Warn("career rule conflict", zap.Any("conflict", c))
	}
	compiler, err := brief.NewCompiler(catalog, brief.Options{InterestBaseline: cfg.Assessment.InterestBaseline})
	if err != nil {
		zapLog.Fatal("brief compiler init failed", zap.Error(err))
	}

	// --- Register Workers ---
	var workers []*camunda.Worker
	start := func(taskType string, handler camunda.JobHandler) {
		if w := camunda.StartWorker(zeebeClient, taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}

	{
		c := las.LoadConfig()
		c.Timeout = jobTimeout(cfg, las.TaskType, c.Timeout)
		c.CacheTTL = time.Duration(cfg.Assessment.SubmissionTTL) * time.Second
		start(las.TaskType, las.NewHandler(c, pg.DB, redis, log))
	}
	{
		c := ccb.LoadConfig()
		c.Timeout = jobTimeout(cfg, ccb.TaskType, c.Timeout)
		c.CacheTTL = time.Duration(cfg.Assessment.BriefCacheTTL) * time.Second
		start(ccb.TaskType, ccb.NewHandler(c, compiler, redis, obs, log))
	}
	{
		c := syn.LoadConfig()
		c.GenAIBaseURL = cfg.APIs.GenAI.BaseURL
		c.APIKey = cfg.APIs.GenAI.APIKey
		c.Model = cfg.APIs.GenAI.Model
		c.MaxRetries = cfg.APIs.GenAI.MaxRetries
		c.Timeout = config.GetDuration(cfg.APIs.GenAI.Timeout)
		start(syn.TaskType, syn.NewHandler(c, log))
	}
	{
		c := scr.LoadConfig()
		c.Timeout = jobTimeout(cfg, scr.TaskType, c.Timeout)
		start(scr.TaskType, scr.NewHandler(c, pg.DB, log))
	}
	{
		c := icr.LoadConfig()
		c.Index = cfg.Assessment.ReportIndex
		c.Timeout = jobTimeout(cfg, icr.TaskType, c.Timeout)
		start(icr.TaskType, icr.NewHandler(c, esClient.Client, log))
	}
	{
		c := nrr.LoadConfig()
		c.EmailEnabled = cfg.Notifications.Email.Enabled
		c.FromEmail = cfg.Notifications.Email.FromEmail
		c.SMSEnabled = cfg.Notifications.SMS.Enabled
		c.SenderID = cfg.Notifications.SMS.SenderID
		c.PriorityThreshold = cfg.Notifications.SMS.PriorityThreshold
		c.ReportBaseURL = cfg.Assessment.ReportBaseURL
		c.Timeout = jobTimeout(cfg, nrr.TaskType, c.Timeout)
		start(nrr.TaskType, nrr.NewHandler(c, pg.DB, sesClient, snsClient, log))
	}

	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		rctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := map[string]string{"status": "ready", "zeebe": "ok", "postgres": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := zeebe.HealthCheck(rctx); err != nil {
			checks["zeebe"], checks["status"], code = err.Error(), "not ready", http.StatusServiceUnavailable
		}
		if err := pg.Ping(rctx); err != nil {
			checks["postgres"], checks["status"], code = err.Error(), "not ready", http.StatusServiceUnavailable
		}
		if err := redis.Ping(rctx); err != nil {
			checks["redis"], checks["status"], code = err.Error(), "not ready", http.StatusServiceUnavailable
		}
		writeStatus(w, code, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Health/Metrics server shutdown failed", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

func writeStatus(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
