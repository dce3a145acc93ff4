package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/voxline-ai/sales-triage/internal/api/router"
	appconfig "github.com/voxline-ai/sales-triage/internal/config"
	"github.com/voxline-ai/sales-triage/internal/decisions"
	"github.com/voxline-ai/sales-triage/internal/events"
	"github.com/voxline-ai/sales-triage/internal/extraction"
	"github.com/voxline-ai/sales-triage/internal/observability/metrics"
	"github.com/voxline-ai/sales-triage/internal/qualification"
	"github.com/voxline-ai/sales-triage/internal/triage"
	"github.com/voxline-ai/sales-triage/internal/triage/session"
	"github.com/voxline-ai/sales-triage/internal/validator"
	"github.com/voxline-ai/sales-triage/pkg/logging"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sales-triage API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	bedrockClient := bedrockruntime.NewFromConfig(awsCfg)
	llmClient := extraction.NewBedrockLLMClient(bedrockClient)
	extractor := extraction.NewLLMExtractor(llmClient, cfg.BedrockModelID, cfg.ExtractionTimeout, logger.Component("extraction"))

	var sessions triage.IntentStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		sessions = session.NewIntentStore(redis.NewClient(opts), cfg.IntentSessionTTL)
		logger.Info("intent session store enabled", "addr", cfg.RedisAddr)
	}

	var repo decisions.Repository = decisions.NewInMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = decisions.NewPostgresRepository(pool)
		logger.Info("decision log backed by postgres")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger.Component("events"))
		defer kafkaPub.Close()
		publisher = kafkaPub
		logger.Info("decision events enabled", "topic", cfg.KafkaTopic)
	}

	triageMetrics := metrics.NewTriageMetrics(nil)

	svc := triage.NewService(
		extractor,
		qualification.NewEngine(),
		sessions,
		repo,
		publisher,
		triageMetrics,
		logger.Component("triage"),
	)
	handler := triage.NewHandler(svc, validator.New(logger.Component("validator")), triageMetrics, logger.Component("api"))

	r := router.New(&router.Config{
		Logger:         logger,
		TriageHandler:  handler,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
