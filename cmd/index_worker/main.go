package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/repository/opensearch"
	"github.com/kingrain94/notes-saas-api/internal/service/queue"
	"github.com/kingrain94/notes-saas-api/internal/worker"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		appLogger.Fatal("Failed to load config", err)
	}

	osConfig := config.DefaultOpenSearchConfig()
	osClient, err := osConfig.GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to OpenSearch", err)
	}
	searchRepo := opensearch.NewRepository(osClient, osConfig)

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(context.Background())
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	workerMetrics := metrics.New()
	metricsServer := workerMetrics.NewServer(os.Getenv("METRICS_ADDR"))
	if metricsServer.Addr != "" {
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Metrics server failed", err)
			}
		}()
		defer metricsServer.Close()
	}

	indexWorker := worker.NewSQSWorker(
		sqsService,
		worker.NewIndexHandler(searchRepo, appLogger),
		worker.SQSWorkerConfig{
			QueueURL:     sqsService.IndexQueueURL(),
			WorkerCount:  1,
			PollInterval: cfg.WorkerPollInterval,
			MaxMessages:  int32(cfg.WorkerMaxMessages),
		},
		workerMetrics,
		appLogger,
	)

	indexWorker.Start()
	appLogger.Info("Index worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down index worker...")
	indexWorker.Stop()
	appLogger.Info("Index worker stopped")
	_ = appLogger.Sync()
}
