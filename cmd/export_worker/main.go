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
	"github.com/kingrain94/notes-saas-api/internal/repository/postgres"
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

	ctx := context.Background()

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", err)
	}
	defer dbConnections.Close()

	pgRepo := postgres.NewPostgresRepository(dbConnections)

	s3Config := config.DefaultS3Config()
	s3Client, err := s3Config.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to create S3 client", err)
	}

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(ctx)
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

	exportWorker := worker.NewSQSWorker(
		sqsService,
		worker.NewExportHandler(pgRepo.Note(), s3Client, s3Config.BucketName, cfg.ExportPageSize, appLogger),
		worker.SQSWorkerConfig{
			QueueURL:     sqsService.ExportQueueURL(),
			WorkerCount:  1,
			PollInterval: cfg.WorkerPollInterval,
			MaxMessages:  int32(cfg.WorkerMaxMessages),
		},
		workerMetrics,
		appLogger,
	)

	exportWorker.Start()
	appLogger.Info("Export worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down export worker...")
	exportWorker.Stop()
	appLogger.Info("Export worker stopped")
	_ = appLogger.Sync()
}
