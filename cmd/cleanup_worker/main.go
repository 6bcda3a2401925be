package main

import (
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

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", err)
	}
	defer dbConnections.Close()

	pgRepo := postgres.NewPostgresRepository(dbConnections)

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

	cleanupWorker := worker.NewCleanupWorker(pgRepo.Invitation(), cfg.CleanupPollInterval, workerMetrics, appLogger)
	cleanupWorker.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("Shutting down cleanup worker...")
	cleanupWorker.Stop()
	appLogger.Info("Cleanup worker stopped")
	_ = appLogger.Sync()
}
