package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/docs"
	"github.com/kingrain94/notes-saas-api/internal/api"
	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/middleware"
	"github.com/kingrain94/notes-saas-api/internal/observability/tracing"
	"github.com/kingrain94/notes-saas-api/internal/repository/composite"
	"github.com/kingrain94/notes-saas-api/internal/repository/postgres"
	"github.com/kingrain94/notes-saas-api/internal/security/password"
	"github.com/kingrain94/notes-saas-api/internal/service"
	"github.com/kingrain94/notes-saas-api/internal/service/mail"
	"github.com/kingrain94/notes-saas-api/internal/service/pubsub"
	"github.com/kingrain94/notes-saas-api/internal/service/queue"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

// @title           Notes SaaS API
// @version         1.0
// @description     Multi-tenant notes API with FREE and PRO plans.

// @host      localhost:10000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
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

	shutdownTracing, err := tracing.Init(ctx, appLogger, "notes-api", cfg.AppEnv)
	if err != nil {
		appLogger.Fatal("Failed to initialize tracing", err)
	}

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer dbConnections.Close()

	if err := postgres.Migrate(ctx, dbConnections.Writer); err != nil {
		appLogger.Fatal("Failed to migrate database", err)
	}
	appLogger.Info("Database connections established and schema migrated")

	// Search is optional: without it q falls back to Postgres matching.
	osConfig := config.DefaultOpenSearchConfig()
	osClient, err := osConfig.GetClient()
	if err != nil || !cfg.SearchEnabled {
		if err != nil {
			appLogger.Warn("OpenSearch unavailable, full-text search disabled", zap.Error(err))
		}
		osClient = nil
	}

	redisClient, err := config.DefaultRedisConfig().GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()

	redisPubSub := pubsub.NewRedisPubSub(redisClient, appLogger)

	var sqsService service.QueueService
	if cfg.QueueEnabled {
		sqsConfig := config.DefaultSQSConfig()
		sqsClient, err := sqsConfig.GetClient(ctx)
		if err != nil {
			appLogger.Fatal("Failed to connect to SQS", err)
		}
		sqsService = queue.NewSQSService(sqsClient, sqsConfig)
	}

	repo := composite.NewCompositeRepository(dbConnections, osClient, osConfig)
	appMetrics := metrics.New()
	hasher := password.NewHasher(cfg.BcryptCost)
	tokens := service.NewTokenManager(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.JWTExpiration)

	if cfg.SeedDemoData {
		result, err := service.NewSeedService(repo, hasher, appLogger).Seed(ctx, service.DefaultFixture())
		if err != nil {
			appLogger.Fatal("Failed to seed demo data", err)
		}
		appLogger.Info("Demo data seeded",
			zap.Int("tenants_created", result.TenantsCreated),
			zap.Int("users_created", result.UsersCreated))
	}

	// Initialize services
	authService := service.NewAuthService(repo, hasher, tokens, appMetrics, appLogger)
	noteService := service.NewNoteService(repo, cfg.PlanLimits(), sqsService, appMetrics, appLogger)
	noteService.SetEventPublisher(redisPubSub)
	tenantService := service.NewTenantService(repo, service.TenantServiceConfig{
		Limits:        cfg.PlanLimits(),
		InvitationTTL: cfg.InvitationTTL,
		CacheTTL:      cfg.TenantCacheTTL,
		PublicBaseURL: cfg.PublicBaseURL,
	}, sqsService, mail.NewSender(config.DefaultSMTPConfig(), appLogger), appMetrics, appLogger)

	// Initialize middleware
	middlewares := api.Middlewares{
		Auth: middleware.NewAuthMiddleware(tokens),
		RateLimit: middleware.NewRateLimitMiddleware(middleware.NewRedisCounter(redisClient), middleware.RateLimitConfig{
			TenantLimit: cfg.DefaultRateLimit,
			GlobalLimit: cfg.GlobalRateLimit,
			LoginLimit:  cfg.LoginRateLimit,
		}, appMetrics, appLogger),
		Validation: middleware.NewValidationMiddleware(appLogger),
		CORS:       middleware.NewCORSMiddleware(cfg.CORSAllowedOrigins, appMetrics),
	}

	server := api.NewServer(api.Services{
		Auth:   authService,
		Notes:  noteService,
		Tenant: tenantService,
		Events: redisPubSub,
		Health: map[string]api.Pinger{
			"postgres": repo,
			"redis": api.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
	}, middlewares, appMetrics, appLogger)
	server.StartStreamHub()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if !cfg.IsProduction() {
		router.Use(gin.Logger())
	}

	docs.SwaggerInfo.Title = "Notes SaaS API"
	docs.SwaggerInfo.Description = "Multi-tenant notes API with FREE and PRO plans"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.ServerPort)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: api.Handler(router),
	}

	go func() {
		appLogger.Info("Server listening", zap.Int("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()

	server.StopStreamHub()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLogger.Error("Failed to flush traces", err)
	}

	appLogger.Info("Server exiting")
	_ = appLogger.Sync()
}
