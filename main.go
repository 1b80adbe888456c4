package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/audit"
	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/config"
	"github.com/daru-studio/daru-engine/pkg/database"
	"github.com/daru-studio/daru-engine/pkg/handlers"
	"github.com/daru-studio/daru-engine/pkg/llm"
	"github.com/daru-studio/daru-engine/pkg/middleware"
	"github.com/daru-studio/daru-engine/pkg/repositories"
	"github.com/daru-studio/daru-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Host),
		zap.String("ai_provider", cfg.AI.Provider))

	ctx := context.Background()

	// Migrations run over database/sql; the application pool uses pgx.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Rate limit counters live in Redis when configured, otherwise in
	// process memory.
	var rateLimitStore middleware.RateLimitStore
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		rateLimitStore = middleware.NewRedisRateLimitStore(redisClient)
		logger.Info("Rate limiting backed by Redis")
	} else {
		rateLimitStore = middleware.NewMemoryRateLimitStore()
		logger.Info("Rate limiting backed by process memory")
	}

	auth.InitSessionStore(cfg.Auth.SessionSecret)

	verifier, err := auth.NewJWKSVerifier(&auth.VerifierConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWT verifier", zap.Error(err))
	}
	defer verifier.Close()

	authService := auth.NewAuthService(verifier, logger.Named("auth"))
	auditor := audit.NewAuditor(logger)
	authMiddleware := auth.NewMiddleware(authService, auditor, logger.Named("auth"))

	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	llmClient, err := llm.NewClientFromConfig(&cfg.AI, logger.Named("llm"))
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	notificationService := services.NewNotificationService(notificationRepo, logger.Named("notifications"))
	userService := services.NewUserService(userRepo, logger.Named("users"))
	projectService := services.NewProjectService(projectRepo, notificationService, logger.Named("projects"))
	orderService := services.NewOrderService(orderRepo, projectService, notificationService, logger.Named("orders"))
	taskService := services.NewTaskService(taskRepo, projectRepo, notificationService, logger.Named("tasks"))
	commentService := services.NewCommentService(commentRepo, projectRepo, notificationService, logger.Named("comments"))
	statsService := services.NewStatsService(statsRepo, logger.Named("stats"))
	briefService := services.NewBriefService(llmClient, logger.Named("briefs"))

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg.Version, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(verifier, authService, logger).RegisterRoutes(mux)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewStatsHandler(statsService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProjectHandler(projectService, commentService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewOrderHandler(orderService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTaskHandler(taskService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewNotificationHandler(notificationService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewBriefHandler(briefService, logger).RegisterRoutes(mux, authMiddleware)

	rateLimitCfg := &middleware.RateLimitConfig{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window(),
		Prefixes:    cfg.RateLimit.Prefixes,
	}

	var handler http.Handler = mux
	handler = middleware.RateLimit(rateLimitStore, rateLimitCfg, auditor, logger.Named("ratelimit"))(handler)
	handler = middleware.RequestLogger(logger.Named("http"))(handler)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting daru-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
