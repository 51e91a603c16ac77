package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/opsboard/admin-console/configs"
	"github.com/opsboard/admin-console/internal/application/services"
	"github.com/opsboard/admin-console/internal/core/ports"
	"github.com/opsboard/admin-console/internal/infrastructure/db"
	"github.com/opsboard/admin-console/internal/infrastructure/email"
	"github.com/opsboard/admin-console/internal/infrastructure/health"
	"github.com/opsboard/admin-console/internal/infrastructure/httpserver"
	"github.com/opsboard/admin-console/internal/infrastructure/redis"
	"github.com/opsboard/admin-console/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting admin console auth service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Initialize Redis repository implementations
	sessionRepo := repositories.NewSessionRedisRepository(redisClient, logger)
	resetTokenRepo := repositories.NewResetTokenRedisRepository(redisClient, logger)
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)

	// Generic Redis cache for hot account lookups
	redisCache := redis.NewRedisCache(redisClient, "consolecache")

	// Initialize db repository implementations and decorate with caching
	baseAdminRepo := repositories.NewAdminRepository(database, logger)
	adminRepo := repositories.NewCachingAdminRepository(baseAdminRepo, redisCache, 3*time.Minute)

	// Initialize email service
	emailService, err := email.NewEmailService(&cfg.Email, cfg.Admin.Namespace, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Wire services with their repository dependencies
	sessionService := services.NewSessionService(adminRepo, sessionRepo, &cfg.Session, &cfg.Admin, logger)
	confirmationService := services.NewConfirmationService(adminRepo, sessionService, &cfg.Admin, logger)
	adminService := services.NewAdminService(adminRepo, resetTokenRepo, emailService, &cfg.Admin, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	// Initialize HTTP server using ServerDeps for clearer wiring
	deps := httpserver.ServerDeps{
		AdminService:        adminService,
		ConfirmationService: confirmationService,
		SessionService:      sessionService,
		RateLimitRepo:       rateLimitRepo,
		HealthCheckers:      hcSlice,
	}

	server := httpserver.NewServer(serverConfig, &cfg.Admin, &cfg.RateLimit, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
