package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/configs"
	"github.com/chatly/user-service/internal/application/services"
	"github.com/chatly/user-service/internal/core/ports"
	"github.com/chatly/user-service/internal/infrastructure/captcha"
	"github.com/chatly/user-service/internal/infrastructure/db"
	"github.com/chatly/user-service/internal/infrastructure/hash"
	"github.com/chatly/user-service/internal/infrastructure/health"
	"github.com/chatly/user-service/internal/infrastructure/httpserver"
	"github.com/chatly/user-service/internal/infrastructure/rabbitmq"
	"github.com/chatly/user-service/internal/infrastructure/redis"
	"github.com/chatly/user-service/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting user service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Initialize RabbitMQ connection with explicit lifecycle
	queueConn, err := rabbitmq.Connect(&cfg.RabbitMQ, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer queueConn.Close()

	logger.Info("Connected to RabbitMQ successfully")

	// Infrastructure adapters
	cache := redis.NewRedisCache(redisClient, "")
	publisher := rabbitmq.NewPublisher(queueConn, logger)
	captchaVerifier := captcha.NewRecaptchaVerifier(&cfg.Captcha, logger)
	passwordHasher := hash.NewPBKDF2Hasher()
	userRepo := repositories.NewUserRepository(database, logger)

	// Application services
	otpManager := services.NewOTPService(cache, cfg.OTP.CodeTTL, logger)
	rateLimiter := services.NewRateLimiterService(cache, cfg.OTP.RateLimitTTL, logger)
	tokenIssuer := services.NewTokenService(&cfg.JWT)

	identityService := services.NewIdentityService(
		userRepo,
		otpManager,
		rateLimiter,
		cache,
		publisher,
		captchaVerifier,
		passwordHasher,
		tokenIssuer,
		services.IdentityServiceConfig{
			EmailQueue:    cfg.OTP.EmailQueueName,
			ResetGrantTTL: cfg.OTP.ResetGrantTTL,
		},
		logger,
	)

	hcSlice := []ports.HealthChecker{
		health.NewDBHealthChecker(database),
		health.NewRedisHealthChecker(redisClient),
		health.NewQueueHealthChecker(queueConn),
	}

	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	server := httpserver.NewServer(serverConfig, logger, httpserver.ServerDeps{
		IdentityService: identityService,
		TokenIssuer:     tokenIssuer,
		HealthCheckers:  hcSlice,
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
