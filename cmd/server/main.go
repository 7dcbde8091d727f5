package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brightpath-edu/tutor-portal/internal/cache"
	"github.com/brightpath-edu/tutor-portal/internal/config"
	"github.com/brightpath-edu/tutor-portal/internal/handlers"
	"github.com/brightpath-edu/tutor-portal/internal/repositories/postgres"
	"github.com/brightpath-edu/tutor-portal/internal/services"
	"github.com/brightpath-edu/tutor-portal/internal/utils"
	"github.com/brightpath-edu/tutor-portal/internal/validator"
	"github.com/brightpath-edu/tutor-portal/pkg"
	"github.com/brightpath-edu/tutor-portal/pkg/monitoring"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	monitoring.Init()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	if err := pkg.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("failed to init redis: %v", err)
	}
	defer redisClient.Close()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init zap logger: %v", err)
	}
	defer zapLogger.Sync()

	cacheService := cache.NewRedisCache(redisClient, zapLogger)

	slogLogger := logger.(*utils.SlogLogger).GetSlogLogger()

	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		log.Fatalf("failed to create event publisher: %v", err)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	v := validator.New()

	serviceManager := services.NewServiceManager(repo, cacheService, publisher, slogLogger, v)
	handlerManager := handlers.NewHandlerManager(serviceManager, cacheService, cfg.JWTSecret, logger)

	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
