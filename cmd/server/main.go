package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/kinemetrics/motion-backend-go/internal/analysis"
	"github.com/kinemetrics/motion-backend-go/internal/api"
	"github.com/kinemetrics/motion-backend-go/internal/config"
	"github.com/kinemetrics/motion-backend-go/internal/database"
	"github.com/kinemetrics/motion-backend-go/internal/handler"
	"github.com/kinemetrics/motion-backend-go/internal/repository"
	"github.com/kinemetrics/motion-backend-go/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	sessionRepo := repository.NewSessionRepository(database.GetDB())

	provider := analysis.NewDirModelProvider(cfg.ModelDir)
	captureService := service.NewCaptureService(sessionRepo, provider, cfg.InferenceEnabled, logger)
	sessionService := service.NewSessionService(sessionRepo)

	router := api.SetupRouter(cfg, api.Handlers{
		Capture: handler.NewCaptureHandler(captureService),
		Session: handler.NewSessionHandler(sessionService),
		Stream:  handler.NewStreamHandler(captureService, logger),
	}, logger)

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.Bool("inference_enabled", cfg.InferenceEnabled),
	)
	if err := router.Run(cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
