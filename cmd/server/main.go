package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/godilite/ticket-classifier/internal/app"
	"github.com/godilite/ticket-classifier/internal/config"
)

func main() {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded environment from .env")
	}

	cfg := config.LoadFromEnv()
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting ticket classifier", startupFields(cfg)...)

	application, err := app.NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	if err := application.Run(); err != nil {
		logger.Fatal("Application exited with error", zap.Error(err))
	}
}

func startupFields(cfg *config.Config) []zap.Field {
	fields := []zap.Field{
		zap.String("env", cfg.AppEnv),
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.Bool("prediction_cache", cfg.RedisAddr != ""),
	}
	if cfg.UseLegacy {
		return append(fields,
			zap.String("strategy", "legacy"),
			zap.String("model_path", cfg.ModelPath))
	}
	return append(fields,
		zap.String("strategy", "zero-shot"),
		zap.String("provider", cfg.ZeroShotProvider))
}
