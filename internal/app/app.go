package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/ticket-classifier/internal/config"
	apihttp "github.com/godilite/ticket-classifier/internal/http"
	"github.com/godilite/ticket-classifier/internal/llm"
	"github.com/godilite/ticket-classifier/internal/service"
	"github.com/godilite/ticket-classifier/internal/strategy"
	"github.com/godilite/ticket-classifier/internal/teams"
	"github.com/godilite/ticket-classifier/pkg/cache"
	grpcsrv "github.com/godilite/ticket-classifier/pkg/grpc/server"
	"github.com/godilite/ticket-classifier/pkg/httpserver"
)

// ClassifierHealthService is the gRPC health name of the classification backend.
const ClassifierHealthService = "classifier"

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	cache      cache.Cacher
	httpServer *httpserver.Server
	grpcServer *grpcsrv.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	table, err := loadTeams(cfg)
	if err != nil {
		return nil, fmt.Errorf("team table init failed: %w", err)
	}
	logger.Info("Team table loaded",
		zap.Strings("categories", table.Categories()),
		zap.String("default_team", table.DefaultTeam()))

	cacheClient, err := newCache(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	if cfg.RedisAddr != "" {
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	}

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithHealthService(ClassifierHealthService, !cfg.UseLegacy),
	)
	if err != nil {
		_ = cacheClient.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	classifier := newClassifier(ctx, cfg, table, cacheClient, grpcServer, logger)
	classificationService := service.NewClassificationService(classifier, table, cfg.BatchConcurrency, logger)

	httpServer, err := httpserver.New(
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithStaticDir(cfg.StaticDir),
		httpserver.WithBodyLimit(cfg.MaxUploadBytes),
		httpserver.WithReadTimeout(cfg.HTTPReadTimeout),
		httpserver.WithErrorHandler(apihttp.ErrorHandler(logger)),
	)
	if err != nil {
		_ = cacheClient.Close()
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}
	apihttp.NewHandlers(classificationService, logger).Register(httpServer.App())
	httpServer.MountStatic()

	return &App{
		logger:     logger,
		cache:      cacheClient,
		httpServer: httpServer,
		grpcServer: grpcServer,
	}, nil
}

func loadTeams(cfg *config.Config) (*teams.Table, error) {
	if cfg.TeamsFile == "" {
		return teams.Default(), nil
	}
	return teams.Load(cfg.TeamsFile)
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Cacher, error) {
	if cfg.RedisAddr == "" {
		return cache.Nop{}, nil
	}
	return cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
		cache.WithPassword(cfg.RedisPassword),
		cache.WithDB(cfg.RedisDB),
		cache.WithKeyPrefix("ticket-classifier:"),
	)
}

func newClassifier(
	ctx context.Context,
	cfg *config.Config,
	table *teams.Table,
	cacheClient cache.Cacher,
	grpcServer *grpcsrv.Server,
	logger *zap.Logger,
) service.Classifier {
	if cfg.UseLegacy {
		legacy := strategy.NewLegacy(cfg.ModelPath, logger,
			strategy.WithOnLoad(func() {
				grpcServer.SetServiceHealth(ClassifierHealthService, true)
			}))
		// warm-up only; a missing artifact is reported per request until it appears
		if err := legacy.Ready(ctx); err != nil {
			logger.Warn("legacy model not loaded", zap.String("path", cfg.ModelPath), zap.Error(err))
		}
		logger.Info("Using legacy classifier", zap.String("model_path", cfg.ModelPath))
		return legacy
	}

	llmCfg := llmConfig(cfg)
	modelName := llm.ModelName(llmCfg)
	logger.Info("Using zero-shot classifier",
		zap.String("provider", cfg.ZeroShotProvider),
		zap.String("model", modelName))
	return strategy.NewZeroShot(
		func(context.Context) (llm.Completer, error) {
			return llm.New(llmCfg, logger)
		},
		cacheClient,
		strategy.ZeroShotConfig{
			Labels:    table.Categories(),
			ModelName: cfg.ZeroShotProvider + "/" + modelName,
			CacheTTL:  cfg.CacheTTL,
		},
		logger,
	)
}

func llmConfig(cfg *config.Config) llm.Config {
	c := llm.Config{
		Provider:   cfg.ZeroShotProvider,
		Model:      cfg.ZeroShotModel,
		Timeout:    cfg.LLMTimeout,
		MaxRetries: -1,
	}
	switch c.Provider {
	case llm.ProviderAnthropic:
		c.APIKey = cfg.AnthropicAPIKey
	default:
		c.APIKey = cfg.OpenAIAPIKey
		c.BaseURL = cfg.OpenAIBaseURL
	}
	return c
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the servers and shuts them down once ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	a.logger.Info("application starting")

	a.grpcServer.Start()
	a.httpServer.Start()

	<-ctx.Done()

	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP shutdown error", zap.Error(err))
	}
	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}

	if shutdownCtx.Err() == context.DeadlineExceeded {
		a.logger.Warn("shutdown completed but deadline exceeded")
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}
