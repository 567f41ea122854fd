// Package httpserver builds the fiber application that fronts the classifier.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	host         string
	port         int
	logger       *zap.Logger
	staticDir    string
	bodyLimit    int
	readTimeout  time.Duration
	errorHandler fiber.ErrorHandler
}

func WithHost(host string) Option {
	return func(o *Options) { o.host = host }
}

func WithPort(port int) Option {
	return func(o *Options) { o.port = port }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

// WithStaticDir serves the directory at "/" after all API routes. A missing
// directory is skipped.
func WithStaticDir(dir string) Option {
	return func(o *Options) { o.staticDir = dir }
}

func WithBodyLimit(bytes int) Option {
	return func(o *Options) { o.bodyLimit = bytes }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *Options) { o.readTimeout = d }
}

func WithErrorHandler(h fiber.ErrorHandler) Option {
	return func(o *Options) { o.errorHandler = h }
}

type Server struct {
	app       *fiber.App
	addr      string
	staticDir string
	logger    *zap.Logger
}

// New creates the fiber app with recovery, request IDs, compression and
// request logging installed.
func New(opts ...Option) (*Server, error) {
	options := &Options{
		port:        8000,
		logger:      zap.NewNop(),
		bodyLimit:   10 * 1024 * 1024,
		readTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.port < 0 || options.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 0 and 65535", options.port)
	}
	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http-server")

	cfg := fiber.Config{
		AppName:               "ticket-classifier",
		DisableStartupMessage: true,
		BodyLimit:             options.bodyLimit,
		ReadTimeout:           options.readTimeout,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	}
	if options.errorHandler != nil {
		cfg.ErrorHandler = options.errorHandler
	}
	app := fiber.New(cfg)

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.Error("panic recovered",
				zap.String("path", c.Path()),
				zap.Any("panic", e))
		},
	}))
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(RequestLogger(logger))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	return &Server{
		app:       app,
		addr:      net.JoinHostPort(options.host, fmt.Sprint(options.port)),
		staticDir: options.staticDir,
		logger:    logger,
	}, nil
}

// App exposes the fiber app for route registration and tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// MountStatic serves the static frontend. Call it after registering API routes.
func (s *Server) MountStatic() {
	if s.staticDir == "" {
		return
	}
	if info, err := os.Stat(s.staticDir); err != nil || !info.IsDir() {
		s.logger.Warn("static directory not found, frontend disabled", zap.String("dir", s.staticDir))
		return
	}
	s.app.Static("/", s.staticDir, fiber.Static{Index: "index.html"})
	s.logger.Info("serving static frontend", zap.String("dir", s.staticDir))
}

// Start listens in a goroutine and returns immediately.
func (s *Server) Start() {
	s.logger.Info("HTTP server starting", zap.String("addr", s.addr))

	go func() {
		if err := s.app.Listen(s.addr); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
