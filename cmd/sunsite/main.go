package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sunsite/internal/config"
	"sunsite/internal/email"
	"sunsite/internal/handlers"
	"sunsite/internal/middleware"
	"sunsite/internal/router"
	"sunsite/internal/storage"
	"sunsite/internal/storage/sqlite"
	"sunsite/internal/telemetry"
	"sunsite/internal/workspace"
)

const version = "1.0.0"

type App struct {
	Server *http.Server
	Logger *slog.Logger
	Config *config.Config
}

func NewApp(cfg *config.Config, logger *slog.Logger, handler http.Handler) *App {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.Timeouts.Read,
		WriteTimeout: cfg.HTTP.Timeouts.Write,
		IdleTimeout:  cfg.HTTP.Timeouts.Idle,
	}

	return &App{
		Server: server,
		Logger: logger,
		Config: cfg,
	}
}

func (a *App) Run(ctx context.Context) error {
	srvErrChan := make(chan error, 1)

	go func() {
		a.Logger.Info("server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErrChan <- err
		}
	}()

	select {
	case err := <-srvErrChan:
		return fmt.Errorf("server startup failed: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	}

	// attempt clean shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.Timeouts.Shutdown)
	defer cancel()

	a.Logger.Info("draining connections...")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		// graceful shutdown timed out
		if closeErr := a.Server.Close(); closeErr != nil {
			// both failed. Return combined error.
			return fmt.Errorf("graceful shutdown failed: %w", errors.Join(err, closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.Logger.Info("server stopped")
	return nil
}

func main() {
	cfg := config.LoadWithDefaults()
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	stderr := os.Stderr
	logHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Logger.Level})
	logger := slog.New(logHandler).With("app", cfg.App.Name)

	logger.Info("application starting", "pid", os.Getpid())
	logger.Info("configuration loaded",
		"name", cfg.App.Name,
		"env", cfg.App.Environment,
		"port", cfg.HTTP.Port,
		"db", cfg.DB.Path,
		"rate_limit_rps", cfg.Limiter.RPS,
		"trusted_proxy", cfg.Proxy.Trusted,
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	isProd := cfg.App.Environment == "prod"

	tel, err := telemetry.Init(rootCtx, cfg.App.Name, version, cfg.App.Environment,
		cfg.Metrics.OtelEndpoint, cfg.Metrics.EnableTelemetry, logger)
	if err != nil {
		logger.Error("telemetry setup", "err", err)
		os.Exit(1)
	}
	defer tel.Shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(tel.Meter)
	if err != nil {
		logger.Error("metrics setup", "err", err)
		os.Exit(1)
	}

	store, err := sqlite.NewStore(cfg.DB.Path)
	if err != nil {
		logger.Error("opening database", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(cfg.DB.MigrationsPath); err != nil {
		logger.Error("running migrations", "err", err)
		os.Exit(1)
	}

	objects, err := storage.NewS3Store(cfg.S3)
	if err != nil {
		logger.Error("object store setup", "err", err)
		os.Exit(1)
	}

	sessions := middleware.NewSessionManager(cfg.Auth.SessionTTL, isProd, store.RawDB())

	var sender email.Sender
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, logger)
	} else {
		sender = email.NewNoopSender(logger)
	}

	postList := workspace.NewPostList(store, logger)
	inquiries := workspace.NewInquiryReviewer(store, logger)

	siteHandler := handlers.NewSiteHandler(
		cfg.App.Name,
		store,
		objects,
		sessions,
		postList,
		inquiries,
		sender,
		cfg.Email.NotifyTo,
		cfg.Email.From,
		logger,
		metrics,
		tel.Tracer,
	)

	limiter := middleware.NewIPRateLimiter(rootCtx, cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Proxy.Trusted, metrics)
	// auth endpoints get a much tighter budget
	authLimiter := middleware.NewIPRateLimiter(rootCtx, 1, 5, cfg.Proxy.Trusted, metrics)

	handler := router.NewRouter(router.RouterDependencies{
		Cfg:         cfg,
		Logger:      logger,
		SiteHandler: siteHandler,
		Limiter:     limiter,
		AuthLimiter: authLimiter,
		Tracer:      tel.Tracer,
		Metrics:     metrics,
		Session:     sessions,
		CSRF:        middleware.NewCSRF(isProd),
		Headers:     middleware.NewSecurityHeaders(isProd, cfg.S3.PublicBaseURL),
	})

	app := NewApp(cfg, logger, handler)

	if err := app.Run(rootCtx); err != nil {
		logger.Error("server crashed", "err", err)
		os.Exit(1)
	}

	logger.Info("application exited successfully")
}
