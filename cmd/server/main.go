package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/iudanet/folio/internal/config"
	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/auth"
	"github.com/iudanet/folio/internal/server/collection"
	"github.com/iudanet/folio/internal/server/comments"
	"github.com/iudanet/folio/internal/server/content"
	"github.com/iudanet/folio/internal/server/handlers"
	"github.com/iudanet/folio/internal/server/jobs"
	"github.com/iudanet/folio/internal/server/library"
	"github.com/iudanet/folio/internal/server/profile"
	"github.com/iudanet/folio/internal/server/ratelimit"
	"github.com/iudanet/folio/internal/server/router"
	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/server/storage/drivers"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg := config.MustLoad(*configPath)

	logger := setupLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting folio server",
		slog.String("version", Version),
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	docs, err := drivers.Open(ctx, cfg.Storage.Driver, cfg.Storage.Location)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := docs.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	loginLimiter, commentsLimiter, closeLimiters, err := setupLimiters(ctx, cfg.Limits)
	if err != nil {
		return err
	}
	defer closeLimiters()

	scheduler := jobs.NewScheduler(logger)
	tokens, err := setupTokens(docs, cfg.Auth, cfg.Jobs, scheduler)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(logger, tokens, loginLimiter, auth.Credentials{
		PasswordHash: cfg.Auth.PasswordHash,
		Password:     cfg.Auth.Password,
	})

	h := router.Handlers{
		Auth: handlers.NewAuthHandler(logger, authSvc, handlers.CookieConfig{
			MaxAge: cfg.Auth.SessionTTL,
			Secure: cfg.Auth.CookieSecure,
		}),
		Health:   handlers.NewHealthHandler(logger, Version),
		Posts:    handlers.NewPostsHandler(logger, content.NewStore(logger, cfg.Content.PostsDir)),
		Comments: handlers.NewCommentsHandler(logger, comments.NewService(docs, comments.Cascade(cfg.Comments.Cascade))),
		Library:  handlers.NewLibraryHandler(logger, library.NewService(docs)),
		Profile:  handlers.NewProfileHandler(logger, profile.NewService(docs)),
		Hero: handlers.NewCollectionHandler(logger,
			collection.New[models.HeroSlide, *models.HeroSlide](docs, "hero-slides"),
			handlers.PrepareHeroSlide),
		Social: handlers.NewCollectionHandler(logger,
			collection.New(docs, "redes", collection.WithSeed[models.SocialLink, *models.SocialLink](models.DefaultSocialLinks)),
			handlers.PrepareSocialLink),
	}

	var registry *prometheus.Registry
	if !cfg.Metrics.Disabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	handler, err := router.New(h, router.Options{
		Logger:          logger,
		Checker:         authSvc,
		CommentsLimiter: commentsLimiter,
		Registry:        registry,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		WebDir:          cfg.Web.Dir,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	scheduler.Start()

	serveErrCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-serveErrCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server forced to stop", slog.String("error", err.Error()))
	}
	scheduler.Stop(shutdownCtx)

	logger.Info("server stopped")
	return nil
}

// setupLimiters создает лимитеры входа и комментариев.
// Возвращаемая функция освобождает клиент Redis.
func setupLimiters(ctx context.Context, cfg config.LimitsConfig) (login, comment ratelimit.Limiter, closeFn func(), err error) {
	loginRule := ratelimit.Rule{Max: cfg.LoginMax, Window: cfg.LoginWindow}
	commentsRule := ratelimit.Rule{Max: cfg.CommentsMax, Window: cfg.CommentsWindow}

	if cfg.Driver != config.LimiterRedis {
		if login, err = ratelimit.NewFixedWindow(loginRule, cfg.MaxKeys); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create login limiter: %w", err)
		}
		if comment, err = ratelimit.NewFixedWindow(commentsRule, cfg.MaxKeys); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create comments limiter: %w", err)
		}
		return login, comment, func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	closeFn = func() { _ = rdb.Close() }

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if login, err = ratelimit.NewRedisFixedWindow(rdb, "folio:login:", loginRule); err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("failed to create login limiter: %w", err)
	}
	if comment, err = ratelimit.NewRedisFixedWindow(rdb, "folio:comments:", commentsRule); err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("failed to create comments limiter: %w", err)
	}
	return login, comment, closeFn, nil
}

// setupTokens выбирает хранилище токенов; в режиме jwt планирует очистку списка отзыва
func setupTokens(docs storage.DocumentStore, cfg config.AuthConfig, jobsCfg config.JobsConfig, scheduler *jobs.Scheduler) (auth.TokenStore, error) {
	secret := []byte(cfg.TokenSecret)

	if cfg.TokenMode != config.TokenModeJWT {
		return auth.NewDigestTokenStore(docs, secret, cfg.MaxSessions), nil
	}

	signed := auth.NewSignedTokenStore(docs, secret, cfg.SessionTTL)
	if err := scheduler.Add("prune-revoked-tokens", jobsCfg.PruneSchedule, signed.PruneRevoked); err != nil {
		return nil, err
	}
	return signed, nil
}

// setupLogger настраивает slog по окружению и уровню логирования
func setupLogger(env, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch env {
	case config.EnvDev, config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
}

func printVersion() {
	fmt.Printf("Folio Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
