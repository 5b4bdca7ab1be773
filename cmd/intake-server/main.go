package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"insurance-intake/internal/common/config"
	"insurance-intake/internal/common/database"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/dispatch"
	"insurance-intake/internal/notify"
	"insurance-intake/internal/server"
	"insurance-intake/internal/tools/createapplication"
)

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting intake server",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Optional Redis for rate limiting ---
	var limiter *server.RateLimiter
	if cfg.RateLimit.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected")

		limiter = server.NewRateLimiter(
			rdb.Client(),
			cfg.RateLimit.RequestsPerWindow,
			config.GetDuration(cfg.RateLimit.Window),
			log,
		)
	}

	// --- Optional confirmation notifier ---
	var notifier createapplication.Notifier
	if cfg.Notifications.Enabled() {
		n, err := notify.New(ctx, &notify.Config{
			EmailEnabled:   cfg.Notifications.Email.Enabled,
			FromEmail:      cfg.Notifications.Email.FromEmail,
			RecipientEmail: cfg.Notifications.Email.RecipientEmail,
			SMSEnabled:     cfg.Notifications.SMS.Enabled,
			TopicARN:       cfg.Notifications.SMS.TopicARN,
			Region:         cfg.Notifications.AWS.Region,
		}, log)
		if err != nil {
			zapLog.Fatal("notifier init failed", zap.Error(err))
		}
		notifier = n
		zapLog.Info("confirmation notifier enabled",
			zap.Bool("email", cfg.Notifications.Email.Enabled),
			zap.Bool("sms", cfg.Notifications.SMS.Enabled),
		)
	}

	// --- Tool registry ---
	registry := dispatch.NewRegistry()
	handler := createapplication.NewHandler(createapplication.LoadConfig(), notifier, log)
	if err := registry.Register(handler.Tool()); err != nil {
		zapLog.Fatal("tool registration failed", zap.Error(err))
	}

	dispatcher := dispatch.NewDispatcher(&dispatch.Config{
		StrictArguments: cfg.Server.StrictArguments,
	}, registry, log)

	srv := server.New(&server.Config{
		Port:          cfg.Server.Port,
		ReadTimeout:   config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:  config.GetDuration(cfg.Server.WriteTimeout),
		InvokeTimeout: config.GetDuration(cfg.Server.InvokeTimeout),
	}, dispatcher, limiter, log)

	if err := srv.Run(ctx); err != nil {
		zapLog.Fatal("server stopped", zap.Error(err))
	}

	zapLog.Info("shutdown complete")
}
