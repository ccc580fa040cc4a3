package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tribe-intake/internal/api"
	awsclients "tribe-intake/internal/common/aws"
	"tribe-intake/internal/common/config"
	"tribe-intake/internal/common/database"
	apperrors "tribe-intake/internal/common/errors"
	"tribe-intake/internal/common/logger"
	"tribe-intake/internal/common/observability"
	crs "tribe-intake/internal/intake/check-submission-rate"
	car "tribe-intake/internal/intake/create-application-record"
	sn "tribe-intake/internal/intake/send-notification"
	sa "tribe-intake/internal/intake/submit-application"
	vad "tribe-intake/internal/intake/validate-application-data"
	"tribe-intake/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting intake server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("driver", cfg.Database.Driver),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	reg, err := registry.Applicant()
	if err != nil {
		zapLog.Fatal("applicant schema failed to compile", zap.Error(err))
	}

	// --- Applicant store ---
	var (
		store car.Store
		ready api.Pinger
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		ms := car.NewMemoryStore()
		store, ready = ms, ms
		zapLog.Warn("Using in-memory applicant store, records are lost on restart")
	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		if cfg.Database.Postgres.MigrateOnStart {
			if err := pg.Migrate(ctx); err != nil {
				zapLog.Fatal("schema migration failed", zap.Error(err))
			}
			zapLog.Info("Schema migrations applied")
		}

		store, ready = car.NewPostgresStore(pg.DB), pg
	}

	errHandler := apperrors.NewErrorHandler(log)

	// --- Submission throttle ---
	var limiter *crs.Limiter
	if cfg.Intake.RateLimit.Enabled {
		rc := database.NewRedis(cfg.Database.Redis)
		defer rc.Close()
		if err := retryWithBackoff(func() error {
			return rc.Ping(ctx)
		}, 3, time.Second, zapLog, "Redis connection"); err != nil {
			zapLog.Warn("redis unreachable, throttle will let requests through until it recovers", zap.Error(err))
		}
		proxies, err := crs.ParseTrustedProxies(cfg.Server.TrustedProxies)
		if err != nil {
			zapLog.Fatal("Invalid trusted proxies", zap.Error(err))
		}
		limiter = crs.NewLimiter(&crs.Config{
			Limit:          cfg.Intake.RateLimit.Limit,
			Window:         config.GetDuration(cfg.Intake.RateLimit.Window),
			Block:          config.GetDuration(cfg.Intake.RateLimit.Block),
			KeyPrefix:      cfg.Intake.RateLimit.KeyPrefix,
			TrustedProxies: proxies,
		}, rc.Client, log)
		zapLog.Info("Submission throttle enabled", zap.Int("limit", cfg.Intake.RateLimit.Limit))
	}

	// --- Acknowledgement notifier ---
	var (
		notifier      sa.Notifier
		notifyHandler *sn.Handler
	)
	emailOn := cfg.Notifications.Email.Enabled
	alertsOn := cfg.Notifications.Alerts.Enabled
	if emailOn || alertsOn {
		awsCfg, err := awsclients.LoadConfig(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		var (
			sesSvc sn.SESService
			snsSvc sn.SNSService
		)
		if emailOn {
			sesSvc = awsclients.NewSESClient(awsCfg)
		}
		if alertsOn {
			snsSvc = awsclients.NewSNSClient(awsCfg)
		}
		notifyHandler = sn.NewHandler(&sn.Config{
			EmailEnabled:  emailOn,
			AlertsEnabled: alertsOn,
			FromEmail:     cfg.Notifications.Email.FromEmail,
			ReplyTo:       cfg.Notifications.Email.ReplyTo,
			TopicARN:      cfg.Notifications.Alerts.TopicARN,
			Timeout:       config.GetDuration(cfg.Intake.NotifyTimeout),
		}, sesSvc, snsSvc, log)
		notifier = notifyHandler
		zapLog.Info("Notifier enabled", zap.Bool("email", emailOn), zap.Bool("alerts", alertsOn))
	}

	// --- Intake pipeline ---
	submitCfg := &sa.Config{
		Timeout:      config.GetDuration(cfg.Intake.SubmitTimeout),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}
	service := sa.NewService(
		submitCfg,
		vad.NewHandler(vad.LoadConfig(), reg, log),
		car.NewHandler(car.LoadConfig(), store, log),
		notifier,
		obs,
		log,
	)

	router := api.NewRouter(api.Dependencies{
		Submit:         sa.NewHandler(submitCfg, service, errHandler),
		Registry:       reg,
		Limiter:        limiter,
		Store:          ready,
		Metrics:        promhttp.Handler(),
		ErrHandler:     errHandler,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadTimeout:       config.GetDuration(cfg.Server.ReadTimeout),
		ReadHeaderTimeout: config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:      config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("Intake server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("intake server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if notifyHandler != nil {
		notifyHandler.Wait()
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down meter provider", zap.Error(err))
	}

	zapLog.Info("Intake server stopped gracefully")
}
