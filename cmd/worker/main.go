package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	scheduleServices "github.com/cadencelabs/cadence/internal/scheduling/application/services"
	schedulePersistence "github.com/cadencelabs/cadence/internal/scheduling/infrastructure/persistence"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/database"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/eventbus"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/migrations"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/cadencelabs/cadence/internal/shared/infrastructure/persistence"
	"github.com/cadencelabs/cadence/pkg/config"
	"github.com/cadencelabs/cadence/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting cadence worker")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to database
	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	health := observability.NewHealthRegistry()
	health.Register("database", observability.DatabaseHealthChecker(pool.Ping))

	metrics := observability.NewInMemoryMetrics()

	// Create event publisher
	var publisher eventbus.Publisher
	rabbitPublisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			publisher = eventbus.NewNoopPublisher(logger)
		} else {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
	} else {
		publisher = rabbitPublisher
		defer rabbitPublisher.Close()
		health.Register("rabbitmq", observability.RabbitMQHealthChecker(rabbitPublisher.Ping))
	}
	logger.Info("event publisher initialized")

	// Create outbox processor
	processorConfig := outbox.ProcessorConfig{
		PollInterval:  cfg.OutboxPollInterval,
		BatchSize:     cfg.OutboxBatchSize,
		MaxRetries:    cfg.OutboxMaxRetries,
		RetentionDays: cfg.OutboxRetentionDays,
	}
	outboxRepo := outbox.NewPostgresRepository(pool)
	processor := outbox.NewProcessor(outboxRepo, publisher, processorConfig, logger).
		WithMetrics(metrics)

	logger.Info("starting outbox processor",
		"poll_interval", processorConfig.PollInterval,
		"batch_size", processorConfig.BatchSize,
		"max_retries", processorConfig.MaxRetries,
	)
	if err := processor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		os.Exit(1)
	}

	// Create the missed marker and start its cron runner
	marker := scheduleServices.NewMissedMarker(
		schedulePersistence.NewPostgresScheduleRepository(pool),
		schedulePersistence.NewPostgresCompletionRepository(pool),
		schedulePersistence.NewPostgresMissedRepository(pool),
		outboxRepo,
		sharedPersistence.NewPostgresUnitOfWork(pool),
		logger,
	)
	runner, err := scheduleServices.NewMarkerRunner(marker, cfg.MarkerSchedule, logger)
	if err != nil {
		logger.Error("invalid marker schedule", "schedule", cfg.MarkerSchedule, "error", err)
		os.Exit(1)
	}
	if err := runner.Start(); err != nil {
		logger.Error("failed to start marker runner", "error", err)
		os.Exit(1)
	}
	logger.Info("marker runner started", "schedule", cfg.MarkerSchedule)

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, cfg.WorkerHealthAddr, health, processor, logger)
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	runner.Stop()
	processor.Stop()
	logger.Info("worker stopped")
}

func startHealthServer(ctx context.Context, addr string, health *observability.HealthRegistry, processor *outbox.Processor, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		overall := health.GetOverallHealth(checkCtx)
		body, err := overall.ToJSON()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if overall.Status == observability.HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_, _ = w.Write(body)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !processor.IsRunning() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"not_ready"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	healthSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}
