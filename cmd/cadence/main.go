package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cadencelabs/cadence/adapter/cli"
	"github.com/cadencelabs/cadence/adapter/cli/schedule"
	"github.com/cadencelabs/cadence/adapter/cli/task"
	"github.com/cadencelabs/cadence/adapter/cli/wellness"
	"github.com/cadencelabs/cadence/internal/app"
	"github.com/cadencelabs/cadence/pkg/config"
	"github.com/cadencelabs/cadence/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
			// In development, allow CLI to run without database
			cliApp = nil
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		// Start outbox processor in background (optional in CLI)
		if cfg.OutboxProcessorEnabled {
			go func() {
				if err := container.OutboxProcessor.Start(ctx); err != nil {
					logger.Warn("outbox processor not started", "error", err)
				}
			}()
		} else {
			logger.Info("outbox processor disabled in CLI")
		}

		cliApp = cli.NewApp(
			container.CreateScheduleHandler,
			container.CompleteOccurrenceHandler,
			container.CompleteBulkHandler,
			container.UndoCompletionHandler,
			container.CompletionHistoryHandler,
			container.MissedMarker,
			container.CompleteTaskHandler,
			container.CompleteTasksBulkHandler,
			container.UndoTaskCompletionHandler,
			container.LogBehaviorHandler,
			container.GetBehaviorHandler,
			container.BehaviorSummaryHandler,
			container.DashboardHandler,
			container.GetStreaksHandler,
			container.ProductivityScorer,
		)

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid CADENCE_USER_ID", "error", err)
			os.Exit(1)
		}
		cliApp.SetCurrentUserID(userID)
	}

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(wellness.Cmd)

	// Execute CLI
	cli.Execute()
}
