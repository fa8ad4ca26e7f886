package app

import (
	"context"
	"fmt"
	"log/slog"

	insightsQueries "github.com/cadencelabs/cadence/internal/insights/application/queries"
	insightsServices "github.com/cadencelabs/cadence/internal/insights/application/services"
	"github.com/cadencelabs/cadence/internal/insights/infrastructure/cache"
	scheduleCommands "github.com/cadencelabs/cadence/internal/scheduling/application/commands"
	scheduleQueries "github.com/cadencelabs/cadence/internal/scheduling/application/queries"
	scheduleServices "github.com/cadencelabs/cadence/internal/scheduling/application/services"
	schedulingDomain "github.com/cadencelabs/cadence/internal/scheduling/domain"
	schedulePersistence "github.com/cadencelabs/cadence/internal/scheduling/infrastructure/persistence"
	sharedApplication "github.com/cadencelabs/cadence/internal/shared/application"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/database"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/eventbus"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/migrations"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/cadencelabs/cadence/internal/shared/infrastructure/persistence"
	taskCommands "github.com/cadencelabs/cadence/internal/tasks/application/commands"
	tasksDomain "github.com/cadencelabs/cadence/internal/tasks/domain"
	taskPersistence "github.com/cadencelabs/cadence/internal/tasks/infrastructure/persistence"
	wellnessCommands "github.com/cadencelabs/cadence/internal/wellness/application/commands"
	wellnessQueries "github.com/cadencelabs/cadence/internal/wellness/application/queries"
	wellnessDomain "github.com/cadencelabs/cadence/internal/wellness/domain"
	wellnessPersistence "github.com/cadencelabs/cadence/internal/wellness/infrastructure/persistence"
	"github.com/cadencelabs/cadence/pkg/config"
	"github.com/cadencelabs/cadence/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// Infrastructure
	DB          *pgxpool.Pool
	RedisClient *redis.Client

	// Repositories
	ScheduleRepo       schedulingDomain.ScheduleRepository
	CompletionRepo     schedulingDomain.CompletionRepository
	MissedRepo         schedulingDomain.MissedRepository
	TaskRepo           tasksDomain.TaskRepository
	TaskCompletionRepo tasksDomain.TaskCompletionRepository
	BehaviorRepo       wellnessDomain.BehaviorLogRepository
	OutboxRepo         outbox.Repository

	// Publishers
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Scheduling
	CreateScheduleHandler     *scheduleCommands.CreateScheduleHandler
	CompleteOccurrenceHandler *scheduleCommands.CompleteOccurrenceHandler
	CompleteBulkHandler       *scheduleCommands.CompleteBulkHandler
	UndoCompletionHandler     *scheduleCommands.UndoCompletionHandler
	CompletionHistoryHandler  *scheduleQueries.CompletionHistoryHandler
	MissedMarker              *scheduleServices.MissedMarker
	MarkerRunner              *scheduleServices.MarkerRunner

	// Tasks
	CompleteTaskHandler       *taskCommands.CompleteTaskHandler
	CompleteTasksBulkHandler  *taskCommands.CompleteTasksBulkHandler
	UndoTaskCompletionHandler *taskCommands.UndoTaskCompletionHandler

	// Wellness
	LogBehaviorHandler     *wellnessCommands.LogBehaviorHandler
	GetBehaviorHandler     *wellnessQueries.GetBehaviorHandler
	BehaviorSummaryHandler *wellnessQueries.BehaviorSummaryHandler

	// Insights
	StatsAggregator    *insightsServices.StatsAggregator
	StreakEngine       *insightsServices.StreakEngine
	ProductivityScorer *insightsServices.ProductivityScorer
	StatsCache         *cache.StatsCache
	DashboardHandler   *insightsQueries.DashboardHandler
	GetStreaksHandler  *insightsQueries.GetStreaksHandler

	// Outbox Processor
	OutboxProcessor *outbox.Processor

	// Health
	Health *observability.HealthRegistry
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	// Connect to PostgreSQL
	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = pool
	logger.Info("connected to database")

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c.Health.Register("database", observability.DatabaseHealthChecker(pool.Ping))

	// Connect to Redis (optional in development)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, stats cache will use in-memory fallback", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					pool.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, stats cache will use in-memory fallback", "error", err)
			} else {
				c.RedisClient = redisClient
				logger.Info("connected to Redis")
			}
		}
	}

	if c.RedisClient != nil {
		c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return c.RedisClient.Ping(ctx).Err()
		}))
	}

	// Create repositories
	c.ScheduleRepo = schedulePersistence.NewPostgresScheduleRepository(pool)
	c.CompletionRepo = schedulePersistence.NewPostgresCompletionRepository(pool)
	c.MissedRepo = schedulePersistence.NewPostgresMissedRepository(pool)
	c.TaskRepo = taskPersistence.NewPostgresTaskRepository(pool)
	c.TaskCompletionRepo = taskPersistence.NewPostgresTaskCompletionRepository(pool)
	c.BehaviorRepo = wellnessPersistence.NewPostgresBehaviorLogRepository(pool)
	c.OutboxRepo = outbox.NewPostgresRepository(pool)
	c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	// Create event publisher
	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		// Fall back to noop publisher in development
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	} else {
		c.EventPublisher = publisher
		c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
	}

	// Create scheduling command handlers
	c.CreateScheduleHandler = scheduleCommands.NewCreateScheduleHandler(c.ScheduleRepo, c.UnitOfWork)
	c.CompleteOccurrenceHandler = scheduleCommands.NewCompleteOccurrenceHandler(c.ScheduleRepo, c.CompletionRepo, c.MissedRepo, c.OutboxRepo, c.UnitOfWork)
	c.CompleteBulkHandler = scheduleCommands.NewCompleteBulkHandler(c.ScheduleRepo, c.CompletionRepo, c.MissedRepo, c.OutboxRepo, c.UnitOfWork)
	c.UndoCompletionHandler = scheduleCommands.NewUndoCompletionHandler(c.CompletionRepo, c.OutboxRepo, c.UnitOfWork)

	// Create scheduling query handlers
	c.CompletionHistoryHandler = scheduleQueries.NewCompletionHistoryHandler(c.CompletionRepo, c.MissedRepo)

	// Create the missed marker and its cron runner
	c.MissedMarker = scheduleServices.NewMissedMarker(c.ScheduleRepo, c.CompletionRepo, c.MissedRepo, c.OutboxRepo, c.UnitOfWork, logger)
	runner, err := scheduleServices.NewMarkerRunner(c.MissedMarker, cfg.MarkerSchedule, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("invalid marker schedule %q: %w", cfg.MarkerSchedule, err)
	}
	c.MarkerRunner = runner

	// Create task command handlers
	c.CompleteTaskHandler = taskCommands.NewCompleteTaskHandler(c.TaskRepo, c.TaskCompletionRepo, c.OutboxRepo, c.UnitOfWork)
	c.CompleteTasksBulkHandler = taskCommands.NewCompleteTasksBulkHandler(c.TaskRepo, c.TaskCompletionRepo, c.OutboxRepo, c.UnitOfWork)
	c.UndoTaskCompletionHandler = taskCommands.NewUndoTaskCompletionHandler(c.TaskCompletionRepo, c.OutboxRepo, c.UnitOfWork)

	// Create wellness handlers
	c.LogBehaviorHandler = wellnessCommands.NewLogBehaviorHandler(c.BehaviorRepo, c.OutboxRepo, c.UnitOfWork)

	// Create insights services
	c.StatsAggregator = insightsServices.NewStatsAggregator(c.ScheduleRepo, c.CompletionRepo, c.MissedRepo, c.TaskRepo, c.TaskCompletionRepo, logger)
	c.StreakEngine = insightsServices.NewStreakEngine(c.ScheduleRepo, c.CompletionRepo, c.MissedRepo, c.TaskRepo, c.TaskCompletionRepo, logger)
	c.ProductivityScorer = insightsServices.NewProductivityScorer(c.StatsAggregator, c.BehaviorRepo, logger)

	// Wellness queries read day scores from the productivity scorer
	c.GetBehaviorHandler = wellnessQueries.NewGetBehaviorHandler(c.BehaviorRepo, c.ProductivityScorer)
	c.BehaviorSummaryHandler = wellnessQueries.NewBehaviorSummaryHandler(c.BehaviorRepo, c.ProductivityScorer)

	// The stats cache fronts the aggregator for read-heavy dashboard
	// queries. Without Redis it degrades to an in-process store.
	var statsStore cache.Store
	if c.RedisClient != nil {
		statsStore = cache.NewRedisStore(c.RedisClient)
	} else {
		statsStore = cache.NewInMemoryStore()
	}
	cacheConfig := cache.DefaultStatsCacheConfig()
	if cfg.StatsCacheTTL > 0 {
		cacheConfig.TTL = cfg.StatsCacheTTL
	}
	c.StatsCache = cache.NewStatsCache(c.StatsAggregator, statsStore, cacheConfig, logger).
		WithMetrics(c.Metrics)

	// Create insights query handlers
	c.DashboardHandler = insightsQueries.NewDashboardHandler(c.ScheduleRepo, c.CompletionRepo, c.MissedRepo, c.TaskRepo, c.TaskCompletionRepo, c.StatsCache, c.ProductivityScorer)
	c.GetStreaksHandler = insightsQueries.NewGetStreaksHandler(c.StreakEngine)

	// Create outbox processor
	processorConfig := outbox.ProcessorConfig{
		PollInterval:  cfg.OutboxPollInterval,
		BatchSize:     cfg.OutboxBatchSize,
		MaxRetries:    cfg.OutboxMaxRetries,
		RetentionDays: cfg.OutboxRetentionDays,
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, logger).
		WithMetrics(c.Metrics)

	return c, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.MarkerRunner != nil {
		c.MarkerRunner.Stop()
	}

	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}
}
