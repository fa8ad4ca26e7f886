package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/cadencelabs/cadence/internal/insights/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/pkg/observability"
)

// StatsSource computes daily stats. Satisfied by the stats aggregator.
type StatsSource interface {
	BuildDailyStatsMap(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) (domain.StatsMap, error)
}

// StatsCacheConfig configures the cache TTL and the circuit breaker that
// guards the store.
type StatsCacheConfig struct {
	// TTL bounds staleness after ledger writes.
	TTL time.Duration

	// MaxRequests allowed through in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the consecutive failures that trip the breaker.
	FailureThreshold uint32
}

// DefaultStatsCacheConfig returns a sensible default configuration.
func DefaultStatsCacheConfig() StatsCacheConfig {
	return StatsCacheConfig{
		TTL:              2 * time.Minute,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// StatsCache decorates a StatsSource with a read-through cache. A tripped
// or failing store never fails a read: the cache falls back to computing
// from the source.
type StatsCache struct {
	source  StatsSource
	store   Store
	breaker *gobreaker.CircuitBreaker[[]byte]
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(source StatsSource, store Store, config StatsCacheConfig, logger *slog.Logger) *StatsCache {
	settings := gobreaker.Settings{
		Name:        "insights-stats-cache",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			// A miss is a normal outcome, not a store failure.
			return err == nil || err == ErrCacheMiss
		},
	}

	return &StatsCache{
		source:  source,
		store:   store,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		ttl:     config.TTL,
		logger:  logger,
		metrics: observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics collector.
func (c *StatsCache) WithMetrics(metrics observability.Metrics) *StatsCache {
	c.metrics = metrics
	return c
}

// BuildDailyStatsMap implements the same contract as the aggregator,
// serving from the cache when it can.
func (c *StatsCache) BuildDailyStatsMap(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) (domain.StatsMap, error) {
	key := statsKey(userID, from, to)

	payload, err := c.breaker.Execute(func() ([]byte, error) {
		return c.store.Get(ctx, key)
	})
	if err == nil {
		var stats domain.StatsMap
		if jsonErr := json.Unmarshal(payload, &stats); jsonErr == nil {
			c.metrics.Counter(observability.MetricStatsCacheHits, 1)
			return stats, nil
		}
		c.logger.Warn("discarding unreadable cache entry", "key", key)
	} else if err != ErrCacheMiss {
		c.logger.Warn("stats cache read failed", "key", key, "error", err)
	}
	c.metrics.Counter(observability.MetricStatsCacheMisses, 1)

	stats, err := c.source.BuildDailyStatsMap(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	payload, err = json.Marshal(stats)
	if err != nil {
		return stats, nil
	}
	if _, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.store.Set(ctx, key, payload, c.ttl)
	}); err != nil {
		c.logger.Warn("stats cache write failed", "key", key, "error", err)
	}

	return stats, nil
}

func statsKey(userID uuid.UUID, from, to sharedDomain.Day) string {
	return fmt.Sprintf("insights:stats:%s:%s:%s", userID, from, to)
}
