package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryMetrics(t *testing.T) {
	t.Run("counters accumulate", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricOutboxPublished, 1)
		m.Counter(MetricOutboxPublished, 2)

		assert.Equal(t, int64(3), m.GetCounter(MetricOutboxPublished))
	})

	t.Run("tags separate series", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricOccurrencesCompleted, 1, T("source", "single"))
		m.Counter(MetricOccurrencesCompleted, 5, T("source", "bulk"))

		assert.Equal(t, int64(1), m.GetCounter(MetricOccurrencesCompleted, T("source", "single")))
		assert.Equal(t, int64(5), m.GetCounter(MetricOccurrencesCompleted, T("source", "bulk")))
	})

	t.Run("gauges overwrite", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge("queue.depth", 10)
		m.Gauge("queue.depth", 3)

		assert.Equal(t, 3.0, m.GetGauge("queue.depth"))
	})

	t.Run("timings append", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Timing("op.duration", 10*time.Millisecond)
		m.Timing("op.duration", 20*time.Millisecond)

		assert.Len(t, m.GetTimings("op.duration"), 2)
	})

	t.Run("reset clears everything", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter("c", 1)
		m.Gauge("g", 1)

		m.Reset()

		assert.Equal(t, int64(0), m.GetCounter("c"))
		assert.Equal(t, 0.0, m.GetGauge("g"))
	})
}

func TestHealthRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates to healthy", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(func(ctx context.Context) error { return nil }))
		r.Register("redis", RedisHealthChecker(func(ctx context.Context) error { return nil }))

		health := r.GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusHealthy, health.Status)
		assert.Len(t, health.Checks, 2)
	})

	t.Run("failed redis degrades", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(func(ctx context.Context) error { return nil }))
		r.Register("redis", RedisHealthChecker(func(ctx context.Context) error { return errors.New("refused") }))

		health := r.GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusDegraded, health.Status)
	})

	t.Run("failed database is unhealthy even with degraded peers", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(func(ctx context.Context) error { return errors.New("down") }))
		r.Register("rabbitmq", RabbitMQHealthChecker(func(ctx context.Context) error { return errors.New("down") }))

		health := r.GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusUnhealthy, health.Status)
	})

	t.Run("serializes to JSON", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(func(ctx context.Context) error { return nil }))

		payload, err := r.GetOverallHealth(ctx).ToJSON()

		assert.NoError(t, err)
		assert.Contains(t, string(payload), `"status":"healthy"`)
	})
}
