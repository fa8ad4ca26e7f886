package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (p *capturePublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, routingKey)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type testEvent struct {
	domain.BaseEvent
}

func newTestEvent() *testEvent {
	return &testEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "Schedule", "scheduling.occurrence.completed")}
}

func stageMessage(t *testing.T, repo Repository) *Message {
	t.Helper()
	msg, err := NewMessage(newTestEvent())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), msg))
	return msg
}

func TestProcessorProcessOnce(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("publishes staged messages and marks them", func(t *testing.T) {
		repo := NewInMemoryRepository()
		msg := stageMessage(t, repo)
		pub := &capturePublisher{}
		p := NewProcessor(repo, pub, DefaultProcessorConfig(), logger)

		require.NoError(t, p.ProcessOnce(context.Background()))

		assert.Equal(t, []string{"scheduling.occurrence.completed"}, pub.published)
		assert.True(t, msg.IsPublished())
		remaining, err := repo.GetUnpublished(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("records failures and keeps message for retry", func(t *testing.T) {
		repo := NewInMemoryRepository()
		msg := stageMessage(t, repo)
		pub := &capturePublisher{err: errors.New("broker down")}
		p := NewProcessor(repo, pub, DefaultProcessorConfig(), logger)

		require.NoError(t, p.ProcessOnce(context.Background()))

		assert.False(t, msg.IsPublished())
		assert.Equal(t, 1, msg.RetryCount)
		require.NotNil(t, msg.LastError)
		assert.Equal(t, "broker down", *msg.LastError)
	})

	t.Run("counts published and failed messages", func(t *testing.T) {
		repo := NewInMemoryRepository()
		stageMessage(t, repo)
		metrics := observability.NewInMemoryMetrics()
		p := NewProcessor(repo, &capturePublisher{}, DefaultProcessorConfig(), logger).WithMetrics(metrics)

		require.NoError(t, p.ProcessOnce(context.Background()))
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOutboxPublished))

		stageMessage(t, repo)
		p.publisher = &capturePublisher{err: errors.New("broker down")}
		require.NoError(t, p.ProcessOnce(context.Background()))
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOutboxFailed))
	})

	t.Run("skips messages past the retry budget", func(t *testing.T) {
		repo := NewInMemoryRepository()
		msg := stageMessage(t, repo)
		msg.RetryCount = DefaultProcessorConfig().MaxRetries
		pub := &capturePublisher{}
		p := NewProcessor(repo, pub, DefaultProcessorConfig(), logger)

		require.NoError(t, p.ProcessOnce(context.Background()))

		assert.Empty(t, pub.published)
		assert.False(t, msg.IsPublished())
	})
}

func TestProcessorLifecycle(t *testing.T) {
	repo := NewInMemoryRepository()
	p := NewProcessor(repo, &capturePublisher{}, DefaultProcessorConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, p.Start(context.Background()))
	assert.True(t, p.IsRunning())

	// Starting twice is a no-op.
	require.NoError(t, p.Start(context.Background()))

	p.Stop()
	assert.False(t, p.IsRunning())
	p.Stop()
}

func TestNewMessage(t *testing.T) {
	event := newTestEvent()

	msg, err := NewMessage(event)

	require.NoError(t, err)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, "Schedule", msg.AggregateType)
	assert.Equal(t, event.AggregateID(), msg.AggregateID)
	assert.Equal(t, "scheduling.occurrence.completed", msg.RoutingKey)
	assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
	assert.NotEmpty(t, msg.Payload)
	assert.False(t, msg.IsPublished())
	assert.True(t, msg.CanRetry(1))
}
