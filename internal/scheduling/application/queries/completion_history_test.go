package queries

import (
	"context"
	"testing"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCompletionReader struct {
	mock.Mock
}

func (m *mockCompletionReader) Add(ctx context.Context, c *domain.Completion) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCompletionReader) AddBatch(ctx context.Context, cs []*domain.Completion) (int, error) {
	args := m.Called(ctx, cs)
	return args.Int(0), args.Error(1)
}

func (m *mockCompletionReader) Remove(ctx context.Context, userID, scheduleID uuid.UUID, day sharedDomain.Day) error {
	return m.Called(ctx, userID, scheduleID, day).Error(0)
}

func (m *mockCompletionReader) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.Completion, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Completion), args.Error(1)
}

func (m *mockCompletionReader) FindScheduleIDsCompletedOn(ctx context.Context, day sharedDomain.Day) ([]uuid.UUID, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockCompletionReader) FindScheduleIDsForDay(ctx context.Context, ids []uuid.UUID, day sharedDomain.Day) ([]uuid.UUID, error) {
	args := m.Called(ctx, ids, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockCompletionReader) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Completion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Completion), args.Error(1)
}

type mockMissedReader struct {
	mock.Mock
}

func (m *mockMissedReader) AddBatch(ctx context.Context, ms []*domain.MissedOccurrence) (int, error) {
	args := m.Called(ctx, ms)
	return args.Int(0), args.Error(1)
}

func (m *mockMissedReader) Remove(ctx context.Context, ids []uuid.UUID, day sharedDomain.Day) error {
	return m.Called(ctx, ids, day).Error(0)
}

func (m *mockMissedReader) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.MissedOccurrence, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MissedOccurrence), args.Error(1)
}

func (m *mockMissedReader) FindScheduleIDsMissedOn(ctx context.Context, day sharedDomain.Day) ([]uuid.UUID, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockMissedReader) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.MissedOccurrence, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MissedOccurrence), args.Error(1)
}

func day(t *testing.T, s string) sharedDomain.Day {
	t.Helper()
	d, err := sharedDomain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestCompletionHistoryHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("merges both ledgers newest first", func(t *testing.T) {
		completionRepo := new(mockCompletionReader)
		missedRepo := new(mockMissedReader)
		handler := NewCompletionHistoryHandler(completionRepo, missedRepo)

		older := domain.RehydrateCompletion(uuid.New(), uuid.New(), userID, day(t, "2024-03-08"),
			time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC))
		newest := domain.RehydrateCompletion(uuid.New(), uuid.New(), userID, day(t, "2024-03-10"),
			time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
		miss := domain.RehydrateMissedOccurrence(uuid.New(), uuid.New(), userID, day(t, "2024-03-09"),
			time.Date(2024, 3, 10, 0, 5, 0, 0, time.UTC))

		completionRepo.On("FindByUser", ctx, userID).Return([]*domain.Completion{older, newest}, nil)
		missedRepo.On("FindByUser", ctx, userID).Return([]*domain.MissedOccurrence{miss}, nil)

		entries, err := handler.Handle(ctx, CompletionHistoryQuery{UserID: userID})

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, HistoryCompleted, entries[0].Status)
		assert.Equal(t, "2024-03-10", entries[0].Date)
		assert.Equal(t, HistoryMissed, entries[1].Status)
		assert.Equal(t, "2024-03-09", entries[1].Date)
		assert.Equal(t, "2024-03-08", entries[2].Date)
	})

	t.Run("applies the limit after merging", func(t *testing.T) {
		completionRepo := new(mockCompletionReader)
		missedRepo := new(mockMissedReader)
		handler := NewCompletionHistoryHandler(completionRepo, missedRepo)

		c := domain.RehydrateCompletion(uuid.New(), uuid.New(), userID, day(t, "2024-03-10"),
			time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC))
		miss := domain.RehydrateMissedOccurrence(uuid.New(), uuid.New(), userID, day(t, "2024-03-09"),
			time.Date(2024, 3, 10, 0, 5, 0, 0, time.UTC))

		completionRepo.On("FindByUser", ctx, userID).Return([]*domain.Completion{c}, nil)
		missedRepo.On("FindByUser", ctx, userID).Return([]*domain.MissedOccurrence{miss}, nil)

		entries, err := handler.Handle(ctx, CompletionHistoryQuery{UserID: userID, Limit: 1})

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, HistoryCompleted, entries[0].Status)
	})

	t.Run("empty ledgers yield an empty list", func(t *testing.T) {
		completionRepo := new(mockCompletionReader)
		missedRepo := new(mockMissedReader)
		handler := NewCompletionHistoryHandler(completionRepo, missedRepo)

		completionRepo.On("FindByUser", ctx, userID).Return([]*domain.Completion{}, nil)
		missedRepo.On("FindByUser", ctx, userID).Return([]*domain.MissedOccurrence{}, nil)

		entries, err := handler.Handle(ctx, CompletionHistoryQuery{UserID: userID})

		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
