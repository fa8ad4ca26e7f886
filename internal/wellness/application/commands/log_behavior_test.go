package commands

import (
	"context"
	"testing"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	"github.com/cadencelabs/cadence/internal/wellness/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBehaviorRepo struct {
	mock.Mock
}

func (m *mockBehaviorRepo) Save(ctx context.Context, log *domain.BehaviorLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *mockBehaviorRepo) FindByDate(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) (*domain.BehaviorLog, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BehaviorLog), args.Error(1)
}

func (m *mockBehaviorRepo) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.BehaviorLog, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BehaviorLog), args.Error(1)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	return m.Called(ctx, id, errMsg).Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *mockUnitOfWork) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

type txKeyType struct{}

func passthroughUoW(ctx context.Context) (*mockUnitOfWork, context.Context) {
	uow := new(mockUnitOfWork)
	txCtx := context.WithValue(ctx, txKeyType{}, "tx")
	uow.On("Begin", ctx).Return(txCtx, nil)
	uow.On("Commit", txCtx).Return(nil).Maybe()
	uow.On("Rollback", txCtx).Return(nil).Maybe()
	return uow, txCtx
}

func floatPtr(f float64) *float64 { return &f }

func TestLogBehaviorHandler_Handle(t *testing.T) {
	userID := uuid.New()
	today := sharedDomain.Today()

	t.Run("creates the day's first log", func(t *testing.T) {
		ctx := context.Background()
		uow, txCtx := passthroughUoW(ctx)
		repo := new(mockBehaviorRepo)
		outboxRepo := new(mockOutboxRepo)
		handler := NewLogBehaviorHandler(repo, outboxRepo, uow)

		repo.On("FindByDate", txCtx, userID, today).Return(nil, nil)
		repo.On("Save", txCtx, mock.AnythingOfType("*domain.BehaviorLog")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, LogBehaviorCommand{
			UserID:     userID,
			Mood:       domain.MoodGood,
			SleepHours: floatPtr(7),
			Exercise:   true,
		})

		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.True(t, today.Equal(result.Date))
		repo.AssertExpectations(t)
	})

	t.Run("updates an existing log in place", func(t *testing.T) {
		ctx := context.Background()
		uow, txCtx := passthroughUoW(ctx)
		repo := new(mockBehaviorRepo)
		outboxRepo := new(mockOutboxRepo)
		handler := NewLogBehaviorHandler(repo, outboxRepo, uow)

		existing, err := domain.NewBehaviorLog(userID, today, domain.MoodOkay, nil, false, "")
		require.NoError(t, err)
		existing.ClearDomainEvents()

		repo.On("FindByDate", txCtx, userID, today).Return(existing, nil)
		repo.On("Save", txCtx, existing).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		result, err := handler.Handle(ctx, LogBehaviorCommand{
			UserID: userID,
			Mood:   domain.MoodGreat,
		})

		require.NoError(t, err)
		assert.False(t, result.Created)
		assert.Equal(t, existing.ID(), result.LogID)
		assert.Equal(t, domain.MoodGreat, existing.Mood())
	})

	t.Run("rejects invalid input before saving", func(t *testing.T) {
		ctx := context.Background()
		uow, txCtx := passthroughUoW(ctx)
		repo := new(mockBehaviorRepo)
		handler := NewLogBehaviorHandler(repo, new(mockOutboxRepo), uow)

		repo.On("FindByDate", txCtx, userID, today).Return(nil, nil)

		_, err := handler.Handle(ctx, LogBehaviorCommand{UserID: userID})

		assert.ErrorIs(t, err, domain.ErrMoodRequired)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		uow.AssertCalled(t, "Rollback", txCtx)
	})

	t.Run("rejects future dates", func(t *testing.T) {
		ctx := context.Background()
		uow, txCtx := passthroughUoW(ctx)
		repo := new(mockBehaviorRepo)
		handler := NewLogBehaviorHandler(repo, new(mockOutboxRepo), uow)

		tomorrow := today.AddDays(1)
		repo.On("FindByDate", txCtx, userID, tomorrow).Return(nil, nil)

		_, err := handler.Handle(ctx, LogBehaviorCommand{
			UserID: userID,
			Mood:   domain.MoodGood,
			Date:   tomorrow.Time(),
		})

		assert.ErrorIs(t, err, domain.ErrFutureDate)
	})
}
