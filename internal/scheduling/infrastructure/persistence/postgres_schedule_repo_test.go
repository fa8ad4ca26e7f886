package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	"github.com/cadencelabs/cadence/internal/scheduling/infrastructure/persistence"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Skipf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Failed to ping test database: %v", err)
	}

	_, _ = pool.Exec(ctx, "DELETE FROM schedule_completions")
	_, _ = pool.Exec(ctx, "DELETE FROM missed_schedules")
	_, _ = pool.Exec(ctx, "DELETE FROM schedules")

	return pool
}

func mustParseDay(t *testing.T, s string) sharedDomain.Day {
	t.Helper()
	d, err := sharedDomain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func newWeeklySchedule(t *testing.T, userID uuid.UUID) *domain.Schedule {
	t.Helper()
	until := mustParseDay(t, "2024-06-30")
	s, err := domain.NewSchedule(
		userID, uuid.New(),
		mustParseDay(t, "2024-01-01"),
		domain.ClockTime(9*60), domain.ClockTime(10*60),
		domain.RecurrenceWeekly, &until, []int{1, 3, 5}, "standup",
	)
	require.NoError(t, err)
	return s
}

func TestPostgresScheduleRepository_SaveAndFind(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	repo := persistence.NewPostgresScheduleRepository(pool)
	userID := uuid.New()

	schedule := newWeeklySchedule(t, userID)
	require.NoError(t, repo.Save(ctx, schedule))

	t.Run("round-trips the definition", func(t *testing.T) {
		found, err := repo.FindByID(ctx, schedule.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, schedule.UserID(), found.UserID())
		assert.Equal(t, "2024-01-01", found.ScheduleDate().String())
		assert.Equal(t, domain.RecurrenceWeekly, found.Recurrence())
		assert.Equal(t, []int{1, 3, 5}, found.RepeatOnDays())
		require.NotNil(t, found.RepeatUntil())
		assert.Equal(t, "2024-06-30", found.RepeatUntil().String())
		assert.Equal(t, "standup", found.Notes())
	})

	t.Run("returns nil for an unknown id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("FindByIDs filters by owner", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, uuid.New(), []uuid.UUID{schedule.ID()})
		require.NoError(t, err)
		assert.Empty(t, found)

		found, err = repo.FindByIDs(ctx, userID, []uuid.UUID{schedule.ID(), uuid.New()})
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("FindCandidatesOn respects the window", func(t *testing.T) {
		inside, err := repo.FindCandidatesOn(ctx, mustParseDay(t, "2024-03-15"))
		require.NoError(t, err)
		assert.Len(t, inside, 1)

		after, err := repo.FindCandidatesOn(ctx, mustParseDay(t, "2024-07-01"))
		require.NoError(t, err)
		assert.Empty(t, after)
	})

	t.Run("Delete removes the schedule", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, schedule.ID()))
		assert.ErrorIs(t, repo.Delete(ctx, schedule.ID()), domain.ErrScheduleNotFound)
	})
}

func TestPostgresCompletionRepository_Ledger(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	scheduleRepo := persistence.NewPostgresScheduleRepository(pool)
	repo := persistence.NewPostgresCompletionRepository(pool)
	userID := uuid.New()

	schedule := newWeeklySchedule(t, userID)
	require.NoError(t, scheduleRepo.Save(ctx, schedule))
	day := mustParseDay(t, "2024-01-03")

	t.Run("duplicate insert surfaces ErrAlreadyCompleted", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, domain.NewCompletion(schedule.ID(), userID, day)))
		err := repo.Add(ctx, domain.NewCompletion(schedule.ID(), userID, day))
		assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	})

	t.Run("AddBatch ignores existing rows", func(t *testing.T) {
		other := mustParseDay(t, "2024-01-05")
		inserted, err := repo.AddBatch(ctx, []*domain.Completion{
			domain.NewCompletion(schedule.ID(), userID, day),
			domain.NewCompletion(schedule.ID(), userID, other),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, inserted)
	})

	t.Run("range and day lookups agree", func(t *testing.T) {
		found, err := repo.FindInRange(ctx, userID, mustParseDay(t, "2024-01-01"), mustParseDay(t, "2024-01-31"))
		require.NoError(t, err)
		assert.Len(t, found, 2)

		ids, err := repo.FindScheduleIDsCompletedOn(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{schedule.ID()}, ids)
	})

	t.Run("Remove deletes exactly one day", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, userID, schedule.ID(), day))
		assert.ErrorIs(t, repo.Remove(ctx, userID, schedule.ID(), day), domain.ErrCompletionNotFound)

		found, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})
}

func TestPostgresMissedRepository_Ledger(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	scheduleRepo := persistence.NewPostgresScheduleRepository(pool)
	repo := persistence.NewPostgresMissedRepository(pool)
	userID := uuid.New()

	schedule := newWeeklySchedule(t, userID)
	require.NoError(t, scheduleRepo.Save(ctx, schedule))
	day := mustParseDay(t, "2024-01-08")

	t.Run("AddBatch is idempotent", func(t *testing.T) {
		first, err := repo.AddBatch(ctx, []*domain.MissedOccurrence{
			domain.NewMissedOccurrence(schedule.ID(), userID, day),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, first)

		second, err := repo.AddBatch(ctx, []*domain.MissedOccurrence{
			domain.NewMissedOccurrence(schedule.ID(), userID, day),
		})
		require.NoError(t, err)
		assert.Zero(t, second)
	})

	t.Run("Remove tolerates absent rows", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, []uuid.UUID{schedule.ID()}, day))
		require.NoError(t, repo.Remove(ctx, []uuid.UUID{schedule.ID()}, day))

		ids, err := repo.FindScheduleIDsMissedOn(ctx, day)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("FindInRange scopes to the user", func(t *testing.T) {
		_, err := repo.AddBatch(ctx, []*domain.MissedOccurrence{
			domain.NewMissedOccurrence(schedule.ID(), userID, mustParseDay(t, "2024-01-10")),
		})
		require.NoError(t, err)

		found, err := repo.FindInRange(ctx, userID, mustParseDay(t, "2024-01-01"), mustParseDay(t, "2024-01-31"))
		require.NoError(t, err)
		assert.Len(t, found, 1)
		assert.WithinDuration(t, time.Now(), found[0].MissedAt(), time.Minute)

		foreign, err := repo.FindInRange(ctx, uuid.New(), mustParseDay(t, "2024-01-01"), mustParseDay(t, "2024-01-31"))
		require.NoError(t, err)
		assert.Empty(t, foreign)
	})
}
