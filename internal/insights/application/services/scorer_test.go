package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schedulingDomain "github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	wellnessDomain "github.com/cadencelabs/cadence/internal/wellness/domain"
)

type scorerFixture struct {
	*aggregatorFixture
	behaviorRepo *fakeBehaviorRepo
	scorer       *ProductivityScorer
}

func newScorerFixture() *scorerFixture {
	f := &scorerFixture{
		aggregatorFixture: newAggregatorFixture(),
		behaviorRepo:      newFakeBehaviorRepo(),
	}
	f.scorer = NewProductivityScorer(f.aggregator, f.behaviorRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func (f *scorerFixture) logBehavior(t *testing.T, userID uuid.UUID, day sharedDomain.Day, sleepHours *float64, exercise bool) {
	t.Helper()
	log, err := wellnessDomain.NewBehaviorLog(userID, day, wellnessDomain.MoodOkay, sleepHours, exercise, "")
	require.NoError(t, err)
	require.NoError(t, f.behaviorRepo.Save(context.Background(), log))
}

func TestProductivityScorer_ScoresInRange(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	today := sharedDomain.Today()
	yesterday := today.AddDays(-1)

	t.Run("behavior log modifies the completion score", func(t *testing.T) {
		f := newScorerFixture()
		s1 := newDailySchedule(t, userID, today.AddDays(-30), today.AddDays(30))
		s2 := newDailySchedule(t, userID, today.AddDays(-30), today.AddDays(30))
		f.scheduleRepo.schedules = []*schedulingDomain.Schedule{s1, s2}

		err := f.completionRepo.Add(ctx, schedulingDomain.NewCompletion(s1.ID(), userID, today))
		require.NoError(t, err)

		sleep := 4.0
		f.logBehavior(t, userID, today, &sleep, true)

		scores, err := f.scorer.ScoresInRange(ctx, userID, today, today)
		require.NoError(t, err)

		// base 50, -5 short sleep, +3 exercise
		assert.Equal(t, 48, scores[today.String()])
	})

	t.Run("days without a behavior log score on stats alone", func(t *testing.T) {
		f := newScorerFixture()
		s := newDailySchedule(t, userID, today.AddDays(-30), today.AddDays(30))
		f.scheduleRepo.schedules = []*schedulingDomain.Schedule{s}

		err := f.completionRepo.Add(ctx, schedulingDomain.NewCompletion(s.ID(), userID, yesterday))
		require.NoError(t, err)

		scores, err := f.scorer.ScoresInRange(ctx, userID, yesterday, today)
		require.NoError(t, err)

		require.Len(t, scores, 2)
		assert.Equal(t, 100, scores[yesterday.String()])
		assert.Equal(t, 0, scores[today.String()])
	})

	t.Run("missed penalty applies without a behavior log", func(t *testing.T) {
		f := newScorerFixture()
		s1 := newDailySchedule(t, userID, today.AddDays(-30), today.AddDays(30))
		s2 := newDailySchedule(t, userID, today.AddDays(-30), today.AddDays(30))
		f.scheduleRepo.schedules = []*schedulingDomain.Schedule{s1, s2}

		err := f.completionRepo.Add(ctx, schedulingDomain.NewCompletion(s1.ID(), userID, yesterday))
		require.NoError(t, err)
		_, err = f.missedRepo.AddBatch(ctx, []*schedulingDomain.MissedOccurrence{
			schedulingDomain.NewMissedOccurrence(s2.ID(), userID, yesterday),
		})
		require.NoError(t, err)

		score, err := f.scorer.DayScore(ctx, userID, yesterday)
		require.NoError(t, err)

		assert.Equal(t, 45, score)
	})
}

func TestProductivityScorer_ExplainDay(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	today := sharedDomain.Today()

	t.Run("breakdown reflects the day's log and ledgers", func(t *testing.T) {
		f := newScorerFixture()
		s1 := newDailySchedule(t, userID, today.AddDays(-30), today.AddDays(30))
		s2 := newDailySchedule(t, userID, today.AddDays(-30), today.AddDays(30))
		f.scheduleRepo.schedules = []*schedulingDomain.Schedule{s1, s2}

		err := f.completionRepo.Add(ctx, schedulingDomain.NewCompletion(s1.ID(), userID, today))
		require.NoError(t, err)

		sleep := 8.0
		f.logBehavior(t, userID, today, &sleep, true)

		breakdown, err := f.scorer.ExplainDay(ctx, userID, today)
		require.NoError(t, err)

		assert.Equal(t, 50, breakdown.BaseScore)
		assert.Equal(t, 53, breakdown.FinalScore)
		assert.Empty(t, breakdown.Penalties)
		require.Len(t, breakdown.Bonuses, 1)
		assert.Equal(t, "exercise", breakdown.Bonuses[0].Type)
	})

	t.Run("absent behavior log means no lifestyle factors", func(t *testing.T) {
		f := newScorerFixture()
		s := newDailySchedule(t, userID, today.AddDays(-30), today.AddDays(30))
		f.scheduleRepo.schedules = []*schedulingDomain.Schedule{s}

		err := f.completionRepo.Add(ctx, schedulingDomain.NewCompletion(s.ID(), userID, today))
		require.NoError(t, err)

		breakdown, err := f.scorer.ExplainDay(ctx, userID, today)
		require.NoError(t, err)

		assert.Equal(t, 100, breakdown.BaseScore)
		assert.Equal(t, 100, breakdown.FinalScore)
		assert.Empty(t, breakdown.Penalties)
		assert.Empty(t, breakdown.Bonuses)
	})
}
