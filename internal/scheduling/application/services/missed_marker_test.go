package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduleRepo struct {
	schedules []*domain.Schedule
}

func (f *fakeScheduleRepo) Save(ctx context.Context, s *domain.Schedule) error { return nil }
func (f *fakeScheduleRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	for _, s := range f.schedules {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, nil
}
func (f *fakeScheduleRepo) FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Schedule, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*domain.Schedule
	for _, s := range f.schedules {
		if want[s.ID()] && s.UserID() == userID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeScheduleRepo) FindWindowIntersecting(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	for _, s := range f.schedules {
		if s.UserID() != userID {
			continue
		}
		if s.ScheduleDate().After(to) {
			continue
		}
		if s.RepeatUntil() != nil && s.RepeatUntil().Before(from) {
			continue
		}
		if s.Recurrence() == domain.RecurrenceNone && s.ScheduleDate().Before(from) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
func (f *fakeScheduleRepo) FindCandidatesOn(ctx context.Context, day sharedDomain.Day) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	for _, s := range f.schedules {
		if s.WindowMayInclude(day) {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeScheduleRepo) FindAnchoredOn(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	for _, s := range f.schedules {
		if s.UserID() == userID && s.ScheduleDate().Equal(day) {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type ledgerKey struct {
	scheduleID uuid.UUID
	day        string
}

type fakeCompletionRepo struct {
	rows map[ledgerKey]*domain.Completion
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{rows: make(map[ledgerKey]*domain.Completion)}
}

func (f *fakeCompletionRepo) Add(ctx context.Context, c *domain.Completion) error {
	key := ledgerKey{c.ScheduleID(), c.CompletedOn().String()}
	if _, ok := f.rows[key]; ok {
		return domain.ErrAlreadyCompleted
	}
	f.rows[key] = c
	return nil
}
func (f *fakeCompletionRepo) AddBatch(ctx context.Context, completions []*domain.Completion) (int, error) {
	inserted := 0
	for _, c := range completions {
		if err := f.Add(ctx, c); err == nil {
			inserted++
		}
	}
	return inserted, nil
}
func (f *fakeCompletionRepo) Remove(ctx context.Context, userID, scheduleID uuid.UUID, day sharedDomain.Day) error {
	key := ledgerKey{scheduleID, day.String()}
	c, ok := f.rows[key]
	if !ok || c.UserID() != userID {
		return domain.ErrCompletionNotFound
	}
	delete(f.rows, key)
	return nil
}
func (f *fakeCompletionRepo) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.Completion, error) {
	var out []*domain.Completion
	for _, c := range f.rows {
		if c.UserID() == userID && !c.CompletedOn().Before(from) && !c.CompletedOn().After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeCompletionRepo) FindScheduleIDsCompletedOn(ctx context.Context, day sharedDomain.Day) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, c := range f.rows {
		if c.CompletedOn().Equal(day) {
			out = append(out, c.ScheduleID())
		}
	}
	return out, nil
}
func (f *fakeCompletionRepo) FindScheduleIDsForDay(ctx context.Context, scheduleIDs []uuid.UUID, day sharedDomain.Day) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, id := range scheduleIDs {
		if _, ok := f.rows[ledgerKey{id, day.String()}]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}
func (f *fakeCompletionRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Completion, error) {
	return f.FindInRange(ctx, userID, sharedDomain.Day{}, sharedDomain.Today().AddDays(1))
}

type fakeMissedRepo struct {
	rows map[ledgerKey]*domain.MissedOccurrence
}

func newFakeMissedRepo() *fakeMissedRepo {
	return &fakeMissedRepo{rows: make(map[ledgerKey]*domain.MissedOccurrence)}
}

func (f *fakeMissedRepo) AddBatch(ctx context.Context, missed []*domain.MissedOccurrence) (int, error) {
	inserted := 0
	for _, m := range missed {
		key := ledgerKey{m.ScheduleID(), m.MissedOn().String()}
		if _, ok := f.rows[key]; ok {
			continue
		}
		f.rows[key] = m
		inserted++
	}
	return inserted, nil
}
func (f *fakeMissedRepo) Remove(ctx context.Context, scheduleIDs []uuid.UUID, day sharedDomain.Day) error {
	for _, id := range scheduleIDs {
		delete(f.rows, ledgerKey{id, day.String()})
	}
	return nil
}
func (f *fakeMissedRepo) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.MissedOccurrence, error) {
	var out []*domain.MissedOccurrence
	for _, m := range f.rows {
		if m.UserID() == userID && !m.MissedOn().Before(from) && !m.MissedOn().After(to) {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *fakeMissedRepo) FindScheduleIDsMissedOn(ctx context.Context, day sharedDomain.Day) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, m := range f.rows {
		if m.MissedOn().Equal(day) {
			out = append(out, m.ScheduleID())
		}
	}
	return out, nil
}
func (f *fakeMissedRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.MissedOccurrence, error) {
	return f.FindInRange(ctx, userID, sharedDomain.Day{}, sharedDomain.Today().AddDays(1))
}

type fakeOutboxRepo struct {
	saved []*outbox.Message
	fail  bool
}

func (f *fakeOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	return f.SaveBatch(ctx, []*outbox.Message{msg})
}
func (f *fakeOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	if f.fail {
		return errors.New("outbox unavailable")
	}
	f.saved = append(f.saved, msgs...)
	return nil
}
func (f *fakeOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkPublished(ctx context.Context, id int64) error { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	return nil
}
func (f *fakeOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	return 0, nil
}

type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (fakeUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (fakeUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

func mustDay(t *testing.T, s string) sharedDomain.Day {
	t.Helper()
	d, err := sharedDomain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func weeklySchedule(t *testing.T, userID uuid.UUID, anchor, until string, repeatOn []int) *domain.Schedule {
	t.Helper()
	u := mustDay(t, until)
	s, err := domain.NewSchedule(
		userID, uuid.New(),
		mustDay(t, anchor),
		domain.ClockTime(9*60), domain.ClockTime(10*60),
		domain.RecurrenceWeekly, &u, repeatOn, "",
	)
	require.NoError(t, err)
	return s
}

func dailySchedule(t *testing.T, userID uuid.UUID, anchor, until string) *domain.Schedule {
	t.Helper()
	u := mustDay(t, until)
	s, err := domain.NewSchedule(
		userID, uuid.New(),
		mustDay(t, anchor),
		domain.ClockTime(9*60), domain.ClockTime(10*60),
		domain.RecurrenceDaily, &u, nil, "",
	)
	require.NoError(t, err)
	return s
}

func newMarker(scheduleRepo *fakeScheduleRepo, completions *fakeCompletionRepo, missed *fakeMissedRepo, ob outbox.Repository) *MissedMarker {
	return NewMissedMarker(scheduleRepo, completions, missed, ob, fakeUnitOfWork{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMissedMarkerRunFor(t *testing.T) {
	userID := uuid.New()
	// 2024-01-10 is a Wednesday.
	target := mustDay(t, "2024-01-10")

	t.Run("marks applicable uncompleted schedules", func(t *testing.T) {
		applies := dailySchedule(t, userID, "2024-01-01", "2024-01-31")
		notYet := dailySchedule(t, userID, "2024-01-11", "2024-01-31")
		wrongWeekday := weeklySchedule(t, userID, "2024-01-01", "2024-01-31", []int{1}) // Mondays only

		scheduleRepo := &fakeScheduleRepo{schedules: []*domain.Schedule{applies, notYet, wrongWeekday}}
		completions := newFakeCompletionRepo()
		missed := newFakeMissedRepo()
		ob := &fakeOutboxRepo{}

		marked, err := newMarker(scheduleRepo, completions, missed, ob).RunFor(context.Background(), target)

		require.NoError(t, err)
		assert.Equal(t, 1, marked)
		ids, err := missed.FindScheduleIDsMissedOn(context.Background(), target)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{applies.ID()}, ids)
		assert.Len(t, ob.saved, 1)
	})

	t.Run("skips completed occurrences", func(t *testing.T) {
		s := dailySchedule(t, userID, "2024-01-01", "2024-01-31")
		scheduleRepo := &fakeScheduleRepo{schedules: []*domain.Schedule{s}}
		completions := newFakeCompletionRepo()
		missed := newFakeMissedRepo()
		require.NoError(t, completions.Add(context.Background(), domain.NewCompletion(s.ID(), userID, target)))

		marked, err := newMarker(scheduleRepo, completions, missed, &fakeOutboxRepo{}).RunFor(context.Background(), target)

		require.NoError(t, err)
		assert.Zero(t, marked)
		assert.Empty(t, missed.rows)
	})

	t.Run("is idempotent across repeated runs", func(t *testing.T) {
		s := dailySchedule(t, userID, "2024-01-01", "2024-01-31")
		scheduleRepo := &fakeScheduleRepo{schedules: []*domain.Schedule{s}}
		completions := newFakeCompletionRepo()
		missed := newFakeMissedRepo()
		marker := newMarker(scheduleRepo, completions, missed, &fakeOutboxRepo{})

		first, err := marker.RunFor(context.Background(), target)
		require.NoError(t, err)
		second, err := marker.RunFor(context.Background(), target)
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Zero(t, second)
		assert.Len(t, missed.rows, 1)
	})

	t.Run("no candidates is a clean no-op", func(t *testing.T) {
		marker := newMarker(&fakeScheduleRepo{}, newFakeCompletionRepo(), newFakeMissedRepo(), &fakeOutboxRepo{})

		marked, err := marker.RunFor(context.Background(), target)

		require.NoError(t, err)
		assert.Zero(t, marked)
	})

	t.Run("propagates failures for retry", func(t *testing.T) {
		s := dailySchedule(t, userID, "2024-01-01", "2024-01-31")
		scheduleRepo := &fakeScheduleRepo{schedules: []*domain.Schedule{s}}
		marker := newMarker(scheduleRepo, newFakeCompletionRepo(), newFakeMissedRepo(), &fakeOutboxRepo{fail: true})

		_, err := marker.RunFor(context.Background(), target)

		assert.Error(t, err)
	})
}

func TestMissedMarkerRunTargetsYesterday(t *testing.T) {
	userID := uuid.New()
	s := dailySchedule(t, userID, "2024-01-01", "2024-12-31")
	scheduleRepo := &fakeScheduleRepo{schedules: []*domain.Schedule{s}}
	missed := newFakeMissedRepo()
	marker := newMarker(scheduleRepo, newFakeCompletionRepo(), missed, &fakeOutboxRepo{})

	now := mustDay(t, "2024-03-15").Time().Add(5 * time.Minute)
	marked, err := marker.Run(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, marked)
	ids, err := missed.FindScheduleIDsMissedOn(context.Background(), mustDay(t, "2024-03-14"))
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
