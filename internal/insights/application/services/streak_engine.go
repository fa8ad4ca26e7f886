package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cadencelabs/cadence/internal/insights/domain"
	schedulingDomain "github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	tasksDomain "github.com/cadencelabs/cadence/internal/tasks/domain"
)

// streakWindowDays is how far back the overview looks for streak runs.
const streakWindowDays = 365

// StreakEngine derives perfect-day runs from the ledgers. A day is perfect
// when it had workload and every applicable occurrence and every task
// created that day was completed, with nothing marked missed.
type StreakEngine struct {
	scheduleRepo       schedulingDomain.ScheduleRepository
	completionRepo     schedulingDomain.CompletionRepository
	missedRepo         schedulingDomain.MissedRepository
	taskRepo           tasksDomain.TaskRepository
	taskCompletionRepo tasksDomain.TaskCompletionRepository
	logger             *slog.Logger
}

func NewStreakEngine(
	scheduleRepo schedulingDomain.ScheduleRepository,
	completionRepo schedulingDomain.CompletionRepository,
	missedRepo schedulingDomain.MissedRepository,
	taskRepo tasksDomain.TaskRepository,
	taskCompletionRepo tasksDomain.TaskCompletionRepository,
	logger *slog.Logger,
) *StreakEngine {
	return &StreakEngine{
		scheduleRepo:       scheduleRepo,
		completionRepo:     completionRepo,
		missedRepo:         missedRepo,
		taskRepo:           taskRepo,
		taskCompletionRepo: taskCompletionRepo,
		logger:             logger,
	}
}

type ledgerKey struct {
	id  uuid.UUID
	day string
}

// BuildPerfectDayMap evaluates every day in [from, to]. Unlike the stats
// map this matches ledger rows per occurrence, so a stray completion for
// one schedule can never cover for another.
func (e *StreakEngine) BuildPerfectDayMap(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) (map[string]bool, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid streak window: %s is after %s", from, to)
	}

	schedules, err := e.scheduleRepo.FindWindowIntersecting(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	completions, err := e.completionRepo.FindInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	missed, err := e.missedRepo.FindInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load missed occurrences: %w", err)
	}
	tasks, err := e.taskRepo.FindUnscheduledInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load unscheduled tasks: %w", err)
	}
	taskCompletions, err := e.taskCompletionRepo.FindInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load task completions: %w", err)
	}

	completedOccurrences := make(map[ledgerKey]bool, len(completions))
	for _, c := range completions {
		completedOccurrences[ledgerKey{c.ScheduleID(), c.CompletedOn().String()}] = true
	}
	missedOccurrences := make(map[ledgerKey]bool, len(missed))
	for _, m := range missed {
		missedOccurrences[ledgerKey{m.ScheduleID(), m.MissedOn().String()}] = true
	}
	completedTasks := make(map[ledgerKey]bool, len(taskCompletions))
	for _, c := range taskCompletions {
		completedTasks[ledgerKey{c.TaskID(), c.CompletedOn().String()}] = true
	}
	tasksByDay := make(map[string][]*tasksDomain.Task)
	for _, t := range tasks {
		key := t.CreatedOn().String()
		tasksByDay[key] = append(tasksByDay[key], t)
	}

	perfect := make(map[string]bool)
	for day := from; !day.After(to); day = day.AddDays(1) {
		key := day.String()
		perfect[key] = e.isPerfectDay(day, schedules, tasksByDay[key], completedOccurrences, missedOccurrences, completedTasks)
	}
	return perfect, nil
}

func (e *StreakEngine) isPerfectDay(
	day sharedDomain.Day,
	schedules []*schedulingDomain.Schedule,
	dayTasks []*tasksDomain.Task,
	completedOccurrences, missedOccurrences, completedTasks map[ledgerKey]bool,
) bool {
	key := day.String()

	hadWork := len(dayTasks) > 0
	for _, s := range schedules {
		if !s.AppliesOn(day) {
			continue
		}
		hadWork = true
		if missedOccurrences[ledgerKey{s.ID(), key}] {
			return false
		}
		if !completedOccurrences[ledgerKey{s.ID(), key}] {
			return false
		}
	}
	for _, t := range dayTasks {
		if !completedTasks[ledgerKey{t.ID(), key}] {
			return false
		}
	}
	return hadWork
}

// Overview summarizes the trailing 365 days ending today. The current
// streak is the run of consecutive perfect days ending today; an imperfect
// today means no current streak, even when yesterday closed a long run.
func (e *StreakEngine) Overview(ctx context.Context, userID uuid.UUID, today sharedDomain.Day) (domain.StreakOverview, error) {
	from := today.AddDays(-(streakWindowDays - 1))
	perfect, err := e.BuildPerfectDayMap(ctx, userID, from, today)
	if err != nil {
		return domain.StreakOverview{}, err
	}

	var overview domain.StreakOverview
	for day := today; !day.Before(from) && perfect[day.String()]; day = day.AddDays(-1) {
		overview.CurrentStreak++
	}
	overview.IsActive = overview.CurrentStreak > 0

	run := 0
	for day := from; !day.After(today); day = day.AddDays(1) {
		if perfect[day.String()] {
			run++
			if run > overview.LongestStreak {
				overview.LongestStreak = run
			}
		} else {
			run = 0
		}
	}

	e.logger.Debug("computed streak overview",
		"user_id", userID,
		"current", overview.CurrentStreak,
		"longest", overview.LongestStreak,
		"active", overview.IsActive)

	return overview, nil
}

// Calendar returns the perfect-day map for the trailing days ending today,
// keyed by day string. Used for streak calendar rendering.
func (e *StreakEngine) Calendar(ctx context.Context, userID uuid.UUID, today sharedDomain.Day, days int) (map[string]bool, error) {
	if days < 1 {
		return nil, fmt.Errorf("calendar window must cover at least one day, got %d", days)
	}
	return e.BuildPerfectDayMap(ctx, userID, today.AddDays(-(days - 1)), today)
}
