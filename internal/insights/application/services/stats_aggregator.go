package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/cadencelabs/cadence/internal/insights/domain"
	schedulingDomain "github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	tasksDomain "github.com/cadencelabs/cadence/internal/tasks/domain"
)

// StatsAggregator folds the schedule definitions, both occurrence ledgers
// and the unscheduled-task ledger into per-day workload stats.
type StatsAggregator struct {
	scheduleRepo       schedulingDomain.ScheduleRepository
	completionRepo     schedulingDomain.CompletionRepository
	missedRepo         schedulingDomain.MissedRepository
	taskRepo           tasksDomain.TaskRepository
	taskCompletionRepo tasksDomain.TaskCompletionRepository
	logger             *slog.Logger
}

func NewStatsAggregator(
	scheduleRepo schedulingDomain.ScheduleRepository,
	completionRepo schedulingDomain.CompletionRepository,
	missedRepo schedulingDomain.MissedRepository,
	taskRepo tasksDomain.TaskRepository,
	taskCompletionRepo tasksDomain.TaskCompletionRepository,
	logger *slog.Logger,
) *StatsAggregator {
	return &StatsAggregator{
		scheduleRepo:       scheduleRepo,
		completionRepo:     completionRepo,
		missedRepo:         missedRepo,
		taskRepo:           taskRepo,
		taskCompletionRepo: taskCompletionRepo,
		logger:             logger,
	}
}

// BuildDailyStatsMap computes stats for every day in [from, to]. Each data
// set is fetched once for the whole window; recurrence expansion happens in
// memory. Days without any workload carry a zero entry.
func (a *StatsAggregator) BuildDailyStatsMap(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) (domain.StatsMap, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid stats window: %s is after %s", from, to)
	}

	schedules, err := a.scheduleRepo.FindWindowIntersecting(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	completions, err := a.completionRepo.FindInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	missed, err := a.missedRepo.FindInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load missed occurrences: %w", err)
	}
	tasks, err := a.taskRepo.FindUnscheduledInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load unscheduled tasks: %w", err)
	}
	taskCompletions, err := a.taskCompletionRepo.FindInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load task completions: %w", err)
	}

	completedByDay := make(map[string]int)
	for _, c := range completions {
		completedByDay[c.CompletedOn().String()]++
	}
	for _, c := range taskCompletions {
		completedByDay[c.CompletedOn().String()]++
	}
	missedByDay := make(map[string]int)
	for _, m := range missed {
		missedByDay[m.MissedOn().String()]++
	}
	tasksByDay := make(map[string]int)
	for _, t := range tasks {
		tasksByDay[t.CreatedOn().String()]++
	}

	stats := make(domain.StatsMap)
	for day := from; !day.After(to); day = day.AddDays(1) {
		key := day.String()

		total := tasksByDay[key]
		for _, s := range schedules {
			if s.AppliesOn(day) {
				total++
			}
		}

		completed := completedByDay[key]
		if completed > total {
			// Ledger rows can outlive their definitions; the day can
			// never be more than fully complete.
			completed = total
		}

		stats[key] = domain.DailyStats{
			Total:     total,
			Completed: completed,
			Missed:    missedByDay[key],
			Score:     completionScore(total, completed),
		}
	}

	a.logger.Debug("built daily stats map",
		"user_id", userID,
		"from", from,
		"to", to,
		"days", len(stats))

	return stats, nil
}

// BuildDailyStats computes stats for a single day.
func (a *StatsAggregator) BuildDailyStats(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) (domain.DailyStats, error) {
	stats, err := a.BuildDailyStatsMap(ctx, userID, day, day)
	if err != nil {
		return domain.DailyStats{}, err
	}
	return stats[day.String()], nil
}

// completionScore is the completion-ratio score: 0 with no workload,
// otherwise the completed percentage rounded to the nearest integer.
func completionScore(total, completed int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
