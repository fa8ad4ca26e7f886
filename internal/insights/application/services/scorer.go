package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cadencelabs/cadence/internal/insights/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	wellnessDomain "github.com/cadencelabs/cadence/internal/wellness/domain"
)

// ProductivityScorer combines daily stats with behavior logs into the
// final productivity score. It backs the wellness queries' ScoreProvider.
type ProductivityScorer struct {
	aggregator   *StatsAggregator
	behaviorRepo wellnessDomain.BehaviorLogRepository
	logger       *slog.Logger
}

func NewProductivityScorer(
	aggregator *StatsAggregator,
	behaviorRepo wellnessDomain.BehaviorLogRepository,
	logger *slog.Logger,
) *ProductivityScorer {
	return &ProductivityScorer{
		aggregator:   aggregator,
		behaviorRepo: behaviorRepo,
		logger:       logger,
	}
}

// ScoresInRange returns the productivity score for every day in [from, to],
// keyed by day string. Days without a behavior log score on stats alone.
func (s *ProductivityScorer) ScoresInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) (map[string]int, error) {
	stats, err := s.aggregator.BuildDailyStatsMap(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	logs, err := s.behaviorRepo.FindInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load behavior logs: %w", err)
	}

	logsByDay := make(map[string]*wellnessDomain.BehaviorLog, len(logs))
	for _, l := range logs {
		logsByDay[l.Date().String()] = l
	}

	scores := make(map[string]int, len(stats))
	for key, dayStats := range stats {
		var sleepHours *float64
		var exercise bool
		if log, ok := logsByDay[key]; ok {
			sleepHours = log.SleepHours()
			exercise = log.Exercise()
		}
		scores[key] = domain.Score(dayStats, sleepHours, exercise)
	}
	return scores, nil
}

// DayScore returns the productivity score for a single day.
func (s *ProductivityScorer) DayScore(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) (int, error) {
	scores, err := s.ScoresInRange(ctx, userID, day, day)
	if err != nil {
		return 0, err
	}
	return scores[day.String()], nil
}

// ExplainDay returns the factor-by-factor breakdown for a single day.
func (s *ProductivityScorer) ExplainDay(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) (domain.ScoreBreakdown, error) {
	stats, err := s.aggregator.BuildDailyStats(ctx, userID, day)
	if err != nil {
		return domain.ScoreBreakdown{}, err
	}
	log, err := s.behaviorRepo.FindByDate(ctx, userID, day)
	if err != nil {
		return domain.ScoreBreakdown{}, fmt.Errorf("failed to load behavior log: %w", err)
	}

	var sleepHours *float64
	var exercise bool
	if log != nil {
		sleepHours = log.SleepHours()
		exercise = log.Exercise()
	}

	breakdown := domain.ExplainScore(stats, sleepHours, exercise)
	s.logger.Debug("explained productivity score",
		"user_id", userID,
		"day", day,
		"base", breakdown.BaseScore,
		"final", breakdown.FinalScore)
	return breakdown, nil
}
