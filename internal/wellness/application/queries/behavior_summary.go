package queries

import (
	"context"
	"errors"
	"math"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/wellness/domain"
	"github.com/google/uuid"
)

// ErrInvalidSummaryWindow is returned when the requested window is outside 1-90 days.
var ErrInvalidSummaryWindow = errors.New("summary window must be between 1 and 90 days")

// BehaviorSummaryDTO aggregates the trailing window of behavior logs.
type BehaviorSummaryDTO struct {
	Days             int
	DaysLogged       int
	AvgProductivity  float64
	MoodDistribution map[string]int
	ExerciseDays     int
}

// BehaviorSummaryQuery summarizes the trailing N days (1-90), today inclusive.
type BehaviorSummaryQuery struct {
	UserID uuid.UUID
	Days   int
}

// QueryName implements application.Query.
func (BehaviorSummaryQuery) QueryName() string { return "wellness.behavior_summary" }

// BehaviorSummaryHandler handles the BehaviorSummaryQuery.
type BehaviorSummaryHandler struct {
	behaviorRepo domain.BehaviorLogRepository
	scores       ScoreProvider
}

// NewBehaviorSummaryHandler creates a new BehaviorSummaryHandler.
func NewBehaviorSummaryHandler(behaviorRepo domain.BehaviorLogRepository, scores ScoreProvider) *BehaviorSummaryHandler {
	return &BehaviorSummaryHandler{behaviorRepo: behaviorRepo, scores: scores}
}

// Handle computes the summary. The productivity average runs over every day
// in the window, logged or not, so unlogged days drag it down honestly.
func (h *BehaviorSummaryHandler) Handle(ctx context.Context, query BehaviorSummaryQuery) (*BehaviorSummaryDTO, error) {
	if query.Days < 1 || query.Days > 90 {
		return nil, ErrInvalidSummaryWindow
	}

	to := sharedDomain.Today()
	from := to.AddDays(-(query.Days - 1))

	logs, err := h.behaviorRepo.FindInRange(ctx, query.UserID, from, to)
	if err != nil {
		return nil, err
	}
	scores, err := h.scores.ScoresInRange(ctx, query.UserID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &BehaviorSummaryDTO{
		Days:             query.Days,
		DaysLogged:       len(logs),
		MoodDistribution: make(map[string]int),
	}

	for _, log := range logs {
		summary.MoodDistribution[string(log.Mood())]++
		if log.Exercise() {
			summary.ExerciseDays++
		}
	}

	total := 0
	for _, day := range sharedDomain.DaysBetween(from, to) {
		total += scores[day.String()]
	}
	summary.AvgProductivity = math.Round(float64(total)/float64(query.Days)*10) / 10

	return summary, nil
}
