package queries

import (
	"context"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/wellness/domain"
	"github.com/google/uuid"
)

// ScoreProvider derives per-day productivity scores from ledger state plus
// the day's logged modifiers. Scores are always computed on read; stored
// values are never trusted.
type ScoreProvider interface {
	ScoresInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) (map[string]int, error)
}

// BehaviorLogDTO is a day's behavior log decorated with the derived score.
type BehaviorLogDTO struct {
	ID                uuid.UUID
	Date              string // YYYY-MM-DD
	Mood              string
	SleepHours        *float64
	Exercise          bool
	Notes             string
	ProductivityScore int
	UpdatedAt         time.Time
}

// GetBehaviorQuery fetches one day's behavior log.
type GetBehaviorQuery struct {
	UserID uuid.UUID
	Date   time.Time // zero means today
}

// QueryName implements application.Query.
func (GetBehaviorQuery) QueryName() string { return "wellness.get_behavior" }

// GetBehaviorHandler handles the GetBehaviorQuery.
type GetBehaviorHandler struct {
	behaviorRepo domain.BehaviorLogRepository
	scores       ScoreProvider
}

// NewGetBehaviorHandler creates a new GetBehaviorHandler.
func NewGetBehaviorHandler(behaviorRepo domain.BehaviorLogRepository, scores ScoreProvider) *GetBehaviorHandler {
	return &GetBehaviorHandler{behaviorRepo: behaviorRepo, scores: scores}
}

// Handle returns the day's log with its derived productivity score.
func (h *GetBehaviorHandler) Handle(ctx context.Context, query GetBehaviorQuery) (*BehaviorLogDTO, error) {
	day := sharedDomain.Today()
	if !query.Date.IsZero() {
		day = sharedDomain.DayOf(query.Date)
	}

	log, err := h.behaviorRepo.FindByDate(ctx, query.UserID, day)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, domain.ErrBehaviorLogNotFound
	}

	scores, err := h.scores.ScoresInRange(ctx, query.UserID, day, day)
	if err != nil {
		return nil, err
	}

	return &BehaviorLogDTO{
		ID:                log.ID(),
		Date:              day.String(),
		Mood:              string(log.Mood()),
		SleepHours:        log.SleepHours(),
		Exercise:          log.Exercise(),
		Notes:             log.Notes(),
		ProductivityScore: scores[day.String()],
		UpdatedAt:         log.UpdatedAt(),
	}, nil
}
