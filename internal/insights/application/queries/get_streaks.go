package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/cadencelabs/cadence/internal/insights/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
)

// defaultCalendarDays is the trailing window shown on the streak calendar.
const defaultCalendarDays = 30

// StreaksDTO is the streak overview plus a per-day calendar.
type StreaksDTO struct {
	CurrentStreak int             `json:"currentStreak"`
	LongestStreak int             `json:"longestStreak"`
	IsActive      bool            `json:"isActive"`
	Calendar      map[string]bool `json:"calendar"` // day string -> perfect
}

// GetStreaksQuery returns a user's streak overview.
type GetStreaksQuery struct {
	UserID       uuid.UUID
	CalendarDays int // 0 means the default window
}

// QueryName implements application.Query.
func (GetStreaksQuery) QueryName() string { return "insights.get_streaks" }

// StreakReader derives streak runs from the ledgers. Satisfied by the
// streak engine.
type StreakReader interface {
	Overview(ctx context.Context, userID uuid.UUID, today sharedDomain.Day) (domain.StreakOverview, error)
	Calendar(ctx context.Context, userID uuid.UUID, today sharedDomain.Day, days int) (map[string]bool, error)
}

// GetStreaksHandler handles the GetStreaksQuery.
type GetStreaksHandler struct {
	engine StreakReader
}

// NewGetStreaksHandler creates a new GetStreaksHandler.
func NewGetStreaksHandler(engine StreakReader) *GetStreaksHandler {
	return &GetStreaksHandler{engine: engine}
}

// Handle computes the overview over the trailing year and the calendar
// over the requested window.
func (h *GetStreaksHandler) Handle(ctx context.Context, query GetStreaksQuery) (*StreaksDTO, error) {
	today := sharedDomain.Today()

	overview, err := h.engine.Overview(ctx, query.UserID, today)
	if err != nil {
		return nil, err
	}

	days := query.CalendarDays
	if days <= 0 {
		days = defaultCalendarDays
	}
	calendar, err := h.engine.Calendar(ctx, query.UserID, today, days)
	if err != nil {
		return nil, err
	}

	return &StreaksDTO{
		CurrentStreak: overview.CurrentStreak,
		LongestStreak: overview.LongestStreak,
		IsActive:      overview.IsActive,
		Calendar:      calendar,
	}, nil
}
