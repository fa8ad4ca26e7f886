package queries

import (
	"context"
	"sort"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
)

// HistoryStatus tags a history entry as completed or missed.
type HistoryStatus string

const (
	HistoryCompleted HistoryStatus = "COMPLETED"
	HistoryMissed    HistoryStatus = "MISSED"
)

// HistoryEntryDTO is one ledger row in a user's occurrence history.
type HistoryEntryDTO struct {
	ScheduleID uuid.UUID
	Date       string // YYYY-MM-DD
	Status     HistoryStatus
	RecordedAt time.Time
}

// CompletionHistoryQuery lists a user's completed and missed occurrences.
type CompletionHistoryQuery struct {
	UserID uuid.UUID
	Limit  int // 0 means no limit
}

// QueryName implements application.Query.
func (CompletionHistoryQuery) QueryName() string { return "scheduling.completion_history" }

// CompletionHistoryHandler handles the CompletionHistoryQuery.
type CompletionHistoryHandler struct {
	completionRepo domain.CompletionRepository
	missedRepo     domain.MissedRepository
}

// NewCompletionHistoryHandler creates a new CompletionHistoryHandler.
func NewCompletionHistoryHandler(completionRepo domain.CompletionRepository, missedRepo domain.MissedRepository) *CompletionHistoryHandler {
	return &CompletionHistoryHandler{completionRepo: completionRepo, missedRepo: missedRepo}
}

// Handle merges both ledgers into one list, newest first.
func (h *CompletionHistoryHandler) Handle(ctx context.Context, query CompletionHistoryQuery) ([]HistoryEntryDTO, error) {
	completions, err := h.completionRepo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	missed, err := h.missedRepo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntryDTO, 0, len(completions)+len(missed))
	for _, c := range completions {
		entries = append(entries, HistoryEntryDTO{
			ScheduleID: c.ScheduleID(),
			Date:       c.CompletedOn().String(),
			Status:     HistoryCompleted,
			RecordedAt: c.CompletedAt(),
		})
	}
	for _, m := range missed {
		entries = append(entries, HistoryEntryDTO{
			ScheduleID: m.ScheduleID(),
			Date:       m.MissedOn().String(),
			Status:     HistoryMissed,
			RecordedAt: m.MissedAt(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})

	if query.Limit > 0 && len(entries) > query.Limit {
		entries = entries[:query.Limit]
	}
	return entries, nil
}
