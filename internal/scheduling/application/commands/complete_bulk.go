package commands

import (
	"context"
	"errors"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedApplication "github.com/cadencelabs/cadence/internal/shared/application"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

var (
	ErrEmptyBulkRequest = errors.New("schedule ids must be a non-empty list")
	ErrNoValidSchedules = errors.New("no valid schedules found")
)

// CompleteBulkCommand marks many occurrences of the same day as done.
type CompleteBulkCommand struct {
	ScheduleIDs []uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
}

// CommandName implements application.Command.
func (CompleteBulkCommand) CommandName() string { return "scheduling.complete_bulk" }

// CompleteBulkResult summarizes a bulk completion.
type CompleteBulkResult struct {
	Requested int
	Valid     int
	Completed int
	Skipped   int
}

// CompleteBulkHandler handles the CompleteBulkCommand.
type CompleteBulkHandler struct {
	scheduleRepo   domain.ScheduleRepository
	completionRepo domain.CompletionRepository
	missedRepo     domain.MissedRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
}

// NewCompleteBulkHandler creates a new CompleteBulkHandler.
func NewCompleteBulkHandler(
	scheduleRepo domain.ScheduleRepository,
	completionRepo domain.CompletionRepository,
	missedRepo domain.MissedRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CompleteBulkHandler {
	return &CompleteBulkHandler{
		scheduleRepo:   scheduleRepo,
		completionRepo: completionRepo,
		missedRepo:     missedRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
	}
}

// Handle completes the batch set-wise: one ownership query, one
// existing-state query, one batched insert, one missed-row cleanup.
func (h *CompleteBulkHandler) Handle(ctx context.Context, cmd CompleteBulkCommand) (*CompleteBulkResult, error) {
	if len(cmd.ScheduleIDs) == 0 {
		return nil, ErrEmptyBulkRequest
	}
	completedOn := occurrenceDay(cmd.Date)

	var result *CompleteBulkResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		owned, err := h.scheduleRepo.FindByIDs(txCtx, cmd.UserID, cmd.ScheduleIDs)
		if err != nil {
			return err
		}
		if len(owned) == 0 {
			return ErrNoValidSchedules
		}

		validIDs := make([]uuid.UUID, 0, len(owned))
		for _, s := range owned {
			validIDs = append(validIDs, s.ID())
		}

		existing, err := h.completionRepo.FindScheduleIDsForDay(txCtx, validIDs, completedOn)
		if err != nil {
			return err
		}
		alreadyDone := make(map[uuid.UUID]bool, len(existing))
		for _, id := range existing {
			alreadyDone[id] = true
		}

		toCreate := make([]*domain.Completion, 0, len(validIDs))
		events := make([]sharedDomain.DomainEvent, 0, len(validIDs))
		cleanupIDs := make([]uuid.UUID, 0, len(validIDs))
		for _, id := range validIDs {
			if alreadyDone[id] {
				continue
			}
			c := domain.NewCompletion(id, cmd.UserID, completedOn)
			toCreate = append(toCreate, c)
			events = append(events, domain.NewOccurrenceCompleted(c))
			cleanupIDs = append(cleanupIDs, id)
		}

		completed := 0
		if len(toCreate) > 0 {
			if completed, err = h.completionRepo.AddBatch(txCtx, toCreate); err != nil {
				return err
			}
			if err := h.missedRepo.Remove(txCtx, cleanupIDs, completedOn); err != nil {
				return err
			}
			if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, events...); err != nil {
				return err
			}
		}

		result = &CompleteBulkResult{
			Requested: len(cmd.ScheduleIDs),
			Valid:     len(validIDs),
			Completed: completed,
			Skipped:   len(existing),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
