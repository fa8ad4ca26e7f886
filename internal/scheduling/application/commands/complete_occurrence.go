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

// ErrNotOwner is returned when a schedule belongs to a different user.
var ErrNotOwner = errors.New("user does not own this schedule")

// CompleteOccurrenceCommand marks one occurrence of a schedule as done.
// Date defaults to today when zero.
type CompleteOccurrenceCommand struct {
	ScheduleID uuid.UUID
	UserID     uuid.UUID
	Date       time.Time
}

// CommandName implements application.Command.
func (CompleteOccurrenceCommand) CommandName() string { return "scheduling.complete_occurrence" }

// CompleteOccurrenceResult reports the recorded completion.
type CompleteOccurrenceResult struct {
	CompletionID uuid.UUID
	CompletedOn  sharedDomain.Day
}

// CompleteOccurrenceHandler handles the CompleteOccurrenceCommand.
type CompleteOccurrenceHandler struct {
	scheduleRepo   domain.ScheduleRepository
	completionRepo domain.CompletionRepository
	missedRepo     domain.MissedRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
}

// NewCompleteOccurrenceHandler creates a new CompleteOccurrenceHandler.
func NewCompleteOccurrenceHandler(
	scheduleRepo domain.ScheduleRepository,
	completionRepo domain.CompletionRepository,
	missedRepo domain.MissedRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CompleteOccurrenceHandler {
	return &CompleteOccurrenceHandler{
		scheduleRepo:   scheduleRepo,
		completionRepo: completionRepo,
		missedRepo:     missedRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
	}
}

// Handle records the completion and, in the same transaction, removes any
// missed row for the same occurrence day so the two ledgers never disagree.
func (h *CompleteOccurrenceHandler) Handle(ctx context.Context, cmd CompleteOccurrenceCommand) (*CompleteOccurrenceResult, error) {
	completedOn := occurrenceDay(cmd.Date)

	var result *CompleteOccurrenceResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		schedule, err := h.scheduleRepo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		if schedule == nil {
			return domain.ErrScheduleNotFound
		}
		if schedule.UserID() != cmd.UserID {
			return ErrNotOwner
		}

		completion := domain.NewCompletion(cmd.ScheduleID, cmd.UserID, completedOn)
		if err := h.completionRepo.Add(txCtx, completion); err != nil {
			return err
		}

		// Completion wins over a previously recorded miss for the day.
		if err := h.missedRepo.Remove(txCtx, []uuid.UUID{cmd.ScheduleID}, completedOn); err != nil {
			return err
		}

		if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, domain.NewOccurrenceCompleted(completion)); err != nil {
			return err
		}

		result = &CompleteOccurrenceResult{
			CompletionID: completion.ID(),
			CompletedOn:  completedOn,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// occurrenceDay normalizes a user-supplied timestamp to its ledger day,
// defaulting to today.
func occurrenceDay(t time.Time) sharedDomain.Day {
	if t.IsZero() {
		return sharedDomain.Today()
	}
	return sharedDomain.DayOf(t)
}

// saveEvents stamps metadata on the events and stores them in the outbox.
func saveEvents(ctx context.Context, repo outbox.Repository, userID uuid.UUID, events ...sharedDomain.DomainEvent) error {
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return repo.SaveBatch(ctx, msgs)
}
