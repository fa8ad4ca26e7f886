package commands

import (
	"context"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedApplication "github.com/cadencelabs/cadence/internal/shared/application"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UndoCompletionCommand removes the completion for one occurrence day.
type UndoCompletionCommand struct {
	ScheduleID uuid.UUID
	UserID     uuid.UUID
	Date       time.Time
}

// CommandName implements application.Command.
func (UndoCompletionCommand) CommandName() string { return "scheduling.undo_completion" }

// UndoCompletionHandler handles the UndoCompletionCommand.
type UndoCompletionHandler struct {
	completionRepo domain.CompletionRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
}

// NewUndoCompletionHandler creates a new UndoCompletionHandler.
func NewUndoCompletionHandler(
	completionRepo domain.CompletionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *UndoCompletionHandler {
	return &UndoCompletionHandler{
		completionRepo: completionRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
	}
}

// Handle deletes the ledger row; the occurrence reverts to pending (or to
// missed once the marker re-evaluates a past day it has not yet covered).
func (h *UndoCompletionHandler) Handle(ctx context.Context, cmd UndoCompletionCommand) error {
	completedOn := occurrenceDay(cmd.Date)

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.completionRepo.Remove(txCtx, cmd.UserID, cmd.ScheduleID, completedOn); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID,
			domain.NewOccurrenceCompletionUndone(cmd.ScheduleID, cmd.UserID, completedOn))
	})
}
