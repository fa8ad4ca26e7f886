package commands

import (
	"context"
	"time"

	sharedApplication "github.com/cadencelabs/cadence/internal/shared/application"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	"github.com/cadencelabs/cadence/internal/tasks/domain"
	"github.com/google/uuid"
)

// UndoTaskCompletionCommand removes a task completion for one day.
type UndoTaskCompletionCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
	Date   time.Time
}

// CommandName implements application.Command.
func (UndoTaskCompletionCommand) CommandName() string { return "tasks.undo_task_completion" }

// UndoTaskCompletionHandler handles the UndoTaskCompletionCommand.
type UndoTaskCompletionHandler struct {
	completionRepo domain.TaskCompletionRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
}

// NewUndoTaskCompletionHandler creates a new UndoTaskCompletionHandler.
func NewUndoTaskCompletionHandler(
	completionRepo domain.TaskCompletionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *UndoTaskCompletionHandler {
	return &UndoTaskCompletionHandler{
		completionRepo: completionRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
	}
}

// Handle deletes the ledger row; the task reverts to pending.
func (h *UndoTaskCompletionHandler) Handle(ctx context.Context, cmd UndoTaskCompletionCommand) error {
	completedOn := ledgerDay(cmd.Date)

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.completionRepo.Remove(txCtx, cmd.UserID, cmd.TaskID, completedOn); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID,
			domain.NewTaskCompletionUndone(cmd.TaskID, cmd.UserID, completedOn))
	})
}
