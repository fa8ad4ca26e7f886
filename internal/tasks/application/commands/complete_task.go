package commands

import (
	"context"
	"errors"
	"time"

	sharedApplication "github.com/cadencelabs/cadence/internal/shared/application"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	"github.com/cadencelabs/cadence/internal/tasks/domain"
	"github.com/google/uuid"
)

// ErrNotOwner is returned when a task belongs to a different user.
var ErrNotOwner = errors.New("user does not own this task")

// CompleteTaskCommand marks an unscheduled task done for one day.
// Date defaults to today when zero.
type CompleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
	Date   time.Time
}

// CommandName implements application.Command.
func (CompleteTaskCommand) CommandName() string { return "tasks.complete_task" }

// CompleteTaskResult reports the recorded completion.
type CompleteTaskResult struct {
	CompletionID uuid.UUID
	CompletedOn  sharedDomain.Day
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskRepo       domain.TaskRepository
	completionRepo domain.TaskCompletionRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(
	taskRepo domain.TaskRepository,
	completionRepo domain.TaskCompletionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CompleteTaskHandler {
	return &CompleteTaskHandler{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
	}
}

// Handle records the completion for the task's ledger day.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (*CompleteTaskResult, error) {
	completedOn := ledgerDay(cmd.Date)

	var result *CompleteTaskResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrTaskNotFound
		}
		if task.UserID() != cmd.UserID {
			return ErrNotOwner
		}

		completion := domain.NewTaskCompletion(cmd.TaskID, cmd.UserID, completedOn)
		if err := h.completionRepo.Add(txCtx, completion); err != nil {
			return err
		}

		if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, domain.NewTaskCompleted(completion)); err != nil {
			return err
		}

		result = &CompleteTaskResult{
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

// ledgerDay normalizes a user-supplied timestamp to its ledger day,
// defaulting to today.
func ledgerDay(t time.Time) sharedDomain.Day {
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
