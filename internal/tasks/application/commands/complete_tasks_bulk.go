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

var (
	ErrEmptyBulkRequest = errors.New("task ids must be a non-empty list")
	ErrNoValidTasks     = errors.New("no valid tasks found")
)

// CompleteTasksBulkCommand marks many unscheduled tasks done for one day.
type CompleteTasksBulkCommand struct {
	TaskIDs []uuid.UUID
	UserID  uuid.UUID
	Date    time.Time
}

// CommandName implements application.Command.
func (CompleteTasksBulkCommand) CommandName() string { return "tasks.complete_tasks_bulk" }

// CompleteTasksBulkResult summarizes a bulk completion.
type CompleteTasksBulkResult struct {
	Requested int
	Valid     int
	Completed int
	Skipped   int
}

// CompleteTasksBulkHandler handles the CompleteTasksBulkCommand.
type CompleteTasksBulkHandler struct {
	taskRepo       domain.TaskRepository
	completionRepo domain.TaskCompletionRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
}

// NewCompleteTasksBulkHandler creates a new CompleteTasksBulkHandler.
func NewCompleteTasksBulkHandler(
	taskRepo domain.TaskRepository,
	completionRepo domain.TaskCompletionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CompleteTasksBulkHandler {
	return &CompleteTasksBulkHandler{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
	}
}

// Handle completes the batch set-wise with one ownership query, one
// existing-state query and one batched insert.
func (h *CompleteTasksBulkHandler) Handle(ctx context.Context, cmd CompleteTasksBulkCommand) (*CompleteTasksBulkResult, error) {
	if len(cmd.TaskIDs) == 0 {
		return nil, ErrEmptyBulkRequest
	}
	completedOn := ledgerDay(cmd.Date)

	var result *CompleteTasksBulkResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		owned, err := h.taskRepo.FindByIDs(txCtx, cmd.UserID, cmd.TaskIDs)
		if err != nil {
			return err
		}
		if len(owned) == 0 {
			return ErrNoValidTasks
		}

		validIDs := make([]uuid.UUID, 0, len(owned))
		for _, task := range owned {
			validIDs = append(validIDs, task.ID())
		}

		existing, err := h.completionRepo.FindTaskIDsForDay(txCtx, validIDs, completedOn)
		if err != nil {
			return err
		}
		alreadyDone := make(map[uuid.UUID]bool, len(existing))
		for _, id := range existing {
			alreadyDone[id] = true
		}

		toCreate := make([]*domain.TaskCompletion, 0, len(validIDs))
		events := make([]sharedDomain.DomainEvent, 0, len(validIDs))
		for _, id := range validIDs {
			if alreadyDone[id] {
				continue
			}
			c := domain.NewTaskCompletion(id, cmd.UserID, completedOn)
			toCreate = append(toCreate, c)
			events = append(events, domain.NewTaskCompleted(c))
		}

		completed := 0
		if len(toCreate) > 0 {
			if completed, err = h.completionRepo.AddBatch(txCtx, toCreate); err != nil {
				return err
			}
			if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, events...); err != nil {
				return err
			}
		}

		result = &CompleteTasksBulkResult{
			Requested: len(cmd.TaskIDs),
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
