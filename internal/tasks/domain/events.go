package domain

import (
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Task"

// TaskCompleted is emitted when an unscheduled task is marked done.
type TaskCompleted struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedOn string    `json:"completed_on"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(c *TaskCompletion) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(c.TaskID(), aggregateType, "tasks.task.completed"),
		TaskID:      c.TaskID(),
		UserID:      c.UserID(),
		CompletedOn: c.CompletedOn().String(),
		CompletedAt: c.CompletedAt(),
	}
}

// TaskCompletionUndone is emitted when a task completion is undone.
type TaskCompletionUndone struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedOn string    `json:"completed_on"`
}

// NewTaskCompletionUndone creates a TaskCompletionUndone event.
func NewTaskCompletionUndone(taskID, userID uuid.UUID, day sharedDomain.Day) *TaskCompletionUndone {
	return &TaskCompletionUndone{
		BaseEvent:   sharedDomain.NewBaseEvent(taskID, aggregateType, "tasks.task.completion_undone"),
		TaskID:      taskID,
		UserID:      userID,
		CompletedOn: day.String(),
	}
}
