package domain

import (
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// TaskCompletion records that an unscheduled task was done on a day.
// Unique per (task, day); there is no missed counterpart.
type TaskCompletion struct {
	id          uuid.UUID
	taskID      uuid.UUID
	userID      uuid.UUID
	completedOn sharedDomain.Day
	completedAt time.Time
}

// NewTaskCompletion records a completion for the given ledger day.
func NewTaskCompletion(taskID, userID uuid.UUID, completedOn sharedDomain.Day) *TaskCompletion {
	return &TaskCompletion{
		id:          uuid.New(),
		taskID:      taskID,
		userID:      userID,
		completedOn: completedOn,
		completedAt: time.Now().UTC(),
	}
}

// RehydrateTaskCompletion reconstructs a completion from storage.
func RehydrateTaskCompletion(id, taskID, userID uuid.UUID, completedOn sharedDomain.Day, completedAt time.Time) *TaskCompletion {
	return &TaskCompletion{
		id:          id,
		taskID:      taskID,
		userID:      userID,
		completedOn: completedOn,
		completedAt: completedAt,
	}
}

func (c *TaskCompletion) ID() uuid.UUID                 { return c.id }
func (c *TaskCompletion) TaskID() uuid.UUID             { return c.taskID }
func (c *TaskCompletion) UserID() uuid.UUID             { return c.userID }
func (c *TaskCompletion) CompletedOn() sharedDomain.Day { return c.completedOn }
func (c *TaskCompletion) CompletedAt() time.Time        { return c.completedAt }
