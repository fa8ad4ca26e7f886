package domain

import (
	"context"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// TaskRepository reads task definitions. Task CRUD lives with an external
// collaborator; the engine only needs lookups.
type TaskRepository interface {
	// FindByID returns the task or nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByIDs returns the subset of the given tasks owned by the user.
	FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*Task, error)

	// FindUnscheduledInRange returns the user's tasks that have no schedule
	// and were created on a day within [from, to].
	FindUnscheduledInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*Task, error)

	// Save persists a task. Used by tests and seeding; the engine itself
	// never mutates task definitions.
	Save(ctx context.Context, task *Task) error
}

// TaskCompletionRepository is the ledger for unscheduled task completions.
type TaskCompletionRepository interface {
	// Add records one completion. Returns ErrTaskAlreadyCompleted when the
	// (task, day) row exists.
	Add(ctx context.Context, c *TaskCompletion) error

	// AddBatch records completions insert-or-ignore and reports how many
	// rows were written.
	AddBatch(ctx context.Context, completions []*TaskCompletion) (int, error)

	// Remove deletes the completion for one day. Returns
	// ErrTaskCompletionNotFound when absent.
	Remove(ctx context.Context, userID, taskID uuid.UUID, day sharedDomain.Day) error

	// FindInRange returns the user's completions with a ledger day in [from, to].
	FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*TaskCompletion, error)

	// FindTaskIDsForDay returns which of the given tasks are completed on the day.
	FindTaskIDsForDay(ctx context.Context, taskIDs []uuid.UUID, day sharedDomain.Day) ([]uuid.UUID, error)
}
