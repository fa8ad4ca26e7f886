package domain

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskTitleRequired      = errors.New("task title is required")
	ErrTaskAlreadyCompleted   = errors.New("task already completed for this day")
	ErrTaskCompletionNotFound = errors.New("task completion not found")
)

// Task is an obligation a user tracks. A task with no schedule is an
// "unscheduled" daily task: it belongs to the day it was created on and is
// either pending or completed, never missed.
type Task struct {
	sharedDomain.BaseEntity
	userID uuid.UUID
	title  string
	notes  string
}

// NewTask creates a new task.
func NewTask(userID uuid.UUID, title, notes string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}
	return &Task{
		BaseEntity: sharedDomain.NewBaseEntity(),
		userID:     userID,
		title:      title,
		notes:      notes,
	}, nil
}

func (t *Task) UserID() uuid.UUID { return t.userID }
func (t *Task) Title() string     { return t.title }
func (t *Task) Notes() string     { return t.notes }

// CreatedOn is the day the task belongs to.
func (t *Task) CreatedOn() sharedDomain.Day {
	return sharedDomain.DayOf(t.CreatedAt())
}

// RehydrateTask reconstructs a task from storage.
func RehydrateTask(id, userID uuid.UUID, title, notes string, createdAt, updatedAt time.Time) *Task {
	return &Task{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:     userID,
		title:      title,
		notes:      notes,
	}
}
