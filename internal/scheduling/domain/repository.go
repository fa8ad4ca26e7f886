package domain

import (
	"context"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// ScheduleRepository defines the interface for schedule definitions.
// Definitions are created and updated by an external collaborator; the
// engine only reads them.
type ScheduleRepository interface {
	// Save persists a schedule definition (create or update).
	Save(ctx context.Context, schedule *Schedule) error

	// FindByID finds a schedule by its ID. Returns nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Schedule, error)

	// FindByIDs finds the subset of the given schedules owned by the user.
	FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*Schedule, error)

	// FindWindowIntersecting finds all schedules for a user whose
	// recurrence window intersects [from, to].
	FindWindowIntersecting(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*Schedule, error)

	// FindCandidatesOn finds, across all users, schedules whose window
	// could include the given day. Used by the missed marker.
	FindCandidatesOn(ctx context.Context, day sharedDomain.Day) ([]*Schedule, error)

	// FindAnchoredOn finds schedules anchored exactly on the given day for
	// overlap and duplicate checks at definition time.
	FindAnchoredOn(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) ([]*Schedule, error)

	// Delete removes a schedule definition.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompletionRepository is the completion ledger for scheduled occurrences.
type CompletionRepository interface {
	// Add inserts a completion row. Returns ErrAlreadyCompleted when the
	// (schedule, day) row already exists.
	Add(ctx context.Context, completion *Completion) error

	// AddBatch inserts completion rows, silently ignoring rows that
	// violate the (schedule, day) unique constraint. Returns the number
	// actually inserted.
	AddBatch(ctx context.Context, completions []*Completion) (int, error)

	// Remove deletes the completion row for an occurrence day. Returns
	// ErrCompletionNotFound when no row exists.
	Remove(ctx context.Context, userID, scheduleID uuid.UUID, day sharedDomain.Day) error

	// FindInRange finds a user's completions with completedOn in [from, to].
	FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*Completion, error)

	// FindScheduleIDsCompletedOn returns, across all users, the schedule
	// ids completed on the given day. Used by the missed marker.
	FindScheduleIDsCompletedOn(ctx context.Context, day sharedDomain.Day) ([]uuid.UUID, error)

	// FindScheduleIDsForDay returns the subset of the given schedule ids
	// that already have a completion row for the day.
	FindScheduleIDsForDay(ctx context.Context, scheduleIDs []uuid.UUID, day sharedDomain.Day) ([]uuid.UUID, error)

	// FindByUser returns all of a user's completions, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Completion, error)
}

// MissedRepository is the missed ledger for scheduled occurrences.
type MissedRepository interface {
	// AddBatch inserts missed rows, silently ignoring rows that violate
	// the (schedule, day) unique constraint. Returns the number actually
	// inserted.
	AddBatch(ctx context.Context, missed []*MissedOccurrence) (int, error)

	// Remove deletes missed rows for the given schedules on a day.
	// Removing a row that does not exist is not an error: completion
	// cleanup runs unconditionally.
	Remove(ctx context.Context, scheduleIDs []uuid.UUID, day sharedDomain.Day) error

	// FindInRange finds a user's missed rows with missedOn in [from, to].
	FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*MissedOccurrence, error)

	// FindScheduleIDsMissedOn returns, across all users, the schedule ids
	// already marked missed on the given day (the marker's idempotency guard).
	FindScheduleIDsMissedOn(ctx context.Context, day sharedDomain.Day) ([]uuid.UUID, error)

	// FindByUser returns all of a user's missed rows, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*MissedOccurrence, error)
}
