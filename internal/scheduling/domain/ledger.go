package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrAlreadyCompleted   = errors.New("schedule already completed for this date")
	ErrCompletionNotFound = errors.New("schedule completion not found")
)

// Completion records that one occurrence of a schedule was completed on a
// given day. At most one row exists per (schedule, day).
type Completion struct {
	id          uuid.UUID
	scheduleID  uuid.UUID
	userID      uuid.UUID
	completedOn sharedDomain.Day
	completedAt time.Time
}

// NewCompletion creates a completion record for an occurrence day.
func NewCompletion(scheduleID, userID uuid.UUID, completedOn sharedDomain.Day) *Completion {
	return &Completion{
		id:          uuid.New(),
		scheduleID:  scheduleID,
		userID:      userID,
		completedOn: completedOn,
		completedAt: time.Now().UTC(),
	}
}

// RehydrateCompletion recreates a completion from persisted state.
func RehydrateCompletion(id, scheduleID, userID uuid.UUID, completedOn sharedDomain.Day, completedAt time.Time) *Completion {
	return &Completion{
		id:          id,
		scheduleID:  scheduleID,
		userID:      userID,
		completedOn: completedOn,
		completedAt: completedAt,
	}
}

func (c *Completion) ID() uuid.UUID                 { return c.id }
func (c *Completion) ScheduleID() uuid.UUID         { return c.scheduleID }
func (c *Completion) UserID() uuid.UUID             { return c.userID }
func (c *Completion) CompletedOn() sharedDomain.Day { return c.completedOn }
func (c *Completion) CompletedAt() time.Time        { return c.completedAt }

// MissedOccurrence records that an occurrence applied on a day but was
// never completed. Rows are written only by the missed marker and removed
// when a late completion arrives: completion always wins.
type MissedOccurrence struct {
	id         uuid.UUID
	scheduleID uuid.UUID
	userID     uuid.UUID
	missedOn   sharedDomain.Day
	missedAt   time.Time
}

// NewMissedOccurrence creates a missed record for an occurrence day.
func NewMissedOccurrence(scheduleID, userID uuid.UUID, missedOn sharedDomain.Day) *MissedOccurrence {
	return &MissedOccurrence{
		id:         uuid.New(),
		scheduleID: scheduleID,
		userID:     userID,
		missedOn:   missedOn,
		missedAt:   time.Now().UTC(),
	}
}

// RehydrateMissedOccurrence recreates a missed record from persisted state.
func RehydrateMissedOccurrence(id, scheduleID, userID uuid.UUID, missedOn sharedDomain.Day, missedAt time.Time) *MissedOccurrence {
	return &MissedOccurrence{
		id:         id,
		scheduleID: scheduleID,
		userID:     userID,
		missedOn:   missedOn,
		missedAt:   missedAt,
	}
}

func (m *MissedOccurrence) ID() uuid.UUID              { return m.id }
func (m *MissedOccurrence) ScheduleID() uuid.UUID      { return m.scheduleID }
func (m *MissedOccurrence) UserID() uuid.UUID          { return m.userID }
func (m *MissedOccurrence) MissedOn() sharedDomain.Day { return m.missedOn }
func (m *MissedOccurrence) MissedAt() time.Time        { return m.missedAt }
