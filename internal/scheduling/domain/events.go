package domain

import (
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Schedule"

// OccurrenceCompleted is emitted when an occurrence is marked done.
type OccurrenceCompleted struct {
	sharedDomain.BaseEvent
	ScheduleID  uuid.UUID `json:"schedule_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedOn string    `json:"completed_on"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewOccurrenceCompleted creates an OccurrenceCompleted event.
func NewOccurrenceCompleted(c *Completion) *OccurrenceCompleted {
	return &OccurrenceCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(c.ScheduleID(), aggregateType, "scheduling.occurrence.completed"),
		ScheduleID:  c.ScheduleID(),
		UserID:      c.UserID(),
		CompletedOn: c.CompletedOn().String(),
		CompletedAt: c.CompletedAt(),
	}
}

// OccurrenceCompletionUndone is emitted when a completion is undone.
type OccurrenceCompletionUndone struct {
	sharedDomain.BaseEvent
	ScheduleID  uuid.UUID `json:"schedule_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedOn string    `json:"completed_on"`
}

// NewOccurrenceCompletionUndone creates an OccurrenceCompletionUndone event.
func NewOccurrenceCompletionUndone(scheduleID, userID uuid.UUID, day sharedDomain.Day) *OccurrenceCompletionUndone {
	return &OccurrenceCompletionUndone{
		BaseEvent:   sharedDomain.NewBaseEvent(scheduleID, aggregateType, "scheduling.occurrence.completion_undone"),
		ScheduleID:  scheduleID,
		UserID:      userID,
		CompletedOn: day.String(),
	}
}

// OccurrencesMissed is emitted once per marker run that marked anything.
type OccurrencesMissed struct {
	sharedDomain.BaseEvent
	MissedOn string `json:"missed_on"`
	Marked   int    `json:"marked"`
}

// NewOccurrencesMissed creates an OccurrencesMissed event for a marker run.
func NewOccurrencesMissed(day sharedDomain.Day, marked int) *OccurrencesMissed {
	return &OccurrencesMissed{
		BaseEvent: sharedDomain.NewBaseEvent(uuid.New(), aggregateType, "scheduling.occurrences.missed"),
		MissedOn:  day.String(),
		Marked:    marked,
	}
}
