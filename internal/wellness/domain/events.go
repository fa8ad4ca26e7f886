package domain

import (
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// BehaviorLogged is emitted when a behavior log is created or updated.
type BehaviorLogged struct {
	sharedDomain.BaseEvent
	UserID     uuid.UUID `json:"user_id"`
	Date       string    `json:"date"`
	Mood       string    `json:"mood"`
	SleepHours *float64  `json:"sleep_hours,omitempty"`
	Exercise   bool      `json:"exercise"`
}

// NewBehaviorLogged creates a BehaviorLogged event.
func NewBehaviorLogged(log *BehaviorLog) *BehaviorLogged {
	return &BehaviorLogged{
		BaseEvent:  sharedDomain.NewBaseEvent(log.ID(), "BehaviorLog", "wellness.behavior.logged"),
		UserID:     log.UserID(),
		Date:       log.Date().String(),
		Mood:       string(log.Mood()),
		SleepHours: log.SleepHours(),
		Exercise:   log.Exercise(),
	}
}
