package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrBehaviorLogNotFound  = errors.New("behavior log not found")
	ErrMoodRequired         = errors.New("mood is required")
	ErrInvalidMood          = errors.New("invalid mood")
	ErrFutureDate           = errors.New("behavior logs cannot be dated in the future")
	ErrSleepHoursOutOfRange = errors.New("sleep hours must be between 0 and 24")
)

// Mood is the user's self-reported mood for a day.
type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodLow   Mood = "low"
	MoodBad   Mood = "bad"
)

// ValidMoods returns all valid moods.
func ValidMoods() []Mood {
	return []Mood{MoodGreat, MoodGood, MoodOkay, MoodLow, MoodBad}
}

// IsValidMood checks if the given mood is valid.
func IsValidMood(m Mood) bool {
	for _, valid := range ValidMoods() {
		if m == valid {
			return true
		}
	}
	return false
}

// BehaviorLog captures one day's lifestyle factors. Unique per (user, day);
// the modifiers feed the productivity score but the score itself is always
// derived, never stored.
type BehaviorLog struct {
	sharedDomain.BaseAggregateRoot
	userID     uuid.UUID
	date       sharedDomain.Day
	mood       Mood
	sleepHours *float64
	exercise   bool
	notes      string
}

// NewBehaviorLog creates a validated behavior log for a past or current day.
func NewBehaviorLog(userID uuid.UUID, date sharedDomain.Day, mood Mood, sleepHours *float64, exercise bool, notes string) (*BehaviorLog, error) {
	if mood == "" {
		return nil, ErrMoodRequired
	}
	if !IsValidMood(mood) {
		return nil, ErrInvalidMood
	}
	if date.After(sharedDomain.Today()) {
		return nil, ErrFutureDate
	}
	if err := validateSleepHours(sleepHours); err != nil {
		return nil, err
	}

	log := &BehaviorLog{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		date:              date,
		mood:              mood,
		sleepHours:        sleepHours,
		exercise:          exercise,
		notes:             notes,
	}
	log.AddDomainEvent(NewBehaviorLogged(log))
	return log, nil
}

func (l *BehaviorLog) UserID() uuid.UUID      { return l.userID }
func (l *BehaviorLog) Date() sharedDomain.Day { return l.date }
func (l *BehaviorLog) Mood() Mood             { return l.mood }
func (l *BehaviorLog) SleepHours() *float64   { return l.sleepHours }
func (l *BehaviorLog) Exercise() bool         { return l.exercise }
func (l *BehaviorLog) Notes() string          { return l.notes }

// ShortSleep reports whether the logged sleep qualifies for the score
// penalty (present and under five hours).
func (l *BehaviorLog) ShortSleep() bool {
	return l.sleepHours != nil && *l.sleepHours < 5
}

// Update replaces the day's factors; the (user, day) identity is fixed.
func (l *BehaviorLog) Update(mood Mood, sleepHours *float64, exercise bool, notes string) error {
	if mood == "" {
		return ErrMoodRequired
	}
	if !IsValidMood(mood) {
		return ErrInvalidMood
	}
	if err := validateSleepHours(sleepHours); err != nil {
		return err
	}

	l.mood = mood
	l.sleepHours = sleepHours
	l.exercise = exercise
	l.notes = notes
	l.Touch()
	l.AddDomainEvent(NewBehaviorLogged(l))
	return nil
}

func validateSleepHours(hours *float64) error {
	if hours != nil && (*hours < 0 || *hours > 24) {
		return ErrSleepHoursOutOfRange
	}
	return nil
}

// RehydrateBehaviorLog reconstructs a behavior log from storage.
func RehydrateBehaviorLog(
	id, userID uuid.UUID,
	date sharedDomain.Day,
	mood Mood,
	sleepHours *float64,
	exercise bool,
	notes string,
	createdAt, updatedAt time.Time,
) *BehaviorLog {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &BehaviorLog{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		userID:            userID,
		date:              date,
		mood:              mood,
		sleepHours:        sleepHours,
		exercise:          exercise,
		notes:             notes,
	}
}
