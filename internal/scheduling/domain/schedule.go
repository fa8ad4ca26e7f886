package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrScheduleNotFound        = errors.New("schedule not found")
	ErrInvalidRecurrence       = errors.New("invalid recurrence")
	ErrInvalidTimeRange        = errors.New("end time must be after start time")
	ErrInvalidClockTime        = errors.New("invalid clock time, expected HH:MM")
	ErrInvalidWeekday          = errors.New("repeat weekdays must be in range 1-7")
	ErrRepeatDaysRequired      = errors.New("weekly recurrence requires repeat weekdays")
	ErrRepeatDaysForbidden     = errors.New("repeat weekdays are only valid for weekly recurrence")
	ErrRepeatUntilRequired     = errors.New("recurring schedules require a repeat-until date")
	ErrRepeatUntilForbidden    = errors.New("one-off schedules cannot have a repeat-until date")
	ErrRepeatUntilBeforeAnchor = errors.New("repeat-until date is before the first occurrence")
	ErrScheduleOverlap         = errors.New("schedule overlaps an existing schedule on that day")
	ErrDuplicateSchedule       = errors.New("an identical schedule already exists")
)

// Recurrence describes how often a schedule repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "NONE"
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
)

// IsValid checks if the recurrence is a known value.
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

// ParseClockTime parses an "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, ErrInvalidClockTime
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, ErrInvalidClockTime
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, ErrInvalidClockTime
	}
	return ClockTime(hour*60 + minute), nil
}

// String returns the HH:MM form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int { return int(c) }

// Schedule binds a task to a recurrence window. The engine treats it as
// read-mostly: occurrences come from AppliesOn, never from stored rows.
type Schedule struct {
	sharedDomain.BaseAggregateRoot
	userID       uuid.UUID
	taskID       uuid.UUID
	scheduleDate sharedDomain.Day
	startTime    ClockTime
	endTime      ClockTime
	recurrence   Recurrence
	repeatUntil  *sharedDomain.Day
	repeatOnDays []int
	notes        string
}

// NewSchedule creates a schedule definition, enforcing the recurrence
// field invariants.
func NewSchedule(
	userID, taskID uuid.UUID,
	scheduleDate sharedDomain.Day,
	startTime, endTime ClockTime,
	recurrence Recurrence,
	repeatUntil *sharedDomain.Day,
	repeatOnDays []int,
	notes string,
) (*Schedule, error) {
	if !recurrence.IsValid() {
		return nil, ErrInvalidRecurrence
	}
	if endTime <= startTime {
		return nil, ErrInvalidTimeRange
	}

	if recurrence == RecurrenceNone {
		if repeatUntil != nil {
			return nil, ErrRepeatUntilForbidden
		}
	} else {
		if repeatUntil == nil {
			return nil, ErrRepeatUntilRequired
		}
		if repeatUntil.Before(scheduleDate) {
			return nil, ErrRepeatUntilBeforeAnchor
		}
	}

	switch {
	case recurrence == RecurrenceWeekly && len(repeatOnDays) == 0:
		return nil, ErrRepeatDaysRequired
	case recurrence != RecurrenceWeekly && len(repeatOnDays) > 0:
		return nil, ErrRepeatDaysForbidden
	}
	for _, wd := range repeatOnDays {
		if wd < 1 || wd > 7 {
			return nil, ErrInvalidWeekday
		}
	}

	return &Schedule{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		taskID:            taskID,
		scheduleDate:      scheduleDate,
		startTime:         startTime,
		endTime:           endTime,
		recurrence:        recurrence,
		repeatUntil:       repeatUntil,
		repeatOnDays:      normalizeWeekdays(repeatOnDays),
		notes:             notes,
	}, nil
}

// Getters
func (s *Schedule) UserID() uuid.UUID              { return s.userID }
func (s *Schedule) TaskID() uuid.UUID              { return s.taskID }
func (s *Schedule) ScheduleDate() sharedDomain.Day { return s.scheduleDate }
func (s *Schedule) StartTime() ClockTime           { return s.startTime }
func (s *Schedule) EndTime() ClockTime             { return s.endTime }
func (s *Schedule) Recurrence() Recurrence         { return s.recurrence }
func (s *Schedule) RepeatUntil() *sharedDomain.Day { return s.repeatUntil }
func (s *Schedule) RepeatOnDays() []int            { return s.repeatOnDays }
func (s *Schedule) Notes() string                  { return s.notes }

// AppliesOn decides whether this schedule fires on the given day. It is
// the single source of truth for recurrence: the missed marker, the stats
// aggregator, the streak engine and the dashboard all call it rather than
// re-deriving weekday or day-of-month checks.
func (s *Schedule) AppliesOn(day sharedDomain.Day) bool {
	if day.Before(s.scheduleDate) {
		return false
	}
	// repeatUntil is inclusive.
	if s.repeatUntil != nil && day.After(*s.repeatUntil) {
		return false
	}

	switch s.recurrence {
	case RecurrenceNone:
		return day.Equal(s.scheduleDate)
	case RecurrenceDaily:
		return true
	case RecurrenceWeekly:
		return s.repeatsOnWeekday(day.ISOWeekday())
	case RecurrenceMonthly:
		// An anchor day with no match in a month (31st in a 30-day month)
		// produces no occurrence that month. No clamping.
		return day.DayOfMonth() == s.scheduleDate.DayOfMonth()
	default:
		return false
	}
}

// WindowMayInclude reports whether the recurrence window [scheduleDate,
// repeatUntil] could contain the given day. Used to prefilter candidates
// before the per-day AppliesOn check.
func (s *Schedule) WindowMayInclude(day sharedDomain.Day) bool {
	if day.Before(s.scheduleDate) {
		return false
	}
	return s.repeatUntil == nil || !day.After(*s.repeatUntil)
}

// OverlapsWith reports whether two schedules anchored on the same day
// claim overlapping time ranges.
func (s *Schedule) OverlapsWith(other *Schedule) bool {
	if !s.scheduleDate.Equal(other.scheduleDate) {
		return false
	}
	return s.startTime < other.endTime && other.startTime < s.endTime
}

// SameDefinitionAs reports whether another schedule carries the exact
// same definition, used for duplicate detection at create time.
func (s *Schedule) SameDefinitionAs(other *Schedule) bool {
	if s.taskID != other.taskID ||
		!s.scheduleDate.Equal(other.scheduleDate) ||
		s.startTime != other.startTime ||
		s.endTime != other.endTime ||
		s.recurrence != other.recurrence {
		return false
	}
	if (s.repeatUntil == nil) != (other.repeatUntil == nil) {
		return false
	}
	if s.repeatUntil != nil && !s.repeatUntil.Equal(*other.repeatUntil) {
		return false
	}
	if len(s.repeatOnDays) != len(other.repeatOnDays) {
		return false
	}
	for i, wd := range s.repeatOnDays {
		if other.repeatOnDays[i] != wd {
			return false
		}
	}
	return true
}

func (s *Schedule) repeatsOnWeekday(weekday int) bool {
	for _, wd := range s.repeatOnDays {
		if wd == weekday {
			return true
		}
	}
	return false
}

func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, wd := range days {
		if !seen[wd] {
			seen[wd] = true
			out = append(out, wd)
		}
	}
	sort.Ints(out)
	return out
}

// RehydrateSchedule recreates a schedule from persisted state.
func RehydrateSchedule(
	id, userID, taskID uuid.UUID,
	scheduleDate sharedDomain.Day,
	startTime, endTime ClockTime,
	recurrence Recurrence,
	repeatUntil *sharedDomain.Day,
	repeatOnDays []int,
	notes string,
	createdAt, updatedAt time.Time,
) *Schedule {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Schedule{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		userID:            userID,
		taskID:            taskID,
		scheduleDate:      scheduleDate,
		startTime:         startTime,
		endTime:           endTime,
		recurrence:        recurrence,
		repeatUntil:       repeatUntil,
		repeatOnDays:      normalizeWeekdays(repeatOnDays),
		notes:             notes,
	}
}
