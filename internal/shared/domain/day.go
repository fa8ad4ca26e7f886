package domain

import (
	"errors"
	"time"
)

// ErrInvalidDay is returned when a day string cannot be parsed.
var ErrInvalidDay = errors.New("invalid day, expected YYYY-MM-DD")

// dayLayout is the ISO date layout used for all day keys.
const dayLayout = "2006-01-02"

// Day is a calendar day at UTC start-of-day. Every ledger key and every
// date comparison in the engine goes through this type, so a timestamp
// with a nonzero time-of-day component can never leak into storage.
type Day struct {
	t time.Time
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return Day{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses an ISO YYYY-MM-DD string into a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, ErrInvalidDay
	}
	return Day{t: t}, nil
}

// Time returns the day as a time.Time at UTC midnight.
func (d Day) Time() time.Time { return d.t }

// String returns the ISO YYYY-MM-DD form used as map and ledger keys.
func (d Day) String() string { return d.t.Format(dayLayout) }

// IsZero reports whether the day is the zero value.
func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool  { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool  { return d.t.Equal(other.t) }

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// AddMonths returns the day shifted by n months. time.AddDate normalizes
// overflow (Jan 31 + 1 month = Mar 2/3), which callers expanding monthly
// recurrences must account for by re-checking the day of month.
func (d Day) AddMonths(n int) Day {
	return DayOf(d.t.AddDate(0, n, 0))
}

// ISOWeekday returns the ISO weekday, 1=Monday .. 7=Sunday.
func (d Day) ISOWeekday() int {
	wd := int(d.t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DayOfMonth returns the day number within the month, 1-31.
func (d Day) DayOfMonth() int { return d.t.Day() }

// StartOfWeek returns the Monday of the week containing d.
func (d Day) StartOfWeek() Day {
	return d.AddDays(1 - d.ISOWeekday())
}

// StartOfMonth returns the first day of the month containing d.
func (d Day) StartOfMonth() Day {
	return Day{t: time.Date(d.t.Year(), d.t.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// EndOfMonth returns the last day of the month containing d.
func (d Day) EndOfMonth() Day {
	return d.StartOfMonth().AddMonths(1).AddDays(-1)
}

// DaysUntil returns the number of whole days from d to other.
// Negative when other is earlier.
func (d Day) DaysUntil(other Day) int {
	return int(other.t.Sub(d.t) / (24 * time.Hour))
}

// DaysBetween enumerates every day in [from, to] inclusive, in order.
// An inverted range yields nil.
func DaysBetween(from, to Day) []Day {
	if from.After(to) {
		return nil
	}
	days := make([]Day, 0, from.DaysUntil(to)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
