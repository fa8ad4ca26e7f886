package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	t.Run("truncates to UTC start of day", func(t *testing.T) {
		ts := time.Date(2024, 3, 15, 18, 42, 7, 123, time.UTC)

		day := DayOf(ts)

		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), day.Time())
		assert.Equal(t, "2024-03-15", day.String())
	})

	t.Run("converts non-UTC timestamps before truncating", func(t *testing.T) {
		loc := time.FixedZone("UTC+5", 5*3600)
		// 02:30 local on March 16 is still March 15 in UTC.
		ts := time.Date(2024, 3, 16, 2, 30, 0, 0, loc)

		assert.Equal(t, "2024-03-15", DayOf(ts).String())
	})
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 31, day.DayOfMonth())

	_, err = ParseDay("31/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = ParseDay("")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestDayISOWeekday(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-01-01", 1}, // Monday
		{"2024-01-03", 3}, // Wednesday
		{"2024-01-06", 6}, // Saturday
		{"2024-01-07", 7}, // Sunday
	}
	for _, tt := range tests {
		day, err := ParseDay(tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.want, day.ISOWeekday(), tt.date)
	}
}

func TestDayArithmetic(t *testing.T) {
	day, err := ParseDay("2024-02-28")
	require.NoError(t, err)

	assert.Equal(t, "2024-02-29", day.AddDays(1).String()) // leap year
	assert.Equal(t, "2024-03-28", day.AddMonths(1).String())
	assert.Equal(t, 2, day.DaysUntil(day.AddDays(2)))
	assert.Equal(t, -2, day.DaysUntil(day.AddDays(-2)))
}

func TestDayWeekAndMonthBounds(t *testing.T) {
	day, err := ParseDay("2024-03-15") // a Friday
	require.NoError(t, err)

	assert.Equal(t, "2024-03-11", day.StartOfWeek().String())
	assert.Equal(t, "2024-03-01", day.StartOfMonth().String())
	assert.Equal(t, "2024-03-31", day.EndOfMonth().String())

	sunday, err := ParseDay("2024-03-17")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", sunday.StartOfWeek().String())
}

func TestDaysBetween(t *testing.T) {
	from, _ := ParseDay("2024-01-30")
	to, _ := ParseDay("2024-02-02")

	days := DaysBetween(from, to)

	require.Len(t, days, 4)
	assert.Equal(t, "2024-01-30", days[0].String())
	assert.Equal(t, "2024-02-02", days[3].String())

	assert.Nil(t, DaysBetween(to, from))
	assert.Len(t, DaysBetween(from, from), 1)
}
