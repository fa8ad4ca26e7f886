package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		stats      DailyStats
		sleepHours *float64
		exercise   bool
		want       int
	}{
		{
			name:  "no workload scores zero",
			stats: DailyStats{},
			want:  0,
		},
		{
			name:  "full completion scores hundred",
			stats: DailyStats{Total: 3, Completed: 3},
			want:  100,
		},
		{
			name:  "half completion scores fifty",
			stats: DailyStats{Total: 2, Completed: 1},
			want:  50,
		},
		{
			name:  "ratio rounds to nearest integer",
			stats: DailyStats{Total: 3, Completed: 2},
			want:  67,
		},
		{
			name:  "each missed occurrence costs five",
			stats: DailyStats{Total: 2, Completed: 1, Missed: 1},
			want:  45,
		},
		{
			name:       "short sleep costs five",
			stats:      DailyStats{Total: 2, Completed: 2},
			sleepHours: floatPtr(4.5),
			want:       95,
		},
		{
			name:       "five hours of sleep is not penalized",
			stats:      DailyStats{Total: 2, Completed: 2},
			sleepHours: floatPtr(5),
			want:       100,
		},
		{
			name:     "exercise adds three",
			stats:    DailyStats{Total: 2, Completed: 1},
			exercise: true,
			want:     53,
		},
		{
			name:     "score is clamped at hundred",
			stats:    DailyStats{Total: 1, Completed: 1},
			exercise: true,
			want:     100,
		},
		{
			name:  "score is clamped at zero",
			stats: DailyStats{Total: 4, Missed: 4},
			want:  0,
		},
		{
			name:       "all modifiers combine",
			stats:      DailyStats{Total: 2, Completed: 1, Missed: 1},
			sleepHours: floatPtr(4),
			exercise:   true,
			want:       43,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.stats, tt.sleepHours, tt.exercise))
		})
	}
}

func TestExplainScore(t *testing.T) {
	t.Run("names every fired factor", func(t *testing.T) {
		breakdown := ExplainScore(DailyStats{Total: 2, Completed: 1, Missed: 1}, floatPtr(4), true)

		assert.Equal(t, 50, breakdown.BaseScore)
		assert.Equal(t, 43, breakdown.FinalScore)

		assert.Len(t, breakdown.Penalties, 2)
		assert.Equal(t, "missed_occurrences", breakdown.Penalties[0].Type)
		assert.Equal(t, -5, breakdown.Penalties[0].Impact)
		assert.Equal(t, "short_sleep", breakdown.Penalties[1].Type)
		assert.Equal(t, -5, breakdown.Penalties[1].Impact)

		assert.Len(t, breakdown.Bonuses, 1)
		assert.Equal(t, "exercise", breakdown.Bonuses[0].Type)
		assert.Equal(t, 3, breakdown.Bonuses[0].Impact)
	})

	t.Run("missed penalty scales with count", func(t *testing.T) {
		breakdown := ExplainScore(DailyStats{Total: 5, Completed: 2, Missed: 3}, nil, false)

		assert.Equal(t, 40, breakdown.BaseScore)
		assert.Len(t, breakdown.Penalties, 1)
		assert.Equal(t, -15, breakdown.Penalties[0].Impact)
		assert.Equal(t, 25, breakdown.FinalScore)
	})

	t.Run("clean day has no penalties", func(t *testing.T) {
		breakdown := ExplainScore(DailyStats{Total: 2, Completed: 2}, floatPtr(8), true)

		assert.Empty(t, breakdown.Penalties)
		assert.Len(t, breakdown.Bonuses, 1)
		assert.Equal(t, 100, breakdown.FinalScore)
	})

	t.Run("offers tips for unfired bonuses and fired penalties", func(t *testing.T) {
		breakdown := ExplainScore(DailyStats{Total: 2, Completed: 1, Missed: 1}, floatPtr(4), false)

		assert.Len(t, breakdown.Tips, 3)
	})
}
