package queries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadencelabs/cadence/internal/insights/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
)

type stubStreakReader struct {
	overview     domain.StreakOverview
	calendar     map[string]bool
	calendarDays int
}

func (s *stubStreakReader) Overview(ctx context.Context, userID uuid.UUID, today sharedDomain.Day) (domain.StreakOverview, error) {
	return s.overview, nil
}

func (s *stubStreakReader) Calendar(ctx context.Context, userID uuid.UUID, today sharedDomain.Day, days int) (map[string]bool, error) {
	s.calendarDays = days
	return s.calendar, nil
}

func TestGetStreaksHandler_Handle(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	today := sharedDomain.Today()

	t.Run("combines overview and calendar", func(t *testing.T) {
		reader := &stubStreakReader{
			overview: domain.StreakOverview{CurrentStreak: 4, LongestStreak: 9, IsActive: true},
			calendar: map[string]bool{today.String(): true},
		}
		handler := NewGetStreaksHandler(reader)

		dto, err := handler.Handle(ctx, GetStreaksQuery{UserID: userID, CalendarDays: 14})
		require.NoError(t, err)

		assert.Equal(t, 4, dto.CurrentStreak)
		assert.Equal(t, 9, dto.LongestStreak)
		assert.True(t, dto.IsActive)
		assert.True(t, dto.Calendar[today.String()])
		assert.Equal(t, 14, reader.calendarDays)
	})

	t.Run("falls back to the default calendar window", func(t *testing.T) {
		reader := &stubStreakReader{calendar: map[string]bool{}}
		handler := NewGetStreaksHandler(reader)

		_, err := handler.Handle(ctx, GetStreaksQuery{UserID: userID})
		require.NoError(t, err)

		assert.Equal(t, defaultCalendarDays, reader.calendarDays)
	})
}
