package domain

import (
	"testing"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	userID := uuid.New()

	t.Run("creates a task with trimmed title", func(t *testing.T) {
		task, err := NewTask(userID, "  water the plants  ", "balcony only")

		require.NoError(t, err)
		assert.Equal(t, "water the plants", task.Title())
		assert.Equal(t, "balcony only", task.Notes())
		assert.Equal(t, userID, task.UserID())
		assert.NotEqual(t, uuid.Nil, task.ID())
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		_, err := NewTask(userID, "   ", "")

		assert.ErrorIs(t, err, ErrTaskTitleRequired)
	})
}

func TestTaskCreatedOn(t *testing.T) {
	createdAt := time.Date(2024, 3, 10, 23, 45, 0, 0, time.UTC)
	task := RehydrateTask(uuid.New(), uuid.New(), "journal", "", createdAt, createdAt)

	assert.Equal(t, "2024-03-10", task.CreatedOn().String())
}

func TestTaskCompletionLedgerDay(t *testing.T) {
	day, err := sharedDomain.ParseDay("2024-03-10")
	require.NoError(t, err)

	c := NewTaskCompletion(uuid.New(), uuid.New(), day)

	assert.True(t, day.Equal(c.CompletedOn()))
	assert.WithinDuration(t, time.Now(), c.CompletedAt(), time.Minute)
}
