package domain

import (
	"context"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// BehaviorLogRepository persists behavior logs, one row per (user, day).
type BehaviorLogRepository interface {
	// Save upserts the log for its (user, day).
	Save(ctx context.Context, log *BehaviorLog) error

	// FindByDate returns the log for the day or nil when absent.
	FindByDate(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) (*BehaviorLog, error)

	// FindInRange returns the user's logs with a day in [from, to], oldest first.
	FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*BehaviorLog, error)
}
