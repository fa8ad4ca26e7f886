package persistence

import (
	"context"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	sharedPersistence "github.com/cadencelabs/cadence/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMissedRepository implements domain.MissedRepository using PostgreSQL.
type PostgresMissedRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMissedRepository creates a new PostgreSQL missed-occurrence repository.
func NewPostgresMissedRepository(pool *pgxpool.Pool) *PostgresMissedRepository {
	return &PostgresMissedRepository{pool: pool}
}

// AddBatch inserts missed rows insert-or-ignore, which makes marker reruns
// for an already-processed day a no-op.
func (r *PostgresMissedRepository) AddBatch(ctx context.Context, missed []*domain.MissedOccurrence) (int, error) {
	if len(missed) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO missed_schedules (id, schedule_id, user_id, missed_on, missed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (schedule_id, missed_on) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, m := range missed {
		batch.Queue(query, m.ID(), m.ScheduleID(), m.UserID(), m.MissedOn().Time(), m.MissedAt())
	}

	execer := sharedPersistence.Executor(ctx, r.pool)
	results := execer.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range missed {
		tag, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// Remove deletes the day's missed rows for the given schedules. Absent rows
// are not an error; completion wins regardless of whether a miss was recorded.
func (r *PostgresMissedRepository) Remove(ctx context.Context, scheduleIDs []uuid.UUID, day sharedDomain.Day) error {
	if len(scheduleIDs) == 0 {
		return nil
	}

	query := `DELETE FROM missed_schedules WHERE schedule_id = ANY($1) AND missed_on = $2`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query, scheduleIDs, day.Time())
	return err
}

// FindInRange returns the user's missed occurrences with missed_on in [from, to].
func (r *PostgresMissedRepository) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.MissedOccurrence, error) {
	query := `
		SELECT id, schedule_id, user_id, missed_on, missed_at
		FROM missed_schedules
		WHERE user_id = $1 AND missed_on BETWEEN $2 AND $3
		ORDER BY missed_on
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMissed(rows)
}

// FindScheduleIDsMissedOn returns the ids of schedules already marked
// missed on the day, across users.
func (r *PostgresMissedRepository) FindScheduleIDsMissedOn(ctx context.Context, day sharedDomain.Day) ([]uuid.UUID, error) {
	query := `SELECT schedule_id FROM missed_schedules WHERE missed_on = $1`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, day.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScheduleIDs(rows)
}

// FindByUser returns every missed occurrence for the user, newest first.
func (r *PostgresMissedRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.MissedOccurrence, error) {
	query := `
		SELECT id, schedule_id, user_id, missed_on, missed_at
		FROM missed_schedules
		WHERE user_id = $1
		ORDER BY missed_at DESC
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMissed(rows)
}

func scanMissed(rows pgx.Rows) ([]*domain.MissedOccurrence, error) {
	var missed []*domain.MissedOccurrence

	for rows.Next() {
		var (
			id, scheduleID, userID uuid.UUID
			missedOn               time.Time
			missedAt               time.Time
		)
		if err := rows.Scan(&id, &scheduleID, &userID, &missedOn, &missedAt); err != nil {
			return nil, err
		}
		missed = append(missed, domain.RehydrateMissedOccurrence(
			id, scheduleID, userID, sharedDomain.DayOf(missedOn), missedAt,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return missed, nil
}
