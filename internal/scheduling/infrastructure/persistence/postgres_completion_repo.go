package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	sharedPersistence "github.com/cadencelabs/cadence/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresCompletionRepository implements domain.CompletionRepository using PostgreSQL.
type PostgresCompletionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCompletionRepository creates a new PostgreSQL completion repository.
func NewPostgresCompletionRepository(pool *pgxpool.Pool) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{pool: pool}
}

// Add inserts one completion. The (schedule_id, completed_on) unique
// constraint turns the double-complete race into ErrAlreadyCompleted.
func (r *PostgresCompletionRepository) Add(ctx context.Context, c *domain.Completion) error {
	query := `
		INSERT INTO schedule_completions (id, schedule_id, user_id, completed_on, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		c.ID(), c.ScheduleID(), c.UserID(), c.CompletedOn().Time(), c.CompletedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyCompleted
		}
		return err
	}
	return nil
}

// AddBatch inserts completions insert-or-ignore and reports how many rows
// were actually written.
func (r *PostgresCompletionRepository) AddBatch(ctx context.Context, completions []*domain.Completion) (int, error) {
	if len(completions) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO schedule_completions (id, schedule_id, user_id, completed_on, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (schedule_id, completed_on) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, c := range completions {
		batch.Queue(query, c.ID(), c.ScheduleID(), c.UserID(), c.CompletedOn().Time(), c.CompletedAt())
	}

	execer := sharedPersistence.Executor(ctx, r.pool)
	results := execer.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range completions {
		tag, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// Remove deletes the completion row for one occurrence day.
func (r *PostgresCompletionRepository) Remove(ctx context.Context, userID, scheduleID uuid.UUID, day sharedDomain.Day) error {
	query := `
		DELETE FROM schedule_completions
		WHERE user_id = $1 AND schedule_id = $2 AND completed_on = $3
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	result, err := execer.Exec(ctx, query, userID, scheduleID, day.Time())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCompletionNotFound
	}
	return nil
}

// FindInRange returns the user's completions with completed_on in [from, to].
func (r *PostgresCompletionRepository) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.Completion, error) {
	query := `
		SELECT id, schedule_id, user_id, completed_on, completed_at
		FROM schedule_completions
		WHERE user_id = $1 AND completed_on BETWEEN $2 AND $3
		ORDER BY completed_on
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompletions(rows)
}

// FindScheduleIDsCompletedOn returns the ids of schedules completed on the
// day, across users.
func (r *PostgresCompletionRepository) FindScheduleIDsCompletedOn(ctx context.Context, day sharedDomain.Day) ([]uuid.UUID, error) {
	query := `SELECT schedule_id FROM schedule_completions WHERE completed_on = $1`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, day.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScheduleIDs(rows)
}

// FindScheduleIDsForDay returns which of the given schedules are completed
// on the day.
func (r *PostgresCompletionRepository) FindScheduleIDsForDay(ctx context.Context, scheduleIDs []uuid.UUID, day sharedDomain.Day) ([]uuid.UUID, error) {
	query := `
		SELECT schedule_id FROM schedule_completions
		WHERE schedule_id = ANY($1) AND completed_on = $2
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, scheduleIDs, day.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScheduleIDs(rows)
}

// FindByUser returns every completion the user has recorded, newest first.
func (r *PostgresCompletionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Completion, error) {
	query := `
		SELECT id, schedule_id, user_id, completed_on, completed_at
		FROM schedule_completions
		WHERE user_id = $1
		ORDER BY completed_at DESC
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompletions(rows)
}

func scanCompletions(rows pgx.Rows) ([]*domain.Completion, error) {
	var completions []*domain.Completion

	for rows.Next() {
		var (
			id, scheduleID, userID uuid.UUID
			completedOn            time.Time
			completedAt            time.Time
		)
		if err := rows.Scan(&id, &scheduleID, &userID, &completedOn, &completedAt); err != nil {
			return nil, err
		}
		completions = append(completions, domain.RehydrateCompletion(
			id, scheduleID, userID, sharedDomain.DayOf(completedOn), completedAt,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return completions, nil
}

func scanScheduleIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
