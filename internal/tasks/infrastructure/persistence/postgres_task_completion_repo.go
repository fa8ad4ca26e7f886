package persistence

import (
	"context"
	"errors"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	sharedPersistence "github.com/cadencelabs/cadence/internal/shared/infrastructure/persistence"
	"github.com/cadencelabs/cadence/internal/tasks/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresTaskCompletionRepository implements domain.TaskCompletionRepository using PostgreSQL.
type PostgresTaskCompletionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskCompletionRepository creates a new PostgreSQL task completion repository.
func NewPostgresTaskCompletionRepository(pool *pgxpool.Pool) *PostgresTaskCompletionRepository {
	return &PostgresTaskCompletionRepository{pool: pool}
}

// Add inserts one completion. The (task_id, completed_date) unique
// constraint turns the double-complete race into ErrTaskAlreadyCompleted.
func (r *PostgresTaskCompletionRepository) Add(ctx context.Context, c *domain.TaskCompletion) error {
	query := `
		INSERT INTO task_daily_completions (id, task_id, user_id, completed_date, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		c.ID(), c.TaskID(), c.UserID(), c.CompletedOn().Time(), c.CompletedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrTaskAlreadyCompleted
		}
		return err
	}
	return nil
}

// AddBatch inserts completions insert-or-ignore and reports how many rows
// were actually written.
func (r *PostgresTaskCompletionRepository) AddBatch(ctx context.Context, completions []*domain.TaskCompletion) (int, error) {
	if len(completions) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO task_daily_completions (id, task_id, user_id, completed_date, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (task_id, completed_date) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, c := range completions {
		batch.Queue(query, c.ID(), c.TaskID(), c.UserID(), c.CompletedOn().Time(), c.CompletedAt())
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

// Remove deletes the completion row for one day.
func (r *PostgresTaskCompletionRepository) Remove(ctx context.Context, userID, taskID uuid.UUID, day sharedDomain.Day) error {
	query := `
		DELETE FROM task_daily_completions
		WHERE user_id = $1 AND task_id = $2 AND completed_date = $3
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	result, err := execer.Exec(ctx, query, userID, taskID, day.Time())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTaskCompletionNotFound
	}
	return nil
}

// FindInRange returns the user's completions with a ledger day in [from, to].
func (r *PostgresTaskCompletionRepository) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.TaskCompletion, error) {
	query := `
		SELECT id, task_id, user_id, completed_date, completed_at
		FROM task_daily_completions
		WHERE user_id = $1 AND completed_date BETWEEN $2 AND $3
		ORDER BY completed_date
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTaskCompletions(rows)
}

// FindTaskIDsForDay returns which of the given tasks are completed on the day.
func (r *PostgresTaskCompletionRepository) FindTaskIDsForDay(ctx context.Context, taskIDs []uuid.UUID, day sharedDomain.Day) ([]uuid.UUID, error) {
	query := `
		SELECT task_id FROM task_daily_completions
		WHERE task_id = ANY($1) AND completed_date = $2
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, taskIDs, day.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func scanTaskCompletions(rows pgx.Rows) ([]*domain.TaskCompletion, error) {
	var completions []*domain.TaskCompletion

	for rows.Next() {
		var (
			id, taskID, userID uuid.UUID
			completedOn        time.Time
			completedAt        time.Time
		)
		if err := rows.Scan(&id, &taskID, &userID, &completedOn, &completedAt); err != nil {
			return nil, err
		}
		completions = append(completions, domain.RehydrateTaskCompletion(
			id, taskID, userID, sharedDomain.DayOf(completedOn), completedAt,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return completions, nil
}
