package persistence

import (
	"context"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	sharedPersistence "github.com/cadencelabs/cadence/internal/shared/infrastructure/persistence"
	"github.com/cadencelabs/cadence/internal/tasks/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTaskRepository implements domain.TaskRepository using PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Save upserts a task.
func (r *PostgresTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			notes = EXCLUDED.notes,
			updated_at = NOW()
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		task.ID(), task.UserID(), task.Title(), task.Notes(), task.CreatedAt(), task.UpdatedAt(),
	)
	return err
}

// FindByID returns the task or nil when absent.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT id, user_id, title, notes, created_at, updated_at FROM tasks WHERE id = $1`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return tasks[0], nil
}

// FindByIDs returns the subset of the given tasks owned by the user.
func (r *PostgresTaskRepository) FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, user_id, title, notes, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND id = ANY($2)
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// FindUnscheduledInRange returns the user's schedule-less tasks created on
// a day within [from, to].
func (r *PostgresTaskRepository) FindUnscheduledInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.Task, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.notes, t.created_at, t.updated_at
		FROM tasks t
		WHERE t.user_id = $1
		  AND t.created_at >= $2
		  AND t.created_at < $3
		  AND NOT EXISTS (SELECT 1 FROM schedules s WHERE s.task_id = t.id)
		ORDER BY t.created_at
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, from.Time(), to.AddDays(1).Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task

	for rows.Next() {
		var (
			id, userID           uuid.UUID
			title, notes         string
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &userID, &title, &notes, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, domain.RehydrateTask(id, userID, title, notes, createdAt, updatedAt))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
