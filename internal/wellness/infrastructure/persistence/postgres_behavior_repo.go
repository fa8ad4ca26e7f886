package persistence

import (
	"context"
	"time"

	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	sharedPersistence "github.com/cadencelabs/cadence/internal/shared/infrastructure/persistence"
	"github.com/cadencelabs/cadence/internal/wellness/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBehaviorLogRepository implements domain.BehaviorLogRepository using PostgreSQL.
type PostgresBehaviorLogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBehaviorLogRepository creates a new PostgreSQL behavior log repository.
func NewPostgresBehaviorLogRepository(pool *pgxpool.Pool) *PostgresBehaviorLogRepository {
	return &PostgresBehaviorLogRepository{pool: pool}
}

// Save upserts the log on its (user_id, date) unique constraint.
func (r *PostgresBehaviorLogRepository) Save(ctx context.Context, log *domain.BehaviorLog) error {
	query := `
		INSERT INTO behavior_logs (
			id, user_id, date, mood, sleep_hours, exercise, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, date) DO UPDATE SET
			mood = EXCLUDED.mood,
			sleep_hours = EXCLUDED.sleep_hours,
			exercise = EXCLUDED.exercise,
			notes = EXCLUDED.notes,
			updated_at = NOW()
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		log.ID(),
		log.UserID(),
		log.Date().Time(),
		string(log.Mood()),
		log.SleepHours(),
		log.Exercise(),
		log.Notes(),
		log.CreatedAt(),
		log.UpdatedAt(),
	)
	return err
}

// FindByDate returns the log for the day or nil when absent.
func (r *PostgresBehaviorLogRepository) FindByDate(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) (*domain.BehaviorLog, error) {
	query := `
		SELECT id, user_id, date, mood, sleep_hours, exercise, notes, created_at, updated_at
		FROM behavior_logs
		WHERE user_id = $1 AND date = $2
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, day.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs, err := scanBehaviorLogs(rows)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return logs[0], nil
}

// FindInRange returns the user's logs with a day in [from, to], oldest first.
func (r *PostgresBehaviorLogRepository) FindInRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.BehaviorLog, error) {
	query := `
		SELECT id, user_id, date, mood, sleep_hours, exercise, notes, created_at, updated_at
		FROM behavior_logs
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBehaviorLogs(rows)
}

func scanBehaviorLogs(rows pgx.Rows) ([]*domain.BehaviorLog, error) {
	var logs []*domain.BehaviorLog

	for rows.Next() {
		var (
			id, userID           uuid.UUID
			date                 time.Time
			mood                 string
			sleepHours           *float64
			exercise             bool
			notes                string
			createdAt, updatedAt time.Time
		)
		err := rows.Scan(&id, &userID, &date, &mood, &sleepHours, &exercise, &notes, &createdAt, &updatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, domain.RehydrateBehaviorLog(
			id, userID, sharedDomain.DayOf(date), domain.Mood(mood), sleepHours, exercise, notes, createdAt, updatedAt,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
