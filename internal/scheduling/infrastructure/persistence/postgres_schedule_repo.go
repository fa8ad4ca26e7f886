package persistence

import (
	"context"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/convert"
	sharedPersistence "github.com/cadencelabs/cadence/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scheduleColumns = `
	id, user_id, task_id, schedule_date, start_minutes, end_minutes,
	recurrence, repeat_until, repeat_on_days, notes, created_at, updated_at
`

// PostgresScheduleRepository implements domain.ScheduleRepository using PostgreSQL.
type PostgresScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleRepository creates a new PostgreSQL schedule repository.
func NewPostgresScheduleRepository(pool *pgxpool.Pool) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{pool: pool}
}

// Save upserts a schedule.
func (r *PostgresScheduleRepository) Save(ctx context.Context, schedule *domain.Schedule) error {
	query := `
		INSERT INTO schedules (
			id, user_id, task_id, schedule_date, start_minutes, end_minutes,
			recurrence, repeat_until, repeat_on_days, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			schedule_date = EXCLUDED.schedule_date,
			start_minutes = EXCLUDED.start_minutes,
			end_minutes = EXCLUDED.end_minutes,
			recurrence = EXCLUDED.recurrence,
			repeat_until = EXCLUDED.repeat_until,
			repeat_on_days = EXCLUDED.repeat_on_days,
			notes = EXCLUDED.notes,
			updated_at = NOW()
	`

	var repeatUntil *time.Time
	if schedule.RepeatUntil() != nil {
		t := schedule.RepeatUntil().Time()
		repeatUntil = &t
	}

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		schedule.ID(),
		schedule.UserID(),
		schedule.TaskID(),
		schedule.ScheduleDate().Time(),
		schedule.StartTime().Minutes(),
		schedule.EndTime().Minutes(),
		string(schedule.Recurrence()),
		repeatUntil,
		toInt32s(schedule.RepeatOnDays()),
		schedule.Notes(),
		schedule.CreatedAt(),
		schedule.UpdatedAt(),
	)
	return err
}

// FindByID returns the schedule or nil when absent.
func (r *PostgresScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules, err := scanSchedules(rows)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, nil
	}
	return schedules[0], nil
}

// FindByIDs returns the subset of the given schedules owned by the user.
func (r *PostgresScheduleRepository) FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id = $1 AND id = ANY($2)`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// FindWindowIntersecting returns the user's schedules whose recurrence
// window may touch [from, to]. Callers filter by AppliesOn per day.
func (r *PostgresScheduleRepository) FindWindowIntersecting(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) ([]*domain.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE user_id = $1
		  AND schedule_date <= $3
		  AND (repeat_until IS NULL OR repeat_until >= $2)
		  AND (recurrence <> 'NONE' OR schedule_date >= $2)
		ORDER BY schedule_date, start_minutes
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, from.Time(), to.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// FindCandidatesOn returns every schedule, across users, whose window may
// include the day. The marker re-checks AppliesOn before marking.
func (r *PostgresScheduleRepository) FindCandidatesOn(ctx context.Context, day sharedDomain.Day) ([]*domain.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE schedule_date <= $1
		  AND (repeat_until IS NULL OR repeat_until >= $1)
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, day.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// FindAnchoredOn returns the user's schedules anchored on the given day.
func (r *PostgresScheduleRepository) FindAnchoredOn(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) ([]*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id = $1 AND schedule_date = $2`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, day.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// Delete removes a schedule.
func (r *PostgresScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	result, err := execer.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func scanSchedules(rows pgx.Rows) ([]*domain.Schedule, error) {
	var schedules []*domain.Schedule

	for rows.Next() {
		var (
			id, userID, taskID   uuid.UUID
			scheduleDate         time.Time
			startMins, endMins   int
			recurrence           string
			repeatUntil          *time.Time
			repeatOnDays         []int32
			notes                string
			createdAt, updatedAt time.Time
		)
		err := rows.Scan(
			&id, &userID, &taskID, &scheduleDate, &startMins, &endMins,
			&recurrence, &repeatUntil, &repeatOnDays, &notes, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, err
		}

		var until *sharedDomain.Day
		if repeatUntil != nil {
			d := sharedDomain.DayOf(*repeatUntil)
			until = &d
		}

		schedules = append(schedules, domain.RehydrateSchedule(
			id, userID, taskID,
			sharedDomain.DayOf(scheduleDate),
			domain.ClockTime(startMins), domain.ClockTime(endMins),
			domain.Recurrence(recurrence),
			until,
			toInts(repeatOnDays),
			notes,
			createdAt, updatedAt,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return schedules, nil
}

func toInt32s(days []int) []int32 {
	if days == nil {
		return nil
	}
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = convert.IntToInt32Safe(d)
	}
	return out
}

func toInts(days []int32) []int {
	if days == nil {
		return nil
	}
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}
