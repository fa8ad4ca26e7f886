package commands

import (
	"context"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedApplication "github.com/cadencelabs/cadence/internal/shared/application"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// CreateScheduleCommand places a task on the calendar, optionally recurring.
type CreateScheduleCommand struct {
	UserID       uuid.UUID
	TaskID       uuid.UUID
	ScheduleDate time.Time
	StartTime    string // "HH:MM"
	EndTime      string // "HH:MM"
	Recurrence   domain.Recurrence
	RepeatUntil  *time.Time
	RepeatOnDays []int
	Notes        string
}

// CommandName implements application.Command.
func (CreateScheduleCommand) CommandName() string { return "scheduling.create_schedule" }

// CreateScheduleHandler handles the CreateScheduleCommand.
type CreateScheduleHandler struct {
	scheduleRepo domain.ScheduleRepository
	uow          sharedApplication.UnitOfWork
}

// NewCreateScheduleHandler creates a new CreateScheduleHandler.
func NewCreateScheduleHandler(scheduleRepo domain.ScheduleRepository, uow sharedApplication.UnitOfWork) *CreateScheduleHandler {
	return &CreateScheduleHandler{scheduleRepo: scheduleRepo, uow: uow}
}

// Handle validates the definition, rejects duplicates and time-range
// overlaps against schedules anchored on the same day, then persists.
func (h *CreateScheduleHandler) Handle(ctx context.Context, cmd CreateScheduleCommand) (*domain.Schedule, error) {
	startTime, err := domain.ParseClockTime(cmd.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := domain.ParseClockTime(cmd.EndTime)
	if err != nil {
		return nil, err
	}

	var repeatUntil *sharedDomain.Day
	if cmd.RepeatUntil != nil {
		d := sharedDomain.DayOf(*cmd.RepeatUntil)
		repeatUntil = &d
	}

	schedule, err := domain.NewSchedule(
		cmd.UserID,
		cmd.TaskID,
		sharedDomain.DayOf(cmd.ScheduleDate),
		startTime,
		endTime,
		cmd.Recurrence,
		repeatUntil,
		cmd.RepeatOnDays,
		cmd.Notes,
	)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		sameDay, err := h.scheduleRepo.FindAnchoredOn(txCtx, cmd.UserID, schedule.ScheduleDate())
		if err != nil {
			return err
		}
		for _, existing := range sameDay {
			if schedule.SameDefinitionAs(existing) {
				return domain.ErrDuplicateSchedule
			}
			if schedule.OverlapsWith(existing) {
				return domain.ErrScheduleOverlap
			}
		}
		return h.scheduleRepo.Save(txCtx, schedule)
	})
	if err != nil {
		return nil, err
	}
	return schedule, nil
}
