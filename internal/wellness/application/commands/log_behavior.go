package commands

import (
	"context"
	"time"

	sharedApplication "github.com/cadencelabs/cadence/internal/shared/application"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	"github.com/cadencelabs/cadence/internal/wellness/domain"
	"github.com/google/uuid"
)

// LogBehaviorCommand upserts the behavior log for one day.
// Date defaults to today when zero.
type LogBehaviorCommand struct {
	UserID     uuid.UUID
	Date       time.Time
	Mood       domain.Mood
	SleepHours *float64
	Exercise   bool
	Notes      string
}

// CommandName implements application.Command.
func (LogBehaviorCommand) CommandName() string { return "wellness.log_behavior" }

// LogBehaviorResult reports the stored log.
type LogBehaviorResult struct {
	LogID   uuid.UUID
	Date    sharedDomain.Day
	Created bool
}

// LogBehaviorHandler handles the LogBehaviorCommand.
type LogBehaviorHandler struct {
	behaviorRepo domain.BehaviorLogRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewLogBehaviorHandler creates a new LogBehaviorHandler.
func NewLogBehaviorHandler(
	behaviorRepo domain.BehaviorLogRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *LogBehaviorHandler {
	return &LogBehaviorHandler{
		behaviorRepo: behaviorRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle creates the day's log or replaces its factors when one exists.
func (h *LogBehaviorHandler) Handle(ctx context.Context, cmd LogBehaviorCommand) (*LogBehaviorResult, error) {
	day := sharedDomain.Today()
	if !cmd.Date.IsZero() {
		day = sharedDomain.DayOf(cmd.Date)
	}

	var result *LogBehaviorResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		log, err := h.behaviorRepo.FindByDate(txCtx, cmd.UserID, day)
		if err != nil {
			return err
		}

		created := log == nil
		if created {
			log, err = domain.NewBehaviorLog(cmd.UserID, day, cmd.Mood, cmd.SleepHours, cmd.Exercise, cmd.Notes)
			if err != nil {
				return err
			}
		} else {
			if err := log.Update(cmd.Mood, cmd.SleepHours, cmd.Exercise, cmd.Notes); err != nil {
				return err
			}
		}

		if err := h.behaviorRepo.Save(txCtx, log); err != nil {
			return err
		}

		events := log.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))
		msgs := make([]*outbox.Message, 0, len(events))
		for _, event := range events {
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}
		log.ClearDomainEvents()

		result = &LogBehaviorResult{LogID: log.ID(), Date: day, Created: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
