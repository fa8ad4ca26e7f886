package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedApplication "github.com/cadencelabs/cadence/internal/shared/application"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	"github.com/cadencelabs/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// MissedMarker is the daily batch that retroactively marks occurrences of
// the prior day as missed. It never evaluates the current day: a day must
// be fully over before its pending occurrences become misses.
type MissedMarker struct {
	scheduleRepo   domain.ScheduleRepository
	completionRepo domain.CompletionRepository
	missedRepo     domain.MissedRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
	logger         *slog.Logger
}

// NewMissedMarker creates a new MissedMarker.
func NewMissedMarker(
	scheduleRepo domain.ScheduleRepository,
	completionRepo domain.CompletionRepository,
	missedRepo domain.MissedRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *MissedMarker {
	return &MissedMarker{
		scheduleRepo:   scheduleRepo,
		completionRepo: completionRepo,
		missedRepo:     missedRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
		logger:         logger,
	}
}

// Run executes the batch for yesterday relative to now.
func (m *MissedMarker) Run(ctx context.Context, now time.Time) (int, error) {
	return m.RunFor(ctx, sharedDomain.DayOf(now).AddDays(-1))
}

// RunFor executes one marker run for the given target day inside a single
// transaction. The run is idempotent: rows already present in either
// ledger are skipped up front, and the batched insert ignores unique
// violations from concurrent runs. On error the transaction rolls back
// and the whole run can simply be retried.
func (m *MissedMarker) RunFor(ctx context.Context, target sharedDomain.Day) (int, error) {
	start := time.Now()
	m.logger.Info("missed marker run starting", "target_day", target.String())

	marked := 0
	err := sharedApplication.WithUnitOfWork(ctx, m.uow, func(txCtx context.Context) error {
		schedules, err := m.scheduleRepo.FindCandidatesOn(txCtx, target)
		if err != nil {
			return err
		}
		if len(schedules) == 0 {
			return nil
		}

		completedIDs, err := m.completionRepo.FindScheduleIDsCompletedOn(txCtx, target)
		if err != nil {
			return err
		}
		completed := toSet(completedIDs)

		missedIDs, err := m.missedRepo.FindScheduleIDsMissedOn(txCtx, target)
		if err != nil {
			return err
		}
		alreadyMissed := toSet(missedIDs)

		toInsert := make([]*domain.MissedOccurrence, 0, len(schedules))
		for _, s := range schedules {
			if !s.AppliesOn(target) {
				continue
			}
			if completed[s.ID()] || alreadyMissed[s.ID()] {
				continue
			}
			toInsert = append(toInsert, domain.NewMissedOccurrence(s.ID(), s.UserID(), target))
		}
		if len(toInsert) == 0 {
			return nil
		}

		if marked, err = m.missedRepo.AddBatch(txCtx, toInsert); err != nil {
			return err
		}

		event := domain.NewOccurrencesMissed(target, marked)
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		return m.outboxRepo.SaveBatch(txCtx, []*outbox.Message{msg})
	})
	if err != nil {
		m.logger.Error("missed marker run failed",
			"target_day", target.String(),
			"error", err,
		)
		return 0, err
	}

	m.logger.Info("missed marker run completed",
		"target_day", target.String(),
		"marked", marked,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return marked, nil
}

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
