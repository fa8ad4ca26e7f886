package queries

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/cadencelabs/cadence/internal/insights/domain"
	schedulingDomain "github.com/cadencelabs/cadence/internal/scheduling/domain"
	sharedDomain "github.com/cadencelabs/cadence/internal/shared/domain"
	tasksDomain "github.com/cadencelabs/cadence/internal/tasks/domain"
)

// ItemStatus is the display status of a timeline item.
type ItemStatus string

const (
	StatusPending   ItemStatus = "PENDING"
	StatusCompleted ItemStatus = "COMPLETED"
	StatusMissed    ItemStatus = "MISSED"
)

// TimelineItemDTO is one entry on a day's timeline: a scheduled occurrence
// or an unscheduled task created that day.
type TimelineItemDTO struct {
	ScheduleID *uuid.UUID `json:"scheduleId,omitempty"`
	TaskID     uuid.UUID  `json:"taskId"`
	Title      string     `json:"title"`
	StartTime  string     `json:"startTime,omitempty"` // HH:MM, scheduled items only
	EndTime    string     `json:"endTime,omitempty"`
	Status     ItemStatus `json:"status"`
}

// OverviewDTO are the headline counters above the timeline.
type OverviewDTO struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Missed    int `json:"missed"`
	Pending   int `json:"pending"`
}

// DayDashboardDTO is the composed view for one day.
type DayDashboardDTO struct {
	Date              string            `json:"date"`
	Timeline          []TimelineItemDTO `json:"timeline"`
	Overview          OverviewDTO       `json:"overview"`
	Stats             domain.DailyStats `json:"stats"`
	ProductivityScore int               `json:"productivityScore"`
}

// GetDayDashboardQuery composes the dashboard for a single day.
type GetDayDashboardQuery struct {
	UserID uuid.UUID
	Date   sharedDomain.Day
}

// QueryName implements application.Query.
func (GetDayDashboardQuery) QueryName() string { return "insights.get_day_dashboard" }

// DashboardHandler composes day, week and month dashboards out of the
// ledgers and the derived stats.
type DashboardHandler struct {
	scheduleRepo       schedulingDomain.ScheduleRepository
	completionRepo     schedulingDomain.CompletionRepository
	missedRepo         schedulingDomain.MissedRepository
	taskRepo           tasksDomain.TaskRepository
	taskCompletionRepo tasksDomain.TaskCompletionRepository
	statsProvider      StatsProvider
	scorer             DayScorer
}

// StatsProvider supplies daily stats for a window. Satisfied by the stats
// aggregator and by its caching decorator.
type StatsProvider interface {
	BuildDailyStatsMap(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) (domain.StatsMap, error)
}

// DayScorer yields the final productivity score for one day.
type DayScorer interface {
	DayScore(ctx context.Context, userID uuid.UUID, day sharedDomain.Day) (int, error)
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	scheduleRepo schedulingDomain.ScheduleRepository,
	completionRepo schedulingDomain.CompletionRepository,
	missedRepo schedulingDomain.MissedRepository,
	taskRepo tasksDomain.TaskRepository,
	taskCompletionRepo tasksDomain.TaskCompletionRepository,
	statsProvider StatsProvider,
	scorer DayScorer,
) *DashboardHandler {
	return &DashboardHandler{
		scheduleRepo:       scheduleRepo,
		completionRepo:     completionRepo,
		missedRepo:         missedRepo,
		taskRepo:           taskRepo,
		taskCompletionRepo: taskCompletionRepo,
		statsProvider:      statsProvider,
		scorer:             scorer,
	}
}

// HandleDay builds the timeline for one day. Occurrence status comes from
// the ledgers; for unscheduled tasks a pending item on a past day is shown
// as missed without writing anything.
func (h *DashboardHandler) HandleDay(ctx context.Context, query GetDayDashboardQuery) (*DayDashboardDTO, error) {
	day := query.Date
	if day.IsZero() {
		day = sharedDomain.Today()
	}

	schedules, err := h.scheduleRepo.FindWindowIntersecting(ctx, query.UserID, day, day)
	if err != nil {
		return nil, err
	}
	var applicable []*schedulingDomain.Schedule
	for _, s := range schedules {
		if s.AppliesOn(day) {
			applicable = append(applicable, s)
		}
	}

	completedIDs, err := h.completionRepo.FindScheduleIDsForDay(ctx, scheduleIDs(applicable), day)
	if err != nil {
		return nil, err
	}
	missed, err := h.missedRepo.FindInRange(ctx, query.UserID, day, day)
	if err != nil {
		return nil, err
	}
	missedSet := make(map[uuid.UUID]bool, len(missed))
	for _, m := range missed {
		missedSet[m.ScheduleID()] = true
	}
	completedSet := make(map[uuid.UUID]bool, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = true
	}

	tasks, err := h.taskRepo.FindUnscheduledInRange(ctx, query.UserID, day, day)
	if err != nil {
		return nil, err
	}
	doneTaskIDs, err := h.taskCompletionRepo.FindTaskIDsForDay(ctx, taskIDs(tasks), day)
	if err != nil {
		return nil, err
	}
	doneTaskSet := make(map[uuid.UUID]bool, len(doneTaskIDs))
	for _, id := range doneTaskIDs {
		doneTaskSet[id] = true
	}

	titles, err := h.resolveTitles(ctx, query.UserID, applicable)
	if err != nil {
		return nil, err
	}

	timeline := make([]TimelineItemDTO, 0, len(applicable)+len(tasks))
	for _, s := range applicable {
		status := StatusPending
		switch {
		case completedSet[s.ID()]:
			status = StatusCompleted
		case missedSet[s.ID()]:
			status = StatusMissed
		}
		id := s.ID()
		timeline = append(timeline, TimelineItemDTO{
			ScheduleID: &id,
			TaskID:     s.TaskID(),
			Title:      titles[s.TaskID()],
			StartTime:  s.StartTime().String(),
			EndTime:    s.EndTime().String(),
			Status:     status,
		})
	}
	sort.Slice(timeline, func(i, j int) bool {
		if timeline[i].StartTime != timeline[j].StartTime {
			return timeline[i].StartTime < timeline[j].StartTime
		}
		return timeline[i].Title < timeline[j].Title
	})

	dayIsPast := day.Before(sharedDomain.Today())
	for _, t := range tasks {
		status := StatusPending
		switch {
		case doneTaskSet[t.ID()]:
			status = StatusCompleted
		case dayIsPast:
			status = StatusMissed
		}
		timeline = append(timeline, TimelineItemDTO{
			TaskID: t.ID(),
			Title:  t.Title(),
			Status: status,
		})
	}

	overview := OverviewDTO{Total: len(timeline)}
	for _, item := range timeline {
		switch item.Status {
		case StatusCompleted:
			overview.Completed++
		case StatusMissed:
			overview.Missed++
		}
	}
	overview.Pending = overview.Total - overview.Completed - overview.Missed
	if overview.Pending < 0 {
		overview.Pending = 0
	}

	stats, err := h.statsProvider.BuildDailyStatsMap(ctx, query.UserID, day, day)
	if err != nil {
		return nil, err
	}
	score, err := h.scorer.DayScore(ctx, query.UserID, day)
	if err != nil {
		return nil, err
	}

	return &DayDashboardDTO{
		Date:              day.String(),
		Timeline:          timeline,
		Overview:          overview,
		Stats:             stats[day.String()],
		ProductivityScore: score,
	}, nil
}

// DayStatsDTO pairs a day with its stats for range dashboards.
type DayStatsDTO struct {
	Date  string            `json:"date"`
	Stats domain.DailyStats `json:"stats"`
}

// RangeDashboardDTO is the composed view for a week or month.
type RangeDashboardDTO struct {
	From           string        `json:"from"`
	To             string        `json:"to"`
	Days           []DayStatsDTO `json:"days"`
	Total          int           `json:"total"`
	Completed      int           `json:"completed"`
	Missed         int           `json:"missed"`
	CompletionRate int           `json:"completionRate"` // percent
}

// GetWeekDashboardQuery composes the Monday-to-Sunday week containing Date.
type GetWeekDashboardQuery struct {
	UserID uuid.UUID
	Date   sharedDomain.Day
}

// QueryName implements application.Query.
func (GetWeekDashboardQuery) QueryName() string { return "insights.get_week_dashboard" }

// GetMonthDashboardQuery composes the calendar month containing Date.
type GetMonthDashboardQuery struct {
	UserID uuid.UUID
	Date   sharedDomain.Day
}

// QueryName implements application.Query.
func (GetMonthDashboardQuery) QueryName() string { return "insights.get_month_dashboard" }

// HandleWeek reduces the stats map over the Monday-to-Sunday week.
func (h *DashboardHandler) HandleWeek(ctx context.Context, query GetWeekDashboardQuery) (*RangeDashboardDTO, error) {
	day := query.Date
	if day.IsZero() {
		day = sharedDomain.Today()
	}
	from := day.StartOfWeek()
	return h.composeRange(ctx, query.UserID, from, from.AddDays(6))
}

// HandleMonth reduces the stats map over the calendar month.
func (h *DashboardHandler) HandleMonth(ctx context.Context, query GetMonthDashboardQuery) (*RangeDashboardDTO, error) {
	day := query.Date
	if day.IsZero() {
		day = sharedDomain.Today()
	}
	return h.composeRange(ctx, query.UserID, day.StartOfMonth(), day.EndOfMonth())
}

func (h *DashboardHandler) composeRange(ctx context.Context, userID uuid.UUID, from, to sharedDomain.Day) (*RangeDashboardDTO, error) {
	stats, err := h.statsProvider.BuildDailyStatsMap(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	dto := &RangeDashboardDTO{
		From: from.String(),
		To:   to.String(),
		Days: make([]DayStatsDTO, 0, len(stats)),
	}
	for day := from; !day.After(to); day = day.AddDays(1) {
		key := day.String()
		dayStats := stats[key]
		dto.Days = append(dto.Days, DayStatsDTO{Date: key, Stats: dayStats})
		dto.Total += dayStats.Total
		dto.Completed += dayStats.Completed
		dto.Missed += dayStats.Missed
	}
	if dto.Total > 0 {
		dto.CompletionRate = int(math.Round(100 * float64(dto.Completed) / float64(dto.Total)))
	}
	return dto, nil
}

func (h *DashboardHandler) resolveTitles(ctx context.Context, userID uuid.UUID, schedules []*schedulingDomain.Schedule) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(schedules))
	seen := make(map[uuid.UUID]bool, len(schedules))
	for _, s := range schedules {
		if !seen[s.TaskID()] {
			seen[s.TaskID()] = true
			ids = append(ids, s.TaskID())
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	tasks, err := h.taskRepo.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[uuid.UUID]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID()] = t.Title()
	}
	return titles, nil
}

func scheduleIDs(schedules []*schedulingDomain.Schedule) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(schedules))
	for _, s := range schedules {
		ids = append(ids, s.ID())
	}
	return ids
}

func taskIDs(tasks []*tasksDomain.Task) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID())
	}
	return ids
}
