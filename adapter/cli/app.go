package cli

import (
	insightsQueries "github.com/cadencelabs/cadence/internal/insights/application/queries"
	insightsServices "github.com/cadencelabs/cadence/internal/insights/application/services"
	scheduleCommands "github.com/cadencelabs/cadence/internal/scheduling/application/commands"
	scheduleQueries "github.com/cadencelabs/cadence/internal/scheduling/application/queries"
	scheduleServices "github.com/cadencelabs/cadence/internal/scheduling/application/services"
	taskCommands "github.com/cadencelabs/cadence/internal/tasks/application/commands"
	wellnessCommands "github.com/cadencelabs/cadence/internal/wellness/application/commands"
	wellnessQueries "github.com/cadencelabs/cadence/internal/wellness/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Schedule Command Handlers
	CreateScheduleHandler     *scheduleCommands.CreateScheduleHandler
	CompleteOccurrenceHandler *scheduleCommands.CompleteOccurrenceHandler
	CompleteBulkHandler       *scheduleCommands.CompleteBulkHandler
	UndoCompletionHandler     *scheduleCommands.UndoCompletionHandler

	// Schedule Query Handlers
	CompletionHistoryHandler *scheduleQueries.CompletionHistoryHandler

	// Missed Marker
	MissedMarker *scheduleServices.MissedMarker

	// Task Command Handlers
	CompleteTaskHandler       *taskCommands.CompleteTaskHandler
	CompleteTasksBulkHandler  *taskCommands.CompleteTasksBulkHandler
	UndoTaskCompletionHandler *taskCommands.UndoTaskCompletionHandler

	// Wellness Handlers
	LogBehaviorHandler     *wellnessCommands.LogBehaviorHandler
	GetBehaviorHandler     *wellnessQueries.GetBehaviorHandler
	BehaviorSummaryHandler *wellnessQueries.BehaviorSummaryHandler

	// Insights Handlers
	DashboardHandler  *insightsQueries.DashboardHandler
	GetStreaksHandler *insightsQueries.GetStreaksHandler
	Scorer            *insightsServices.ProductivityScorer

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createScheduleHandler *scheduleCommands.CreateScheduleHandler,
	completeOccurrenceHandler *scheduleCommands.CompleteOccurrenceHandler,
	completeBulkHandler *scheduleCommands.CompleteBulkHandler,
	undoCompletionHandler *scheduleCommands.UndoCompletionHandler,
	completionHistoryHandler *scheduleQueries.CompletionHistoryHandler,
	missedMarker *scheduleServices.MissedMarker,
	completeTaskHandler *taskCommands.CompleteTaskHandler,
	completeTasksBulkHandler *taskCommands.CompleteTasksBulkHandler,
	undoTaskCompletionHandler *taskCommands.UndoTaskCompletionHandler,
	logBehaviorHandler *wellnessCommands.LogBehaviorHandler,
	getBehaviorHandler *wellnessQueries.GetBehaviorHandler,
	behaviorSummaryHandler *wellnessQueries.BehaviorSummaryHandler,
	dashboardHandler *insightsQueries.DashboardHandler,
	getStreaksHandler *insightsQueries.GetStreaksHandler,
	scorer *insightsServices.ProductivityScorer,
) *App {
	return &App{
		CreateScheduleHandler:     createScheduleHandler,
		CompleteOccurrenceHandler: completeOccurrenceHandler,
		CompleteBulkHandler:       completeBulkHandler,
		UndoCompletionHandler:     undoCompletionHandler,
		CompletionHistoryHandler:  completionHistoryHandler,
		MissedMarker:              missedMarker,
		CompleteTaskHandler:       completeTaskHandler,
		CompleteTasksBulkHandler:  completeTasksBulkHandler,
		UndoTaskCompletionHandler: undoTaskCompletionHandler,
		LogBehaviorHandler:        logBehaviorHandler,
		GetBehaviorHandler:        getBehaviorHandler,
		BehaviorSummaryHandler:    behaviorSummaryHandler,
		DashboardHandler:          dashboardHandler,
		GetStreaksHandler:         getStreaksHandler,
		Scorer:                    scorer,
		CurrentUserID:             uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
