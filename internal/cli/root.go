package cli

import (
	"github.com/spf13/cobra"

	"github.com/studia-app/studia/internal/assist"
	"github.com/studia-app/studia/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Users service.UserService
	Plans service.PlanService
	Tasks service.TaskService
	Stats service.StatsService

	// Assist services are nil when the LLM client is disabled.
	Draft   assist.PlanDraftService
	Chat    assist.ChatService
	Summary assist.SummaryService
	Quiz    assist.QuizService
	Insight assist.InsightService

	// UserID identifies the local account every command acts as.
	UserID string

	// Serve starts the HTTP API server. Wired in main so the CLI package
	// does not depend on the api package.
	Serve func() error

	// IsInteractive reports whether stdout is a terminal.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "studia" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "studia",
		Short: "Study planner with pace tracking and pomodoro sessions",
	}

	root.AddCommand(
		newPlanCmd(app),
		newTaskCmd(app),
		newPomodoroCmd(app),
		newStatsCmd(app),
		newAssistCmd(app),
		newServeCmd(app),
	)

	return root
}
