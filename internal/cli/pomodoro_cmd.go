package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studia-app/studia/internal/domain"
)

func newPomodoroCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pomodoro",
		Aliases: []string{"pomo"},
		Short:   "Run focus and break sessions on a task",
	}

	cmd.AddCommand(
		newPomodoroStartCmd(app),
		newPomodoroBreakCmd(app),
		newPomodoroFinishCmd(app),
	)

	return cmd
}

func newPomodoroStartCmd(app *App) *cobra.Command {
	var minutes int
	var detach bool

	cmd := &cobra.Command{
		Use:   "start TASK",
		Short: "Start a work session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}

			t, err := app.Tasks.StartPomodoro(ctx, taskID, minutes)
			if err != nil {
				return err
			}
			index := len(t.Sessions) - 1
			session := t.Sessions[index]

			if detach || !app.interactive() {
				fmt.Printf("Started %dm session on %s (finish with: studia pomodoro finish %s)\n",
					session.DurationMin, t.Title, shortID(t.ID))
				return nil
			}

			finish, err := runTimer(t.Title, session.Kind, session.DurationMin)
			if err != nil {
				return err
			}
			if !finish {
				fmt.Printf("Session left open. Finish with: studia pomodoro finish %s\n", shortID(t.ID))
				return nil
			}

			t, err = app.Tasks.CompletePomodoro(ctx, taskID, index)
			if err != nil {
				return err
			}
			fmt.Printf("Session done, %dm logged on %s (+%d points)\n",
				session.DurationMin, t.Title, domain.PointsPomodoroCompleted)
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Session length (default 25)")
	cmd.Flags().BoolVar(&detach, "detach", false, "Start without the countdown timer")

	return cmd
}

func newPomodoroBreakCmd(app *App) *cobra.Command {
	var minutes int
	var long bool

	cmd := &cobra.Command{
		Use:   "break TASK",
		Short: "Start a break",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}

			kind := domain.SessionShortBreak
			if long {
				kind = domain.SessionLongBreak
			}
			t, err := app.Tasks.StartBreak(ctx, taskID, minutes, kind)
			if err != nil {
				return err
			}
			index := len(t.Sessions) - 1
			session := t.Sessions[index]

			if !app.interactive() {
				fmt.Printf("Started %dm break on %s\n", session.DurationMin, t.Title)
				return nil
			}

			finish, err := runTimer(t.Title, session.Kind, session.DurationMin)
			if err != nil {
				return err
			}
			if !finish {
				fmt.Println("Break left open.")
				return nil
			}
			if _, err := app.Tasks.CompletePomodoro(ctx, taskID, index); err != nil {
				return err
			}
			fmt.Println("Break over, back to it.")
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Break length (default 5, long 15)")
	cmd.Flags().BoolVar(&long, "long", false, "Take a long break")

	return cmd
}

func newPomodoroFinishCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "finish TASK [INDEX]",
		Short: "Close an open session",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.GetByID(ctx, taskID)
			if err != nil {
				return err
			}

			index := -1
			if len(args) == 2 {
				index, err = strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("session index must be a number")
				}
			} else {
				// Default to the most recent open session.
				for i := len(t.Sessions) - 1; i >= 0; i-- {
					if !t.Sessions[i].Completed {
						index = i
						break
					}
				}
				if index < 0 {
					return fmt.Errorf("no open session on %s", t.Title)
				}
			}

			wasWork := index < len(t.Sessions) && t.Sessions[index].Kind == domain.SessionWork
			t, err = app.Tasks.CompletePomodoro(ctx, taskID, index)
			if err != nil {
				return err
			}
			if wasWork {
				fmt.Printf("Session done, %dm logged on %s (+%d points)\n",
					t.Sessions[index].DurationMin, t.Title, domain.PointsPomodoroCompleted)
			} else {
				fmt.Println("Break closed.")
			}
			return nil
		},
	}
}
