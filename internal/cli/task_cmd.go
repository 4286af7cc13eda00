package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/studia-app/studia/internal/cli/formatter"
	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/repository"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage study tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskDoneCmd(app),
		newTaskCancelCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var title, subject, topic, taskType, date, start, end, planFlag string
	var estimated int
	var tags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			scheduled := time.Now().UTC().Truncate(24 * time.Hour)
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				scheduled = d
			}

			planID := ""
			if planFlag != "" {
				id, err := resolvePlanID(ctx, app, planFlag)
				if err != nil {
					return err
				}
				planID = id
			}

			t := &domain.Task{
				UserID:       app.UserID,
				PlanID:       planID,
				Title:        title,
				Subject:      subject,
				Topic:        topic,
				Type:         taskType,
				Scheduled:    scheduled,
				StartTime:    start,
				EndTime:      end,
				EstimatedMin: estimated,
				Tags:         tags,
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}

			fmt.Printf("Added task %s (%s)\n", t.Title, shortID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic")
	cmd.Flags().StringVar(&taskType, "type", "study", "Task type (study, review, practice, reading, exercise, exam_prep)")
	cmd.Flags().StringVar(&date, "date", "", "Scheduled date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().IntVar(&estimated, "estimate", 0, "Estimated minutes")
	cmd.Flags().StringVar(&planFlag, "plan", "", "Link to a plan (index, UUID, or prefix)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var status, planFlag, from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var f repository.TaskFilter
			if status != "" {
				f.Status = domain.TaskStatus(status)
			}
			if planFlag != "" {
				id, err := resolvePlanID(ctx, app, planFlag)
				if err != nil {
					return err
				}
				f.PlanID = id
			}
			if from != "" {
				d, err := time.Parse("2006-01-02", from)
				if err != nil {
					return fmt.Errorf("invalid from date %q: %w", from, err)
				}
				f.From = &d
			}
			if to != "" {
				d, err := time.Parse("2006-01-02", to)
				if err != nil {
					return fmt.Errorf("invalid to date %q: %w", to, err)
				}
				f.To = &d
			}
			f.Limit = limit

			tasks, err := app.Tasks.ListByUser(ctx, app.UserID, f)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatTaskList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, in_progress, completed, cancelled, overdue)")
	cmd.Flags().StringVar(&planFlag, "plan", "", "Filter by plan")
	cmd.Flags().StringVar(&from, "from", "", "Scheduled on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Scheduled on or before (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of tasks")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TASK",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
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
			fmt.Printf("%s\n", formatter.FormatTaskDetail(t))
			return nil
		},
	}
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var notes string
	var rating int

	cmd := &cobra.Command{
		Use:   "done TASK",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Complete(ctx, taskID, notes, rating)
			if err != nil {
				return err
			}
			fmt.Printf("Completed %s (+%d points)\n", t.Title, domain.PointsTaskCompleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Completion notes")
	cmd.Flags().IntVar(&rating, "rating", 0, "Session rating 1-5")

	return cmd
}

func newTaskCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel TASK",
		Short: "Cancel a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Cancel(ctx, taskID)
			if err != nil {
				return err
			}
			fmt.Printf("Cancelled %s\n", t.Title)
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TASK",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, taskID); err != nil {
				return err
			}
			fmt.Println("Task removed.")
			return nil
		},
	}
}
