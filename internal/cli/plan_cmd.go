package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/studia-app/studia/internal/assist"
	"github.com/studia-app/studia/internal/cli/formatter"
	"github.com/studia-app/studia/internal/domain"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage study plans",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanTopicDoneCmd(app),
		newPlanHoursCmd(app),
		newPlanPaceCmd(app),
		newPlanSummaryCmd(app),
		newPlanInsightCmd(app),
		newPlanArchiveCmd(app),
		newPlanRemoveCmd(app),
	)

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var title, subject, exam, difficulty string
	var hours, daily float64
	var topics []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a study plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && app.interactive() {
				if err := runPlanCreateForm(&title, &subject, &exam, &hours); err != nil {
					return err
				}
			}

			examDate, err := time.Parse("2006-01-02", exam)
			if err != nil {
				return fmt.Errorf("invalid exam date %q: %w", exam, err)
			}

			p := &domain.StudyPlan{
				UserID:           app.UserID,
				Title:            title,
				Subject:          subject,
				ExamDate:         examDate,
				TotalHoursTarget: hours,
				DailyHoursTarget: daily,
				Difficulty:       domain.Difficulty(difficulty),
			}
			for _, name := range topics {
				p.Topics = append(p.Topics, domain.Topic{Name: name, Priority: 5})
			}

			if err := app.Plans.Create(context.Background(), p); err != nil {
				return err
			}

			fmt.Printf("Created plan %s (%s)\n", p.Title, shortID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Plan title")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&exam, "exam", "", "Exam date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Total hours target")
	cmd.Flags().Float64Var(&daily, "daily", 0, "Daily hours target")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Difficulty (easy, medium, hard)")
	cmd.Flags().StringSliceVar(&topics, "topic", nil, "Topic name (repeatable)")

	return cmd
}

func runPlanCreateForm(title, subject, exam *string, hours *float64) error {
	var hoursStr string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(title).
				Validate(requiredField("title")),
			huh.NewInput().
				Title("Subject").
				Value(subject),
			huh.NewInput().
				Title("Exam date (YYYY-MM-DD)").
				Placeholder("2026-12-01").
				Value(exam).
				Validate(validateDate),
			huh.NewInput().
				Title("Total hours target").
				Placeholder("40").
				Value(&hoursStr).
				Validate(validateOptionalFloat),
		),
	).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return err
	}
	if hoursStr != "" {
		*hours, _ = strconv.ParseFloat(hoursStr, 64)
	}
	return nil
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalFloat(s string) error {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func newPlanListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List study plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.ListByUser(context.Background(), app.UserID, all)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatPlanList(plans))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived plans")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show plan details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.GetByID(ctx, planID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatPlanDetail(p))
			return nil
		},
	}
}

func newPlanTopicDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "topic-done PLAN INDEX",
		Short: "Mark a topic as completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 1 {
				return fmt.Errorf("topic index must be a positive number (as shown by plan show)")
			}

			p, err := app.Plans.CompleteTopic(ctx, planID, index-1)
			if err != nil {
				return err
			}

			fmt.Printf("Completed topic %q  %s\n", p.Topics[index-1].Name,
				formatter.RenderProgress(float64(p.Progress.PercentageComplete)/100, 16))
			return nil
		},
	}
}

func newPlanHoursCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hours PLAN HOURS",
		Short: "Log studied hours against a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil || hours <= 0 {
				return fmt.Errorf("hours must be a positive number")
			}

			p, err := app.Plans.LogStudyHours(ctx, planID, hours)
			if err != nil {
				return err
			}

			fmt.Printf("Logged %.1fh, %.1fh studied total\n", hours, p.Progress.HoursStudied)
			return nil
		},
	}
}

func newPlanPaceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pace PLAN",
		Short: "Show the recommended daily pace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			pace, err := app.Plans.Pace(ctx, planID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatPace(pace))
			return nil
		},
	}
}

func newPlanSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary PLAN",
		Short: "Summarize a plan's standing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.GetByID(ctx, planID)
			if err != nil {
				return err
			}

			// Fall back to the derived summary when the assistant is off.
			if app.Summary == nil {
				fmt.Println(assist.DeterministicSummary(p))
				return nil
			}
			text, err := app.Summary.Summarize(ctx, p)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}

func newPlanInsightCmd(app *App) *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "insight PLAN [TEXT]",
		Short: "Add or generate a plan insight",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if generate {
				if app.Insight == nil {
					return errAssistDisabled
				}
				p, err := app.Plans.GetByID(ctx, planID)
				if err != nil {
					return err
				}
				content, err := app.Insight.PaceInsight(ctx, p)
				if err != nil {
					return err
				}
				if _, err := app.Plans.AddInsight(ctx, planID, "pace", content); err != nil {
					return err
				}
				fmt.Println(content)
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("insight text is required (or use --generate)")
			}
			if _, err := app.Plans.AddInsight(ctx, planID, "note", args[1]); err != nil {
				return err
			}
			fmt.Println("Insight added.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "Generate a pace insight with the assistant")

	return cmd
}

func newPlanArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive PLAN",
		Short: "Archive a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.Archive(ctx, planID); err != nil {
				return err
			}
			fmt.Println("Plan archived.")
			return nil
		},
	}
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PLAN",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.Delete(ctx, planID); err != nil {
				return err
			}
			fmt.Println("Plan removed.")
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
