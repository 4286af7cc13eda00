package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studia-app/studia/internal/assist"
	"github.com/studia-app/studia/internal/cli/formatter"
)

var errAssistDisabled = errors.New("assistant is disabled (set STUDIA_LLM_ENABLED=true and point STUDIA_LLM_ENDPOINT at a model server)")

func newAssistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assist",
		Short: "Talk to the study assistant",
	}

	cmd.AddCommand(
		newAssistDraftCmd(app),
		newAssistChatCmd(app),
		newAssistQuizCmd(app),
	)

	return cmd
}

func newAssistDraftCmd(app *App) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "draft-plan DESCRIPTION",
		Short: "Draft a study plan from a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Draft == nil {
				return errAssistDisabled
			}
			ctx := context.Background()

			draft, err := app.Draft.Draft(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.Header(draft.Title))
			fmt.Printf("%s %s, exam %s, %.0fh total\n", formatter.Dim("Draft:"),
				draft.Subject, draft.ExamDate, draft.TotalHours)
			for i, topic := range draft.Topics {
				fmt.Printf("%2d. %s %s\n", i+1, topic.Name,
					formatter.Dim(fmt.Sprintf("(%.0fh)", topic.EstimatedHours)))
			}

			if !create {
				fmt.Println(formatter.Dim("\nRun again with --create to save this plan."))
				return nil
			}

			p, err := draft.ToPlan(app.UserID)
			if err != nil {
				return err
			}
			if err := app.Plans.Create(ctx, p); err != nil {
				return err
			}
			fmt.Printf("\nCreated plan %s (%s)\n", p.Title, shortID(p.ID))
			return nil
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "Save the drafted plan")

	return cmd
}

func newAssistChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [MESSAGE]",
		Short: "Chat about your studies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Chat == nil {
				return errAssistDisabled
			}
			ctx := context.Background()

			// One-shot when a message is given on the command line.
			if len(args) == 1 {
				reply, err := app.Chat.Reply(ctx, nil, args[0])
				if err != nil {
					return err
				}
				fmt.Println(reply)
				return nil
			}

			fmt.Println(formatter.Dim("Chat with the study assistant. Empty line or Ctrl-D to quit."))
			var history []assist.ChatTurn
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(formatter.Bold("you> "))
				if !scanner.Scan() {
					break
				}
				message := strings.TrimSpace(scanner.Text())
				if message == "" {
					break
				}

				reply, err := app.Chat.Reply(ctx, history, message)
				if err != nil {
					return err
				}
				fmt.Printf("%s %s\n", formatter.StyleGreen.Render("assistant>"), reply)

				history = append(history,
					assist.ChatTurn{Role: "user", Content: message},
					assist.ChatTurn{Role: "assistant", Content: reply},
				)
			}
			return scanner.Err()
		},
	}
}

func newAssistQuizCmd(app *App) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "quiz TOPIC",
		Short: "Generate a practice quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Quiz == nil {
				return errAssistDisabled
			}
			quiz, err := app.Quiz.Generate(context.Background(), args[0], count)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatQuiz(quiz))
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Number of questions (default 5)")

	return cmd
}
