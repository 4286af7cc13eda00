package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/studia-app/studia/internal/repository"
)

// resolvePlanID resolves a plan identifier which can be:
//   - A numeric index into "studia plan list" (1-based)
//   - A full UUID or UUID prefix
func resolvePlanID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("plan ID is required")
	}

	plans, err := app.Plans.ListByUser(ctx, app.UserID, true)
	if err != nil {
		return "", err
	}

	if n, err := strconv.Atoi(input); err == nil && n > 0 {
		if n > len(plans) {
			return "", fmt.Errorf("plan #%d not found (you have %d)", n, len(plans))
		}
		return plans[n-1].ID, nil
	}

	var matches []string
	for _, p := range plans {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("plan not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("plan ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTaskID resolves a task identifier the same way: numeric index
// into "studia task list", full UUID, or UUID prefix.
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}

	tasks, err := app.Tasks.ListByUser(ctx, app.UserID, repository.TaskFilter{})
	if err != nil {
		return "", err
	}

	if n, err := strconv.Atoi(input); err == nil && n > 0 {
		if n > len(tasks) {
			return "", fmt.Errorf("task #%d not found (you have %d)", n, len(tasks))
		}
		return tasks[n-1].ID, nil
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
