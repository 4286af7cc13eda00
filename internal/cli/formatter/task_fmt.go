package formatter

import (
	"fmt"
	"strings"

	"github.com/studia-app/studia/internal/domain"
)

// FormatTaskList renders tasks as a table: index, title, type, slot,
// status.
func FormatTaskList(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks. Add one with: studia task add")
	}

	headers := []string{"#", "TITLE", "TYPE", "WHEN", "STATUS"}
	rows := make([][]string, 0, len(tasks))
	for i, t := range tasks {
		slot := t.Scheduled.Format("2006-01-02")
		if t.StartTime != "" {
			slot += " " + t.StartTime
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Bold(t.Title),
			t.Type,
			slot,
			StatusStyle(t.Status).Render(string(t.Status)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTaskDetail renders one task with sessions and completion info.
func FormatTaskDetail(t *domain.Task) string {
	var b strings.Builder

	b.WriteString(Header(t.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", Dim("Type:"), t.Type)
	fmt.Fprintf(&b, "%s  %s %s-%s\n", Dim("Slot:"), t.Scheduled.Format("2006-01-02"), t.StartTime, t.EndTime)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Status:"), StatusStyle(t.Status).Render(string(t.Status)))
	if t.EstimatedMin > 0 {
		fmt.Fprintf(&b, "%s  %dm logged of %dm estimated\n", Dim("Time:"), t.ActualMin, t.EstimatedMin)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Tags:"), strings.Join(t.Tags, ", "))
	}

	if len(t.Sessions) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Sessions"))
		b.WriteString("\n")
		for i, s := range t.Sessions {
			state := StyleYellow.Render("open")
			if s.Completed {
				state = StyleGreen.Render("done")
			}
			fmt.Fprintf(&b, "%2d %s %s %s\n", i, s.StartedAt.Format("01-02 15:04"),
				Dim(fmt.Sprintf("%dm %s", s.DurationMin, s.Kind)), state)
		}
	}

	if c := t.Completion; c != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s completed %s", StyleGreen.Render("✓"), c.CompletedAt.Format("2006-01-02 15:04"))
		if c.Rating > 0 {
			fmt.Fprintf(&b, "  %s", StyleYellow.Render(strings.Repeat("★", c.Rating)))
		}
		if c.Notes != "" {
			fmt.Fprintf(&b, "\n%s %s", Dim("Notes:"), c.Notes)
		}
		b.WriteString("\n")
	}

	return b.String()
}
