package formatter

import (
	"fmt"
	"strings"

	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/service"
)

const pointsPerLevel = 1000

// FormatStats renders the gamification dashboard: level, points toward
// the next level, streak, badges, and task counts.
func FormatStats(stats *service.UserStats) string {
	g := stats.User.Gamification

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s — Level %d", stats.User.Name, g.Level)))
	b.WriteString("\n")

	intoLevel := g.TotalPoints % pointsPerLevel
	fmt.Fprintf(&b, "%s  %d total  %s %s\n", Dim("Points:"), g.TotalPoints,
		RenderProgress(float64(intoLevel)/pointsPerLevel, 16),
		Dim(fmt.Sprintf("to level %d", g.Level+1)))

	fmt.Fprintf(&b, "%s  %s\n", Dim("Streak:"), formatStreak(g.Streak))

	if len(g.Badges) > 0 {
		fmt.Fprintf(&b, "%s  ", Dim("Badges:"))
		names := make([]string, 0, len(g.Badges))
		for _, badge := range g.Badges {
			names = append(names, StylePurple.Render(badge.Name))
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %d active\n", Dim("Plans:"), stats.ActivePlans)
	fmt.Fprintf(&b, "%s  %d done, %d open\n", Dim("Tasks:"), stats.TasksCompleted, stats.TasksPending)
	if stats.TotalStudyMin > 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Focus:"), formatMinutes(stats.TotalStudyMin))
	}
	return b.String()
}

func formatStreak(s domain.Streak) string {
	if s.Current == 0 {
		return Dim("no active streak")
	}
	flame := StyleRed.Render("🔥")
	out := fmt.Sprintf("%s %d day", flame, s.Current)
	if s.Current != 1 {
		out += "s"
	}
	if s.Longest > s.Current {
		out += Dim(fmt.Sprintf(" (best %d)", s.Longest))
	}
	return out
}

func formatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	if min%60 == 0 {
		return fmt.Sprintf("%dh", min/60)
	}
	return fmt.Sprintf("%dh %02dm", min/60, min%60)
}
