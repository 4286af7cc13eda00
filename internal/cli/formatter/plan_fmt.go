package formatter

import (
	"fmt"
	"strings"

	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/service"
)

// FormatPlanList renders plans as a table: index, title, subject, exam
// date, progress, status.
func FormatPlanList(plans []*domain.StudyPlan) string {
	if len(plans) == 0 {
		return Dim("No study plans. Create one with: studia plan create")
	}

	headers := []string{"#", "TITLE", "SUBJECT", "EXAM", "PROGRESS", "STATUS"}
	rows := make([][]string, 0, len(plans))
	for i, p := range plans {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Bold(p.Title),
			p.Subject,
			p.ExamDate.Format("2006-01-02"),
			RenderProgress(float64(p.Progress.PercentageComplete)/100, 12),
			planStatusCell(p.Status),
		})
	}
	return RenderTable(headers, rows)
}

func planStatusCell(s domain.PlanStatus) string {
	switch s {
	case domain.PlanActive:
		return StyleGreen.Render(string(s))
	case domain.PlanCompleted:
		return StyleBlue.Render(string(s))
	case domain.PlanArchived, domain.PlanPaused:
		return StyleDim.Render(string(s))
	default:
		return string(s)
	}
}

// FormatPlanDetail renders one plan with its topic list, milestones, and
// recent insights.
func FormatPlanDetail(p *domain.StudyPlan) string {
	var b strings.Builder

	b.WriteString(Header(p.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", Dim("Subject:"), p.Subject)
	fmt.Fprintf(&b, "%s  %s (%d days left)\n", Dim("Exam:"), p.ExamDate.Format("2006-01-02"), p.Progress.DaysRemaining)
	fmt.Fprintf(&b, "%s  %s  %s\n", Dim("Progress:"),
		RenderProgress(float64(p.Progress.PercentageComplete)/100, 20),
		PaceIndicator(p.Progress.OnTrack))
	if p.Progress.HoursStudied > 0 {
		fmt.Fprintf(&b, "%s  %.1fh studied of %.0fh target\n", Dim("Hours:"), p.Progress.HoursStudied, p.TotalHoursTarget)
	}

	if len(p.Topics) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Topics"))
		b.WriteString("\n")
		for i, t := range p.Topics {
			marker := StyleDim.Render("[ ]")
			name := t.Name
			if t.Completed {
				marker = StyleGreen.Render("[x]")
				name = StyleDim.Render(name)
			}
			fmt.Fprintf(&b, "%2d %s %s %s\n", i+1, marker, name,
				Dim(fmt.Sprintf("(%.0fh, priority %d)", t.EstimatedHours, t.Priority)))
		}
	}

	if len(p.Milestones) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Milestones"))
		b.WriteString("\n")
		for _, m := range p.Milestones {
			marker := StyleDim.Render("○")
			if m.Completed {
				marker = StyleGreen.Render("●")
			}
			fmt.Fprintf(&b, "%s %s %s\n", marker, m.Title,
				Dim(fmt.Sprintf("(%d%% by %s)", m.TargetPercentage, m.TargetDate.Format("2006-01-02"))))
		}
	}

	if len(p.Insights) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Insights"))
		b.WriteString("\n")
		// Most recent first, capped at three for the detail view.
		shown := 0
		for i := len(p.Insights) - 1; i >= 0 && shown < 3; i-- {
			in := p.Insights[i]
			fmt.Fprintf(&b, "%s %s\n", Dim(in.GeneratedAt.Format("01-02")+" ["+in.Kind+"]"), in.Content)
			shown++
		}
	}

	return b.String()
}

// FormatPace renders a pace recommendation.
func FormatPace(pace *service.PaceRecommendation) string {
	var b strings.Builder
	b.WriteString(Header("Pace"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %.1fh across %d days\n", Dim("Remaining:"), pace.RemainingHours, pace.DaysRemaining)
	fmt.Fprintf(&b, "%s  %s per day\n", Dim("Recommended:"), Bold(fmt.Sprintf("%.1fh", pace.RecommendedDailyHours)))
	fmt.Fprintf(&b, "%s  %s  %s\n", Dim("Standing:"),
		RenderProgress(float64(pace.PercentageComplete)/100, 16),
		PaceIndicator(pace.OnTrack))
	return b.String()
}
