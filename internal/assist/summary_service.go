package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/llm"
)

// SummaryService writes a short progress narrative for a study plan. When
// the LLM is unreachable or produces nothing usable, it falls back to a
// deterministic summary built from the plan data.
type SummaryService interface {
	Summarize(ctx context.Context, p *domain.StudyPlan) (string, error)
}

type summaryService struct {
	client llm.Client
}

func NewSummaryService(client llm.Client) SummaryService {
	return &summaryService{client: client}
}

// planSnapshot is the data handed to the LLM, stripped to what a summary
// needs.
type planSnapshot struct {
	Title              string   `json:"title"`
	Subject            string   `json:"subject"`
	ExamDate           string   `json:"exam_date"`
	PercentageComplete int      `json:"percentage_complete"`
	TopicsCompleted    int      `json:"topics_completed"`
	TopicsTotal        int      `json:"topics_total"`
	HoursStudied       float64  `json:"hours_studied"`
	DaysRemaining      int      `json:"days_remaining"`
	OnTrack            bool     `json:"on_track"`
	RemainingTopics    []string `json:"remaining_topics"`
}

func (s *summaryService) Summarize(ctx context.Context, p *domain.StudyPlan) (string, error) {
	snap := snapshotPlan(p, time.Now().UTC())

	snapJSON, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return DeterministicSummary(p), nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSummary,
		SystemPrompt: summarySystemPrompt,
		UserPrompt:   "Here is the study plan:\n\n" + string(snapJSON),
	})
	if err != nil {
		return DeterministicSummary(p), nil
	}

	summary := strings.TrimSpace(resp.Text)
	if summary == "" {
		return DeterministicSummary(p), nil
	}
	return summary, nil
}

func snapshotPlan(p *domain.StudyPlan, now time.Time) planSnapshot {
	snap := planSnapshot{
		Title:              p.Title,
		Subject:            p.Subject,
		ExamDate:           p.ExamDate.Format("2006-01-02"),
		PercentageComplete: p.Progress.PercentageComplete,
		TopicsCompleted:    p.Progress.TopicsCompleted,
		TopicsTotal:        p.Progress.TopicsTotal,
		HoursStudied:       p.Progress.HoursStudied,
		DaysRemaining:      p.DaysUntil(now),
		OnTrack:            p.Progress.OnTrack,
	}
	for _, t := range p.Topics {
		if !t.Completed {
			snap.RemainingTopics = append(snap.RemainingTopics, t.Name)
		}
	}
	return snap
}

// DeterministicSummary builds a progress summary directly from plan data
// without the LLM.
func DeterministicSummary(p *domain.StudyPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d of %d topics completed (%d%%).",
		p.Title, p.Progress.TopicsCompleted, p.Progress.TopicsTotal, p.Progress.PercentageComplete)
	if p.Progress.HoursStudied > 0 {
		fmt.Fprintf(&b, " %.1f hours studied so far.", p.Progress.HoursStudied)
	}
	fmt.Fprintf(&b, " %d days remain until the exam.", p.Progress.DaysRemaining)
	if p.Progress.OnTrack {
		b.WriteString(" You are on track.")
	} else {
		b.WriteString(" You are behind the expected pace.")
	}
	return b.String()
}
