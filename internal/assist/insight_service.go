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

// InsightService writes one-line pacing insights for a plan, suitable for
// storing on the plan's insight list. Falls back to a deterministic
// message when the LLM is unreachable.
type InsightService interface {
	PaceInsight(ctx context.Context, p *domain.StudyPlan) (string, error)
}

type insightService struct {
	client llm.Client
}

func NewInsightService(client llm.Client) InsightService {
	return &insightService{client: client}
}

type paceSnapshot struct {
	PercentageComplete    int     `json:"percentage_complete"`
	HoursStudied          float64 `json:"hours_studied"`
	DaysRemaining         int     `json:"days_remaining"`
	RemainingHours        float64 `json:"remaining_hours"`
	RecommendedDailyHours float64 `json:"recommended_daily_hours"`
	OnTrack               bool    `json:"on_track"`
}

func (s *insightService) PaceInsight(ctx context.Context, p *domain.StudyPlan) (string, error) {
	now := time.Now().UTC()
	snap := paceSnapshot{
		PercentageComplete:    p.Progress.PercentageComplete,
		HoursStudied:          p.Progress.HoursStudied,
		DaysRemaining:         p.DaysUntil(now),
		RemainingHours:        p.RemainingHours(),
		RecommendedDailyHours: p.RecommendedDailyHours(now),
		OnTrack:               p.Progress.OnTrack,
	}

	snapJSON, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return deterministicPaceInsight(snap), nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskInsight,
		SystemPrompt: insightSystemPrompt,
		UserPrompt:   "Here is the pacing data:\n\n" + string(snapJSON),
	})
	if err != nil {
		return deterministicPaceInsight(snap), nil
	}

	insight := strings.TrimSpace(resp.Text)
	if insight == "" {
		return deterministicPaceInsight(snap), nil
	}
	return insight, nil
}

func deterministicPaceInsight(snap paceSnapshot) string {
	if snap.DaysRemaining == 0 {
		return fmt.Sprintf("The exam date has arrived with %.1f topic hours still open.", snap.RemainingHours)
	}
	if snap.OnTrack {
		return fmt.Sprintf("You are on track: about %.1f hours per day covers the remaining %.1f hours.",
			snap.RecommendedDailyHours, snap.RemainingHours)
	}
	return fmt.Sprintf("You are behind: plan for about %.1f hours per day to cover the remaining %.1f hours in %d days.",
		snap.RecommendedDailyHours, snap.RemainingHours, snap.DaysRemaining)
}
