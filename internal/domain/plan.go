package domain

import (
	"math"
	"time"
)

// maxInsights bounds the insight list; appending beyond it drops the oldest.
const maxInsights = 20

type StudyPlan struct {
	ID               string
	UserID           string
	Title            string
	Subject          string
	ExamDate         time.Time
	TotalHoursTarget float64
	DailyHoursTarget float64
	Difficulty       Difficulty
	Priority         Priority
	Status           PlanStatus

	Topics      []Topic
	WeeklyGoals []WeeklyGoal
	Milestones  []Milestone
	Insights    []Insight
	Progress    Progress

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Topic struct {
	Name           string
	Subtopics      []string
	EstimatedHours float64
	Difficulty     Difficulty
	Priority       int // 1-10
	Completed      bool
	CompletedAt    *time.Time
	Notes          string
}

type WeeklyGoal struct {
	Week        int
	StartDate   time.Time
	EndDate     time.Time
	TargetHours float64
	ActualHours float64
	TopicHours  map[string]float64
	Completed   bool
}

type Milestone struct {
	Title            string
	TargetDate       time.Time
	TargetPercentage int // 0-100
	Completed        bool
	CompletedAt      *time.Time
}

type Insight struct {
	Kind        string
	Content     string
	GeneratedAt time.Time
}

// Progress is derived state, recomputed by every mutation entry point so it
// never drifts from the topic list.
type Progress struct {
	TopicsCompleted    int
	TopicsTotal        int
	PercentageComplete int
	HoursStudied       float64
	DaysRemaining      int
	OnTrack            bool
}

// DaysUntil returns the whole days from now until exam, never negative.
// A date even one second in the future counts as a full remaining day.
func (p *StudyPlan) DaysUntil(now time.Time) int {
	days := int(math.Ceil(p.ExamDate.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// RecomputeProgress rederives the Progress summary from the topic list and
// exam date. The on-track check compares actual completion against the
// linear expectation for the elapsed share of the plan timeline, with a 20%
// tolerance band. Plans whose timeline is degenerate (exam on or before the
// creation date) are treated as fully expected, never divided by zero.
func (p *StudyPlan) RecomputeProgress(now time.Time) {
	total := len(p.Topics)
	completed := 0
	for _, t := range p.Topics {
		if t.Completed {
			completed++
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(completed) / float64(total) * 100))
	}

	daysRemaining := p.DaysUntil(now)

	expected := 100.0
	totalPlanDays := p.ExamDate.Sub(p.CreatedAt).Hours() / 24
	if daysRemaining > 0 && totalPlanDays > 0 {
		expected = 100 - float64(daysRemaining)/totalPlanDays*100
		if expected < 0 {
			expected = 0
		}
	}

	p.Progress.TopicsCompleted = completed
	p.Progress.TopicsTotal = total
	p.Progress.PercentageComplete = pct
	p.Progress.DaysRemaining = daysRemaining
	p.Progress.OnTrack = float64(pct) >= expected*0.8
}

// RemainingHours sums the estimated hours of incomplete topics.
func (p *StudyPlan) RemainingHours() float64 {
	var sum float64
	for _, t := range p.Topics {
		if !t.Completed {
			sum += t.EstimatedHours
		}
	}
	return sum
}

// RecommendedDailyHours derives the daily pace needed to cover the remaining
// topic hours before the exam. With no days left it returns the raw
// remaining sum rather than dividing by zero.
func (p *StudyPlan) RecommendedDailyHours(now time.Time) float64 {
	remaining := p.RemainingHours()
	days := p.DaysUntil(now)
	if days <= 0 {
		return remaining
	}
	return math.Ceil(remaining / float64(days))
}

// CompleteTopic marks the topic at index as completed and recomputes
// progress. Returns false when the index is out of range or the topic is
// already completed; the plan is left untouched in both cases.
func (p *StudyPlan) CompleteTopic(index int, now time.Time) bool {
	if index < 0 || index >= len(p.Topics) {
		return false
	}
	if p.Topics[index].Completed {
		return false
	}
	p.Topics[index].Completed = true
	completedAt := now
	p.Topics[index].CompletedAt = &completedAt
	p.UpdatedAt = now
	p.RecomputeProgress(now)
	return true
}

// AddInsight appends an insight, keeping only the most recent maxInsights.
func (p *StudyPlan) AddInsight(in Insight) {
	p.Insights = append(p.Insights, in)
	if len(p.Insights) > maxInsights {
		p.Insights = p.Insights[len(p.Insights)-maxInsights:]
	}
}

// LogStudyHours adds studied hours to the derived progress summary and to
// the weekly goal covering now, if any.
func (p *StudyPlan) LogStudyHours(hours float64, now time.Time) {
	p.Progress.HoursStudied += hours
	for i := range p.WeeklyGoals {
		g := &p.WeeklyGoals[i]
		if !now.Before(g.StartDate) && now.Before(g.EndDate.AddDate(0, 0, 1)) {
			g.ActualHours += hours
			if g.ActualHours >= g.TargetHours && g.TargetHours > 0 {
				g.Completed = true
			}
			break
		}
	}
	p.UpdatedAt = now
}

// RefreshMilestones marks milestones whose target percentage has been
// reached. Already-completed milestones keep their original timestamp.
func (p *StudyPlan) RefreshMilestones(now time.Time) {
	for i := range p.Milestones {
		m := &p.Milestones[i]
		if m.Completed {
			continue
		}
		if p.Progress.PercentageComplete >= m.TargetPercentage {
			m.Completed = true
			completedAt := now
			m.CompletedAt = &completedAt
		}
	}
}
