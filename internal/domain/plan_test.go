package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testPlan(topics int, completed int) *StudyPlan {
	p := &StudyPlan{
		ID:        "plan-1",
		UserID:    "user-1",
		Title:     "Linear Algebra Final",
		Subject:   "Math",
		ExamDate:  testNow.AddDate(0, 0, 30),
		Status:    PlanActive,
		CreatedAt: testNow.AddDate(0, 0, -30),
		UpdatedAt: testNow.AddDate(0, 0, -30),
	}
	for i := 0; i < topics; i++ {
		t := Topic{Name: fmt.Sprintf("Topic %d", i+1), EstimatedHours: 4, Priority: 5}
		if i < completed {
			t.Completed = true
			completedAt := testNow.AddDate(0, 0, -1)
			t.CompletedAt = &completedAt
		}
		p.Topics = append(p.Topics, t)
	}
	return p
}

func TestRecomputeProgress_QuarterComplete(t *testing.T) {
	p := testPlan(4, 1)
	p.RecomputeProgress(testNow)
	assert.Equal(t, 25, p.Progress.PercentageComplete)
	assert.Equal(t, 1, p.Progress.TopicsCompleted)
	assert.Equal(t, 4, p.Progress.TopicsTotal)
}

func TestRecomputeProgress_Rounding(t *testing.T) {
	p := testPlan(3, 1)
	p.RecomputeProgress(testNow)
	assert.Equal(t, 33, p.Progress.PercentageComplete, "1/3 rounds to 33")

	p = testPlan(3, 2)
	p.RecomputeProgress(testNow)
	assert.Equal(t, 67, p.Progress.PercentageComplete, "2/3 rounds to 67")
}

func TestRecomputeProgress_NoTopics(t *testing.T) {
	p := testPlan(0, 0)
	p.RecomputeProgress(testNow)
	assert.Equal(t, 0, p.Progress.PercentageComplete)
	assert.Equal(t, 0, p.Progress.TopicsTotal)
}

func TestRecomputeProgress_BoundedPercentage(t *testing.T) {
	for total := 1; total <= 10; total++ {
		for done := 0; done <= total; done++ {
			p := testPlan(total, done)
			p.RecomputeProgress(testNow)
			assert.GreaterOrEqual(t, p.Progress.PercentageComplete, 0)
			assert.LessOrEqual(t, p.Progress.PercentageComplete, 100)
		}
	}
}

func TestDaysUntil_PastExamClampsToZero(t *testing.T) {
	p := testPlan(2, 0)
	p.ExamDate = testNow.AddDate(0, 0, -3)
	assert.Equal(t, 0, p.DaysUntil(testNow))

	p.ExamDate = testNow
	assert.Equal(t, 0, p.DaysUntil(testNow))
}

func TestDaysUntil_PartialDayCountsAsOne(t *testing.T) {
	p := testPlan(1, 0)
	p.ExamDate = testNow.Add(6 * time.Hour)
	assert.Equal(t, 1, p.DaysUntil(testNow))
}

func TestRecomputeProgress_OnTrack(t *testing.T) {
	// Halfway through a 60-day plan with 50% done: expected 50, band 40.
	p := testPlan(4, 2)
	p.RecomputeProgress(testNow)
	assert.True(t, p.Progress.OnTrack)
	assert.Equal(t, 30, p.Progress.DaysRemaining)
}

func TestRecomputeProgress_BehindSchedule(t *testing.T) {
	// Halfway through with nothing done: expected 50, band 40, actual 0.
	p := testPlan(4, 0)
	p.RecomputeProgress(testNow)
	assert.False(t, p.Progress.OnTrack)
}

func TestRecomputeProgress_ExamDayExpectsEverything(t *testing.T) {
	p := testPlan(4, 2)
	p.ExamDate = testNow
	p.RecomputeProgress(testNow)
	assert.Equal(t, 0, p.Progress.DaysRemaining)
	assert.False(t, p.Progress.OnTrack, "50% < 80% of the full expectation")

	p = testPlan(4, 4)
	p.ExamDate = testNow
	p.RecomputeProgress(testNow)
	assert.True(t, p.Progress.OnTrack)
}

func TestRecomputeProgress_PlanCreatedOnExamDay(t *testing.T) {
	// Degenerate timeline: created and examined the same day, but the exam
	// is still ahead of now. Must not divide by zero.
	p := testPlan(4, 0)
	p.CreatedAt = testNow.Add(-time.Hour)
	p.ExamDate = p.CreatedAt
	p.RecomputeProgress(testNow.Add(-2 * time.Hour))
	assert.False(t, p.Progress.OnTrack)

	p = testPlan(4, 4)
	p.CreatedAt = testNow.Add(-time.Hour)
	p.ExamDate = p.CreatedAt
	p.RecomputeProgress(testNow.Add(-2 * time.Hour))
	assert.True(t, p.Progress.OnTrack)
}

func TestRecommendedDailyHours(t *testing.T) {
	p := testPlan(4, 1) // 3 incomplete topics x 4h = 12h remaining
	p.ExamDate = testNow.AddDate(0, 0, 5)
	assert.Equal(t, 3.0, p.RecommendedDailyHours(testNow), "ceil(12/5)")
}

func TestRecommendedDailyHours_NoDaysLeft(t *testing.T) {
	p := testPlan(4, 1)
	p.ExamDate = testNow.AddDate(0, 0, -1)
	assert.Equal(t, 12.0, p.RecommendedDailyHours(testNow), "raw remaining sum, uncapped")
}

func TestRecommendedDailyHours_AllComplete(t *testing.T) {
	p := testPlan(3, 3)
	assert.Equal(t, 0.0, p.RecommendedDailyHours(testNow))
}

func TestCompleteTopic(t *testing.T) {
	p := testPlan(4, 0)
	require.True(t, p.CompleteTopic(1, testNow))
	assert.True(t, p.Topics[1].Completed)
	require.NotNil(t, p.Topics[1].CompletedAt)
	assert.Equal(t, testNow, *p.Topics[1].CompletedAt)
	assert.Equal(t, 25, p.Progress.PercentageComplete, "progress recomputed on completion")
}

func TestCompleteTopic_AlreadyCompleted(t *testing.T) {
	p := testPlan(4, 1)
	p.RecomputeProgress(testNow)
	assert.False(t, p.CompleteTopic(0, testNow))
	assert.Equal(t, 25, p.Progress.PercentageComplete, "no double counting")
}

func TestCompleteTopic_OutOfRange(t *testing.T) {
	p := testPlan(2, 0)
	assert.False(t, p.CompleteTopic(-1, testNow))
	assert.False(t, p.CompleteTopic(2, testNow))
}

func TestAddInsight_KeepsMostRecentTwenty(t *testing.T) {
	p := testPlan(1, 0)
	for i := 1; i <= 21; i++ {
		p.AddInsight(Insight{
			Kind:        "pace",
			Content:     fmt.Sprintf("insight %d", i),
			GeneratedAt: testNow.Add(time.Duration(i) * time.Minute),
		})
	}
	require.Len(t, p.Insights, 20)
	assert.Equal(t, "insight 2", p.Insights[0].Content, "oldest dropped first")
	assert.Equal(t, "insight 21", p.Insights[19].Content)
}

func TestLogStudyHours_AccumulatesWeeklyGoal(t *testing.T) {
	p := testPlan(2, 0)
	p.WeeklyGoals = []WeeklyGoal{
		{Week: 1, StartDate: testNow.AddDate(0, 0, -10), EndDate: testNow.AddDate(0, 0, -4), TargetHours: 10},
		{Week: 2, StartDate: testNow.AddDate(0, 0, -3), EndDate: testNow.AddDate(0, 0, 3), TargetHours: 10},
	}

	p.LogStudyHours(4, testNow)
	assert.Equal(t, 4.0, p.Progress.HoursStudied)
	assert.Equal(t, 0.0, p.WeeklyGoals[0].ActualHours)
	assert.Equal(t, 4.0, p.WeeklyGoals[1].ActualHours)
	assert.False(t, p.WeeklyGoals[1].Completed)

	p.LogStudyHours(6, testNow)
	assert.Equal(t, 10.0, p.WeeklyGoals[1].ActualHours)
	assert.True(t, p.WeeklyGoals[1].Completed)
}

func TestRefreshMilestones(t *testing.T) {
	p := testPlan(4, 2)
	p.Milestones = []Milestone{
		{Title: "Halfway", TargetPercentage: 50},
		{Title: "Done", TargetPercentage: 100},
	}
	p.RecomputeProgress(testNow)
	p.RefreshMilestones(testNow)

	assert.True(t, p.Milestones[0].Completed)
	require.NotNil(t, p.Milestones[0].CompletedAt)
	assert.False(t, p.Milestones[1].Completed)
}

func TestRefreshMilestones_KeepsOriginalTimestamp(t *testing.T) {
	earlier := testNow.Add(-48 * time.Hour)
	p := testPlan(2, 2)
	p.Milestones = []Milestone{
		{Title: "Halfway", TargetPercentage: 50, Completed: true, CompletedAt: &earlier},
	}
	p.RecomputeProgress(testNow)
	p.RefreshMilestones(testNow)
	assert.Equal(t, earlier, *p.Milestones[0].CompletedAt)
}
