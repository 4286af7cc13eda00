package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/studia-app/studia/internal/domain"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func WithPasswordHash(hash string) UserOption {
	return func(u *domain.User) {
		u.PasswordHash = hash
	}
}

func WithPoints(points int) UserOption {
	return func(u *domain.User) {
		u.Gamification.TotalPoints = points
		u.Gamification.Level = domain.LevelForPoints(points)
	}
}

func WithStreak(current, longest int, lastStudy time.Time) UserOption {
	return func(u *domain.User) {
		u.Gamification.Streak = domain.Streak{
			Current:       current,
			Longest:       longest,
			LastStudyDate: &lastStudy,
		}
	}
}

func WithPreferences(p domain.StudyPreferences) UserOption {
	return func(u *domain.User) {
		u.Preferences = p
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	n := testEmailCounter.Add(1)
	u := &domain.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: fmt.Sprintf("user%d@example.com", n),
		Preferences: domain.StudyPreferences{
			DailyHoursTarget: 2,
			PreferredTime:    "evening",
			SessionMin:       25,
			ShortBreakMin:    5,
			LongBreakMin:     15,
		},
		Gamification: domain.Gamification{Level: 1},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// StudyPlan options
type PlanOption func(*domain.StudyPlan)

func WithExamDate(d time.Time) PlanOption {
	return func(p *domain.StudyPlan) {
		p.ExamDate = d
	}
}

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.StudyPlan) {
		p.Status = s
	}
}

func WithTopics(topics ...domain.Topic) PlanOption {
	return func(p *domain.StudyPlan) {
		p.Topics = topics
	}
}

func WithWeeklyGoals(goals ...domain.WeeklyGoal) PlanOption {
	return func(p *domain.StudyPlan) {
		p.WeeklyGoals = goals
	}
}

func WithMilestones(ms ...domain.Milestone) PlanOption {
	return func(p *domain.StudyPlan) {
		p.Milestones = ms
	}
}

func NewTestPlan(userID, title string, opts ...PlanOption) *domain.StudyPlan {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	p := &domain.StudyPlan{
		ID:               uuid.New().String(),
		UserID:           userID,
		Title:            title,
		Subject:          "test",
		ExamDate:         now.AddDate(0, 0, 30),
		TotalHoursTarget: 60,
		DailyHoursTarget: 2,
		Difficulty:       domain.DifficultyMedium,
		Priority:         domain.PriorityMedium,
		Status:           domain.PlanActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.RecomputeProgress(now)
	return p
}

// NewTestTopic builds a topic with sensible defaults.
func NewTestTopic(name string, hours float64) domain.Topic {
	return domain.Topic{
		Name:           name,
		EstimatedHours: hours,
		Difficulty:     domain.DifficultyMedium,
		Priority:       5,
	}
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPlanID(id string) TaskOption {
	return func(t *domain.Task) {
		t.PlanID = id
	}
}

func WithScheduled(date time.Time, start, end string) TaskOption {
	return func(t *domain.Task) {
		t.Scheduled = date
		t.StartTime = start
		t.EndTime = end
	}
}

func WithTags(tags ...string) TaskOption {
	return func(t *domain.Task) {
		t.Tags = tags
	}
}

func WithSessions(sessions ...domain.PomodoroSession) TaskOption {
	return func(t *domain.Task) {
		t.Sessions = sessions
	}
}

func WithReminders(rs ...domain.Reminder) TaskOption {
	return func(t *domain.Task) {
		t.Reminders = rs
	}
}

func NewTestTask(userID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	tk := &domain.Task{
		ID:           uuid.New().String(),
		UserID:       userID,
		Title:        title,
		Subject:      "test",
		Type:         "study",
		Priority:     domain.PriorityMedium,
		Difficulty:   domain.DifficultyMedium,
		Status:       domain.TaskPending,
		Scheduled:    now.Truncate(24 * time.Hour),
		StartTime:    "09:00",
		EndTime:      "10:00",
		EstimatedMin: 60,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(tk)
	}
	return tk
}
