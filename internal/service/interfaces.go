package service

import (
	"context"

	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/repository"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePreferences(ctx context.Context, id string, prefs domain.StudyPreferences) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// PaceRecommendation is the derived pacing summary for a plan at the time
// of the call.
type PaceRecommendation struct {
	RemainingHours        float64
	DaysRemaining         int
	RecommendedDailyHours float64
	PercentageComplete    int
	OnTrack               bool
}

type PlanService interface {
	Create(ctx context.Context, p *domain.StudyPlan) error
	GetByID(ctx context.Context, id string) (*domain.StudyPlan, error)
	ListByUser(ctx context.Context, userID string, includeArchived bool) ([]*domain.StudyPlan, error)
	Update(ctx context.Context, p *domain.StudyPlan) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	// CompleteTopic marks one topic done, recomputes progress and milestones,
	// and credits the topic completion reward, all in one transaction.
	CompleteTopic(ctx context.Context, planID string, topicIndex int) (*domain.StudyPlan, error)

	// LogStudyHours folds studied hours into the plan's progress summary and
	// the covering weekly goal.
	LogStudyHours(ctx context.Context, planID string, hours float64) (*domain.StudyPlan, error)

	AddInsight(ctx context.Context, planID, kind, content string) (*domain.StudyPlan, error)
	Pace(ctx context.Context, planID string) (*PaceRecommendation, error)
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string, f repository.TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error

	// Complete finishes the task and credits the task completion reward in
	// one transaction.
	Complete(ctx context.Context, id, notes string, rating int) (*domain.Task, error)
	Cancel(ctx context.Context, id string) (*domain.Task, error)

	StartPomodoro(ctx context.Context, taskID string, durationMin int) (*domain.Task, error)
	StartBreak(ctx context.Context, taskID string, durationMin int, kind domain.SessionKind) (*domain.Task, error)

	// CompletePomodoro closes the session at the given index. Work sessions
	// credit the pomodoro reward; breaks do not.
	CompletePomodoro(ctx context.Context, taskID string, sessionIndex int) (*domain.Task, error)
}

// UserStats aggregates a user's gamification state with plan and task counts.
type UserStats struct {
	User           *domain.User
	ActivePlans    int
	TasksCompleted int
	TasksPending   int
	TotalStudyMin  int
}

type StatsService interface {
	UserStats(ctx context.Context, userID string) (*UserStats, error)
}
