package repository

import (
	"context"
	"time"

	"github.com/studia-app/studia/internal/domain"
)

// TaskFilter narrows ListByUser results. Zero values mean "no constraint".
type TaskFilter struct {
	PlanID string
	Status domain.TaskStatus
	From   *time.Time // scheduled on or after
	To     *time.Time // scheduled on or before
	Limit  int
	Offset int
}

// UserRepo persists users together with their preferences and gamification
// state. Badges are written only through AddBadge; Update never touches them.
type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error

	// AddPoints increments the point total and rederives the level in a
	// single UPDATE, returning the new total. Safe under concurrent writers.
	AddPoints(ctx context.Context, userID string, amount int) (int, error)

	// UpdateStreak overwrites the streak columns.
	UpdateStreak(ctx context.Context, userID string, s domain.Streak) error

	// AddBadge awards a badge once per name. Returns false when the user
	// already holds it.
	AddBadge(ctx context.Context, userID string, b domain.Badge) (bool, error)
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.StudyPlan) error
	GetByID(ctx context.Context, id string) (*domain.StudyPlan, error)
	ListByUser(ctx context.Context, userID string, includeArchived bool) ([]*domain.StudyPlan, error)
	Update(ctx context.Context, p *domain.StudyPlan) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string, f TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
