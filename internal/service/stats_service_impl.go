package service

import (
	"context"

	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/repository"
)

type statsService struct {
	users repository.UserRepo
	plans repository.PlanRepo
	tasks repository.TaskRepo
}

func NewStatsService(users repository.UserRepo, plans repository.PlanRepo, tasks repository.TaskRepo) StatsService {
	return &statsService{users: users, plans: plans, tasks: tasks}
}

func (s *statsService) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	plans, err := s.plans.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	stats := &UserStats{User: user}
	for _, p := range plans {
		if p.Status == domain.PlanActive {
			stats.ActivePlans++
		}
	}

	tasks, err := s.tasks.ListByUser(ctx, userID, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskCompleted:
			stats.TasksCompleted++
		case domain.TaskPending, domain.TaskInProgress, domain.TaskOverdue:
			stats.TasksPending++
		}
		stats.TotalStudyMin += t.TotalStudyMin()
	}
	return stats, nil
}
