package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studia-app/studia/internal/db"
	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/notify"
	"github.com/studia-app/studia/internal/repository"
)

type planService struct {
	plans   repository.PlanRepo
	uow     db.UnitOfWork
	emitter notify.Emitter
}

func NewPlanService(plans repository.PlanRepo, uow db.UnitOfWork, emitter notify.Emitter) PlanService {
	if emitter == nil {
		emitter = notify.NoopEmitter{}
	}
	return &planService{plans: plans, uow: uow, emitter: emitter}
}

func (s *planService) Create(ctx context.Context, p *domain.StudyPlan) error {
	if p.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = domain.PlanActive
	}
	if p.Difficulty == "" {
		p.Difficulty = domain.DifficultyMedium
	}
	if p.Priority == "" {
		p.Priority = domain.PriorityMedium
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	p.RecomputeProgress(now)
	return s.plans.Create(ctx, p)
}

func (s *planService) GetByID(ctx context.Context, id string) (*domain.StudyPlan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) ListByUser(ctx context.Context, userID string, includeArchived bool) ([]*domain.StudyPlan, error) {
	return s.plans.ListByUser(ctx, userID, includeArchived)
}

func (s *planService) Update(ctx context.Context, p *domain.StudyPlan) error {
	p.UpdatedAt = time.Now().UTC()
	p.RecomputeProgress(p.UpdatedAt)
	return s.plans.Update(ctx, p)
}

func (s *planService) Archive(ctx context.Context, id string) error {
	p, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Status = domain.PlanArchived
	p.UpdatedAt = time.Now().UTC()
	return s.plans.Update(ctx, p)
}

func (s *planService) Delete(ctx context.Context, id string) error {
	return s.plans.Delete(ctx, id)
}

func (s *planService) CompleteTopic(ctx context.Context, planID string, topicIndex int) (*domain.StudyPlan, error) {
	now := time.Now().UTC()

	var plan *domain.StudyPlan
	var events []notify.Event
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		users := repository.NewSQLiteUserRepo(tx)

		p, err := plans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		if topicIndex < 0 || topicIndex >= len(p.Topics) {
			return ErrNoSuchTopic
		}
		if !p.CompleteTopic(topicIndex, now) {
			return ErrTopicAlreadyCompleted
		}
		p.RefreshMilestones(now)
		if err := plans.Update(ctx, p); err != nil {
			return err
		}

		out, err := applyStudyReward(ctx, users, p.UserID, domain.PointsTopicCompleted, now)
		if err != nil {
			return err
		}

		events = append(events, notify.Event{
			Name:   notify.EventTopicCompleted,
			UserID: p.UserID,
			At:     now,
			Data: map[string]interface{}{
				"plan_id": p.ID,
				"topic":   p.Topics[topicIndex].Name,
			},
		})
		events = append(events, rewardEvents(p.UserID, "topic_completed", out, now)...)
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		s.emitter.Emit(ctx, ev)
	}
	return plan, nil
}

func (s *planService) LogStudyHours(ctx context.Context, planID string, hours float64) (*domain.StudyPlan, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("hours must be positive")
	}
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p.LogStudyHours(hours, now)
	if err := s.plans.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *planService) AddInsight(ctx context.Context, planID, kind, content string) (*domain.StudyPlan, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p.AddInsight(domain.Insight{Kind: kind, Content: content, GeneratedAt: now})
	p.UpdatedAt = now
	if err := s.plans.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *planService) Pace(ctx context.Context, planID string) (*PaceRecommendation, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p.RecomputeProgress(now)
	return &PaceRecommendation{
		RemainingHours:        p.RemainingHours(),
		DaysRemaining:         p.DaysUntil(now),
		RecommendedDailyHours: p.RecommendedDailyHours(now),
		PercentageComplete:    p.Progress.PercentageComplete,
		OnTrack:               p.Progress.OnTrack,
	}, nil
}
