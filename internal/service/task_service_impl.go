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

type taskService struct {
	tasks   repository.TaskRepo
	uow     db.UnitOfWork
	emitter notify.Emitter
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, emitter notify.Emitter) TaskService {
	if emitter == nil {
		emitter = notify.NoopEmitter{}
	}
	return &taskService{tasks: tasks, uow: uow, emitter: emitter}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) error {
	if t.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !domain.ValidTaskTypes[t.Type] {
		return ErrInvalidTaskType
	}

	now := time.Now().UTC()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.Difficulty == "" {
		t.Difficulty = domain.DifficultyMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.tasks.Create(ctx, t)
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refreshOverdue(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) ListByUser(ctx context.Context, userID string, f repository.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err := s.refreshOverdue(ctx, t); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// refreshOverdue applies the lazy pending -> overdue transition on read
// paths, persisting and announcing the change when it happens.
func (s *taskService) refreshOverdue(ctx context.Context, t *domain.Task) error {
	now := time.Now().UTC()
	if !t.RefreshOverdue(now) {
		return nil
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return err
	}
	s.emitter.Emit(ctx, notify.Event{
		Name:   notify.EventTaskOverdue,
		UserID: t.UserID,
		At:     now,
		Data: map[string]interface{}{
			"task_id": t.ID,
			"title":   t.Title,
		},
	})
	return nil
}

func (s *taskService) Update(ctx context.Context, t *domain.Task) error {
	if t.Type != "" && !domain.ValidTaskTypes[t.Type] {
		return ErrInvalidTaskType
	}
	t.UpdatedAt = time.Now().UTC()
	return s.tasks.Update(ctx, t)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) Complete(ctx context.Context, id, notes string, rating int) (*domain.Task, error) {
	now := time.Now().UTC()

	var task *domain.Task
	var events []notify.Event
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		users := repository.NewSQLiteUserRepo(tx)

		t, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		t.RefreshOverdue(now)
		if !t.Complete(now, notes, rating) {
			return ErrTaskTerminal
		}
		if err := tasks.Update(ctx, t); err != nil {
			return err
		}

		out, err := applyStudyReward(ctx, users, t.UserID, domain.PointsTaskCompleted, now)
		if err != nil {
			return err
		}

		events = append(events, notify.Event{
			Name:   notify.EventTaskCompleted,
			UserID: t.UserID,
			At:     now,
			Data: map[string]interface{}{
				"task_id": t.ID,
				"title":   t.Title,
			},
		})
		events = append(events, rewardEvents(t.UserID, "task_completed", out, now)...)
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		s.emitter.Emit(ctx, ev)
	}
	return task, nil
}

func (s *taskService) Cancel(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !t.Cancel(now) {
		return nil, ErrTaskTerminal
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) StartPomodoro(ctx context.Context, taskID string, durationMin int) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !t.StartPomodoro(now, durationMin) {
		return nil, ErrTaskTerminal
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) StartBreak(ctx context.Context, taskID string, durationMin int, kind domain.SessionKind) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if durationMin <= 0 {
		switch kind {
		case domain.SessionLongBreak:
			durationMin = 15
		default:
			durationMin = 5
		}
	}
	now := time.Now().UTC()
	if !t.StartBreak(now, durationMin, kind) {
		return nil, ErrTaskTerminal
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) CompletePomodoro(ctx context.Context, taskID string, sessionIndex int) (*domain.Task, error) {
	now := time.Now().UTC()

	var task *domain.Task
	var events []notify.Event
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		users := repository.NewSQLiteUserRepo(tx)

		t, err := tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if sessionIndex < 0 || sessionIndex >= len(t.Sessions) {
			return ErrNoSuchSession
		}
		if t.Sessions[sessionIndex].Completed {
			return ErrSessionAlreadyClosed
		}
		wasWork := t.Sessions[sessionIndex].Kind == domain.SessionWork
		t.CompletePomodoro(sessionIndex, now)
		if err := tasks.Update(ctx, t); err != nil {
			return err
		}

		if wasWork {
			out, err := applyStudyReward(ctx, users, t.UserID, domain.PointsPomodoroCompleted, now)
			if err != nil {
				return err
			}
			events = append(events, notify.Event{
				Name:   notify.EventPomodoroCompleted,
				UserID: t.UserID,
				At:     now,
				Data: map[string]interface{}{
					"task_id":      t.ID,
					"duration_min": t.Sessions[sessionIndex].DurationMin,
				},
			})
			events = append(events, rewardEvents(t.UserID, "pomodoro_completed", out, now)...)
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		s.emitter.Emit(ctx, ev)
	}
	return task, nil
}
