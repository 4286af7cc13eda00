package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/notify"
	"github.com/studia-app/studia/internal/testutil"
)

// tomorrow keeps fixture tasks out of reach of the lazy overdue transition.
func tomorrow() time.Time {
	return time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
}

func TestTaskCreate_FillsDefaults(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))

	svc := NewTaskService(tasks, uow, nil)
	task := &domain.Task{
		UserID:    user.ID,
		Title:     "Read chapter 3",
		Type:      "reading",
		Scheduled: tomorrow(),
		StartTime: "09:00",
		EndTime:   "10:00",
	}
	require.NoError(t, svc.Create(ctx, task))

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.TaskPending, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, domain.DifficultyMedium, task.Difficulty)
}

func TestTaskCreate_RejectsUnknownType(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))

	svc := NewTaskService(tasks, uow, nil)
	err := svc.Create(ctx, &domain.Task{UserID: user.ID, Title: "X", Type: "procrastinate"})
	assert.ErrorIs(t, err, ErrInvalidTaskType)
}

func TestGetByID_TransitionsOverdue(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))

	yesterday := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -1)
	task := testutil.NewTestTask(user.ID, "Missed slot",
		testutil.WithScheduled(yesterday, "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	emitter := notify.NewChannelEmitter(16)
	svc := NewTaskService(tasks, uow, emitter)

	got, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskOverdue, got.Status)

	// The transition is persisted, not just applied to the returned copy.
	stored, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskOverdue, stored.Status)

	names := eventNames(drainEvents(emitter))
	assert.Contains(t, names, notify.EventTaskOverdue)

	// A second read emits nothing new.
	_, err = svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, drainEvents(emitter))
}

func TestTaskComplete_AwardsPointsAndEmits(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Read chapter 3",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	emitter := notify.NewChannelEmitter(16)
	svc := NewTaskService(tasks, uow, emitter)

	done, err := svc.Complete(ctx, task.ID, "went well", 4)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskCompleted, done.Status)
	require.NotNil(t, done.Completion)
	assert.Equal(t, 100, done.Completion.Percentage)
	assert.Equal(t, "went well", done.Completion.Notes)
	assert.Equal(t, 4, done.Completion.Rating)

	rewarded, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PointsTaskCompleted, rewarded.Gamification.TotalPoints)
	assert.Equal(t, 1, rewarded.Gamification.Streak.Current)

	names := eventNames(drainEvents(emitter))
	assert.Contains(t, names, notify.EventTaskCompleted)
	assert.Contains(t, names, notify.EventPointsAwarded)
	assert.Contains(t, names, notify.EventStreakUpdated)
}

func TestTaskComplete_OverdueStillCompletable(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))

	yesterday := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -1)
	task := testutil.NewTestTask(user.ID, "Late",
		testutil.WithScheduled(yesterday, "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	svc := NewTaskService(tasks, uow, nil)
	done, err := svc.Complete(ctx, task.ID, "", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, done.Status)
}

func TestTaskComplete_TerminalRejectedWithoutReward(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Once only",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	emitter := notify.NewChannelEmitter(16)
	svc := NewTaskService(tasks, uow, emitter)

	_, err := svc.Complete(ctx, task.ID, "", 0)
	require.NoError(t, err)
	drainEvents(emitter)

	_, err = svc.Complete(ctx, task.ID, "", 0)
	assert.ErrorIs(t, err, ErrTaskTerminal)

	rewarded, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PointsTaskCompleted, rewarded.Gamification.TotalPoints, "no double reward")
	assert.Empty(t, drainEvents(emitter))
}

func TestTaskComplete_SeventhDayEarnsBadge(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	yesterday := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -1)
	user := testutil.NewTestUser("Mara", testutil.WithStreak(6, 6, yesterday))
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Day seven",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	emitter := notify.NewChannelEmitter(16)
	svc := NewTaskService(tasks, uow, emitter)

	_, err := svc.Complete(ctx, task.ID, "", 0)
	require.NoError(t, err)

	rewarded, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, rewarded.Gamification.Streak.Current)
	require.Len(t, rewarded.Gamification.Badges, 1)
	assert.Equal(t, domain.BadgeWeekWarrior.Name, rewarded.Gamification.Badges[0].Name)

	names := eventNames(drainEvents(emitter))
	assert.Contains(t, names, notify.EventBadgeEarned)
}

func TestTaskCancel(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Skip it",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	svc := NewTaskService(tasks, uow, nil)
	cancelled, err := svc.Cancel(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, task.ID)
	assert.ErrorIs(t, err, ErrTaskTerminal)
	_, err = svc.StartPomodoro(ctx, task.ID, 25)
	assert.ErrorIs(t, err, ErrTaskTerminal)
	_, err = svc.StartBreak(ctx, task.ID, 5, domain.SessionShortBreak)
	assert.ErrorIs(t, err, ErrTaskTerminal)
}

func TestStartPomodoro_MovesToInProgress(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Focus",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	svc := NewTaskService(tasks, uow, nil)
	started, err := svc.StartPomodoro(ctx, task.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskInProgress, started.Status)
	require.Len(t, started.Sessions, 1)
	assert.Equal(t, domain.DefaultPomodoroMin, started.Sessions[0].DurationMin)
	assert.Equal(t, domain.SessionWork, started.Sessions[0].Kind)
	assert.False(t, started.Sessions[0].Completed)
}

func TestCompletePomodoro_WorkSessionRewards(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Focus",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	emitter := notify.NewChannelEmitter(16)
	svc := NewTaskService(tasks, uow, emitter)

	_, err := svc.StartPomodoro(ctx, task.ID, 25)
	require.NoError(t, err)

	done, err := svc.CompletePomodoro(ctx, task.ID, 0)
	require.NoError(t, err)

	assert.True(t, done.Sessions[0].Completed)
	assert.Equal(t, 25, done.ActualMin)

	rewarded, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PointsPomodoroCompleted, rewarded.Gamification.TotalPoints)

	names := eventNames(drainEvents(emitter))
	assert.Contains(t, names, notify.EventPomodoroCompleted)
	assert.Contains(t, names, notify.EventPointsAwarded)
}

func TestCompletePomodoro_BreakEarnsNothing(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Focus",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	emitter := notify.NewChannelEmitter(16)
	svc := NewTaskService(tasks, uow, emitter)

	broke, err := svc.StartBreak(ctx, task.ID, 0, domain.SessionShortBreak)
	require.NoError(t, err)
	require.Len(t, broke.Sessions, 1)
	assert.Equal(t, 5, broke.Sessions[0].DurationMin, "short break defaults to five minutes")

	done, err := svc.CompletePomodoro(ctx, task.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, done.ActualMin)

	rewarded, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rewarded.Gamification.TotalPoints)
	assert.Empty(t, drainEvents(emitter))
}

func TestCompletePomodoro_Errors(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Focus",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	svc := NewTaskService(tasks, uow, nil)
	_, err := svc.StartPomodoro(ctx, task.ID, 25)
	require.NoError(t, err)

	_, err = svc.CompletePomodoro(ctx, task.ID, 3)
	assert.ErrorIs(t, err, ErrNoSuchSession)

	_, err = svc.CompletePomodoro(ctx, task.ID, 0)
	require.NoError(t, err)
	_, err = svc.CompletePomodoro(ctx, task.ID, 0)
	assert.ErrorIs(t, err, ErrSessionAlreadyClosed)
}

func TestStartBreak_LongDefault(t *testing.T) {
	users, _, tasks, uow := setupRepos(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Mara")
	require.NoError(t, users.Create(ctx, user))
	task := testutil.NewTestTask(user.ID, "Focus",
		testutil.WithScheduled(tomorrow(), "09:00", "10:00"))
	require.NoError(t, tasks.Create(ctx, task))

	svc := NewTaskService(tasks, uow, nil)
	broke, err := svc.StartBreak(ctx, task.ID, 0, domain.SessionLongBreak)
	require.NoError(t, err)
	require.Len(t, broke.Sessions, 1)
	assert.Equal(t, 15, broke.Sessions[0].DurationMin)
	assert.Equal(t, domain.TaskPending, broke.Status, "breaks do not change task status")
}
