package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/testutil"
)

func taskTestSetup(t *testing.T) (*SQLiteTaskRepo, *SQLitePlanRepo, string) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	userRepo := NewSQLiteUserRepo(database)
	u := testutil.NewTestUser("Tasker")
	require.NoError(t, userRepo.Create(ctx, u))

	return NewSQLiteTaskRepo(database), NewSQLitePlanRepo(database), u.ID
}

func TestTaskRepo_CreateAndGetByID(t *testing.T) {
	repo, _, userID := taskTestSetup(t)
	ctx := context.Background()

	scheduled := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	task := testutil.NewTestTask(userID, "Read chapter 3",
		testutil.WithScheduled(scheduled, "14:00", "15:30"),
		testutil.WithTags("reading", "biology"),
	)
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, fetched.ID)
	assert.Equal(t, userID, fetched.UserID)
	assert.Equal(t, "", fetched.PlanID)
	assert.Equal(t, "Read chapter 3", fetched.Title)
	assert.Equal(t, domain.TaskPending, fetched.Status)
	assert.True(t, fetched.Scheduled.Equal(scheduled))
	assert.Equal(t, "14:00", fetched.StartTime)
	assert.Equal(t, "15:30", fetched.EndTime)
	assert.Equal(t, []string{"reading", "biology"}, fetched.Tags)
	assert.Nil(t, fetched.Completion)
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	repo, _, _ := taskTestSetup(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_SessionsAndRemindersRoundTrip(t *testing.T) {
	repo, _, userID := taskTestSetup(t)
	ctx := context.Background()

	started := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	ended := started.Add(25 * time.Minute)
	remindAt := time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)

	task := testutil.NewTestTask(userID, "Practice problems",
		testutil.WithSessions(
			domain.PomodoroSession{StartedAt: started, EndedAt: &ended, DurationMin: 25, Completed: true, Kind: domain.SessionWork},
			domain.PomodoroSession{StartedAt: ended, DurationMin: 25, Kind: domain.SessionWork},
		),
		testutil.WithReminders(domain.Reminder{At: remindAt}),
	)
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Sessions, 2)
	assert.True(t, fetched.Sessions[0].StartedAt.Equal(started))
	require.NotNil(t, fetched.Sessions[0].EndedAt)
	assert.True(t, fetched.Sessions[0].EndedAt.Equal(ended))
	assert.True(t, fetched.Sessions[0].Completed)
	assert.Equal(t, domain.SessionWork, fetched.Sessions[0].Kind)
	assert.Nil(t, fetched.Sessions[1].EndedAt)
	assert.False(t, fetched.Sessions[1].Completed)

	require.Len(t, fetched.Reminders, 1)
	assert.True(t, fetched.Reminders[0].At.Equal(remindAt))
	assert.False(t, fetched.Reminders[0].Sent)
}

func TestTaskRepo_CompletionRoundTrip(t *testing.T) {
	repo, _, userID := taskTestSetup(t)
	ctx := context.Background()

	task := testutil.NewTestTask(userID, "Review notes", testutil.WithTaskStatus(domain.TaskCompleted))
	task.Completion = &domain.Completion{
		Percentage:  100,
		CompletedAt: time.Date(2025, 6, 15, 16, 0, 0, 0, time.UTC),
		Notes:       "went well",
		Rating:      4,
	}
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Completion)
	assert.Equal(t, 100, fetched.Completion.Percentage)
	assert.Equal(t, "went well", fetched.Completion.Notes)
	assert.Equal(t, 4, fetched.Completion.Rating)
	assert.True(t, fetched.Completion.CompletedAt.Equal(task.Completion.CompletedAt))
}

func TestTaskRepo_PlanLink(t *testing.T) {
	repo, planRepo, userID := taskTestSetup(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(userID, "Linked plan")
	require.NoError(t, planRepo.Create(ctx, plan))

	task := testutil.NewTestTask(userID, "Linked task", testutil.WithPlanID(plan.ID))
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, fetched.PlanID)
}

func TestTaskRepo_ListByUser_Filters(t *testing.T) {
	repo, planRepo, userID := taskTestSetup(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(userID, "Filter plan")
	require.NoError(t, planRepo.Create(ctx, plan))

	day1 := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	t1 := testutil.NewTestTask(userID, "Early", testutil.WithScheduled(day1, "09:00", "10:00"))
	t2 := testutil.NewTestTask(userID, "Mid",
		testutil.WithScheduled(day2, "09:00", "10:00"),
		testutil.WithPlanID(plan.ID),
		testutil.WithTaskStatus(domain.TaskCompleted))
	t3 := testutil.NewTestTask(userID, "Late", testutil.WithScheduled(day3, "09:00", "10:00"))
	for _, task := range []*domain.Task{t1, t2, t3} {
		require.NoError(t, repo.Create(ctx, task))
	}

	all, err := repo.ListByUser(ctx, userID, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by scheduled date.
	assert.Equal(t, "Early", all[0].Title)
	assert.Equal(t, "Late", all[2].Title)

	completed, err := repo.ListByUser(ctx, userID, TaskFilter{Status: domain.TaskCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Mid", completed[0].Title)

	byPlan, err := repo.ListByUser(ctx, userID, TaskFilter{PlanID: plan.ID})
	require.NoError(t, err)
	require.Len(t, byPlan, 1)
	assert.Equal(t, "Mid", byPlan[0].Title)

	from := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	ranged, err := repo.ListByUser(ctx, userID, TaskFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "Mid", ranged[0].Title)

	paged, err := repo.ListByUser(ctx, userID, TaskFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 2)
	assert.Equal(t, "Mid", paged[0].Title)
	assert.Equal(t, "Late", paged[1].Title)
}

func TestTaskRepo_UpdateReplacesChildren(t *testing.T) {
	repo, _, userID := taskTestSetup(t)
	ctx := context.Background()

	started := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	task := testutil.NewTestTask(userID, "Evolving task",
		testutil.WithSessions(domain.PomodoroSession{StartedAt: started, DurationMin: 25, Kind: domain.SessionWork}),
	)
	require.NoError(t, repo.Create(ctx, task))

	// Complete the open session and bump actual minutes.
	ended := started.Add(25 * time.Minute)
	task.Sessions[0].EndedAt = &ended
	task.Sessions[0].Completed = true
	task.ActualMin = 25
	task.Status = domain.TaskInProgress
	task.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, fetched.Status)
	assert.Equal(t, 25, fetched.ActualMin)
	require.Len(t, fetched.Sessions, 1)
	assert.True(t, fetched.Sessions[0].Completed)
}

func TestTaskRepo_Delete(t *testing.T) {
	repo, _, userID := taskTestSetup(t)
	ctx := context.Background()

	task := testutil.NewTestTask(userID, "Doomed task")
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
