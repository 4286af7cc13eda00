package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studia-app/studia/internal/db"
	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/notify"
	"github.com/studia-app/studia/internal/repository"
	"github.com/studia-app/studia/internal/service"
	"github.com/studia-app/studia/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. Assist services stay nil, matching a run without an LLM.
func testApp(t *testing.T) *App {
	t.Helper()
	conn := testutil.NewTestDB(t)

	userRepo := repository.NewSQLiteUserRepo(conn)
	planRepo := repository.NewSQLitePlanRepo(conn)
	taskRepo := repository.NewSQLiteTaskRepo(conn)
	uow := db.NewSQLiteUnitOfWork(conn)

	user := testutil.NewTestUser("Local", testutil.WithEmail("local@studia"))
	require.NoError(t, userRepo.Create(context.Background(), user))

	return &App{
		Users:  service.NewUserService(userRepo),
		Plans:  service.NewPlanService(planRepo, uow, notify.NoopEmitter{}),
		Tasks:  service.NewTaskService(taskRepo, uow, notify.NoopEmitter{}),
		Stats:  service.NewStatsService(userRepo, planRepo, taskRepo),
		UserID: user.ID,
	}
}

// executeCmd runs a cobra command and returns its error. Output goes to a
// throwaway buffer.
func executeCmd(t *testing.T, app *App, args ...string) error {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	return root.Execute()
}

func TestPlanCreateAndList(t *testing.T) {
	app := testApp(t)

	err := executeCmd(t, app, "plan", "create",
		"--title", "Linear Algebra",
		"--subject", "Math",
		"--exam", "2027-01-15",
		"--hours", "40",
		"--topic", "Vectors",
		"--topic", "Matrices",
	)
	require.NoError(t, err)

	plans, err := app.Plans.ListByUser(context.Background(), app.UserID, false)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Linear Algebra", plans[0].Title)
	assert.Len(t, plans[0].Topics, 2)
	assert.Equal(t, domain.PlanActive, plans[0].Status)

	assert.NoError(t, executeCmd(t, app, "plan", "list"))
}

func TestPlanCreateRejectsBadExamDate(t *testing.T) {
	app := testApp(t)
	err := executeCmd(t, app, "plan", "create", "--title", "X", "--exam", "soon")
	assert.Error(t, err)
}

func TestPlanTopicDoneByIndex(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(app.UserID, "Physics",
		testutil.WithTopics(
			domain.Topic{Name: "Mechanics", EstimatedHours: 5},
			domain.Topic{Name: "Optics", EstimatedHours: 5},
		))
	require.NoError(t, app.Plans.Create(ctx, plan))

	require.NoError(t, executeCmd(t, app, "plan", "topic-done", "1", "1"))

	got, err := app.Plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, got.Topics[0].Completed)
	assert.Equal(t, 50, got.Progress.PercentageComplete)

	u, err := app.Users.GetByID(ctx, app.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.PointsTopicCompleted, u.Gamification.TotalPoints)

	// Index 0 is not a valid 1-based topic number.
	assert.Error(t, executeCmd(t, app, "plan", "topic-done", "1", "0"))
}

func TestTaskAddAndDone(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	date := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	require.NoError(t, executeCmd(t, app, "task", "add",
		"--title", "Read chapter 3",
		"--type", "reading",
		"--date", date,
		"--start", "09:00", "--end", "10:00",
		"--tag", "book",
	))

	tasks, err := app.Tasks.ListByUser(ctx, app.UserID, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "reading", tasks[0].Type)
	assert.Equal(t, []string{"book"}, tasks[0].Tags)

	require.NoError(t, executeCmd(t, app, "task", "done", "1", "--rating", "4", "--notes", "smooth"))

	got, err := app.Tasks.GetByID(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, got.Status)
	require.NotNil(t, got.Completion)
	assert.Equal(t, 4, got.Completion.Rating)

	// A second completion fails on the terminal state.
	assert.Error(t, executeCmd(t, app, "task", "done", "1"))
}

func TestTaskAddRejectsUnknownType(t *testing.T) {
	app := testApp(t)
	err := executeCmd(t, app, "task", "add", "--title", "X", "--type", "osmosis")
	assert.ErrorIs(t, err, service.ErrInvalidTaskType)
}

func TestResolvePlanID(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(app.UserID, "Chemistry")
	require.NoError(t, app.Plans.Create(ctx, plan))

	id, err := resolvePlanID(ctx, app, "1")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, id)

	id, err = resolvePlanID(ctx, app, plan.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, plan.ID, id)

	_, err = resolvePlanID(ctx, app, "9")
	assert.Error(t, err)

	_, err = resolvePlanID(ctx, app, "nope")
	assert.Error(t, err)
}

func TestPomodoroFinishWithoutOpenSession(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	task := testutil.NewTestTask(app.UserID, "Solve problems",
		testutil.WithScheduled(time.Now().UTC().AddDate(0, 0, 1), "09:00", "10:00"))
	require.NoError(t, app.Tasks.Create(ctx, task))

	err := executeCmd(t, app, "pomodoro", "finish", "1")
	assert.ErrorContains(t, err, "no open session")
}

func TestAssistCommandsDisabledWithoutLLM(t *testing.T) {
	app := testApp(t)
	assert.ErrorIs(t, executeCmd(t, app, "assist", "quiz", "algebra"), errAssistDisabled)
	assert.ErrorIs(t, executeCmd(t, app, "assist", "chat", "hello"), errAssistDisabled)
	assert.ErrorIs(t, executeCmd(t, app, "assist", "draft-plan", "learn go"), errAssistDisabled)
}

func TestStatsCommand(t *testing.T) {
	app := testApp(t)
	assert.NoError(t, executeCmd(t, app, "stats"))
}
