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

func userTestSetup(t *testing.T) *SQLiteUserRepo {
	t.Helper()
	return NewSQLiteUserRepo(testutil.NewTestDB(t))
}

func TestUserRepo_CreateAndGetByID(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Alice", testutil.WithPreferences(domain.StudyPreferences{
		DailyHoursTarget: 3,
		PreferredTime:    "morning",
		SessionMin:       50,
		ShortBreakMin:    10,
		LongBreakMin:     20,
	}))
	require.NoError(t, repo.Create(ctx, u))

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, fetched.ID)
	assert.Equal(t, "Alice", fetched.Name)
	assert.Equal(t, u.Email, fetched.Email)
	assert.Equal(t, 3.0, fetched.Preferences.DailyHoursTarget)
	assert.Equal(t, "morning", fetched.Preferences.PreferredTime)
	assert.Equal(t, 50, fetched.Preferences.SessionMin)
	assert.Equal(t, 1, fetched.Gamification.Level)
	assert.Equal(t, 0, fetched.Gamification.TotalPoints)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Bob", testutil.WithEmail("bob@example.com"))
	require.NoError(t, repo.Create(ctx, u))

	fetched, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, fetched.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	repo := userTestSetup(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_Update(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Carol")
	require.NoError(t, repo.Create(ctx, u))

	u.Name = "Caroline"
	u.Preferences.SessionMin = 45
	u.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, u))

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caroline", fetched.Name)
	assert.Equal(t, 45, fetched.Preferences.SessionMin)
}

func TestUserRepo_Delete(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Dave")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Delete(ctx, u.ID))

	_, err := repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_AddPoints(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Eve")
	require.NoError(t, repo.Create(ctx, u))

	total, err := repo.AddPoints(ctx, u.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, total)

	total, err = repo.AddPoints(ctx, u.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 75, total)

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, fetched.Gamification.TotalPoints)
	assert.Equal(t, 1, fetched.Gamification.Level)
}

func TestUserRepo_AddPoints_LevelRollover(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Frank", testutil.WithPoints(990))
	require.NoError(t, repo.Create(ctx, u))

	total, err := repo.AddPoints(ctx, u.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 1015, total)

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.Gamification.Level)
}

func TestUserRepo_AddPoints_LevelMatchesFormulaAtBoundary(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Grace")
	require.NoError(t, repo.Create(ctx, u))

	total, err := repo.AddPoints(ctx, u.ID, 999)
	require.NoError(t, err)
	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelForPoints(total), fetched.Gamification.Level)
	assert.Equal(t, 1, fetched.Gamification.Level)

	total, err = repo.AddPoints(ctx, u.ID, 1)
	require.NoError(t, err)
	fetched, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelForPoints(total), fetched.Gamification.Level)
	assert.Equal(t, 2, fetched.Gamification.Level)
}

func TestUserRepo_AddPoints_UnknownUser(t *testing.T) {
	repo := userTestSetup(t)

	_, err := repo.AddPoints(context.Background(), "nonexistent", 25)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_UpdateStreak(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Grace")
	require.NoError(t, repo.Create(ctx, u))

	last := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateStreak(ctx, u.ID, domain.Streak{
		Current: 4, Longest: 9, LastStudyDate: &last,
	}))

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, fetched.Gamification.Streak.Current)
	assert.Equal(t, 9, fetched.Gamification.Streak.Longest)
	require.NotNil(t, fetched.Gamification.Streak.LastStudyDate)
	assert.True(t, fetched.Gamification.Streak.LastStudyDate.Equal(last))
}

func TestUserRepo_AddBadge(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u := testutil.NewTestUser("Heidi")
	require.NoError(t, repo.Create(ctx, u))

	awarded, err := repo.AddBadge(ctx, u.ID, domain.BadgeWeekWarrior)
	require.NoError(t, err)
	assert.True(t, awarded)

	// Awarding the same badge again is a no-op.
	awarded, err = repo.AddBadge(ctx, u.ID, domain.BadgeWeekWarrior)
	require.NoError(t, err)
	assert.False(t, awarded)

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Gamification.Badges, 1)
	assert.Equal(t, "Week Warrior", fetched.Gamification.Badges[0].Name)
	assert.Equal(t, "flame", fetched.Gamification.Badges[0].Icon)
}

func TestUserRepo_BadgesScopedPerUser(t *testing.T) {
	repo := userTestSetup(t)
	ctx := context.Background()

	u1 := testutil.NewTestUser("Ivan")
	u2 := testutil.NewTestUser("Judy")
	require.NoError(t, repo.Create(ctx, u1))
	require.NoError(t, repo.Create(ctx, u2))

	_, err := repo.AddBadge(ctx, u1.ID, domain.BadgeWeekWarrior)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, u2.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Gamification.Badges)
}
