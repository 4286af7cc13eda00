package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/repository"
	"github.com/studia-app/studia/internal/testutil"
)

func setupUserService(t *testing.T) UserService {
	database := testutil.NewTestDB(t)
	return NewUserService(repository.NewSQLiteUserRepo(database))
}

func TestRegister_CreatesUserWithDefaults(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Mara", "mara@example.com", "s3cret")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Mara", user.Name)
	assert.Equal(t, "mara@example.com", user.Email)
	assert.NotEqual(t, "s3cret", user.PasswordHash, "password must be stored hashed")
	assert.Equal(t, 1, user.Gamification.Level)
	assert.Equal(t, 0, user.Gamification.TotalPoints)
	assert.Equal(t, domain.DefaultPomodoroMin, user.Preferences.SessionMin)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Mara", "  Mara@Example.COM ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "mara@example.com", user.Email)

	_, err = svc.Authenticate(ctx, "MARA@example.com", "s3cret")
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Mara", "mara@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "mara@example.com", "different")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_RejectsEmptyFields(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@example.com", "pw")
	assert.Error(t, err)
	_, err = svc.Register(ctx, "Name", "", "pw")
	assert.Error(t, err)
	_, err = svc.Register(ctx, "Name", "a@example.com", "")
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "Mara", "mara@example.com", "s3cret")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "mara@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate(ctx, "mara@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email must look like a bad password")
}

func TestUpdatePreferences(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Mara", "mara@example.com", "s3cret")
	require.NoError(t, err)

	prefs := domain.StudyPreferences{
		DailyHoursTarget: 4,
		PreferredTime:    "morning",
		SessionMin:       50,
		ShortBreakMin:    10,
		LongBreakMin:     30,
	}
	updated, err := svc.UpdatePreferences(ctx, user.ID, prefs)
	require.NoError(t, err)
	assert.Equal(t, prefs, updated.Preferences)

	fetched, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, prefs, fetched.Preferences)
}

func TestUserService_Delete(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Mara", "mara@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))
	_, err = svc.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
