package credstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macromind-app/macromind-cli/internal/models"

	_ "modernc.org/sqlite"
)

var dbSeq int

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:credstore_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func TestSQLiteStore_TokensRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	pair, err := s.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Nil(t, pair, "absence must be a normal state, not an error")

	require.NoError(t, s.SaveTokens(ctx, models.TokenPair{AccessToken: "at-1", RefreshToken: "rt-1"}))

	pair, err = s.LoadTokens(ctx)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "at-1", pair.AccessToken)
	assert.Equal(t, "rt-1", pair.RefreshToken)

	// A second save overwrites both values.
	require.NoError(t, s.SaveTokens(ctx, models.TokenPair{AccessToken: "at-2", RefreshToken: "rt-2"}))
	pair, err = s.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "at-2", pair.AccessToken)
	assert.Equal(t, "rt-2", pair.RefreshToken)

	require.NoError(t, s.ClearTokens(ctx))
	pair, err = s.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestSQLiteStore_GuestFlag(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	set, err := s.IsGuestFlagSet(ctx)
	require.NoError(t, err)
	assert.False(t, set)

	require.NoError(t, s.SetGuestFlag(ctx))
	set, err = s.IsGuestFlagSet(ctx)
	require.NoError(t, err)
	assert.True(t, set)

	require.NoError(t, s.ClearGuestFlag(ctx))
	set, err = s.IsGuestFlagSet(ctx)
	require.NoError(t, err)
	assert.False(t, set)

	// Clearing an unset flag is not an error.
	require.NoError(t, s.ClearGuestFlag(ctx))
}

func TestSQLiteStore_UserCache(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	user, err := s.LoadCachedUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	calories := 1800
	in := &models.User{
		ID:    "u-42",
		Email: "a@b.com",
		Profile: models.Profile{
			FitnessGoal:            models.GoalCut,
			DietaryPreference:      models.DietVegan,
			DailyCalories:          &calories,
			HasCompletedOnboarding: true,
		},
	}
	require.NoError(t, s.CacheUser(ctx, in))

	user, err = s.LoadCachedUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, in, user)

	require.NoError(t, s.CacheUser(ctx, nil))
	user, err = s.LoadCachedUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSQLiteStore_ClearAllWipesEverything(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTokens(ctx, models.TokenPair{AccessToken: "at", RefreshToken: "rt"}))
	require.NoError(t, s.SetGuestFlag(ctx))
	require.NoError(t, s.CacheUser(ctx, &models.User{ID: "u-1", Email: "a@b.com"}))

	require.NoError(t, s.ClearAll(ctx))

	pair, err := s.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Nil(t, pair)

	set, err := s.IsGuestFlagSet(ctx)
	require.NoError(t, err)
	assert.False(t, set)

	user, err := s.LoadCachedUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	// ClearAll on an empty store converges to the same result.
	require.NoError(t, s.ClearAll(ctx))
}

func TestOpen_MigratesSchema(t *testing.T) {
	dbSeq++
	dsn := fmt.Sprintf("file:credstore_migrate_%d?mode=memory&cache=shared", dbSeq)
	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='metadata'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "metadata", name)

	// Migrations are idempotent.
	require.NoError(t, RunMigrations(context.Background(), db))
}

var _ Store = (*SQLiteStore)(nil)
