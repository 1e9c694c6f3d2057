package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questboard/questboard-api/internal/domain"
)

func TestIdentityService_Resolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.identity.Resolve(ctx, domain.User{ID: " "})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	caller, err := env.identity.Resolve(ctx, domain.User{ID: "u-1", DisplayName: "Dana"})
	require.NoError(t, err)
	assert.Equal(t, domain.Caller{UserID: "u-1", DisplayName: "Dana"}, caller)

	// The identity provider is the source of truth; the mirror follows it.
	caller, err = env.identity.Resolve(ctx, domain.User{ID: "u-1", DisplayName: "Dana R", IsReviewer: true})
	require.NoError(t, err)
	assert.True(t, caller.IsReviewer)

	user, err := env.identity.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Dana R", user.DisplayName)

	ok, err := env.identity.IsReviewer(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.identity.IsReviewer(ctx, "u-missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.identity.GetUser(ctx, "u-missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnavailable(t *testing.T) {
	assert.Nil(t, unavailable(nil))

	err := unavailable(fmt.Errorf("query -> %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	plain := errors.New("boom")
	assert.Equal(t, plain, unavailable(plain))
	assert.Equal(t, ErrUserNotFound, unavailable(ErrUserNotFound))
}

func TestCatalogService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	judge := env.caller(t, "u-judge", "Judy", true)
	alice := env.caller(t, "u-alice", "Alice", false)

	_, err := env.catalog.CreateAchievement(ctx, alice, domain.Achievement{Title: "x", Points: 1})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.catalog.CreateAchievement(ctx, judge, domain.Achievement{Title: "x", Points: -1})
	assert.ErrorIs(t, err, ErrInvalidPoints)

	a, err := env.catalog.CreateAchievement(ctx, judge, domain.Achievement{Title: "Run 5k", Points: 50, Images: []string{"https://cdn.example.com/r.png"}})
	require.NoError(t, err)
	assert.Equal(t, judge.UserID, a.CreatedBy)

	sub := env.submit(t, alice, a.ID, "")
	_, err = env.reviews.Approve(ctx, judge, sub.ID, "", nil)
	require.NoError(t, err)

	// Repricing leaves awarded points alone.
	a.Points = 80
	updated, err := env.catalog.UpdateAchievement(ctx, judge, a)
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Points)
	assert.Equal(t, 50, env.total(t, alice.UserID))

	list, err := env.catalog.ListAchievements(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.catalog.GetAchievement(ctx, 9999)
	assert.ErrorIs(t, err, ErrAchievementNotFound)
}
