package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"challengeTrackerAPI/internal/session"
	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/user"
)

func TestSignUp_CreatesMemberAndSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.users.SignUp(ctx, "Jane Doe", " Jane@X.com ", "secret1")
	require.NoError(t, err)

	u := resp.User
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "jane@x.com", u.Email)
	assert.Equal(t, user.RoleMember, u.Role)
	assert.Empty(t, u.JoinedChallenges)
	assert.Equal(t, fixedNow, u.CreatedAt)
	assert.True(t, strings.Contains(u.Avatar, "seed=JD"), u.Avatar)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	require.NotEmpty(t, resp.Token)

	restored, err := env.users.RestoreSession(ctx, resp.Token)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, u.ID, restored.ID)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "Jane", "jane@x.com")

	_, err := env.users.SignUp(context.Background(), "Other Jane", "JANE@x.com", "another")
	assert.ErrorIs(t, err, ErrEmailTaken)

	members, err := env.store.Users().List(context.Background(), store.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestSignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jane := env.signUp(t, "Jane", "jane@x.com")

	resp, err := env.users.SignIn(ctx, "JANE@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, resp.User.ID)

	_, err = env.users.SignIn(ctx, "jane@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.users.SignIn(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOut_RevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.users.SignUp(ctx, "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)

	p, err := env.users.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, p.UserID)
	assert.False(t, p.IsAdmin())

	require.NoError(t, env.users.SignOut(ctx, p.SessionID))
	require.NoError(t, env.users.SignOut(ctx, p.SessionID))

	_, err = env.users.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	restored, err := env.users.RestoreSession(ctx, resp.Token)
	assert.NoError(t, err)
	assert.Nil(t, restored)
}

func TestRestoreSession_Silent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.RestoreSession(ctx, "not-a-token")
	assert.NoError(t, err)
	assert.Nil(t, u)

	// A marker whose user no longer exists resolves to no session and is cleared.
	require.NoError(t, env.sessions.Save(ctx, "sid-ghost", "ghost", 0))
	token, err := env.users.signToken(&user.User{ID: "ghost", Role: user.RoleMember}, "sid-ghost")
	require.NoError(t, err)

	u, err = env.users.RestoreSession(ctx, token)
	assert.NoError(t, err)
	assert.Nil(t, u)

	_, err = env.sessions.Lookup(ctx, "sid-ghost")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAuthenticate_RejectsForeignSignature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp, err := env.users.SignUp(ctx, "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)

	other := NewUserService(env.store, env.sessions, "other-secret", 0)
	other.now = clock
	_, err = other.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.users.EnsureAdmin(ctx, "Admin", "Admin@Challenge.app", "adminpass"))
	require.NoError(t, env.users.EnsureAdmin(ctx, "Admin", "admin@challenge.app", "adminpass"))

	resp, err := env.users.SignIn(ctx, "admin@challenge.app", "adminpass")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, resp.User.Role)

	p, err := env.users.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())

	assert.NoError(t, env.users.EnsureAdmin(ctx, "Admin", "", ""))
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jane := env.signUp(t, "Jane", "jane@x.com")

	updated, err := env.users.UpdateProfile(ctx, jane.ID, &user.UpdateProfileRequest{Name: "  Jane Doe "})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, jane.Avatar, updated.Avatar)

	got, err := env.users.GetProfile(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
}
