package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"opsdesk/internal/model"
)

func (e *testEnv) addUserWithPassword(t *testing.T, id, email, name, role, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		ID:           id,
		Email:        email,
		FullName:     name,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func TestLoginAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(env.users, env.sessions, time.Hour, zerolog.Nop())
	env.addUserWithPassword(t, "alice", "alice@example.com", "Alice Smith", model.RoleUser, "s3cret")

	token, user, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice", user.ID)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.ID)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(env.users, env.sessions, time.Hour, zerolog.Nop())

	u := env.addUserWithPassword(t, "alice", "alice@example.com", "Alice Smith", model.RoleUser, "s3cret")
	require.NoError(t, env.db.Model(u).Update("is_active", false).Error)

	_, _, err := svc.Login(ctx, "alice@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(env.users, env.sessions, time.Hour, zerolog.Nop())
	env.addUserWithPassword(t, "alice", "alice@example.com", "Alice Smith", model.RoleUser, "s3cret")

	token, _, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&model.Session{}).Where("token = ?", token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	// The expired session is pruned, not left behind.
	var count int64
	require.NoError(t, env.db.Model(&model.Session{}).Where("token = ?", token).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(env.users, env.sessions, time.Hour, zerolog.Nop())

	// Unconfigured: no-op.
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "", ""))

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "root@example.com", "changeme"))
	admin, err := env.users.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMasterAdmin, admin.Role)
	assert.True(t, admin.IsAdmin())

	// Re-running does not create a duplicate or reset the password.
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "root@example.com", "different"))
	_, _, err = svc.Login(ctx, "root@example.com", "changeme")
	require.NoError(t, err)
}
