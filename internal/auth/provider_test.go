package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"deepedu/internal/platform/crypto"
	"deepedu/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminPassword = "Sup3r$ecret"

func newTestProvider(t *testing.T) (*LocalProvider, User) {
	t.Helper()
	users := NewMemoryUserRepo()
	admin, err := EnsureAdmin(context.Background(), users, " Admin@DeepEdu.io ", adminPassword)
	require.NoError(t, err)
	return NewLocalProvider(testutil.TestSecret, time.Hour, users, NewMemoryRevocationRepo()), admin
}

func TestLocalProvider_SignInResolveSignOut(t *testing.T) {
	ctx := context.Background()
	p, admin := newTestProvider(t)

	token, err := p.SignIn(ctx, "admin@deepedu.io", adminPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	u, err := p.Resolve(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, u.ID)
	assert.Equal(t, RoleAdmin, u.Role)

	id, role, err := p.Bearer(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, id)
	assert.Equal(t, RoleAdmin, role)

	require.NoError(t, p.SignOut(ctx, token.Value))

	_, err = p.Resolve(ctx, token.Value)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLocalProvider_SignIn_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t)

	_, err := p.SignIn(ctx, "admin@deepedu.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@deepedu.io", adminPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalProvider_SignIn_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	users := NewMockUserRepository(ctrl)
	p := NewLocalProvider(testutil.TestSecret, time.Hour, users, NewMemoryRevocationRepo())

	users.EXPECT().GetByEmail(gomock.Any(), "admin@deepedu.io").Return(User{}, errors.New("connection refused"))

	_, err := p.SignIn(context.Background(), "admin@deepedu.io", adminPassword)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalProvider_Resolve_Rejects(t *testing.T) {
	ctx := context.Background()
	p, admin := newTestProvider(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"expired", testutil.GenerateExpiredToken(admin.ID, RoleAdmin)},
		{"unknown user", testutil.GenerateTestToken("ghost", RoleAdmin)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := p.Resolve(ctx, tt.token)
			assert.Nil(t, u)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := crypto.GenerateToken("other-secret", admin.ID, RoleAdmin, time.Hour)
		require.NoError(t, err)
		_, err = p.Resolve(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestLocalProvider_Resolve_RevocationStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	revocations := NewMockRevocationRepository(ctrl)
	p := NewLocalProvider(testutil.TestSecret, time.Hour, NewMemoryUserRepo(), revocations)

	revocations.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, errors.New("timeout"))

	_, err := p.Resolve(context.Background(), testutil.GenerateTestToken("user-1", RoleAdmin))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestLocalProvider_SignOut_InvalidToken(t *testing.T) {
	p, _ := newTestProvider(t)
	assert.ErrorIs(t, p.SignOut(context.Background(), "bogus"), ErrUnauthorized)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserRepo()

	t.Run("weak password", func(t *testing.T) {
		_, err := EnsureAdmin(ctx, users, "admin@deepedu.io", "short")
		assert.ErrorIs(t, err, crypto.ErrPasswordTooShort)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := EnsureAdmin(ctx, users, "  ", adminPassword)
		assert.Error(t, err)
	})

	t.Run("updates existing password", func(t *testing.T) {
		first, err := EnsureAdmin(ctx, users, "admin@deepedu.io", adminPassword)
		require.NoError(t, err)
		second, err := EnsureAdmin(ctx, users, "admin@deepedu.io", "N3w!Password")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		stored, err := users.GetByEmail(ctx, "admin@deepedu.io")
		require.NoError(t, err)
		assert.True(t, crypto.VerifyPassword(stored.PasswordHash, "N3w!Password"))
		assert.False(t, crypto.VerifyPassword(stored.PasswordHash, adminPassword))
	})
}

func TestMemoryRevocationRepo_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRevocationRepo()

	require.NoError(t, repo.Revoke(ctx, "old", "u", time.Now().Add(-time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "live", "u", time.Now().Add(time.Hour)))

	revoked, err := repo.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.CleanupExpired(ctx))
	assert.Len(t, repo.revoked, 1)

	revoked, err = repo.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestNewRepositories(t *testing.T) {
	repos, err := NewRepositories("memory", nil, time.Second)
	require.NoError(t, err)
	assert.IsType(t, &MemoryUserRepo{}, repos.Users)

	_, err = NewRepositories("postgres", nil, time.Second)
	assert.Error(t, err)

	_, err = NewRepositories("ldap", nil, time.Second)
	assert.Error(t, err)
}
