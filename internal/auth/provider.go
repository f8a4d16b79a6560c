package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deepedu/internal/platform/crypto"
)

// LocalProvider authenticates against stored admin users and issues
// signed session tokens.
type LocalProvider struct {
	secret      string
	ttl         time.Duration
	users       UserRepository
	revocations RevocationRepository
}

func NewLocalProvider(secret string, ttl time.Duration, users UserRepository, revocations RevocationRepository) *LocalProvider {
	return &LocalProvider{
		secret:      secret,
		ttl:         ttl,
		users:       users,
		revocations: revocations,
	}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Token, error) {
	u, err := p.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("load user: %w", err)
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return Token{}, ErrInvalidCredentials
	}

	value, _, err := crypto.GenerateToken(p.secret, u.ID, u.Role, p.ttl)
	if err != nil {
		return Token{}, fmt.Errorf("generate token: %w", err)
	}
	return Token{Value: value, ExpiresAt: time.Now().Add(p.ttl)}, nil
}

// Resolve verifies the token, checks it has not been signed out and loads
// the user it names. Every failure is ErrUnauthorized except store errors.
func (p *LocalProvider) Resolve(ctx context.Context, token string) (*User, error) {
	claims, err := p.verify(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := p.users.GetByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}

// Bearer adapts Resolve for httpx.AuthMiddleware.
func (p *LocalProvider) Bearer(ctx context.Context, token string) (string, string, error) {
	u, err := p.Resolve(ctx, token)
	if err != nil {
		return "", "", err
	}
	return u.ID, u.Role, nil
}

// SignOut revokes the token until its natural expiry.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := crypto.ParseToken(p.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(p.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := p.revocations.Revoke(ctx, claims.ID, claims.Sub, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (p *LocalProvider) verify(ctx context.Context, token string) (*crypto.Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := crypto.ParseToken(p.secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	revoked, err := p.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// EnsureAdmin creates or updates the admin account for email. The password
// must satisfy crypto.ValidatePasswordStrength.
func EnsureAdmin(ctx context.Context, users UserRepository, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return User{}, errors.New("admin email is required")
	}
	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return User{}, err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := User{Email: email, Role: RoleAdmin, PasswordHash: hash}
	if err := users.Upsert(ctx, &u); err != nil {
		return User{}, fmt.Errorf("save admin: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
