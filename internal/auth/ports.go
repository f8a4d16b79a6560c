package auth

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=auth

// Provider is the authentication collaborator used by the web layer.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Token, error)
	// Resolve returns the user behind a session token.
	Resolve(ctx context.Context, token string) (*User, error)
	SignOut(ctx context.Context, token string) error
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// Upsert creates the user or replaces the password and role of the
	// user with the same email. u.ID is set on return.
	Upsert(ctx context.Context, u *User) error
}

// RevocationRepository records signed-out token IDs until they expire.
type RevocationRepository interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CleanupExpired(ctx context.Context) error
}
