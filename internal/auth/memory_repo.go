package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUserRepo keeps users in process. It backs the memory and badger
// store types and tests.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) Upsert(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if id, ok := r.byEmail[u.Email]; ok {
		existing := r.byID[id]
		existing.PasswordHash = u.PasswordHash
		existing.Role = u.Role
		existing.UpdatedAt = now
		r.byID[id] = existing
		*u = existing
		return nil
	}
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

// MemoryRevocationRepo records revoked token IDs in process.
type MemoryRevocationRepo struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryRevocationRepo() *MemoryRevocationRepo {
	return &MemoryRevocationRepo{revoked: make(map[string]time.Time)}
}

func (r *MemoryRevocationRepo) Revoke(_ context.Context, jti, _ string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.revoked[jti]; !ok {
		r.revoked[jti] = expiresAt
	}
	return nil
}

func (r *MemoryRevocationRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.revoked[jti]
	return ok && exp.After(time.Now()), nil
}

func (r *MemoryRevocationRepo) CleanupExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for jti, exp := range r.revoked {
		if exp.Before(now) {
			delete(r.revoked, jti)
		}
	}
	return nil
}
