package auth

import (
	"errors"
	"fmt"
	"time"

	"deepedu/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories pairs the user and revocation stores of one backend.
type Repositories struct {
	Users       UserRepository
	Revocations RevocationRepository
}

// NewRepositories selects the auth backend named by kind.
func NewRepositories(kind string, pool *pgxpool.Pool, timeout time.Duration) (Repositories, error) {
	switch kind {
	case "", config.StoreMemory:
		return Repositories{
			Users:       NewMemoryUserRepo(),
			Revocations: NewMemoryRevocationRepo(),
		}, nil
	case config.StorePostgres:
		if pool == nil {
			return Repositories{}, errors.New("postgres auth store requires a connection pool")
		}
		return Repositories{
			Users:       NewPostgresUserRepo(pool, timeout),
			Revocations: NewPostgresRevocationRepo(pool, timeout),
		}, nil
	default:
		return Repositories{}, fmt.Errorf("unknown auth store %q", kind)
	}
}
