// Package docstore is a minimal collection/document store: list, get,
// insert with a server-assigned ID and creation time, and delete.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable is returned while the store's circuit breaker is open.
	ErrUnavailable = errors.New("document store unavailable")
)

// Fields holds a document's user data.
type Fields map[string]any

// Document is one stored record. CreatedAt is assigned by the store on
// insert and may be nil for documents imported without one.
type Document struct {
	ID        string     `json:"id"`
	Fields    Fields     `json:"fields"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Store is implemented by every backend. List returns documents in
// insertion order.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Insert(ctx context.Context, collection string, fields Fields) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}

func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
