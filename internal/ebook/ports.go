package ebook

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=ebook

// Repository defines the contract for ebook storage.
type Repository interface {
	List(ctx context.Context) ([]Ebook, error)
	Get(ctx context.Context, id string) (Ebook, error)
	Create(ctx context.Context, e *Ebook) error
	Delete(ctx context.Context, id string) error
}
