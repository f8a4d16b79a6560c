package ebook

import (
	"context"
	"fmt"
)

// Service provides ebook business logic.
type Service struct {
	repo Repository
}

// NewService creates a new ebook service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every ebook in store order.
func (s *Service) List(ctx context.Context) ([]Ebook, error) {
	return s.repo.List(ctx)
}

// Get returns one ebook or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Ebook, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a submission and returns the saved record with its ID and
// creation time filled in by the store.
func (s *Service) Create(ctx context.Context, sub Submission) (Ebook, error) {
	e := sub.Trimmed().Ebook()

	if err := s.repo.Create(ctx, &e); err != nil {
		return Ebook{}, fmt.Errorf("create ebook: %w", err)
	}
	return e, nil
}

// Delete removes the ebook with the given ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
