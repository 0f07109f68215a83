package suppliers

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Service mediates between the HTTP layer and the Repository and enforces
// the lifecycle invariants that span more than field-level shape.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService creates the supplier lifecycle service. The cache may be nil.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns all supplier aggregates. An empty store yields an empty slice.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.cache.FetchList(ctx, s.repo.FindAll)
}

// Get returns the supplier aggregate for id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// Insert persists a new supplier aggregate including its emails and phones.
// Field validation is the caller's responsibility; Insert does not re-run it.
// An id that already exists yields ErrDuplicateID.
func (s *Service) Insert(ctx context.Context, supplier Supplier) error {
	if err := s.repo.Add(ctx, supplier); err != nil {
		return err
	}
	_ = s.cache.Bump(ctx)
	return nil
}

// Delete removes the supplier aggregate for id. Deleting an absent id is a
// successful no-op and returns (nil, nil). An active supplier, one whose
// activation date is set, is rejected with ErrSupplierActive; whether the
// date has passed is not re-checked here.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if supplier.IsActive() {
		return nil, ErrSupplierActive
	}

	if err := s.repo.Remove(ctx, supplier); err != nil {
		return nil, err
	}
	_ = s.cache.Bump(ctx)
	return &supplier, nil
}
