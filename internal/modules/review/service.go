package review

import (
	"context"

	"manvan/internal/storage"
)

type ReviewStore interface {
	GetVanListingRecord(ctx context.Context, id storage.ID) (*storage.VanListing, error)
	CreateReview(ctx context.Context, r *storage.Review) error
}

type Service struct {
	store ReviewStore
}

func NewService(store ReviewStore) *Service {
	return &Service{store: store}
}

// Create records a review. Any signed-in user may review any listing,
// including their own, and more than once.
func (s *Service) Create(ctx context.Context, userID storage.ID, req CreateReviewRequest) (*storage.Review, error) {
	r := req.toReview(userID)
	_, err := s.store.GetVanListingRecord(ctx, r.VanListingID)
	if storage.IsNotFound(err) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
