package listing

import (
	"context"
	"fmt"
	"strings"

	"manvan/internal/storage"
)

type Service struct {
	store ListingStore
}

func NewService(store ListingStore) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]storage.VanListingDetails, error) {
	return s.store.GetVanListings(ctx)
}

// Search matches location or postcode by substring, case-insensitively. The
// date filter is accepted and ignored: availability is a per-listing flag.
// An unknown van size does not filter.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]storage.VanListingDetails, error) {
	p := storage.SearchParams{
		Location: strings.TrimSpace(q.Location),
		Date:     q.Date,
	}
	if size := storage.VanSize(strings.ToLower(q.VanSize)); size.Valid() {
		p.VanSize = size
	}
	return s.store.SearchVanListings(ctx, p)
}

func (s *Service) Get(ctx context.Context, id storage.ID) (*storage.VanListingDetails, error) {
	d, err := s.store.GetVanListing(ctx, id)
	if storage.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return d, err
}

func (s *Service) ListByOwner(ctx context.Context, ownerID storage.ID) ([]storage.VanListingDetails, error) {
	return s.store.GetVanListingsByUser(ctx, ownerID)
}

func (s *Service) Reviews(ctx context.Context, id storage.ID) ([]storage.ReviewDetails, error) {
	if _, err := s.record(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetReviewsByVanListing(ctx, id)
}

// Create stores the listing and its initial services, then returns the
// assembled details.
func (s *Service) Create(ctx context.Context, ownerID storage.ID, req CreateListingRequest) (*storage.VanListingDetails, error) {
	l := req.toListing(ownerID)
	if err := s.store.CreateVanListing(ctx, l); err != nil {
		return nil, err
	}
	for _, name := range req.Services {
		svc := &storage.Service{VanListingID: l.ID, ServiceName: strings.TrimSpace(name)}
		if err := s.store.AddService(ctx, svc); err != nil {
			return nil, fmt.Errorf("add service %q: %w", name, err)
		}
	}
	return s.store.GetVanListing(ctx, l.ID)
}

func (s *Service) Update(ctx context.Context, userID, id storage.ID, req UpdateListingRequest) (*storage.VanListing, error) {
	patch, ok := req.toPatch()
	if !ok {
		return nil, ErrEmptyPatch
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	l, err := s.store.UpdateVanListing(ctx, id, patch)
	if storage.IsNotFound(err) {
		// deleted between the ownership check and the write
		return nil, ErrNotFound
	}
	return l, err
}

func (s *Service) Delete(ctx context.Context, userID, id storage.ID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	err := s.store.DeleteVanListing(ctx, id)
	if storage.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (s *Service) AddService(ctx context.Context, userID, id storage.ID, req AddServiceRequest) (*storage.Service, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	svc := &storage.Service{VanListingID: id, ServiceName: strings.TrimSpace(req.ServiceName)}
	if err := s.store.AddService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) owned(ctx context.Context, userID, id storage.ID) (*storage.VanListing, error) {
	l, err := s.record(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, ErrForbidden
	}
	return l, nil
}

func (s *Service) record(ctx context.Context, id storage.ID) (*storage.VanListing, error) {
	l, err := s.store.GetVanListingRecord(ctx, id)
	if storage.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return l, err
}
