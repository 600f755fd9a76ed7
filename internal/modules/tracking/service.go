package tracking

import (
	"context"
	"errors"
	"time"

	"manvan/internal/modules/booking"
	"manvan/internal/storage"
)

var (
	ErrNotOwner   = errors.New("only the van owner can report a location")
	ErrNoLocation = errors.New("no location reported yet")
)

type TrackingStore interface {
	booking.AccessStore
	AddTrackingPoint(ctx context.Context, p *storage.TrackingPoint) error
	GetLatestTrackingPoint(ctx context.Context, bookingID storage.ID) (*storage.TrackingPoint, error)
	GetTrackingHistory(ctx context.Context, bookingID storage.ID, limit int) ([]storage.TrackingPoint, error)
}

type Service struct {
	store TrackingStore
	now   func() time.Time
}

func NewService(store TrackingStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Update records a position reported by the owner of the booked listing.
func (s *Service) Update(ctx context.Context, userID storage.ID, req UpdateLocationRequest) (*storage.TrackingPoint, error) {
	a, err := booking.ResolveAccess(ctx, s.store, storage.ID(req.BookingID), userID)
	if err != nil {
		return nil, err
	}
	if !a.IsOwner {
		return nil, ErrNotOwner
	}

	p := req.toPoint(a.Listing.ID, s.now().UTC())
	if err := s.store.AddTrackingPoint(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Current(ctx context.Context, userID, bookingID storage.ID) (*storage.TrackingPoint, error) {
	if _, err := booking.ResolveAccess(ctx, s.store, bookingID, userID); err != nil {
		return nil, err
	}
	p, err := s.store.GetLatestTrackingPoint(ctx, bookingID)
	if storage.IsNotFound(err) {
		return nil, ErrNoLocation
	}
	return p, err
}

// History returns up to limit points, oldest first. A zero limit uses the
// storage default.
func (s *Service) History(ctx context.Context, userID, bookingID storage.ID, limit int) ([]storage.TrackingPoint, error) {
	if _, err := booking.ResolveAccess(ctx, s.store, bookingID, userID); err != nil {
		return nil, err
	}
	return s.store.GetTrackingHistory(ctx, bookingID, limit)
}
