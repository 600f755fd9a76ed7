package booking

import (
	"context"
	"fmt"
	"sort"

	"manvan/internal/storage"
)

type Service struct {
	store BookingStore
}

func NewService(store BookingStore) *Service {
	return &Service{store: store}
}

// Create books a listing for the caller. Overlapping bookings are accepted.
func (s *Service) Create(ctx context.Context, customerID storage.ID, req CreateBookingRequest) (*storage.Booking, error) {
	b := req.toBooking(customerID)
	_, err := s.store.GetVanListingRecord(ctx, b.VanListingID)
	if storage.IsNotFound(err) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, userID storage.ID) ([]storage.BookingDetails, error) {
	return s.store.GetBookingsByUser(ctx, userID)
}

// ListForOwner merges the bookings of every listing the caller owns, newest
// booking date first.
func (s *Service) ListForOwner(ctx context.Context, ownerID storage.ID) ([]storage.BookingDetails, error) {
	listings, err := s.store.GetVanListingsByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]storage.BookingDetails, 0)
	for _, l := range listings {
		bookings, err := s.store.GetBookingsByVanListing(ctx, l.ID)
		if err != nil {
			return nil, fmt.Errorf("bookings for listing %s: %w", l.ID, err)
		}
		out = append(out, bookings...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BookingDate.After(out[j].BookingDate)
	})
	return out, nil
}

// UpdateStatus lets either party set any status in the fixed list. Setting
// the current status again is accepted and changes nothing.
func (s *Service) UpdateStatus(ctx context.Context, userID, bookingID storage.ID, status storage.BookingStatus) (*storage.Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	a, err := ResolveAccess(ctx, s.store, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if a.Booking.Status == status {
		return a.Booking, nil
	}

	b, err := s.store.UpdateBookingStatus(ctx, bookingID, status)
	if storage.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return b, err
}
