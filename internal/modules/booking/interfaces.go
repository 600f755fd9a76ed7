package booking

import (
	"context"

	"manvan/internal/storage"
)

// AccessStore is what ResolveAccess needs to decide who may touch a booking.
type AccessStore interface {
	GetBooking(ctx context.Context, id storage.ID) (*storage.Booking, error)
	GetVanListingRecord(ctx context.Context, id storage.ID) (*storage.VanListing, error)
}

type BookingStore interface {
	AccessStore
	CreateBooking(ctx context.Context, b *storage.Booking) error
	GetBookingsByUser(ctx context.Context, userID storage.ID) ([]storage.BookingDetails, error)
	GetBookingsByVanListing(ctx context.Context, vanListingID storage.ID) ([]storage.BookingDetails, error)
	GetVanListingsByUser(ctx context.Context, userID storage.ID) ([]storage.VanListingDetails, error)
	UpdateBookingStatus(ctx context.Context, id storage.ID, status storage.BookingStatus) (*storage.Booking, error)
}
