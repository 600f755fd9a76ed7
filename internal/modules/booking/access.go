package booking

import (
	"context"

	"manvan/internal/storage"
)

// Access describes how a user relates to a booking. Listing is nil when the
// listing was deleted after the booking was made; the owner side then has no
// access.
type Access struct {
	Booking    *storage.Booking
	Listing    *storage.VanListing
	IsCustomer bool
	IsOwner    bool
}

func (a Access) Allowed() bool { return a.IsCustomer || a.IsOwner }

// ResolveAccess loads the booking and its listing and reports the caller's
// role. It returns ErrNotFound for unknown bookings and ErrForbidden when the
// caller is neither the customer nor the listing owner.
func ResolveAccess(ctx context.Context, store AccessStore, bookingID, userID storage.ID) (*Access, error) {
	b, err := store.GetBooking(ctx, bookingID)
	if storage.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a := &Access{Booking: b, IsCustomer: b.UserID == userID}
	l, err := store.GetVanListingRecord(ctx, b.VanListingID)
	switch {
	case err == nil:
		a.Listing = l
		a.IsOwner = l.UserID == userID
	case !storage.IsNotFound(err):
		return nil, err
	}

	if !a.Allowed() {
		return nil, ErrForbidden
	}
	return a, nil
}
