package booking

import (
	"strings"
	"time"

	"manvan/internal/storage"
)

type CreateBookingRequest struct {
	VanListingID string    `json:"vanListingId" binding:"required"`
	BookingDate  time.Time `json:"bookingDate" binding:"required"`
	Duration     int       `json:"duration" binding:"required,min=1,max=24"`
	FromLocation string    `json:"fromLocation" binding:"required,max=200"`
	ToLocation   string    `json:"toLocation" binding:"required,max=200"`
	TotalPrice   float64   `json:"totalPrice" binding:"gte=0"`
	Notes        string    `json:"notes" binding:"max=1000"`
}

// toBooking keeps totalPrice exactly as submitted; the server does not
// recompute it from the hourly rate.
func (r CreateBookingRequest) toBooking(customerID storage.ID) *storage.Booking {
	return &storage.Booking{
		UserID:       customerID,
		VanListingID: storage.ID(strings.TrimSpace(r.VanListingID)),
		BookingDate:  r.BookingDate,
		Duration:     r.Duration,
		FromLocation: strings.TrimSpace(r.FromLocation),
		ToLocation:   strings.TrimSpace(r.ToLocation),
		Status:       storage.BookingPending,
		TotalPrice:   r.TotalPrice,
		Notes:        strings.TrimSpace(r.Notes),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}
