package relational

import (
	"context"

	"manvan/internal/storage"
)

func (s *Store) CreateBooking(ctx context.Context, b *storage.Booking) error {
	userID, ok := parseID(b.UserID)
	if !ok {
		return notFound("user", b.UserID)
	}
	listingID, ok := parseID(b.VanListingID)
	if !ok {
		return notFound("van listing", b.VanListingID)
	}
	status := b.Status
	if status == "" {
		status = storage.BookingPending
	}

	m := bookingModel{
		UserID:       userID,
		VanListingID: listingID,
		BookingDate:  b.BookingDate,
		Duration:     b.Duration,
		FromLocation: b.FromLocation,
		ToLocation:   b.ToLocation,
		Status:       string(status),
		TotalPrice:   b.TotalPrice,
		Notes:        strPtr(b.Notes),
		CreatedAt:    b.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "booking", "")
	}
	*b = *toDomainBooking(m)
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id storage.ID) (*storage.Booking, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, notFound("booking", id)
	}
	var m bookingModel
	if err := s.db.WithContext(ctx).First(&m, key).Error; err != nil {
		return nil, translate(err, "booking", id)
	}
	return toDomainBooking(m), nil
}

func (s *Store) GetBookingsByUser(ctx context.Context, userID storage.ID) ([]storage.BookingDetails, error) {
	key, ok := parseID(userID)
	if !ok {
		return []storage.BookingDetails{}, nil
	}
	return s.findBookings(ctx, "user_id = ?", key)
}

func (s *Store) GetBookingsByVanListing(ctx context.Context, vanListingID storage.ID) ([]storage.BookingDetails, error) {
	key, ok := parseID(vanListingID)
	if !ok {
		return []storage.BookingDetails{}, nil
	}
	return s.findBookings(ctx, "van_listing_id = ?", key)
}

func (s *Store) findBookings(ctx context.Context, cond string, key int64) ([]storage.BookingDetails, error) {
	var rows []bookingModel
	err := s.db.WithContext(ctx).
		Where(cond, key).
		Order("booking_date DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "bookings", "")
	}
	bookings := make([]storage.Booking, 0, len(rows))
	for _, m := range rows {
		bookings = append(bookings, *toDomainBooking(m))
	}
	return storage.AssembleBookingDetailsList(ctx, s, bookings)
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id storage.ID, status storage.BookingStatus) (*storage.Booking, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, notFound("booking", id)
	}
	var m bookingModel
	if err := s.db.WithContext(ctx).First(&m, key).Error; err != nil {
		return nil, translate(err, "booking", id)
	}
	if err := s.db.WithContext(ctx).Model(&m).Update("status", string(status)).Error; err != nil {
		return nil, translate(err, "booking", id)
	}
	m.Status = string(status)
	return toDomainBooking(m), nil
}
