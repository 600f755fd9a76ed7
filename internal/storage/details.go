package storage

import (
	"context"
	"errors"
	"fmt"
)

// DetailSource is the subset of Storage needed to assemble denormalized reads.
type DetailSource interface {
	GetUser(ctx context.Context, id ID) (*User, error)
	GetVanListingRecord(ctx context.Context, id ID) (*VanListing, error)
	GetServicesByVanListing(ctx context.Context, vanListingID ID) ([]Service, error)
	GetReviewsByVanListing(ctx context.Context, vanListingID ID) ([]ReviewDetails, error)
	GetAverageRatingForVanListing(ctx context.Context, vanListingID ID) (float64, error)
}

// AssembleListingDetails builds the listing aggregate with one lookup per
// related entity. This is an N+1 read and does not scale to large pages.
func AssembleListingDetails(ctx context.Context, src DetailSource, l VanListing) (*VanListingDetails, error) {
	services, err := src.GetServicesByVanListing(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("services for listing %s: %w", l.ID, err)
	}

	ownerName, err := displayName(ctx, src, l.UserID)
	if err != nil {
		return nil, err
	}

	reviews, err := src.GetReviewsByVanListing(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("reviews for listing %s: %w", l.ID, err)
	}

	avg, err := src.GetAverageRatingForVanListing(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("rating for listing %s: %w", l.ID, err)
	}

	return &VanListingDetails{
		VanListing:    l,
		Services:      services,
		OwnerName:     ownerName,
		Reviews:       reviews,
		AverageRating: avg,
		ReviewCount:   len(reviews),
	}, nil
}

func AssembleListingDetailsList(ctx context.Context, src DetailSource, listings []VanListing) ([]VanListingDetails, error) {
	out := make([]VanListingDetails, 0, len(listings))
	for _, l := range listings {
		d, err := AssembleListingDetails(ctx, src, l)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// AssembleBookingDetails enriches a booking with its listing summary and the
// names of both parties. A listing deleted after booking leaves Listing nil.
func AssembleBookingDetails(ctx context.Context, src DetailSource, b Booking) (*BookingDetails, error) {
	out := &BookingDetails{Booking: b}

	customer, err := displayName(ctx, src, b.UserID)
	if err != nil {
		return nil, err
	}
	out.CustomerName = customer

	l, err := src.GetVanListingRecord(ctx, b.VanListingID)
	switch {
	case errors.Is(err, ErrNotFound):
		return out, nil
	case err != nil:
		return nil, fmt.Errorf("listing for booking %s: %w", b.ID, err)
	}

	out.Listing = &ListingSummary{
		ID:         l.ID,
		Title:      l.Title,
		VanSize:    l.VanSize,
		Location:   l.Location,
		HourlyRate: l.HourlyRate,
		OwnerID:    l.UserID,
	}
	out.OwnerName, err = displayName(ctx, src, l.UserID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func AssembleBookingDetailsList(ctx context.Context, src DetailSource, bookings []Booking) ([]BookingDetails, error) {
	out := make([]BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		d, err := AssembleBookingDetails(ctx, src, b)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// DisplayName prefers the full name and falls back to the username.
func DisplayName(u *User) string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func displayName(ctx context.Context, src DetailSource, id ID) (string, error) {
	u, err := src.GetUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("user %s: %w", id, err)
	}
	return DisplayName(u), nil
}
