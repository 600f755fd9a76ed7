// Package storage defines the persistence contract shared by the relational
// and document adapters.
//
// Missing entities are reported as ErrNotFound and duplicate unique keys as
// ErrConflict, both wrapped with context. Every other error is a driver or
// transport failure and is returned as is; adapters never swallow it.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: conflict")
)

type Kind string

const (
	KindRelational Kind = "relational"
	KindDocument   Kind = "document"
)

// DefaultHistoryLimit caps tracking history reads when the caller passes 0.
const DefaultHistoryLimit = 500

type Storage interface {
	Kind() Kind
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	GetUser(ctx context.Context, id ID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id ID) error
	SetVanOwnerStatus(ctx context.Context, id ID, isVanOwner bool) (*User, error)
	SetAdminStatus(ctx context.Context, id ID, isAdmin bool) (*User, error)

	GetVanListing(ctx context.Context, id ID) (*VanListingDetails, error)
	GetVanListingRecord(ctx context.Context, id ID) (*VanListing, error)
	GetVanListings(ctx context.Context) ([]VanListingDetails, error)
	GetVanListingsByUser(ctx context.Context, userID ID) ([]VanListingDetails, error)
	SearchVanListings(ctx context.Context, p SearchParams) ([]VanListingDetails, error)
	CreateVanListing(ctx context.Context, l *VanListing) error
	UpdateVanListing(ctx context.Context, id ID, patch VanListingPatch) (*VanListing, error)
	DeleteVanListing(ctx context.Context, id ID) error

	AddService(ctx context.Context, s *Service) error
	GetServicesByVanListing(ctx context.Context, vanListingID ID) ([]Service, error)

	CreateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id ID) (*Booking, error)
	GetBookingsByUser(ctx context.Context, userID ID) ([]BookingDetails, error)
	GetBookingsByVanListing(ctx context.Context, vanListingID ID) ([]BookingDetails, error)
	UpdateBookingStatus(ctx context.Context, id ID, status BookingStatus) (*Booking, error)

	CreateReview(ctx context.Context, r *Review) error
	GetReviewsByVanListing(ctx context.Context, vanListingID ID) ([]ReviewDetails, error)
	GetReviewsByUser(ctx context.Context, userID ID) ([]Review, error)
	GetAverageRatingForVanListing(ctx context.Context, vanListingID ID) (float64, error)

	CreateMessage(ctx context.Context, m *Message) error
	GetMessagesByBooking(ctx context.Context, bookingID ID) ([]Message, error)
	MarkMessagesRead(ctx context.Context, bookingID, readerID ID) (int64, error)
	CountUnreadMessages(ctx context.Context, userID ID) (int64, error)

	AddTrackingPoint(ctx context.Context, p *TrackingPoint) error
	GetLatestTrackingPoint(ctx context.Context, bookingID ID) (*TrackingPoint, error)
	GetTrackingHistory(ctx context.Context, bookingID ID, limit int) ([]TrackingPoint, error)
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
