package document

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

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
	d := bookingDoc{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		VanListingID: listingID,
		BookingDate:  b.BookingDate.UTC().Truncate(time.Millisecond),
		Duration:     b.Duration,
		FromLocation: b.FromLocation,
		ToLocation:   b.ToLocation,
		Status:       string(status),
		TotalPrice:   b.TotalPrice,
		Notes:        b.Notes,
		CreatedAt:    orNow(b.CreatedAt),
	}
	if _, err := s.coll(colBookings).InsertOne(ctx, d); err != nil {
		return translate(err, "booking", "")
	}
	*b = *d.toDomain()
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id storage.ID) (*storage.Booking, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, notFound("booking", id)
	}
	var d bookingDoc
	if err := s.coll(colBookings).FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, translate(err, "booking", id)
	}
	return d.toDomain(), nil
}

func (s *Store) GetBookingsByUser(ctx context.Context, userID storage.ID) ([]storage.BookingDetails, error) {
	oid, ok := parseID(userID)
	if !ok {
		return []storage.BookingDetails{}, nil
	}
	return s.findBookings(ctx, bson.M{"userId": oid})
}

func (s *Store) GetBookingsByVanListing(ctx context.Context, vanListingID storage.ID) ([]storage.BookingDetails, error) {
	oid, ok := parseID(vanListingID)
	if !ok {
		return []storage.BookingDetails{}, nil
	}
	return s.findBookings(ctx, bson.M{"vanListingId": oid})
}

func (s *Store) findBookings(ctx context.Context, filter bson.M) ([]storage.BookingDetails, error) {
	docs, err := findAll[bookingDoc](ctx, s.coll(colBookings), filter, newestFirst("bookingDate"))
	if err != nil {
		return nil, translate(err, "bookings", "")
	}
	bookings := make([]storage.Booking, 0, len(docs))
	for _, d := range docs {
		bookings = append(bookings, *d.toDomain())
	}
	return storage.AssembleBookingDetailsList(ctx, s, bookings)
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id storage.ID, status storage.BookingStatus) (*storage.Booking, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, notFound("booking", id)
	}
	var d bookingDoc
	err := s.coll(colBookings).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return nil, translate(err, "booking", id)
	}
	return d.toDomain(), nil
}
