package document

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"manvan/internal/storage"
)

func (s *Store) AddTrackingPoint(ctx context.Context, p *storage.TrackingPoint) error {
	bookingID, ok := parseID(p.BookingID)
	if !ok {
		return notFound("booking", p.BookingID)
	}
	listingID, ok := parseID(p.VanListingID)
	if !ok {
		return notFound("van listing", p.VanListingID)
	}
	d := trackingPointDoc{
		ID:           primitive.NewObjectID(),
		BookingID:    bookingID,
		VanListingID: listingID,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Accuracy:     p.Accuracy,
		Speed:        p.Speed,
		Heading:      p.Heading,
		Status:       p.Status,
		RecordedAt:   orNow(p.RecordedAt),
	}
	if _, err := s.coll(colTracking).InsertOne(ctx, d); err != nil {
		return translate(err, "tracking point", "")
	}
	*p = d.toDomain()
	return nil
}

func (s *Store) GetLatestTrackingPoint(ctx context.Context, bookingID storage.ID) (*storage.TrackingPoint, error) {
	oid, ok := parseID(bookingID)
	if !ok {
		return nil, notFound("tracking point", bookingID)
	}
	var d trackingPointDoc
	err := s.coll(colTracking).FindOne(ctx,
		bson.M{"bookingId": oid},
		options.FindOne().SetSort(bson.D{{Key: "recordedAt", Value: -1}, {Key: "_id", Value: -1}}),
	).Decode(&d)
	if err != nil {
		return nil, translate(err, "tracking point", bookingID)
	}
	p := d.toDomain()
	return &p, nil
}

// GetTrackingHistory returns the most recent limit points in chronological order.
func (s *Store) GetTrackingHistory(ctx context.Context, bookingID storage.ID, limit int) ([]storage.TrackingPoint, error) {
	oid, ok := parseID(bookingID)
	if !ok {
		return []storage.TrackingPoint{}, nil
	}
	if limit <= 0 {
		limit = storage.DefaultHistoryLimit
	}
	docs, err := findAll[trackingPointDoc](ctx, s.coll(colTracking), bson.M{"bookingId": oid},
		newestFirst("recordedAt").SetLimit(int64(limit)))
	if err != nil {
		return nil, translate(err, "tracking history", bookingID)
	}
	out := make([]storage.TrackingPoint, len(docs))
	for i, d := range docs {
		out[len(docs)-1-i] = d.toDomain()
	}
	return out, nil
}
