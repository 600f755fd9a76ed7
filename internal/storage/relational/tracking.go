package relational

import (
	"context"
	"time"

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
	recorded := p.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now().UTC()
	}
	m := trackingPointModel{
		BookingID:    bookingID,
		VanListingID: listingID,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Accuracy:     p.Accuracy,
		Speed:        p.Speed,
		Heading:      p.Heading,
		Status:       p.Status,
		RecordedAt:   recorded,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "tracking point", "")
	}
	*p = toDomainTrackingPoint(m)
	return nil
}

func (s *Store) GetLatestTrackingPoint(ctx context.Context, bookingID storage.ID) (*storage.TrackingPoint, error) {
	key, ok := parseID(bookingID)
	if !ok {
		return nil, notFound("tracking point", bookingID)
	}
	var m trackingPointModel
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", key).
		Order("recorded_at DESC").
		Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, translate(err, "tracking point", bookingID)
	}
	p := toDomainTrackingPoint(m)
	return &p, nil
}

// GetTrackingHistory returns the most recent limit points in chronological order.
func (s *Store) GetTrackingHistory(ctx context.Context, bookingID storage.ID, limit int) ([]storage.TrackingPoint, error) {
	key, ok := parseID(bookingID)
	if !ok {
		return []storage.TrackingPoint{}, nil
	}
	if limit <= 0 {
		limit = storage.DefaultHistoryLimit
	}
	var rows []trackingPointModel
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", key).
		Order("recorded_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "tracking history", bookingID)
	}
	out := make([]storage.TrackingPoint, len(rows))
	for i, m := range rows {
		out[len(rows)-1-i] = toDomainTrackingPoint(m)
	}
	return out, nil
}
