package tracking

import (
	"strings"
	"time"

	"manvan/internal/storage"
)

type UpdateLocationRequest struct {
	BookingID string     `json:"bookingId" binding:"required"`
	Latitude  *float64   `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64   `json:"longitude" binding:"required,gte=-180,lte=180"`
	Accuracy  *float64   `json:"accuracy" binding:"omitempty,gte=0"`
	Speed     *float64   `json:"speed" binding:"omitempty,gte=0"`
	Heading   *float64   `json:"heading" binding:"omitempty,gte=0,lt=360"`
	Status    string     `json:"status" binding:"omitempty,oneof=en_route arrived loading in_transit delivered"`
	Timestamp *time.Time `json:"timestamp"`
}

func (r UpdateLocationRequest) toPoint(vanListingID storage.ID, now time.Time) *storage.TrackingPoint {
	p := &storage.TrackingPoint{
		BookingID:    storage.ID(strings.TrimSpace(r.BookingID)),
		VanListingID: vanListingID,
		Latitude:     *r.Latitude,
		Longitude:    *r.Longitude,
		Accuracy:     r.Accuracy,
		Speed:        r.Speed,
		Heading:      r.Heading,
		Status:       r.Status,
		RecordedAt:   now,
	}
	if r.Timestamp != nil && !r.Timestamp.IsZero() {
		p.RecordedAt = *r.Timestamp
	}
	return p
}

type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}
