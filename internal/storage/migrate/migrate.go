// Package migrate copies every entity from one storage adapter into another,
// remapping identifiers as it goes.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"manvan/internal/storage"
)

var (
	ErrSameStore           = errors.New("migrate: source and destination are the same store")
	ErrDestinationNotEmpty = errors.New("migrate: destination already holds van listings")
)

// maxTrackingPoints bounds the per-booking history copied.
const maxTrackingPoints = 100_000

type Report struct {
	Source         storage.Kind `json:"source"`
	Destination    storage.Kind `json:"destination"`
	Users          int          `json:"users"`
	SkippedUsers   int          `json:"skippedUsers"`
	Listings       int          `json:"listings"`
	Services       int          `json:"services"`
	Bookings       int          `json:"bookings"`
	Reviews        int          `json:"reviews"`
	Messages       int          `json:"messages"`
	TrackingPoints int          `json:"trackingPoints"`
	Orphans        int          `json:"orphans"`
	StartedAt      time.Time    `json:"startedAt"`
	FinishedAt     time.Time    `json:"finishedAt"`
}

type Migrator struct {
	src storage.Storage
	dst storage.Storage
}

func New(src, dst storage.Storage) *Migrator {
	return &Migrator{src: src, dst: dst}
}

// run carries the id maps for one migration pass.
type run struct {
	*Migrator
	report   *Report
	srcUsers []storage.ID
	users    map[storage.ID]storage.ID
	listings map[storage.ID]storage.ID
	order    []storage.ID // source listing ids in copy order
}

// Run copies users, listings with their services, bookings with their
// messages and tracking points, and reviews. Users whose email already exists
// in the destination are matched rather than copied. Rows whose user or
// listing cannot be mapped, including bookings and reviews left behind by a
// deleted listing, are counted as orphans and skipped. A destination that
// already holds listings is refused, so a second run cannot duplicate rows.
// The copy is not transactional; a failure leaves what was already written.
func (m *Migrator) Run(ctx context.Context) (*Report, error) {
	if m.src == m.dst {
		return nil, ErrSameStore
	}
	existing, err := m.dst.GetVanListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect destination: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrDestinationNotEmpty
	}

	r := &run{
		Migrator: m,
		report: &Report{
			Source:      m.src.Kind(),
			Destination: m.dst.Kind(),
			StartedAt:   time.Now().UTC(),
		},
		users:    make(map[storage.ID]storage.ID),
		listings: make(map[storage.ID]storage.ID),
	}

	if err := r.copyUsers(ctx); err != nil {
		return r.report, err
	}
	if err := r.copyListings(ctx); err != nil {
		return r.report, err
	}
	for _, srcID := range r.order {
		dstID := r.listings[srcID]
		if err := r.copyBookings(ctx, srcID, dstID); err != nil {
			return r.report, err
		}
		if err := r.copyReviews(ctx, srcID, dstID); err != nil {
			return r.report, err
		}
	}
	if err := r.countUnlisted(ctx); err != nil {
		return r.report, err
	}

	r.report.FinishedAt = time.Now().UTC()
	log.Info().
		Str("source", string(r.report.Source)).
		Str("destination", string(r.report.Destination)).
		Int("users", r.report.Users).
		Int("listings", r.report.Listings).
		Int("bookings", r.report.Bookings).
		Int("orphans", r.report.Orphans).
		Msg("storage migration finished")
	return r.report, nil
}

func (r *run) copyUsers(ctx context.Context) error {
	users, err := r.src.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		srcID := u.ID
		r.srcUsers = append(r.srcUsers, srcID)
		u.ID = ""
		err := r.dst.CreateUser(ctx, &u)
		if storage.IsConflict(err) {
			existing, lookupErr := r.dst.GetUserByEmail(ctx, u.Email)
			if lookupErr != nil {
				// username taken by a different email
				r.report.SkippedUsers++
				r.report.Orphans++
				continue
			}
			r.users[srcID] = existing.ID
			r.report.SkippedUsers++
			continue
		}
		if err != nil {
			return fmt.Errorf("copy user %s: %w", srcID, err)
		}
		r.users[srcID] = u.ID
		r.report.Users++
	}
	return nil
}

func (r *run) copyListings(ctx context.Context) error {
	listings, err := r.src.GetVanListings(ctx)
	if err != nil {
		return fmt.Errorf("list van listings: %w", err)
	}
	for _, d := range listings {
		owner, ok := r.users[d.UserID]
		if !ok {
			r.report.Orphans++
			continue
		}
		l := d.VanListing
		srcID := l.ID
		l.ID, l.UserID = "", owner
		if err := r.dst.CreateVanListing(ctx, &l); err != nil {
			return fmt.Errorf("copy listing %s: %w", srcID, err)
		}
		r.listings[srcID] = l.ID
		r.order = append(r.order, srcID)
		r.report.Listings++

		for _, svc := range d.Services {
			svc.ID, svc.VanListingID = "", l.ID
			if err := r.dst.AddService(ctx, &svc); err != nil {
				return fmt.Errorf("copy service of listing %s: %w", srcID, err)
			}
			r.report.Services++
		}
	}
	return nil
}

func (r *run) copyBookings(ctx context.Context, srcListing, dstListing storage.ID) error {
	bookings, err := r.src.GetBookingsByVanListing(ctx, srcListing)
	if err != nil {
		return fmt.Errorf("bookings of listing %s: %w", srcListing, err)
	}
	for _, d := range bookings {
		customer, ok := r.users[d.UserID]
		if !ok {
			r.report.Orphans++
			continue
		}
		b := d.Booking
		srcID := b.ID
		b.ID, b.UserID, b.VanListingID = "", customer, dstListing
		if err := r.dst.CreateBooking(ctx, &b); err != nil {
			return fmt.Errorf("copy booking %s: %w", srcID, err)
		}
		r.report.Bookings++

		if err := r.copyMessages(ctx, srcID, b.ID); err != nil {
			return err
		}
		if err := r.copyTracking(ctx, srcID, b.ID, dstListing); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) copyMessages(ctx context.Context, srcBooking, dstBooking storage.ID) error {
	msgs, err := r.src.GetMessagesByBooking(ctx, srcBooking)
	if err != nil {
		return fmt.Errorf("messages of booking %s: %w", srcBooking, err)
	}
	for _, msg := range msgs {
		sender, ok := r.users[msg.SenderID]
		if !ok {
			r.report.Orphans++
			continue
		}
		msg.ID, msg.BookingID, msg.SenderID = "", dstBooking, sender
		if err := r.dst.CreateMessage(ctx, &msg); err != nil {
			return fmt.Errorf("copy message of booking %s: %w", srcBooking, err)
		}
		r.report.Messages++
	}
	return nil
}

func (r *run) copyTracking(ctx context.Context, srcBooking, dstBooking, dstListing storage.ID) error {
	points, err := r.src.GetTrackingHistory(ctx, srcBooking, maxTrackingPoints)
	if err != nil {
		return fmt.Errorf("tracking of booking %s: %w", srcBooking, err)
	}
	for _, p := range points {
		p.ID, p.BookingID, p.VanListingID = "", dstBooking, dstListing
		if err := r.dst.AddTrackingPoint(ctx, &p); err != nil {
			return fmt.Errorf("copy tracking point of booking %s: %w", srcBooking, err)
		}
		r.report.TrackingPoints++
	}
	return nil
}

func (r *run) copyReviews(ctx context.Context, srcListing, dstListing storage.ID) error {
	reviews, err := r.src.GetReviewsByVanListing(ctx, srcListing)
	if err != nil {
		return fmt.Errorf("reviews of listing %s: %w", srcListing, err)
	}
	for _, d := range reviews {
		author, ok := r.users[d.UserID]
		if !ok {
			r.report.Orphans++
			continue
		}
		rv := d.Review
		rv.ID, rv.UserID, rv.VanListingID = "", author, dstListing
		if err := r.dst.CreateReview(ctx, &rv); err != nil {
			return fmt.Errorf("copy review of listing %s: %w", srcListing, err)
		}
		r.report.Reviews++
	}
	return nil
}

// countUnlisted adds to Orphans the bookings and reviews whose listing was
// not copied. Those rows are never reached by the per-listing walk.
func (r *run) countUnlisted(ctx context.Context) error {
	for _, userID := range r.srcUsers {
		bookings, err := r.src.GetBookingsByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("bookings of user %s: %w", userID, err)
		}
		for _, b := range bookings {
			if _, ok := r.listings[b.VanListingID]; !ok {
				r.report.Orphans++
			}
		}

		reviews, err := r.src.GetReviewsByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("reviews of user %s: %w", userID, err)
		}
		for _, rv := range reviews {
			if _, ok := r.listings[rv.VanListingID]; !ok {
				r.report.Orphans++
			}
		}
	}
	return nil
}
