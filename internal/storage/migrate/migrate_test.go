package migrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manvan/internal/storage"
	"manvan/internal/storage/relational"
)

func openStore(t *testing.T) *relational.Store {
	t.Helper()
	s, err := relational.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestRun_CopiesEverythingWithRemappedIDs(t *testing.T) {
	ctx := context.Background()
	src, dst := openStore(t), openStore(t)

	// shift destination ids so a missing remap would show up
	filler := &storage.User{Username: "filler", Email: "filler@example.com", Password: "x"}
	require.NoError(t, dst.CreateUser(ctx, filler))
	shared := &storage.User{Username: "carla-dst", Email: "carla@example.com", Password: "x"}
	require.NoError(t, dst.CreateUser(ctx, shared))

	owner := &storage.User{Username: "olive", Email: "olive@example.com", Password: "hash", IsVanOwner: true, FullName: "Olive"}
	customer := &storage.User{Username: "carla", Email: "carla@example.com", Password: "hash"}
	require.NoError(t, src.CreateUser(ctx, owner))
	require.NoError(t, src.CreateUser(ctx, customer))

	l := &storage.VanListing{UserID: owner.ID, Title: "Luton", VanSize: storage.VanLarge, HourlyRate: 25, Location: "London", Postcode: "N1"}
	require.NoError(t, src.CreateVanListing(ctx, l))
	require.NoError(t, src.AddService(ctx, &storage.Service{VanListingID: l.ID, ServiceName: "Packing"}))

	b := &storage.Booking{UserID: customer.ID, VanListingID: l.ID, BookingDate: time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC),
		Duration: 3, FromLocation: "A", ToLocation: "B", TotalPrice: 75, Status: storage.BookingConfirmed}
	require.NoError(t, src.CreateBooking(ctx, b))
	require.NoError(t, src.CreateMessage(ctx, &storage.Message{BookingID: b.ID, SenderID: customer.ID, Content: "hi", IsRead: true}))
	require.NoError(t, src.AddTrackingPoint(ctx, &storage.TrackingPoint{BookingID: b.ID, VanListingID: l.ID, Latitude: 51.5, Longitude: -0.1}))
	require.NoError(t, src.CreateReview(ctx, &storage.Review{UserID: customer.ID, VanListingID: l.ID, Rating: 4}))

	report, err := New(src, dst).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Users)
	assert.Equal(t, 1, report.SkippedUsers)
	assert.Equal(t, 1, report.Listings)
	assert.Equal(t, 1, report.Services)
	assert.Equal(t, 1, report.Bookings)
	assert.Equal(t, 1, report.Messages)
	assert.Equal(t, 1, report.TrackingPoints)
	assert.Equal(t, 1, report.Reviews)
	assert.Zero(t, report.Orphans)

	dstOwner, err := dst.GetUserByUsername(ctx, "olive")
	require.NoError(t, err)
	assert.Equal(t, "hash", dstOwner.Password)
	assert.True(t, dstOwner.IsVanOwner)

	listings, err := dst.GetVanListingsByUser(ctx, dstOwner.ID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	got := listings[0]
	require.Len(t, got.Services, 1)
	assert.Equal(t, "Packing", got.Services[0].ServiceName)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, shared.ID, got.Reviews[0].UserID)

	bookings, err := dst.GetBookingsByUser(ctx, shared.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, got.ID, bookings[0].VanListingID)
	assert.Equal(t, 75.0, bookings[0].TotalPrice)
	assert.Equal(t, storage.BookingConfirmed, bookings[0].Status)

	msgs, err := dst.GetMessagesByBooking(ctx, bookings[0].ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, shared.ID, msgs[0].SenderID)
	assert.True(t, msgs[0].IsRead)

	p, err := dst.GetLatestTrackingPoint(ctx, bookings[0].ID)
	require.NoError(t, err)
	assert.Equal(t, got.ID, p.VanListingID)
}

func TestRun_SameStore(t *testing.T) {
	s := openStore(t)
	_, err := New(s, s).Run(context.Background())
	assert.ErrorIs(t, err, ErrSameStore)
}

func TestRun_SecondRunIsRefused(t *testing.T) {
	ctx := context.Background()
	src, dst := openStore(t), openStore(t)

	owner := &storage.User{Username: "olive", Email: "olive@example.com", Password: "hash", IsVanOwner: true}
	require.NoError(t, src.CreateUser(ctx, owner))
	require.NoError(t, src.CreateVanListing(ctx, &storage.VanListing{UserID: owner.ID, Title: "Transit", VanSize: storage.VanMedium, HourlyRate: 20, Location: "Leeds", Postcode: "LS1"}))

	first, err := New(src, dst).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Listings)

	_, err = New(src, dst).Run(ctx)
	assert.ErrorIs(t, err, ErrDestinationNotEmpty)

	listings, err := dst.GetVanListings(ctx)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	users, err := dst.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRun_CountsRowsOfDeletedListings(t *testing.T) {
	ctx := context.Background()
	src, dst := openStore(t), openStore(t)

	owner := &storage.User{Username: "olive", Email: "olive@example.com", Password: "hash", IsVanOwner: true}
	customer := &storage.User{Username: "carla", Email: "carla@example.com", Password: "hash"}
	require.NoError(t, src.CreateUser(ctx, owner))
	require.NoError(t, src.CreateUser(ctx, customer))

	kept := &storage.VanListing{UserID: owner.ID, Title: "Luton", VanSize: storage.VanLarge, HourlyRate: 25, Location: "London", Postcode: "N1"}
	gone := &storage.VanListing{UserID: owner.ID, Title: "Transit", VanSize: storage.VanMedium, HourlyRate: 20, Location: "Leeds", Postcode: "LS1"}
	require.NoError(t, src.CreateVanListing(ctx, kept))
	require.NoError(t, src.CreateVanListing(ctx, gone))
	require.NoError(t, src.CreateBooking(ctx, &storage.Booking{UserID: customer.ID, VanListingID: gone.ID, BookingDate: time.Now(),
		Duration: 2, FromLocation: "A", ToLocation: "B", TotalPrice: 40, Status: storage.BookingPending}))
	require.NoError(t, src.CreateReview(ctx, &storage.Review{UserID: customer.ID, VanListingID: gone.ID, Rating: 2}))
	require.NoError(t, src.DeleteVanListing(ctx, gone.ID))

	report, err := New(src, dst).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Listings)
	assert.Zero(t, report.Bookings)
	assert.Zero(t, report.Reviews)
	assert.Equal(t, 2, report.Orphans)
}
