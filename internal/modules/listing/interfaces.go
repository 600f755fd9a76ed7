package listing

import (
	"context"

	"manvan/internal/storage"
)

// ListingStore lists the listing, service and review reads/writes this module uses
type ListingStore interface {
	GetVanListing(ctx context.Context, id storage.ID) (*storage.VanListingDetails, error)
	GetVanListingRecord(ctx context.Context, id storage.ID) (*storage.VanListing, error)
	GetVanListings(ctx context.Context) ([]storage.VanListingDetails, error)
	GetVanListingsByUser(ctx context.Context, userID storage.ID) ([]storage.VanListingDetails, error)
	SearchVanListings(ctx context.Context, p storage.SearchParams) ([]storage.VanListingDetails, error)
	CreateVanListing(ctx context.Context, l *storage.VanListing) error
	UpdateVanListing(ctx context.Context, id storage.ID, patch storage.VanListingPatch) (*storage.VanListing, error)
	DeleteVanListing(ctx context.Context, id storage.ID) error

	AddService(ctx context.Context, s *storage.Service) error
	GetReviewsByVanListing(ctx context.Context, vanListingID storage.ID) ([]storage.ReviewDetails, error)
}
