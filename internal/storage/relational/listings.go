package relational

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"manvan/internal/storage"
)

func (s *Store) GetVanListingRecord(ctx context.Context, id storage.ID) (*storage.VanListing, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, notFound("van listing", id)
	}
	var m vanListingModel
	if err := s.db.WithContext(ctx).First(&m, key).Error; err != nil {
		return nil, translate(err, "van listing", id)
	}
	return toDomainListing(m), nil
}

func (s *Store) GetVanListing(ctx context.Context, id storage.ID) (*storage.VanListingDetails, error) {
	l, err := s.GetVanListingRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return storage.AssembleListingDetails(ctx, s, *l)
}

func (s *Store) GetVanListings(ctx context.Context) ([]storage.VanListingDetails, error) {
	return s.findListings(ctx, s.db.WithContext(ctx))
}

func (s *Store) GetVanListingsByUser(ctx context.Context, userID storage.ID) ([]storage.VanListingDetails, error) {
	key, ok := parseID(userID)
	if !ok {
		return []storage.VanListingDetails{}, nil
	}
	return s.findListings(ctx, s.db.WithContext(ctx).Where("user_id = ?", key))
}

func (s *Store) SearchVanListings(ctx context.Context, p storage.SearchParams) ([]storage.VanListingDetails, error) {
	q := s.db.WithContext(ctx)
	if loc := strings.ToLower(strings.TrimSpace(p.Location)); loc != "" {
		pattern := "%" + escapeLike(loc) + "%"
		q = q.Where(`(LOWER(location) LIKE ? ESCAPE '\' OR LOWER(postcode) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if p.VanSize != "" {
		q = q.Where("van_size = ?", string(p.VanSize))
	}
	return s.findListings(ctx, q)
}

func (s *Store) findListings(ctx context.Context, q *gorm.DB) ([]storage.VanListingDetails, error) {
	var rows []vanListingModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, "van listings", "")
	}
	listings := make([]storage.VanListing, 0, len(rows))
	for _, m := range rows {
		listings = append(listings, *toDomainListing(m))
	}
	return storage.AssembleListingDetailsList(ctx, s, listings)
}

func (s *Store) CreateVanListing(ctx context.Context, l *storage.VanListing) error {
	owner, ok := parseID(l.UserID)
	if !ok {
		return notFound("user", l.UserID)
	}
	m := toListingModel(l, owner)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "van listing", "")
	}
	*l = *toDomainListing(m)
	return nil
}

// UpdateVanListing reads the row, merges the patch and writes every column
// back. Concurrent writers race; the last save wins.
func (s *Store) UpdateVanListing(ctx context.Context, id storage.ID, patch storage.VanListingPatch) (*storage.VanListing, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, notFound("van listing", id)
	}
	var m vanListingModel
	if err := s.db.WithContext(ctx).First(&m, key).Error; err != nil {
		return nil, translate(err, "van listing", id)
	}

	l := toDomainListing(m)
	patch.Apply(l)

	updated := toListingModel(l, m.UserID)
	updated.ID = m.ID
	updated.CreatedAt = m.CreatedAt
	if err := s.db.WithContext(ctx).Save(&updated).Error; err != nil {
		return nil, translate(err, "van listing", id)
	}
	return toDomainListing(updated), nil
}

func (s *Store) DeleteVanListing(ctx context.Context, id storage.ID) error {
	key, ok := parseID(id)
	if !ok {
		return notFound("van listing", id)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("van_listing_id = ?", key).Delete(&serviceModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&vanListingModel{}, key)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "van listing", id)
}

func (s *Store) AddService(ctx context.Context, svc *storage.Service) error {
	listingID, ok := parseID(svc.VanListingID)
	if !ok {
		return notFound("van listing", svc.VanListingID)
	}
	m := serviceModel{VanListingID: listingID, ServiceName: strings.TrimSpace(svc.ServiceName)}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "service", "")
	}
	*svc = toDomainService(m)
	return nil
}

func (s *Store) GetServicesByVanListing(ctx context.Context, vanListingID storage.ID) ([]storage.Service, error) {
	key, ok := parseID(vanListingID)
	if !ok {
		return []storage.Service{}, nil
	}
	var rows []serviceModel
	if err := s.db.WithContext(ctx).Where("van_listing_id = ?", key).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "services", vanListingID)
	}
	out := make([]storage.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainService(m))
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
