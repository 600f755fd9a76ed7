package relational

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"manvan/internal/storage"
)

func (s *Store) GetUser(ctx context.Context, id storage.ID) (*storage.User, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, notFound("user", id)
	}
	var m userModel
	if err := s.db.WithContext(ctx).First(&m, key).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return toDomainUser(m), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "user", storage.ID(email))
	}
	return toDomainUser(m), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "user", storage.ID(username))
	}
	return toDomainUser(m), nil
}

func (s *Store) CreateUser(ctx context.Context, u *storage.User) error {
	m := userModel{
		Username:   strings.TrimSpace(u.Username),
		Email:      strings.ToLower(strings.TrimSpace(u.Email)),
		Password:   u.Password,
		FullName:   u.FullName,
		Phone:      strPtr(u.Phone),
		IsVanOwner: u.IsVanOwner,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "user", "")
	}
	*u = *toDomainUser(m)
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]storage.User, error) {
	var rows []userModel
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "users", "")
	}
	out := make([]storage.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

// DeleteUser removes the user together with the listings they own and those
// listings' services. Bookings and reviews written by or for them remain.
func (s *Store) DeleteUser(ctx context.Context, id storage.ID) error {
	key, ok := parseID(id)
	if !ok {
		return notFound("user", id)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listingIDs := tx.Model(&vanListingModel{}).Select("id").Where("user_id = ?", key)
		if err := tx.Where("van_listing_id IN (?)", listingIDs).Delete(&serviceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", key).Delete(&vanListingModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&userModel{}, key)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "user", id)
}

func (s *Store) SetVanOwnerStatus(ctx context.Context, id storage.ID, isVanOwner bool) (*storage.User, error) {
	return s.setUserFlag(ctx, id, "is_van_owner", isVanOwner)
}

func (s *Store) SetAdminStatus(ctx context.Context, id storage.ID, isAdmin bool) (*storage.User, error) {
	return s.setUserFlag(ctx, id, "is_admin", isAdmin)
}

func (s *Store) setUserFlag(ctx context.Context, id storage.ID, column string, value bool) (*storage.User, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, notFound("user", id)
	}
	var m userModel
	if err := s.db.WithContext(ctx).First(&m, key).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	if err := s.db.WithContext(ctx).Model(&m).Update(column, value).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return s.GetUser(ctx, id)
}
