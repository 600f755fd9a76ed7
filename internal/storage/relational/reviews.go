package relational

import (
	"context"
	"database/sql"

	"manvan/internal/storage"
)

func (s *Store) CreateReview(ctx context.Context, r *storage.Review) error {
	userID, ok := parseID(r.UserID)
	if !ok {
		return notFound("user", r.UserID)
	}
	listingID, ok := parseID(r.VanListingID)
	if !ok {
		return notFound("van listing", r.VanListingID)
	}
	m := reviewModel{
		UserID:       userID,
		VanListingID: listingID,
		Rating:       r.Rating,
		Comment:      strPtr(r.Comment),
		CreatedAt:    r.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "review", "")
	}
	*r = toDomainReview(m)
	return nil
}

type reviewRow struct {
	reviewModel
	ReviewerFullName *string `gorm:"column:reviewer_full_name"`
	ReviewerUsername *string `gorm:"column:reviewer_username"`
}

// GetReviewsByVanListing returns reviews newest first. Reviewer names come
// from a LEFT JOIN so reviews by deleted users are still listed.
func (s *Store) GetReviewsByVanListing(ctx context.Context, vanListingID storage.ID) ([]storage.ReviewDetails, error) {
	key, ok := parseID(vanListingID)
	if !ok {
		return []storage.ReviewDetails{}, nil
	}
	var rows []reviewRow
	err := s.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, users.full_name AS reviewer_full_name, users.username AS reviewer_username").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.van_listing_id = ?", key).
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "reviews", vanListingID)
	}

	out := make([]storage.ReviewDetails, 0, len(rows))
	for _, row := range rows {
		name := strVal(row.ReviewerFullName)
		if name == "" {
			name = strVal(row.ReviewerUsername)
		}
		out = append(out, storage.ReviewDetails{
			Review:       toDomainReview(row.reviewModel),
			ReviewerName: name,
		})
	}
	return out, nil
}

// GetReviewsByUser returns the user's reviews newest first, including those
// on listings that no longer exist.
func (s *Store) GetReviewsByUser(ctx context.Context, userID storage.ID) ([]storage.Review, error) {
	key, ok := parseID(userID)
	if !ok {
		return []storage.Review{}, nil
	}
	var rows []reviewModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", key).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "reviews", userID)
	}
	out := make([]storage.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReview(m))
	}
	return out, nil
}

func (s *Store) GetAverageRatingForVanListing(ctx context.Context, vanListingID storage.ID) (float64, error) {
	key, ok := parseID(vanListingID)
	if !ok {
		return 0, nil
	}
	var avg sql.NullFloat64
	err := s.db.WithContext(ctx).
		Model(&reviewModel{}).
		Select("AVG(rating)").
		Where("van_listing_id = ?", key).
		Scan(&avg).Error
	if err != nil {
		return 0, translate(err, "rating", vanListingID)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
