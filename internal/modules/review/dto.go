package review

import (
	"strings"

	"manvan/internal/storage"
)

type CreateReviewRequest struct {
	VanListingID string `json:"vanListingId" binding:"required"`
	Rating       int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment      string `json:"comment" binding:"max=2000"`
}

func (r CreateReviewRequest) toReview(userID storage.ID) *storage.Review {
	return &storage.Review{
		UserID:       userID,
		VanListingID: storage.ID(strings.TrimSpace(r.VanListingID)),
		Rating:       r.Rating,
		Comment:      strings.TrimSpace(r.Comment),
	}
}
