package document

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

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
	d := reviewDoc{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		VanListingID: listingID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    orNow(r.CreatedAt),
	}
	if _, err := s.coll(colReviews).InsertOne(ctx, d); err != nil {
		return translate(err, "review", "")
	}
	*r = d.toDomain()
	return nil
}

// GetReviewsByVanListing returns reviews newest first. Reviewer names are
// resolved with a single $in lookup; reviews by deleted users keep an empty
// name.
func (s *Store) GetReviewsByVanListing(ctx context.Context, vanListingID storage.ID) ([]storage.ReviewDetails, error) {
	oid, ok := parseID(vanListingID)
	if !ok {
		return []storage.ReviewDetails{}, nil
	}
	docs, err := findAll[reviewDoc](ctx, s.coll(colReviews), bson.M{"vanListingId": oid}, newestFirst("createdAt"))
	if err != nil {
		return nil, translate(err, "reviews", vanListingID)
	}
	if len(docs) == 0 {
		return []storage.ReviewDetails{}, nil
	}

	seen := make(map[primitive.ObjectID]struct{}, len(docs))
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		if _, dup := seen[d.UserID]; !dup {
			seen[d.UserID] = struct{}{}
			ids = append(ids, d.UserID)
		}
	}
	users, err := findAll[userDoc](ctx, s.coll(colUsers), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err, "reviewers", vanListingID)
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = storage.DisplayName(u.toDomain())
	}

	out := make([]storage.ReviewDetails, 0, len(docs))
	for _, d := range docs {
		out = append(out, storage.ReviewDetails{
			Review:       d.toDomain(),
			ReviewerName: names[d.UserID],
		})
	}
	return out, nil
}

func (s *Store) GetReviewsByUser(ctx context.Context, userID storage.ID) ([]storage.Review, error) {
	oid, ok := parseID(userID)
	if !ok {
		return []storage.Review{}, nil
	}
	docs, err := findAll[reviewDoc](ctx, s.coll(colReviews), bson.M{"userId": oid}, newestFirst("createdAt"))
	if err != nil {
		return nil, translate(err, "reviews", userID)
	}
	out := make([]storage.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *Store) GetAverageRatingForVanListing(ctx context.Context, vanListingID storage.ID) (float64, error) {
	oid, ok := parseID(vanListingID)
	if !ok {
		return 0, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"vanListingId": oid}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}}},
	}
	cur, err := s.coll(colReviews).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, translate(err, "rating", vanListingID)
	}
	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, translate(err, "rating", vanListingID)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}
