package document

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"manvan/internal/storage"
)

func (s *Store) GetUser(ctx context.Context, id storage.ID) (*storage.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, notFound("user", id)
	}
	return s.findUser(ctx, bson.M{"_id": oid}, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.findUser(ctx, bson.M{"email": email}, storage.ID(email))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	username = strings.TrimSpace(username)
	return s.findUser(ctx, bson.M{"username": username}, storage.ID(username))
}

func (s *Store) findUser(ctx context.Context, filter bson.M, key storage.ID) (*storage.User, error) {
	var d userDoc
	if err := s.coll(colUsers).FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, translate(err, "user", key)
	}
	return d.toDomain(), nil
}

func (s *Store) CreateUser(ctx context.Context, u *storage.User) error {
	d := userDoc{
		ID:         primitive.NewObjectID(),
		Username:   strings.TrimSpace(u.Username),
		Email:      strings.ToLower(strings.TrimSpace(u.Email)),
		Password:   u.Password,
		FullName:   u.FullName,
		Phone:      u.Phone,
		IsVanOwner: u.IsVanOwner,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  orNow(u.CreatedAt),
	}
	if _, err := s.coll(colUsers).InsertOne(ctx, d); err != nil {
		return translate(err, "user", "")
	}
	*u = *d.toDomain()
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]storage.User, error) {
	docs, err := findAll[userDoc](ctx, s.coll(colUsers), bson.M{}, oldestFirst("createdAt"))
	if err != nil {
		return nil, translate(err, "users", "")
	}
	out := make([]storage.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

// DeleteUser removes the user together with the listings they own and those
// listings' services. Bookings and reviews remain.
func (s *Store) DeleteUser(ctx context.Context, id storage.ID) error {
	oid, ok := parseID(id)
	if !ok {
		return notFound("user", id)
	}
	res, err := s.coll(colUsers).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err, "user", id)
	}
	if res.DeletedCount == 0 {
		return notFound("user", id)
	}

	listings, err := findAll[vanListingDoc](ctx, s.coll(colListings), bson.M{"userId": oid})
	if err != nil {
		return translate(err, "van listings", id)
	}
	if len(listings) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	if _, err := s.coll(colServices).DeleteMany(ctx, bson.M{"vanListingId": bson.M{"$in": ids}}); err != nil {
		return translate(err, "services", id)
	}
	if _, err := s.coll(colListings).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return translate(err, "van listings", id)
	}
	return nil
}

func (s *Store) SetVanOwnerStatus(ctx context.Context, id storage.ID, isVanOwner bool) (*storage.User, error) {
	return s.setUserFlag(ctx, id, "isVanOwner", isVanOwner)
}

func (s *Store) SetAdminStatus(ctx context.Context, id storage.ID, isAdmin bool) (*storage.User, error) {
	return s.setUserFlag(ctx, id, "isAdmin", isAdmin)
}

func (s *Store) setUserFlag(ctx context.Context, id storage.ID, field string, value bool) (*storage.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, notFound("user", id)
	}
	var d userDoc
	err := s.coll(colUsers).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{field: value}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return nil, translate(err, "user", id)
	}
	return d.toDomain(), nil
}
