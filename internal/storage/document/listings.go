package document

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"manvan/internal/storage"
)

func (s *Store) GetVanListingRecord(ctx context.Context, id storage.ID) (*storage.VanListing, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, notFound("van listing", id)
	}
	var d vanListingDoc
	if err := s.coll(colListings).FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, translate(err, "van listing", id)
	}
	return d.toDomain(), nil
}

func (s *Store) GetVanListing(ctx context.Context, id storage.ID) (*storage.VanListingDetails, error) {
	l, err := s.GetVanListingRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return storage.AssembleListingDetails(ctx, s, *l)
}

func (s *Store) GetVanListings(ctx context.Context) ([]storage.VanListingDetails, error) {
	return s.findListings(ctx, bson.M{})
}

func (s *Store) GetVanListingsByUser(ctx context.Context, userID storage.ID) ([]storage.VanListingDetails, error) {
	oid, ok := parseID(userID)
	if !ok {
		return []storage.VanListingDetails{}, nil
	}
	return s.findListings(ctx, bson.M{"userId": oid})
}

func (s *Store) SearchVanListings(ctx context.Context, p storage.SearchParams) ([]storage.VanListingDetails, error) {
	filter := bson.M{}
	if loc := strings.TrimSpace(p.Location); loc != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(loc), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"location": re},
			bson.M{"postcode": re},
		}
	}
	if p.VanSize != "" {
		filter["vanSize"] = string(p.VanSize)
	}
	return s.findListings(ctx, filter)
}

func (s *Store) findListings(ctx context.Context, filter bson.M) ([]storage.VanListingDetails, error) {
	docs, err := findAll[vanListingDoc](ctx, s.coll(colListings), filter, newestFirst("createdAt"))
	if err != nil {
		return nil, translate(err, "van listings", "")
	}
	listings := make([]storage.VanListing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, *d.toDomain())
	}
	return storage.AssembleListingDetailsList(ctx, s, listings)
}

func (s *Store) CreateVanListing(ctx context.Context, l *storage.VanListing) error {
	owner, ok := parseID(l.UserID)
	if !ok {
		return notFound("user", l.UserID)
	}
	d := vanListingDoc{
		ID:               primitive.NewObjectID(),
		UserID:           owner,
		Title:            l.Title,
		Description:      l.Description,
		VanSize:          string(l.VanSize),
		HourlyRate:       l.HourlyRate,
		Location:         l.Location,
		Postcode:         l.Postcode,
		HelpersCount:     l.HelpersCount,
		IsAvailableToday: l.IsAvailableToday,
		ImageURL:         l.ImageURL,
		CreatedAt:        orNow(l.CreatedAt),
	}
	if _, err := s.coll(colListings).InsertOne(ctx, d); err != nil {
		return translate(err, "van listing", "")
	}
	*l = *d.toDomain()
	return nil
}

func (s *Store) UpdateVanListing(ctx context.Context, id storage.ID, patch storage.VanListingPatch) (*storage.VanListing, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, notFound("van listing", id)
	}
	set := patchToSet(patch)
	if len(set) == 0 {
		return s.GetVanListingRecord(ctx, id)
	}

	var d vanListingDoc
	err := s.coll(colListings).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return nil, translate(err, "van listing", id)
	}
	return d.toDomain(), nil
}

func patchToSet(p storage.VanListingPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.VanSize != nil {
		set["vanSize"] = string(*p.VanSize)
	}
	if p.HourlyRate != nil {
		set["hourlyRate"] = *p.HourlyRate
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Postcode != nil {
		set["postcode"] = *p.Postcode
	}
	if p.HelpersCount != nil {
		set["helpersCount"] = *p.HelpersCount
	}
	if p.IsAvailableToday != nil {
		set["isAvailableToday"] = *p.IsAvailableToday
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	return set
}

func (s *Store) DeleteVanListing(ctx context.Context, id storage.ID) error {
	oid, ok := parseID(id)
	if !ok {
		return notFound("van listing", id)
	}
	res, err := s.coll(colListings).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err, "van listing", id)
	}
	if res.DeletedCount == 0 {
		return notFound("van listing", id)
	}
	if _, err := s.coll(colServices).DeleteMany(ctx, bson.M{"vanListingId": oid}); err != nil {
		return translate(err, "services", id)
	}
	return nil
}

func (s *Store) AddService(ctx context.Context, svc *storage.Service) error {
	listingID, ok := parseID(svc.VanListingID)
	if !ok {
		return notFound("van listing", svc.VanListingID)
	}
	d := serviceDoc{
		ID:           primitive.NewObjectID(),
		VanListingID: listingID,
		ServiceName:  strings.TrimSpace(svc.ServiceName),
	}
	if _, err := s.coll(colServices).InsertOne(ctx, d); err != nil {
		return translate(err, "service", "")
	}
	*svc = d.toDomain()
	return nil
}

func (s *Store) GetServicesByVanListing(ctx context.Context, vanListingID storage.ID) ([]storage.Service, error) {
	oid, ok := parseID(vanListingID)
	if !ok {
		return []storage.Service{}, nil
	}
	docs, err := findAll[serviceDoc](ctx, s.coll(colServices), bson.M{"vanListingId": oid},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate(err, "services", vanListingID)
	}
	out := make([]storage.Service, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
