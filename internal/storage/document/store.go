// Package document implements storage.Storage on MongoDB collections.
package document

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"manvan/internal/storage"
)

type Store struct {
	db *mongo.Database
}

var _ storage.Storage = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Connect dials uri and pings the primary. The caller bounds ctx.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := New(client.Database(database))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the unique and lookup indexes the adapter relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colListings: {{Keys: bson.D{{Key: "userId", Value: 1}}}},
		colServices: {{Keys: bson.D{{Key: "vanListingId", Value: 1}}}},
		colBookings: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "vanListingId", Value: 1}}},
		},
		colReviews:  {{Keys: bson.D{{Key: "vanListingId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		colMessages: {{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "createdAt", Value: 1}}}},
		colTracking: {{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "recordedAt", Value: -1}}}},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Kind() storage.Kind { return storage.KindDocument }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func notFound(entity string, id storage.ID) error {
	return fmt.Errorf("%s %q: %w", entity, id, storage.ErrNotFound)
}

func translate(err error, entity string, id storage.ID) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound(entity, id)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", entity, storage.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}, {Key: "_id", Value: -1}})
}

func oldestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: 1}, {Key: "_id", Value: 1}})
}
