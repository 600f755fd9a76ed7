package document

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"manvan/internal/storage"
)

func (s *Store) CreateMessage(ctx context.Context, msg *storage.Message) error {
	bookingID, ok := parseID(msg.BookingID)
	if !ok {
		return notFound("booking", msg.BookingID)
	}
	senderID, ok := parseID(msg.SenderID)
	if !ok {
		return notFound("user", msg.SenderID)
	}
	d := messageDoc{
		ID:        primitive.NewObjectID(),
		BookingID: bookingID,
		SenderID:  senderID,
		Content:   msg.Content,
		IsRead:    msg.IsRead,
		CreatedAt: orNow(msg.CreatedAt),
	}
	if _, err := s.coll(colMessages).InsertOne(ctx, d); err != nil {
		return translate(err, "message", "")
	}
	*msg = d.toDomain()
	return nil
}

func (s *Store) GetMessagesByBooking(ctx context.Context, bookingID storage.ID) ([]storage.Message, error) {
	oid, ok := parseID(bookingID)
	if !ok {
		return []storage.Message{}, nil
	}
	docs, err := findAll[messageDoc](ctx, s.coll(colMessages), bson.M{"bookingId": oid}, oldestFirst("createdAt"))
	if err != nil {
		return nil, translate(err, "messages", bookingID)
	}
	out := make([]storage.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *Store) MarkMessagesRead(ctx context.Context, bookingID, readerID storage.ID) (int64, error) {
	bOID, ok := parseID(bookingID)
	if !ok {
		return 0, nil
	}
	rOID, ok := parseID(readerID)
	if !ok {
		return 0, nil
	}
	res, err := s.coll(colMessages).UpdateMany(ctx,
		bson.M{"bookingId": bOID, "senderId": bson.M{"$ne": rOID}, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, translate(err, "messages", bookingID)
	}
	return res.ModifiedCount, nil
}

// CountUnreadMessages counts unread messages written by someone else on any
// booking the user takes part in, either as customer or as listing owner.
func (s *Store) CountUnreadMessages(ctx context.Context, userID storage.ID) (int64, error) {
	oid, ok := parseID(userID)
	if !ok {
		return 0, nil
	}
	owned, err := s.coll(colListings).Distinct(ctx, "_id", bson.M{"userId": oid})
	if err != nil {
		return 0, translate(err, "van listings", userID)
	}
	bookingFilter := bson.M{"userId": oid}
	if len(owned) > 0 {
		bookingFilter = bson.M{"$or": bson.A{
			bson.M{"userId": oid},
			bson.M{"vanListingId": bson.M{"$in": owned}},
		}}
	}
	bookings, err := s.coll(colBookings).Distinct(ctx, "_id", bookingFilter)
	if err != nil {
		return 0, translate(err, "bookings", userID)
	}
	if len(bookings) == 0 {
		return 0, nil
	}
	n, err := s.coll(colMessages).CountDocuments(ctx, bson.M{
		"bookingId": bson.M{"$in": bookings},
		"senderId":  bson.M{"$ne": oid},
		"isRead":    false,
	})
	if err != nil {
		return 0, translate(err, "messages", userID)
	}
	return n, nil
}
