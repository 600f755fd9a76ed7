package relational

import (
	"context"

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
	m := messageModel{
		BookingID: bookingID,
		SenderID:  senderID,
		Content:   msg.Content,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, "message", "")
	}
	*msg = toDomainMessage(m)
	return nil
}

func (s *Store) GetMessagesByBooking(ctx context.Context, bookingID storage.ID) ([]storage.Message, error) {
	key, ok := parseID(bookingID)
	if !ok {
		return []storage.Message{}, nil
	}
	var rows []messageModel
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", key).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "messages", bookingID)
	}
	out := make([]storage.Message, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainMessage(m))
	}
	return out, nil
}

func (s *Store) MarkMessagesRead(ctx context.Context, bookingID, readerID storage.ID) (int64, error) {
	bKey, ok := parseID(bookingID)
	if !ok {
		return 0, nil
	}
	rKey, ok := parseID(readerID)
	if !ok {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("booking_id = ? AND sender_id <> ? AND is_read = ?", bKey, rKey, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, translate(res.Error, "messages", bookingID)
	}
	return res.RowsAffected, nil
}

// CountUnreadMessages counts unread messages written by someone else on any
// booking the user takes part in, either as customer or as listing owner.
func (s *Store) CountUnreadMessages(ctx context.Context, userID storage.ID) (int64, error) {
	key, ok := parseID(userID)
	if !ok {
		return 0, nil
	}
	db := s.db.WithContext(ctx)
	owned := db.Model(&vanListingModel{}).Select("id").Where("user_id = ?", key)
	bookings := db.Model(&bookingModel{}).Select("id").Where("user_id = ? OR van_listing_id IN (?)", key, owned)

	var n int64
	err := db.Model(&messageModel{}).
		Where("is_read = ? AND sender_id <> ?", false, key).
		Where("booking_id IN (?)", bookings).
		Count(&n).Error
	if err != nil {
		return 0, translate(err, "messages", userID)
	}
	return n, nil
}
