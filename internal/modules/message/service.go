package message

import (
	"context"
	"errors"
	"strings"

	"manvan/internal/modules/booking"
	"manvan/internal/storage"
)

var ErrEmptyContent = errors.New("message content is empty")

type MessageStore interface {
	booking.AccessStore
	CreateMessage(ctx context.Context, m *storage.Message) error
	GetMessagesByBooking(ctx context.Context, bookingID storage.ID) ([]storage.Message, error)
	MarkMessagesRead(ctx context.Context, bookingID, readerID storage.ID) (int64, error)
	CountUnreadMessages(ctx context.Context, userID storage.ID) (int64, error)
}

// Broadcaster pushes booking events to connected clients.
type Broadcaster interface {
	Broadcast(bookingID storage.ID, ev Event)
}

type Service struct {
	store MessageStore
	push  Broadcaster
}

// NewService wires the store and an optional broadcaster (nil disables push).
func NewService(store MessageStore, push Broadcaster) *Service {
	return &Service{store: store, push: push}
}

// Authorize checks the caller is the customer or the listing owner.
func (s *Service) Authorize(ctx context.Context, userID, bookingID storage.ID) error {
	_, err := booking.ResolveAccess(ctx, s.store, bookingID, userID)
	return err
}

// List marks the other party's messages read for the caller, then returns
// the thread oldest first.
func (s *Service) List(ctx context.Context, userID, bookingID storage.ID) ([]storage.Message, error) {
	if err := s.Authorize(ctx, userID, bookingID); err != nil {
		return nil, err
	}

	n, err := s.store.MarkMessagesRead(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		s.broadcast(bookingID, Event{Type: EventRead, Payload: map[string]any{"readerId": userID, "count": n}})
	}
	return s.store.GetMessagesByBooking(ctx, bookingID)
}

func (s *Service) Send(ctx context.Context, userID, bookingID storage.ID, content string) (*storage.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if err := s.Authorize(ctx, userID, bookingID); err != nil {
		return nil, err
	}

	m := &storage.Message{BookingID: bookingID, SenderID: userID, Content: content}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	s.broadcast(bookingID, Event{Type: EventNewMessage, Payload: m})
	return m, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID storage.ID) (int64, error) {
	return s.store.CountUnreadMessages(ctx, userID)
}

func (s *Service) broadcast(bookingID storage.ID, ev Event) {
	if s.push != nil {
		s.push.Broadcast(bookingID, ev)
	}
}
