package message

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"manvan/internal/pkg/validator"
	"manvan/internal/storage"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

const (
	EventNewMessage = "new_message"
	EventRead       = "read"
	EventTyping     = "typing"
)

// Event is pushed to every connection subscribed to a booking.
type Event struct {
	Type      string     `json:"type"`
	BookingID storage.ID `json:"bookingId"`
	Payload   any        `json:"payload,omitempty"`
}

type client struct {
	bookingID storage.ID
	userID    storage.ID
	conn      *websocket.Conn
	send      chan []byte
}

// Hub fans booking events out to the participants connected to that booking.
type Hub struct {
	mu    sync.RWMutex
	rooms map[storage.ID]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[storage.ID]map[*client]struct{})}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.bookingID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.bookingID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.bookingID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.bookingID)
	}
}

// Broadcast queues the event for every connection on the booking. Slow
// connections with a full buffer miss the event.
func (h *Hub) Broadcast(bookingID storage.ID, ev Event) {
	ev.BookingID = bookingID
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID.String()).Msg("marshal ws event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[bookingID] {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Subscribers reports how many connections are open on a booking.
func (h *Hub) Subscribers(bookingID storage.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[bookingID])
}

// Serve registers conn on the booking and blocks until it disconnects.
func (h *Hub) Serve(conn *websocket.Conn, bookingID, userID storage.ID) {
	c := &client{
		bookingID: bookingID,
		userID:    userID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for c := range room {
			close(c.send)
		}
		delete(h.rooms, id)
	}
}

// clientFrame is the only shape a client may send.
type clientFrame struct {
	Type string `json:"type" validate:"required,oneof=typing"`
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("booking_id", c.bookingID.String()).Msg("ws read")
			}
			return
		}

		// messages are posted over HTTP; the socket only relays typing hints
		var in clientFrame
		if json.Unmarshal(raw, &in) != nil || validator.Validate(in) != nil {
			continue
		}
		h.Broadcast(c.bookingID, Event{Type: EventTyping, Payload: map[string]storage.ID{"userId": c.userID}})
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// NewUpgrader accepts handshakes without an Origin header or from one of
// allowedOrigins. "*" allows any origin.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		},
	}
}
