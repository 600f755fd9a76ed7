package message

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"manvan/internal/middleware"
	"manvan/internal/modules/booking"
	"manvan/internal/pkg/response"
	"manvan/internal/pkg/validator"
	"manvan/internal/storage"
)

type Handler struct {
	service  *Service
	hub      *Hub
	upgrader *websocket.Upgrader
}

// NewHandler mounts the websocket route only when hub is not nil.
func NewHandler(service *Service, hub *Hub, upgrader *websocket.Upgrader) *Handler {
	return &Handler{service: service, hub: hub, upgrader: upgrader}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	authed := api.Group("", middleware.RequireAuth())
	authed.GET("/bookings/:id/messages", h.List)
	authed.POST("/bookings/:id/messages", h.Send)
	authed.GET("/messages/unread-count", h.UnreadCount)
	if h.hub != nil && h.upgrader != nil {
		authed.GET("/bookings/:id/messages/ws", h.Connect)
	}
}

func (h *Handler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	out, err := h.service.List(c.Request.Context(), user.ID, storage.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	m, err := h.service.Send(c.Request.Context(), user.ID, storage.ID(c.Param("id")), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	n, err := h.service.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, UnreadCountResponse{Count: n})
}

// Connect upgrades to a websocket that receives the booking's events. Browsers
// authenticate with the session cookie, other clients with ?token=.
func (h *Handler) Connect(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	bookingID := storage.ID(c.Param("id"))
	if err := h.service.Authorize(c.Request.Context(), user.ID, bookingID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		log.Debug().Err(err).Str("booking_id", bookingID.String()).Msg("ws upgrade failed")
		return
	}
	h.hub.Serve(conn, bookingID, user.ID)
}

func writeError(c *gin.Context, err error) {
	if booking.WriteAccessError(c, err) {
		return
	}
	if errors.Is(err, ErrEmptyContent) {
		response.ValidationFailed(c, []validator.FieldError{{Field: "content", Tag: "required", Message: "content is required"}})
		return
	}
	response.Internal(c, err)
}
