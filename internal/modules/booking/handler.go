package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"manvan/internal/middleware"
	"manvan/internal/pkg/response"
	"manvan/internal/pkg/validator"
	"manvan/internal/storage"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	authed := api.Group("", middleware.RequireAuth())
	authed.POST("/bookings", h.Create)
	authed.GET("/my-bookings", h.Mine)
	authed.GET("/my-van-bookings", h.ForMyVans)
	authed.PATCH("/bookings/:id/status", h.UpdateStatus)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	b, err := h.service.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) Mine(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	out, err := h.service.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) ForMyVans(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	out, err := h.service.ListForOwner(c.Request.Context(), user.ID)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	b, err := h.service.UpdateStatus(c.Request.Context(), user.ID, storage.ID(c.Param("id")), storage.BookingStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// WriteAccessError maps ResolveAccess failures onto the envelope. It reports
// false for errors it does not recognise.
func WriteAccessError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You are not a party to this booking")
	default:
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	if WriteAccessError(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Van listing not found")
	case errors.Is(err, ErrInvalidStatus):
		response.ValidationFailed(c, []validator.FieldError{{Field: "status", Tag: "oneof", Message: "status is not allowed"}})
	default:
		response.Internal(c, err)
	}
}
