package tracking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"manvan/internal/middleware"
	"manvan/internal/modules/booking"
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
	g := api.Group("/van-tracking", middleware.RequireAuth())
	g.POST("/update", h.Update)
	g.GET("/:bookingId/current", h.Current)
	g.GET("/:bookingId/history", h.History)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	p, err := h.service.Update(c.Request.Context(), user.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) Current(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	p, err := h.service.Current(c.Request.Context(), user.ID, storage.ID(c.Param("bookingId")))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) History(c *gin.Context) {
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	out, err := h.service.History(c.Request.Context(), user.ID, storage.ID(c.Param("bookingId")), q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func writeError(c *gin.Context, err error) {
	if booking.WriteAccessError(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Only the van owner can update the location")
	case errors.Is(err, ErrNoLocation):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "No location reported for this booking")
	default:
		response.Internal(c, err)
	}
}
