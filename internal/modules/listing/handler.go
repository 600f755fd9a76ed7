package listing

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
	api.GET("/van-listings", h.List)
	api.GET("/van-listings/search", h.Search)
	api.GET("/van-listings/:id", h.Get)
	api.GET("/van-listings/:id/reviews", h.Reviews)

	authed := api.Group("", middleware.RequireAuth())
	authed.PATCH("/van-listings/:id", h.Update)
	authed.DELETE("/van-listings/:id", h.Delete)
	authed.GET("/my-listings", h.Mine)

	owners := authed.Group("", middleware.RequireVanOwner())
	owners.POST("/van-listings", h.Create)
	owners.POST("/van-listings/:id/services", h.AddService)
}

func (h *Handler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}
	out, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), storage.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) Reviews(c *gin.Context) {
	out, err := h.service.Reviews(c.Request.Context(), storage.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Mine(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	out, err := h.service.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	d, err := h.service.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, d)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	l, err := h.service.Update(c.Request.Context(), user.ID, storage.ID(c.Param("id")), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if err := h.service.Delete(c.Request.Context(), user.ID, storage.ID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) AddService(c *gin.Context) {
	var req AddServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	svc, err := h.service.AddService(c.Request.Context(), user.ID, storage.ID(c.Param("id")), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, svc)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Van listing not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You do not own this van listing")
	case errors.Is(err, ErrEmptyPatch):
		response.ValidationFailed(c, []validator.FieldError{{Field: "body", Message: "at least one field is required"}})
	default:
		response.Internal(c, err)
	}
}
