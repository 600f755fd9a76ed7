package review

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"manvan/internal/middleware"
	"manvan/internal/pkg/response"
	"manvan/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts review writes. Reads live on the listing routes.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/reviews", middleware.RequireAuth(), h.Create)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	user, _ := middleware.CurrentUser(c)
	r, err := h.svc.Create(c.Request.Context(), user.ID, req)
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Van listing not found")
	case err != nil:
		response.Internal(c, err)
	default:
		response.Success(c, http.StatusCreated, r)
	}
}
