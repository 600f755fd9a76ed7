package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"manvan/internal/middleware"
	"manvan/internal/pkg/response"
	"manvan/internal/pkg/validator"
	"manvan/internal/storage"
	"manvan/internal/storage/migrate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users", h.GetUsers)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.PATCH("/users/:id/van-owner-status", h.SetVanOwnerStatus)
	admin.PATCH("/users/:id/admin-status", h.SetAdminStatus)
	admin.POST("/migrate", h.Migrate)
}

func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	if err := h.service.DeleteUser(c.Request.Context(), admin.ID, storage.ID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) SetVanOwnerStatus(c *gin.Context) {
	var req VanOwnerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	u, err := h.service.SetVanOwner(c.Request.Context(), storage.ID(c.Param("id")), *req.IsVanOwner)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) SetAdminStatus(c *gin.Context) {
	var req AdminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	admin, _ := middleware.CurrentUser(c)
	u, err := h.service.SetAdmin(c.Request.Context(), admin.ID, storage.ID(c.Param("id")), *req.IsAdmin)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) Migrate(c *gin.Context) {
	report, err := h.service.Migrate(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
	case errors.Is(err, ErrSelfAction):
		response.Error(c, http.StatusConflict, response.CodeConflict, "You cannot delete or demote your own account")
	case errors.Is(err, ErrMigrationUnavailable):
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "Migration source is not configured")
	case errors.Is(err, migrate.ErrDestinationNotEmpty):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Destination store already holds van listings")
	default:
		response.Internal(c, err)
	}
}
