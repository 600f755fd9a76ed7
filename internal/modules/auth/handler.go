package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"manvan/internal/middleware"
	"manvan/internal/pkg/response"
	"manvan/internal/pkg/validator"
)

type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookie  CookieConfig
}

func NewHandler(service *Service, cookie CookieConfig) *Handler {
	return &Handler{service: service, cookie: cookie}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/me", middleware.RequireAuth(), h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, response.CodeConflict, "This email is already registered")
		case errors.Is(err, ErrUsernameTaken):
			response.Error(c, http.StatusConflict, response.CodeConflict, "This username is already taken")
		case errors.Is(err, ErrPasswordTooLong):
			response.ValidationFailed(c, []validator.FieldError{{Field: "password", Tag: "maxbytes", Message: "must be at most 72 bytes"}})
		default:
			response.Internal(c, err)
		}
		return
	}

	h.setSessionCookie(c, res.Session.ID)
	response.Success(c, http.StatusCreated, AuthResponse{User: res.User, Token: res.Token})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.Details(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid username or password")
			return
		}
		response.Internal(c, err)
		return
	}

	h.setSessionCookie(c, res.Session.ID)
	response.Success(c, http.StatusOK, AuthResponse{User: res.User, Token: res.Token})
}

// Logout is idempotent: without a session it still clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.CurrentSessionID(c)); err != nil {
		response.Internal(c, err)
		return
	}
	h.clearSessionCookie(c)
	response.NoContent(c)
}

func (h *Handler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, sessionID, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookie.Secure, true)
}
