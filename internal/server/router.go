// Package server assembles the HTTP router from the injected dependencies.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"manvan/internal/middleware"
	"manvan/internal/modules/admin"
	"manvan/internal/modules/auth"
	"manvan/internal/modules/booking"
	"manvan/internal/modules/listing"
	"manvan/internal/modules/message"
	"manvan/internal/modules/review"
	"manvan/internal/modules/tracking"
	"manvan/internal/pkg/jwt"
	"manvan/internal/pkg/response"
	"manvan/internal/session"
	"manvan/internal/storage"
)

type Deps struct {
	Store    storage.Storage
	Sessions session.Store
	Tokens   *jwt.Service
	Hub      *message.Hub
	// Migrator is nil when no migration source is configured.
	Migrator admin.Migrator

	AllowedOrigins []string
	CookieSecure   bool
	SessionTTL     time.Duration
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.CORS(d.AllowedOrigins),
		middleware.SessionAuth(d.Sessions, d.Tokens, d.Store),
	)

	r.GET("/healthz", health(d.Store))

	api := r.Group("/api")

	auth.NewHandler(
		auth.NewService(d.Store, d.Sessions, d.Tokens),
		auth.CookieConfig{Secure: d.CookieSecure, TTL: d.SessionTTL},
	).RegisterRoutes(api)

	listing.NewHandler(listing.NewService(d.Store)).RegisterRoutes(api)
	booking.NewHandler(booking.NewService(d.Store)).RegisterRoutes(api)
	review.NewHandler(review.NewService(d.Store)).RegisterRoutes(api)
	tracking.NewHandler(tracking.NewService(d.Store)).RegisterRoutes(api)

	var push message.Broadcaster
	if d.Hub != nil {
		push = d.Hub
	}
	message.NewHandler(
		message.NewService(d.Store, push),
		d.Hub,
		message.NewUpgrader(d.AllowedOrigins),
	).RegisterRoutes(api)

	admin.NewHandler(admin.NewService(d.Store, d.Sessions, d.Migrator)).RegisterRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Route not found")
	})
	return r
}

type healthStatus struct {
	Status  string       `json:"status"`
	Storage storage.Kind `json:"storage"`
}

func health(store storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "Storage unavailable")
			return
		}
		response.Success(c, http.StatusOK, healthStatus{Status: "ok", Storage: store.Kind()})
	}
}
